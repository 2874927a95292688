package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmcortes/shoplane-backend/pkg/db/models"
	pkgerrors "github.com/dmcortes/shoplane-backend/pkg/errors"
)

func newTestService(t *testing.T, carts *memCartRepo, products *stubProductFinder) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{CartRepo: carts, ProductRepo: products})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestGetCartMissingReturnsNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemCartRepo(), &stubProductFinder{})

	_, err := svc.GetCart(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddItemCreatesLine(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	product := &models.Product{ID: uuid.New(), Name: "Mug", PriceCents: 1500, Stock: 5}
	svc := newTestService(t, newMemCartRepo(), &stubProductFinder{products: []*models.Product{product}})

	got, err := svc.AddItem(context.Background(), userID, AddItemRequest{ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(got.Items))
	}
	line := got.Items[0]
	if line.Quantity != 2 || line.TotalCents != 3000 || line.UnitPriceCents != 1500 {
		t.Fatalf("unexpected line: %+v", line)
	}
	if got.TotalItems != 2 || got.TotalCents != 3000 {
		t.Fatalf("unexpected totals: %+v", got)
	}
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	product := &models.Product{ID: uuid.New(), Name: "Mug", PriceCents: 1000, Stock: 10}
	svc := newTestService(t, newMemCartRepo(), &stubProductFinder{products: []*models.Product{product}})

	ctx := context.Background()
	if _, err := svc.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("first add: %v", err)
	}

	// A price change between adds must not reprice the held line.
	product.PriceCents = 5000

	got, err := svc.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Quantity != 5 {
		t.Fatalf("expected merged line of 5, got %+v", got.Items)
	}
	if got.Items[0].TotalCents != 5000 || got.Items[0].UnitPriceCents != 1000 {
		t.Fatalf("expected total frozen at stored price, got %+v", got.Items[0])
	}
}

func TestAddItemNewLineUsesCurrentPrice(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	product := &models.Product{ID: uuid.New(), Name: "Mug", PriceCents: 1000, Stock: 10}
	svc := newTestService(t, newMemCartRepo(), &stubProductFinder{products: []*models.Product{product}})

	ctx := context.Background()
	if _, err := svc.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.RemoveItem(ctx, userID, product.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	product.PriceCents = 2500
	got, err := svc.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if got.Items[0].TotalCents != 5000 {
		t.Fatalf("fresh line must use the current price, got %+v", got.Items[0])
	}
}

func TestAddItemRejectsInsufficientStock(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	product := &models.Product{ID: uuid.New(), PriceCents: 1000, Stock: 3}
	svc := newTestService(t, newMemCartRepo(), &stubProductFinder{products: []*models.Product{product}})

	_, err := svc.AddItem(context.Background(), userID, AddItemRequest{ProductID: product.ID, Quantity: 4})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemCartRepo(), &stubProductFinder{})

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemRequest{ProductID: uuid.New(), Quantity: 1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateItemMissingLine(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	product := &models.Product{ID: uuid.New(), PriceCents: 1000, Stock: 10}
	repo := newMemCartRepo()
	svc := newTestService(t, repo, &stubProductFinder{products: []*models.Product{product}})

	_, err := svc.UpdateItem(context.Background(), userID, product.ID, UpdateItemRequest{Quantity: 1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateItemZeroQuantityRemovesLine(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	product := &models.Product{ID: uuid.New(), PriceCents: 1000, Stock: 10}
	svc := newTestService(t, newMemCartRepo(), &stubProductFinder{products: []*models.Product{product}})

	ctx := context.Background()
	if _, err := svc.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := svc.UpdateItem(ctx, userID, product.ID, UpdateItemRequest{Quantity: 0})
	if err != nil {
		t.Fatalf("update to zero: %v", err)
	}
	if len(got.Items) != 0 {
		t.Fatalf("expected line removed, got %+v", got.Items)
	}
}

func TestRemoveItemDropsLine(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	product := &models.Product{ID: uuid.New(), PriceCents: 500, Stock: 5}
	svc := newTestService(t, newMemCartRepo(), &stubProductFinder{products: []*models.Product{product}})

	ctx := context.Background()
	if _, err := svc.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := svc.RemoveItem(ctx, userID, product.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(got.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", got.Items)
	}
}

func TestClearCartMissingIsNoop(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemCartRepo(), &stubProductFinder{})
	if err := svc.ClearCart(context.Background(), uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMergeCapsAtStockAndSkipsUnknown(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	scarce := &models.Product{ID: uuid.New(), Name: "Lamp", PriceCents: 2000, Stock: 3}
	svc := newTestService(t, newMemCartRepo(), &stubProductFinder{products: []*models.Product{scarce}})

	ctx := context.Background()
	if _, err := svc.AddItem(ctx, userID, AddItemRequest{ProductID: scarce.ID, Quantity: 2}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	// Merging into a held line keeps its stored price.
	scarce.PriceCents = 9000

	got, err := svc.Merge(ctx, userID, MergeRequest{Items: []AddItemRequest{
		{ProductID: scarce.ID, Quantity: 5},
		{ProductID: uuid.New(), Quantity: 1},
	}})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("unknown product must be skipped, got %+v", got.Items)
	}
	if got.Items[0].Quantity != 3 || got.Items[0].TotalCents != 6000 {
		t.Fatalf("expected quantity capped at stock, got %+v", got.Items[0])
	}
}

// memCartRepo is an in-memory CartRepository good enough for service tests.
type memCartRepo struct {
	carts map[uuid.UUID]*models.Cart
	items map[uuid.UUID]*models.CartItem
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{
		carts: map[uuid.UUID]*models.Cart{},
		items: map[uuid.UUID]*models.CartItem{},
	}
}

func (m *memCartRepo) WithTx(tx *gorm.DB) CartRepository { return m }

func (m *memCartRepo) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	for _, c := range m.carts {
		if c.UserID == userID {
			return m.withItems(c), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memCartRepo) FindOrCreateByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if c, err := m.FindByUser(ctx, userID); err == nil {
		return c, nil
	}
	c := &models.Cart{ID: uuid.New(), UserID: userID}
	m.carts[c.ID] = c
	return c, nil
}

func (m *memCartRepo) FindItem(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	for _, item := range m.items {
		if item.CartID == cartID && item.ProductID == productID {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memCartRepo) CreateItem(ctx context.Context, item *models.CartItem) error {
	item.ID = uuid.New()
	m.items[item.ID] = item
	return nil
}

func (m *memCartRepo) UpdateItem(ctx context.Context, itemID uuid.UUID, quantity int, totalCents int64) error {
	item, ok := m.items[itemID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.Quantity = quantity
	item.TotalCents = totalCents
	return nil
}

func (m *memCartRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	delete(m.items, itemID)
	return nil
}

func (m *memCartRepo) DeleteItems(ctx context.Context, cartID uuid.UUID) error {
	for id, item := range m.items {
		if item.CartID == cartID {
			delete(m.items, id)
		}
	}
	return nil
}

func (m *memCartRepo) TouchCart(ctx context.Context, cartID uuid.UUID) error { return nil }

func (m *memCartRepo) withItems(c *models.Cart) *models.Cart {
	out := *c
	out.Items = nil
	for _, item := range m.items {
		if item.CartID == c.ID {
			out.Items = append(out.Items, *item)
		}
	}
	return &out
}

type stubProductFinder struct {
	products []*models.Product
}

func (s *stubProductFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductFinder) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		for _, p := range s.products {
			if p.ID == id {
				out = append(out, *p)
			}
		}
	}
	return out, nil
}
