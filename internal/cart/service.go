package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmcortes/shoplane-backend/pkg/db/models"
	pkgerrors "github.com/dmcortes/shoplane-backend/pkg/errors"
	"github.com/dmcortes/shoplane-backend/pkg/types"
)

// Service exposes business rules for cart management.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (CartDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (CartDTO, error)
	UpdateItem(ctx context.Context, userID, productID uuid.UUID, req UpdateItemRequest) (CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (CartDTO, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
	Merge(ctx context.Context, userID uuid.UUID, req MergeRequest) (CartDTO, error)
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	CartRepo    CartRepository
	ProductRepo productFinder
}

type service struct {
	carts    CartRepository
	products productFinder
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	return &service{
		carts:    params.CartRepo,
		products: params.ProductRepo,
	}, nil
}

// GetCart returns the user's cart. A user who has never added an item has no
// cart row and gets NotFound; only AddItem and Merge create the row.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CartDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return s.toDTO(ctx, cart)
}

// AddItem inserts a new line or increments an existing one. Only brand-new
// lines pick up the product's current price; incrementing an existing line
// keeps the unit price it was added at, so mid-cart price changes never
// reprice a held line.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if req.Quantity <= 0 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.loadProduct(ctx, req.ProductID)
	if err != nil {
		return CartDTO{}, err
	}

	cart, err := s.carts.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	unitPrice := product.PriceCents
	newQuantity := req.Quantity
	existing, err := s.carts.FindItem(ctx, cart.ID, product.ID)
	switch {
	case err == nil:
		newQuantity += existing.Quantity
		unitPrice = storedUnitPrice(existing, product.PriceCents)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart item")
	}

	if product.Stock < newQuantity {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock")
	}

	totalCents := int64(newQuantity) * unitPrice
	if existing != nil {
		if err := s.carts.UpdateItem(ctx, existing.ID, newQuantity, totalCents); err != nil {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
		}
	} else {
		item := &models.CartItem{
			CartID:     cart.ID,
			ProductID:  product.ID,
			Quantity:   newQuantity,
			TotalCents: totalCents,
		}
		if err := s.carts.CreateItem(ctx, item); err != nil {
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart item")
		}
	}

	return s.refresh(ctx, userID, cart.ID)
}

// UpdateItem replaces the quantity of an existing line. Quantity zero is
// equivalent to removing the line.
func (s *service) UpdateItem(ctx context.Context, userID, productID uuid.UUID, req UpdateItemRequest) (CartDTO, error) {
	if req.Quantity < 0 {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if req.Quantity == 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return CartDTO{}, err
	}
	if product.Stock < req.Quantity {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock")
	}

	cart, item, err := s.loadOwnedItem(ctx, userID, productID)
	if err != nil {
		return CartDTO{}, err
	}

	totalCents := int64(req.Quantity) * product.PriceCents
	if err := s.carts.UpdateItem(ctx, item.ID, req.Quantity, totalCents); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
	}

	return s.refresh(ctx, userID, cart.ID)
}

// RemoveItem drops a single line from the cart.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (CartDTO, error) {
	cart, item, err := s.loadOwnedItem(ctx, userID, productID)
	if err != nil {
		return CartDTO{}, err
	}
	if err := s.carts.DeleteItem(ctx, item.ID); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart item")
	}
	return s.refresh(ctx, userID, cart.ID)
}

// ClearCart removes every line; clearing a missing cart is a no-op.
func (s *service) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if err := s.carts.DeleteItems(ctx, cart.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return nil
}

// Merge folds a client-side cart into the stored one line by line, capping each
// merged quantity at available stock.
func (s *service) Merge(ctx context.Context, userID uuid.UUID, req MergeRequest) (CartDTO, error) {
	if userID == uuid.Nil {
		return CartDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	cart, err := s.carts.FindOrCreateByUser(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	for _, line := range req.Items {
		if line.Quantity <= 0 {
			continue
		}
		product, err := s.loadProduct(ctx, line.ProductID)
		if err != nil {
			var typed *pkgerrors.Error
			if errors.As(err, &typed) && typed.Code() == pkgerrors.CodeNotFound {
				continue
			}
			return CartDTO{}, err
		}

		unitPrice := product.PriceCents
		merged := line.Quantity
		existing, err := s.carts.FindItem(ctx, cart.ID, product.ID)
		switch {
		case err == nil:
			merged += existing.Quantity
			unitPrice = storedUnitPrice(existing, product.PriceCents)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart item")
		}
		if merged > product.Stock {
			merged = product.Stock
		}
		if merged <= 0 {
			continue
		}

		totalCents := int64(merged) * unitPrice
		if existing != nil {
			if err := s.carts.UpdateItem(ctx, existing.ID, merged, totalCents); err != nil {
				return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
			}
		} else {
			item := &models.CartItem{
				CartID:     cart.ID,
				ProductID:  product.ID,
				Quantity:   merged,
				TotalCents: totalCents,
			}
			if err := s.carts.CreateItem(ctx, item); err != nil {
				return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart item")
			}
		}
	}

	return s.refresh(ctx, userID, cart.ID)
}

// storedUnitPrice recovers the price a line was added at from its stored
// total. Lines with no quantity fall back to the current product price.
func storedUnitPrice(item *models.CartItem, fallback int64) int64 {
	if item == nil || item.Quantity <= 0 {
		return fallback
	}
	return item.TotalCents / int64(item.Quantity)
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return product, nil
}

func (s *service) loadOwnedItem(ctx context.Context, userID, productID uuid.UUID) (*models.Cart, *models.CartItem, error) {
	if userID == uuid.Nil || productID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "user id and product id are required")
	}
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart is empty")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	item, err := s.carts.FindItem(ctx, cart.ID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart item")
	}
	return cart, item, nil
}

func (s *service) refresh(ctx context.Context, userID, cartID uuid.UUID) (CartDTO, error) {
	if err := s.carts.TouchCart(ctx, cartID); err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "touch cart")
	}
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload cart")
	}
	return s.toDTO(ctx, cart)
}

func (s *service) toDTO(ctx context.Context, cart *models.Cart) (CartDTO, error) {
	ids := make([]uuid.UUID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return CartDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart products")
	}
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]CartItemDTO, 0, len(cart.Items))
	totalItems := 0
	var totalCents int64
	for _, item := range cart.Items {
		product := byID[item.ProductID]
		unitPrice := int64(0)
		if item.Quantity > 0 {
			unitPrice = item.TotalCents / int64(item.Quantity)
		}
		items = append(items, CartItemDTO{
			ID:             item.ID,
			ProductID:      item.ProductID,
			ProductName:    product.Name,
			UnitPriceCents: unitPrice,
			Quantity:       item.Quantity,
			TotalCents:     item.TotalCents,
		})
		totalItems += item.Quantity
		totalCents += item.TotalCents
	}

	return CartDTO{
		ID:         cart.ID,
		UserID:     cart.UserID,
		Items:      items,
		TotalItems: totalItems,
		TotalCents: totalCents,
		Total:      types.FormatCents(totalCents),
		UpdatedAt:  cart.UpdatedAt,
	}, nil
}
