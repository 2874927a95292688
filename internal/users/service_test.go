package users

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/dmcortes/shoplane-backend/internal/address"
	"github.com/dmcortes/shoplane-backend/internal/orders"
	"github.com/dmcortes/shoplane-backend/pkg/config"
	"github.com/dmcortes/shoplane-backend/pkg/db/models"
	"github.com/dmcortes/shoplane-backend/pkg/enums"
	pkgerrors "github.com/dmcortes/shoplane-backend/pkg/errors"
)

func testPasswordConfig() config.PasswordConfig {
	// Small parameters keep hashing fast in tests.
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

type memUserStore struct {
	byID      map[uuid.UUID]*models.User
	updateErr error
}

func newMemUserStore() *memUserStore {
	return &memUserStore{byID: map[uuid.UUID]*models.User{}}
}

func (m *memUserStore) add(user *models.User) {
	m.byID[user.ID] = user
}

func (m *memUserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := m.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserStore) List(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(m.byID))
	for _, user := range m.byID {
		out = append(out, *user)
	}
	return out, nil
}

func (m *memUserStore) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	user, ok := m.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["email"].(string); ok {
		user.Email = v
	}
	if v, ok := updates["first_name"].(string); ok {
		user.FirstName = v
	}
	if v, ok := updates["last_name"].(string); ok {
		user.LastName = v
	}
	if v, ok := updates["password_hash"].(string); ok {
		user.PasswordHash = v
	}
	return nil
}

type stubAddressLister struct {
	addresses []address.AddressDTO
}

func (s *stubAddressLister) ListByUser(ctx context.Context, userID uuid.UUID) ([]address.AddressDTO, error) {
	return s.addresses, nil
}

type stubOrderLister struct {
	page orders.OrderPageDTO
}

func (s *stubOrderLister) ListByUser(ctx context.Context, userID uuid.UUID, cursor string, limit int) (orders.OrderPageDTO, error) {
	return s.page, nil
}

func newTestService(t *testing.T, store *memUserStore) Service {
	t.Helper()
	svc, err := NewService(store, &stubAddressLister{}, &stubOrderLister{}, testPasswordConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func seedUser(store *memUserStore, email string) *models.User {
	user := &models.User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: "Dana",
		LastName:  "Ruiz",
		Role:      enums.UserRoleCustomer,
	}
	store.add(user)
	return user
}

func TestGetProfileAggregates(t *testing.T) {
	t.Parallel()

	store := newMemUserStore()
	user := seedUser(store, "dana@example.com")
	addresses := &stubAddressLister{addresses: []address.AddressDTO{{ID: uuid.New()}}}
	svc, err := NewService(store, addresses, &stubOrderLister{}, testPasswordConfig())
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	profile, err := svc.GetProfile(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.User.ID != user.ID || len(profile.Addresses) != 1 {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestGetUserNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMemUserStore())
	_, err := svc.GetUser(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateUserNormalizesEmailAndRehashes(t *testing.T) {
	t.Parallel()

	store := newMemUserStore()
	user := seedUser(store, "dana@example.com")
	svc := newTestService(t, store)

	email := "  Dana.New@Example.com "
	password := "brand-new-pass-1"
	got, err := svc.UpdateUser(context.Background(), user.ID, UpdateUserRequest{
		Email:    &email,
		Password: &password,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Email != "dana.new@example.com" {
		t.Fatalf("email must be normalized, got %q", got.Email)
	}
	if user.PasswordHash == password || !strings.HasPrefix(user.PasswordHash, "$argon2id$") {
		t.Fatal("password must be stored hashed")
	}
}

func TestUpdateUserNoFieldsIsNoop(t *testing.T) {
	t.Parallel()

	store := newMemUserStore()
	user := seedUser(store, "dana@example.com")
	store.updateErr = gorm.ErrInvalidTransaction // any update would blow up
	svc := newTestService(t, store)

	got, err := svc.UpdateUser(context.Background(), user.ID, UpdateUserRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected the untouched user, got %+v", got)
	}
}

func TestUpdateUserDuplicateEmail(t *testing.T) {
	t.Parallel()

	store := newMemUserStore()
	user := seedUser(store, "dana@example.com")
	store.updateErr = &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	svc := newTestService(t, store)

	email := "taken@example.com"
	_, err := svc.UpdateUser(context.Background(), user.ID, UpdateUserRequest{Email: &email})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestListUsersProjectsDTOs(t *testing.T) {
	t.Parallel()

	store := newMemUserStore()
	seedUser(store, "a@example.com")
	seedUser(store, "b@example.com")
	svc := newTestService(t, store)

	list, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 users, got %d", len(list))
	}
}
