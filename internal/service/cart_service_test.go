package service

import (
	"errors"
	"testing"

	"github.com/marketplace-next/internal/models"
	"github.com/marketplace-next/internal/repository"
)

type failingProductRepo struct {
	repository.ProductRepository
	err error
}

func (r failingProductRepo) GetByID(uint) (*models.Product, error) {
	return nil, r.err
}

func TestCartAddOverridesQuantity(t *testing.T) {
	env := newOrderTestEnv(t, "cart_add")
	product := env.createProduct(t, 150, 10)

	if _, err := env.carts.Add(AddCartItemInput{UserID: testCustomerID, ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("add cart item failed: %v", err)
	}
	if _, err := env.carts.Add(AddCartItemInput{UserID: testCustomerID, ProductID: product.ID, Quantity: 5}); err != nil {
		t.Fatalf("add cart item again failed: %v", err)
	}
	items, err := env.carts.List(testCustomerID)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 5 {
		t.Fatalf("expected single item with quantity 5, got %+v", items)
	}
	if items[0].LineTotal.String() != "750.00" || items[0].Stock != 10 {
		t.Fatalf("unexpected line detail: %+v", items[0])
	}
}

func TestCartAddValidation(t *testing.T) {
	env := newOrderTestEnv(t, "cart_validation")
	product := env.createProduct(t, 150, 10)
	other := env.createProduct(t, 90, 10)
	variant := env.createVariant(t, other.ID, nil, nil)

	cases := []struct {
		name  string
		input AddCartItemInput
		want  error
	}{
		{name: "missing user", input: AddCartItemInput{ProductID: product.ID, Quantity: 1}, want: ErrInvalidCustomer},
		{name: "zero quantity", input: AddCartItemInput{UserID: testCustomerID, ProductID: product.ID}, want: ErrInvalidQuantity},
		{name: "unknown product", input: AddCartItemInput{UserID: testCustomerID, ProductID: 9999, Quantity: 1}, want: ErrProductNotFound},
		{name: "foreign variant", input: AddCartItemInput{UserID: testCustomerID, ProductID: product.ID, VariantID: variant.ID, Quantity: 1}, want: ErrVariantMismatch},
	}
	for _, tc := range cases {
		if _, err := env.carts.Add(tc.input); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestCartUpdateAndRemoveAreScopedToOwner(t *testing.T) {
	env := newOrderTestEnv(t, "cart_owner")
	product := env.createProduct(t, 150, 10)
	item, err := env.carts.Add(AddCartItemInput{UserID: testCustomerID, ProductID: product.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("add cart item failed: %v", err)
	}

	if err := env.carts.UpdateQuantity(testCustomerID+1, item.ID, 3); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected not found for other user, got %v", err)
	}
	if err := env.carts.UpdateQuantity(testCustomerID, item.ID, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}
	if err := env.carts.UpdateQuantity(testCustomerID, item.ID, 3); err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}
	if err := env.carts.Remove(testCustomerID+1, item.ID); !errors.Is(err, ErrCartItemNotFound) {
		t.Fatalf("expected not found for other user, got %v", err)
	}
	if err := env.carts.Remove(testCustomerID, item.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	items, err := env.carts.List(testCustomerID)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty cart, got %d", len(items))
	}
}

func TestCartListDropsUnavailableProducts(t *testing.T) {
	env := newOrderTestEnv(t, "cart_unavailable")
	active := env.createProduct(t, 150, 10)
	retired := env.createProduct(t, 80, 10)
	for _, id := range []uint{active.ID, retired.ID} {
		if _, err := env.carts.Add(AddCartItemInput{UserID: testCustomerID, ProductID: id, Quantity: 1}); err != nil {
			t.Fatalf("add cart item failed: %v", err)
		}
	}
	if err := env.db.Model(&models.Product{}).Where("id = ?", retired.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}

	items, err := env.carts.List(testCustomerID)
	if err != nil {
		t.Fatalf("list cart failed: %v", err)
	}
	if len(items) != 1 || items[0].ProductID != active.ID {
		t.Fatalf("expected only active product, got %+v", items)
	}
	var count int64
	env.db.Model(&models.CartItem{}).Where("user_id = ?", testCustomerID).Count(&count)
	if count != 1 {
		t.Fatalf("unavailable item should be removed, got %d rows", count)
	}
}

func TestCartListKeepsItemsOnLookupFailure(t *testing.T) {
	env := newOrderTestEnv(t, "cart_lookup_failure")
	product := env.createProduct(t, 150, 10)
	if _, err := env.carts.Add(AddCartItemInput{UserID: testCustomerID, ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("add cart item failed: %v", err)
	}

	lookupErr := errors.New("database is locked")
	carts := NewCartService(
		repository.NewCartRepository(env.db),
		failingProductRepo{ProductRepository: repository.NewProductRepository(env.db), err: lookupErr},
		repository.NewProductVariantRepository(env.db),
	)
	if _, err := carts.List(testCustomerID); !errors.Is(err, lookupErr) {
		t.Fatalf("expected lookup error, got %v", err)
	}
	var count int64
	env.db.Model(&models.CartItem{}).Where("user_id = ?", testCustomerID).Count(&count)
	if count != 1 {
		t.Fatalf("cart item must survive a failed lookup, got %d rows", count)
	}
}
