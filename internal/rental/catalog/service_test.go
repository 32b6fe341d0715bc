// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package catalog_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentiva/rentiva/internal/platform/apperr"
	"github.com/rentiva/rentiva/internal/platform/sec"
	"github.com/rentiva/rentiva/internal/rbac"
	"github.com/rentiva/rentiva/internal/rental/catalog"
	"github.com/rentiva/rentiva/pkg/pagination"
)

// memoryRepository is an in-memory catalog.Repository for tests.
type memoryRepository struct {
	mu       sync.Mutex
	products map[string]*catalog.Product
	variants map[string]*catalog.Variant
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		products: make(map[string]*catalog.Product),
		variants: make(map[string]*catalog.Variant),
	}
}

func (repo *memoryRepository) CreateProduct(_ context.Context, product *catalog.Product) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	copied := *product
	repo.products[product.ID] = &copied
	return nil
}

func (repo *memoryRepository) FindProductByID(_ context.Context, id string) (*catalog.Product, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if product, ok := repo.products[id]; ok {
		copied := *product
		return &copied, nil
	}
	return nil, apperr.NotFound("Product")
}

func (repo *memoryRepository) FindProductBySlug(_ context.Context, slug string) (*catalog.Product, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, product := range repo.products {
		if product.Slug == slug && product.IsPublished {
			copied := *product
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Product")
}

func (repo *memoryRepository) ListProducts(_ context.Context, params pagination.Params, vendorID string) ([]*catalog.Product, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	result := make([]*catalog.Product, 0)
	for _, product := range repo.products {
		if !product.IsPublished {
			continue
		}
		if vendorID != "" && product.VendorID != vendorID {
			continue
		}
		copied := *product
		result = append(result, &copied)
	}
	return result, len(result), nil
}

func (repo *memoryRepository) UpdateProduct(_ context.Context, product *catalog.Product) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	copied := *product
	repo.products[product.ID] = &copied
	return nil
}

func (repo *memoryRepository) DeleteProduct(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	delete(repo.products, id)
	return nil
}

func (repo *memoryRepository) CreateVariant(_ context.Context, variant *catalog.Variant) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	copied := *variant
	repo.variants[variant.ID] = &copied
	return nil
}

func (repo *memoryRepository) FindVariantByID(_ context.Context, id string) (*catalog.Variant, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if variant, ok := repo.variants[id]; ok {
		copied := *variant
		return &copied, nil
	}
	return nil, apperr.NotFound("Variant")
}

func (repo *memoryRepository) ListVariants(_ context.Context, productID string) ([]*catalog.Variant, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	result := make([]*catalog.Variant, 0)
	for _, variant := range repo.variants {
		if variant.ProductID == productID {
			copied := *variant
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (repo *memoryRepository) UpdateVariant(_ context.Context, variant *catalog.Variant) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	copied := *variant
	repo.variants[variant.ID] = &copied
	return nil
}

func newTestService() *catalog.Service {
	return catalog.NewService(newMemoryRepository(), rbac.NewEngine(rbac.Default(), nil))
}

func customer(id string) *rbac.Identity {
	return &rbac.Identity{UserID: id, Username: id, Role: sec.RoleCustomer}
}

func vendor(userID, vendorID string) *rbac.Identity {
	return &rbac.Identity{UserID: userID, Username: userID, Role: sec.RoleVendor, VendorID: vendorID}
}

func admin(id string) *rbac.Identity {
	return &rbac.Identity{UserID: id, Username: id, Role: sec.RoleAdministrator}
}

func validInput(name string) catalog.ProductInput {
	return catalog.ProductInput{
		Name:        name,
		DailyPrice:  4500,
		Currency:    "EUR",
		IsPublished: true,
	}
}

/*
TestService_CreateProduct gates creation by capability and vendor ownership.
*/
func TestService_CreateProduct(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	// Vendor creates under its own vendor.
	product, err := service.CreateProduct(ctx, vendor("u1", "vd1"), "vd1", validInput("Canon EOS R5 Body"))
	require.NoError(t, err)
	assert.Equal(t, "vd1", product.VendorID)
	assert.Equal(t, "canon-eos-r5-body", product.Slug)

	// Vendor cannot create under another vendor.
	_, err = service.CreateProduct(ctx, vendor("u1", "vd1"), "vd2", validInput("Sony A7 IV"))
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperr.As(err).HTTPStatus)

	// Customers hold no product create capability at all.
	_, err = service.CreateProduct(ctx, customer("c1"), "vd1", validInput("Nikon Z8"))
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperr.As(err).HTTPStatus)

	// Administrators may create on behalf of any vendor.
	_, err = service.CreateProduct(ctx, admin("a1"), "vd2", validInput("Sony A7 IV"))
	assert.NoError(t, err)

	// Anonymous callers get 401.
	_, err = service.CreateProduct(ctx, nil, "vd1", validInput("Leica Q3"))
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apperr.As(err).HTTPStatus)
}

/*
TestService_ReadVsModify verifies the browsing/writing asymmetry on product
instances.
*/
func TestService_ReadVsModify(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	product, err := service.CreateProduct(ctx, vendor("u1", "vd1"), "vd1", validInput("Canon EOS R5 Body"))
	require.NoError(t, err)

	// Any customer may read the listing.
	got, err := service.GetProduct(ctx, customer("c1"), product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)

	// Another vendor may not read it (it is not their instance).
	_, err = service.GetProduct(ctx, vendor("u2", "vd2"), product.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperr.As(err).HTTPStatus)

	// A customer may never modify, even though reading was allowed.
	_, err = service.UpdateProduct(ctx, customer("c1"), product.ID, validInput("Hacked"))
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperr.As(err).HTTPStatus)

	// Another vendor may not modify either.
	_, err = service.UpdateProduct(ctx, vendor("u2", "vd2"), product.ID, validInput("Hijacked"))
	require.Error(t, err)

	// The owning vendor and administrators may.
	_, err = service.UpdateProduct(ctx, vendor("u1", "vd1"), product.ID, validInput("Canon EOS R5 Mark II"))
	assert.NoError(t, err)
	_, err = service.UpdateProduct(ctx, admin("a1"), product.ID, validInput("Canon EOS R5 Mark II"))
	assert.NoError(t, err)
}

/*
TestService_DeleteProduct verifies deletion follows the same ownership rules.
*/
func TestService_DeleteProduct(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	product, err := service.CreateProduct(ctx, vendor("u1", "vd1"), "vd1", validInput("Canon EOS R5 Body"))
	require.NoError(t, err)

	require.Error(t, service.DeleteProduct(ctx, customer("c1"), product.ID))
	require.Error(t, service.DeleteProduct(ctx, vendor("u2", "vd2"), product.ID))
	require.NoError(t, service.DeleteProduct(ctx, vendor("u1", "vd1"), product.ID))

	_, err = service.GetProduct(ctx, admin("a1"), product.ID)
	assert.Equal(t, http.StatusNotFound, apperr.As(err).HTTPStatus)
}

/*
TestService_Variants verifies variant management under the listing's gates.
*/
func TestService_Variants(t *testing.T) {
	service := newTestService()
	ctx := context.Background()

	product, err := service.CreateProduct(ctx, vendor("u1", "vd1"), "vd1", validInput("Canon EOS R5 Body"))
	require.NoError(t, err)

	variant, err := service.AddVariant(ctx, vendor("u1", "vd1"), product.ID, catalog.VariantInput{
		SKU: "R5-001", Condition: "excellent", IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, product.ID, variant.ProductID)

	// Customers cannot attach variants.
	_, err = service.AddVariant(ctx, customer("c1"), product.ID, catalog.VariantInput{SKU: "R5-002"})
	require.Error(t, err)

	// But they can list them when browsing the product.
	variants, err := service.ListVariants(ctx, customer("c1"), product.ID)
	require.NoError(t, err)
	assert.Len(t, variants, 1)

	// Partial update: only the supplied field changes.
	inactive := false
	updated, err := service.UpdateVariant(ctx, vendor("u1", "vd1"), product.ID, variant.ID, catalog.VariantPatch{
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "R5-001", updated.SKU)

	// The patch passes the same ownership gate as the listing.
	_, err = service.UpdateVariant(ctx, vendor("u2", "vd2"), product.ID, variant.ID, catalog.VariantPatch{})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperr.As(err).HTTPStatus)
}
