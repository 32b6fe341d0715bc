// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package catalog

import (
	"context"
	"fmt"

	"github.com/rentiva/rentiva/internal/platform/apperr"
	"github.com/rentiva/rentiva/internal/platform/validate"
	"github.com/rentiva/rentiva/internal/rbac"
	"github.com/rentiva/rentiva/pkg/pagination"
	"github.com/rentiva/rentiva/pkg/pointer"
	"github.com/rentiva/rentiva/pkg/slug"
	"github.com/rentiva/rentiva/pkg/uuidv7"
)

// # Service

// Service implements the catalogue use cases.
//
// Every write is double-gated: the matrix check (may this role touch
// products at all) plus the ownership check (may this caller touch this
// listing). Reads of published listings are open to all authenticated roles.
type Service struct {
	repository Repository
	engine     *rbac.Engine
}

// NewService wires the catalog service to its storage and the authorization
// engine.
func NewService(repository Repository, engine *rbac.Engine) *Service {
	return &Service{repository: repository, engine: engine}
}

// # Product Lifecycle

// ProductInput holds the writable listing fields.
type ProductInput struct {
	CategoryID  string
	Name        string
	Description string
	DailyPrice  int64
	Currency    string
	IsPublished bool
}

func (input ProductInput) validate() error {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 120).
		Required(FieldCurrency, input.Currency).
		MaxLen(FieldCurrency, input.Currency, 3).
		Custom(FieldDailyPrice, input.DailyPrice <= 0, "daily_price_cents must be positive")
	return validator.Err()
}

/*
CreateProduct creates a listing owned by the caller's vendor.

Description: Requires the product create capability; the listing is always
bound to the caller's own vendor — administrators may create on behalf of a
vendor by passing vendorID explicitly.

Parameters:
  - context: context.Context
  - identity: *rbac.Identity
  - vendorID: string (target vendor; must be the caller's own unless admin)
  - input: ProductInput

Returns:
  - *Product: Created listing
  - error: Authorization, validation, or storage failures
*/
func (service *Service) CreateProduct(context context.Context, identity *rbac.Identity, vendorID string, input ProductInput) (*Product, error) {
	if err := service.engine.Require(context, identity, rbac.ResourceProduct, rbac.ActionCreate); err != nil {
		return nil, err
	}
	if err := service.engine.RequireVendorDataAccess(context, identity, vendorID); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	product := &Product{
		ID:          uuidv7.New(),
		VendorID:    vendorID,
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Slug:        slug.From(input.Name),
		Description: input.Description,
		DailyPrice:  input.DailyPrice,
		Currency:    input.Currency,
		IsPublished: input.IsPublished,
	}

	if err := service.repository.CreateProduct(context, product); err != nil {
		return nil, fmt.Errorf("catalog_service_create_failed: %w", err)
	}

	return product, nil
}

/*
GetProduct returns one listing, gated by instance read access.

Returns:
  - *Product: Hydrated listing
  - error: apperr.NotFound, authorization, or storage failures
*/
func (service *Service) GetProduct(context context.Context, identity *rbac.Identity, productID string) (*Product, error) {
	if err := service.engine.Require(context, identity, rbac.ResourceProduct, rbac.ActionRead); err != nil {
		return nil, err
	}

	product, err := service.repository.FindProductByID(context, productID)
	if err != nil {
		return nil, err
	}

	if err := service.engine.RequireProductDataAccess(context, identity, product.VendorID); err != nil {
		return nil, err
	}

	return product, nil
}

/*
GetProductBySlug resolves a published listing by its slug.
*/
func (service *Service) GetProductBySlug(context context.Context, identity *rbac.Identity, productSlug string) (*Product, error) {
	if err := service.engine.Require(context, identity, rbac.ResourceProduct, rbac.ActionRead); err != nil {
		return nil, err
	}
	return service.repository.FindProductBySlug(context, productSlug)
}

/*
ListProducts returns one page of published listings.

Parameters:
  - params: pagination.Params
  - vendorID: string (optional vendor filter)

Returns:
  - []*Product, pagination.Meta, error
*/
func (service *Service) ListProducts(context context.Context, identity *rbac.Identity, params pagination.Params, vendorID string) ([]*Product, pagination.Meta, error) {
	if err := service.engine.Require(context, identity, rbac.ResourceProduct, rbac.ActionRead); err != nil {
		return nil, pagination.Meta{}, err
	}

	products, total, err := service.repository.ListProducts(context, params, vendorID)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return products, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
UpdateProduct updates a listing after the modification gate.

Description: The update capability plus the instance ownership rule — a
vendor touches only its own listings, a customer never passes the gate.

Returns:
  - *Product: Updated listing
  - error: Authorization, validation, or storage failures
*/
func (service *Service) UpdateProduct(context context.Context, identity *rbac.Identity, productID string, input ProductInput) (*Product, error) {
	if err := service.engine.Require(context, identity, rbac.ResourceProduct, rbac.ActionUpdate); err != nil {
		return nil, err
	}

	product, err := service.repository.FindProductByID(context, productID)
	if err != nil {
		return nil, err
	}

	if err := service.engine.RequireProductModification(context, identity, product.VendorID); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	product.CategoryID = input.CategoryID
	product.Name = input.Name
	product.Slug = slug.From(input.Name)
	product.Description = input.Description
	product.DailyPrice = input.DailyPrice
	product.Currency = input.Currency
	product.IsPublished = input.IsPublished

	if err := service.repository.UpdateProduct(context, product); err != nil {
		return nil, fmt.Errorf("catalog_service_update_failed: %w", err)
	}

	return product, nil
}

/*
DeleteProduct removes a listing after the modification gate.
*/
func (service *Service) DeleteProduct(context context.Context, identity *rbac.Identity, productID string) error {
	if err := service.engine.Require(context, identity, rbac.ResourceProduct, rbac.ActionDelete); err != nil {
		return err
	}

	product, err := service.repository.FindProductByID(context, productID)
	if err != nil {
		return err
	}

	if err := service.engine.RequireProductModification(context, identity, product.VendorID); err != nil {
		return err
	}

	return service.repository.DeleteProduct(context, productID)
}

// # Variant Lifecycle

// VariantInput holds the writable variant fields.
type VariantInput struct {
	SKU       string
	Condition string
	IsActive  bool
}

/*
AddVariant registers a new physical unit under a listing the caller may
modify.

Returns:
  - *Variant: Created unit
  - error: Authorization, validation, or storage failures
*/
func (service *Service) AddVariant(context context.Context, identity *rbac.Identity, productID string, input VariantInput) (*Variant, error) {
	if err := service.engine.Require(context, identity, rbac.ResourceProduct, rbac.ActionUpdate); err != nil {
		return nil, err
	}

	product, err := service.repository.FindProductByID(context, productID)
	if err != nil {
		return nil, err
	}

	if err := service.engine.RequireProductModification(context, identity, product.VendorID); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required(FieldSKU, input.SKU).
		MaxLen(FieldSKU, input.SKU, 64)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	variant := &Variant{
		ID:        uuidv7.New(),
		ProductID: productID,
		SKU:       input.SKU,
		Condition: input.Condition,
		IsActive:  input.IsActive,
	}

	if err := service.repository.CreateVariant(context, variant); err != nil {
		return nil, fmt.Errorf("catalog_service_add_variant_failed: %w", err)
	}

	return variant, nil
}

// VariantPatch holds optional variant fields; nil means "leave unchanged".
type VariantPatch struct {
	SKU       *string
	Condition *string
	IsActive  *bool
}

/*
UpdateVariant applies a partial update to one physical unit.

Description: Only the fields present in the patch change. Passes the same
modification gate as the parent listing.

Returns:
  - *Variant: Updated unit
  - error: Authorization, validation, or storage failures
*/
func (service *Service) UpdateVariant(context context.Context, identity *rbac.Identity, productID, variantID string, patch VariantPatch) (*Variant, error) {
	if err := service.engine.Require(context, identity, rbac.ResourceProduct, rbac.ActionUpdate); err != nil {
		return nil, err
	}

	product, err := service.repository.FindProductByID(context, productID)
	if err != nil {
		return nil, err
	}

	if err := service.engine.RequireProductModification(context, identity, product.VendorID); err != nil {
		return nil, err
	}

	variant, err := service.repository.FindVariantByID(context, variantID)
	if err != nil {
		return nil, err
	}
	if variant.ProductID != product.ID {
		return nil, apperr.NotFound("Variant")
	}

	variant.SKU = pointer.Fallback(patch.SKU, variant.SKU)
	variant.Condition = pointer.Fallback(patch.Condition, variant.Condition)
	variant.IsActive = pointer.Fallback(patch.IsActive, variant.IsActive)

	validator := &validate.Validator{}
	validator.Required(FieldSKU, variant.SKU).
		MaxLen(FieldSKU, variant.SKU, 64)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repository.UpdateVariant(context, variant); err != nil {
		return nil, fmt.Errorf("catalog_service_update_variant_failed: %w", err)
	}

	return variant, nil
}

/*
ListVariants returns the units of one listing.
*/
func (service *Service) ListVariants(context context.Context, identity *rbac.Identity, productID string) ([]*Variant, error) {
	product, err := service.GetProduct(context, identity, productID)
	if err != nil {
		return nil, err
	}
	return service.repository.ListVariants(context, product.ID)
}
