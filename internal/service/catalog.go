package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ekthaa/customer-client/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Product methods
func (s *DefaultService) PublicProducts(ctx context.Context, search string) ([]models.Product, error) {
	products, err := s.repo.SearchProducts(ctx, strings.TrimSpace(search), publicSearchLimit)
	if err != nil {
		return nil, fmt.Errorf("error searching products: %w", err)
	}
	return products, nil
}

func (s *DefaultService) Products(ctx context.Context, userID string) ([]models.Product, error) {
	owned, err := s.ownedBusinessIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	products, err := s.repo.GetProductsByBusiness(ctx, owned)
	if err != nil {
		return nil, fmt.Errorf("error getting products: %w", err)
	}
	return products, nil
}

func (s *DefaultService) CreateProduct(ctx context.Context, userID string, req models.ProductRequest) (*models.Product, error) {
	owned, err := s.ownedBusinessIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(owned) == 0 {
		return nil, ErrForbidden
	}
	if req.Price.Malformed || req.Price.IsNegative() {
		return nil, ErrInvalidAmount
	}

	product := &models.Product{
		ID:         uuid.New().String(),
		BusinessID: owned[0],
	}
	applyProduct(product, req)

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("error creating product: %w", err)
	}
	return product, nil
}

func (s *DefaultService) UpdateProduct(ctx context.Context, userID, productID string, req models.ProductRequest) (*models.Product, error) {
	product, err := s.ownedProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if req.Price.Malformed || req.Price.IsNegative() {
		return nil, ErrInvalidAmount
	}

	applyProduct(product, req)
	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("error updating product: %w", err)
	}
	return product, nil
}

func (s *DefaultService) DeleteProduct(ctx context.Context, userID, productID string) error {
	if _, err := s.ownedProduct(ctx, userID, productID); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return fmt.Errorf("error deleting product: %w", err)
	}
	return nil
}

func applyProduct(p *models.Product, req models.ProductRequest) {
	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.Price = models.NewAmount(req.Price.Round(2))
	p.Unit = req.Unit
	p.HSNCode = req.HSNCode
}

// Offer methods

// Offers returns every offer of the caller's own businesses followed by the
// live offers of the businesses the caller is connected to.
func (s *DefaultService) Offers(ctx context.Context, userID string) ([]models.Offer, error) {
	owned, err := s.ownedBusinessIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	offers, err := s.repo.GetOffersByBusiness(ctx, owned)
	if err != nil {
		return nil, fmt.Errorf("error getting offers: %w", err)
	}

	connected, err := s.repo.GetCustomerBusinesses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting businesses: %w", err)
	}
	var others []string
	for _, b := range connected {
		if !contains(owned, b.ID) {
			others = append(others, b.ID)
		}
	}
	theirs, err := s.repo.GetOffersByBusiness(ctx, others)
	if err != nil {
		return nil, fmt.Errorf("error getting offers: %w", err)
	}

	return append(offers, s.live(theirs)...), nil
}

func (s *DefaultService) CreateOffer(ctx context.Context, userID string, req models.OfferRequest) (*models.Offer, error) {
	owned, err := s.ownedBusinessIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(owned) == 0 {
		return nil, ErrForbidden
	}

	offer := &models.Offer{
		ID:         uuid.New().String(),
		BusinessID: owned[0],
		IsActive:   true,
	}
	if err := applyOffer(offer, req); err != nil {
		return nil, err
	}

	if err := s.repo.CreateOffer(ctx, offer); err != nil {
		return nil, fmt.Errorf("error creating offer: %w", err)
	}
	return offer, nil
}

func (s *DefaultService) UpdateOffer(ctx context.Context, userID, offerID string, req models.OfferRequest) (*models.Offer, error) {
	offer, err := s.ownedOffer(ctx, userID, offerID)
	if err != nil {
		return nil, err
	}
	if err := applyOffer(offer, req); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateOffer(ctx, offer); err != nil {
		return nil, fmt.Errorf("error updating offer: %w", err)
	}
	return offer, nil
}

func (s *DefaultService) DeleteOffer(ctx context.Context, userID, offerID string) error {
	if _, err := s.ownedOffer(ctx, userID, offerID); err != nil {
		return err
	}
	if err := s.repo.DeleteOffer(ctx, offerID); err != nil {
		return fmt.Errorf("error deleting offer: %w", err)
	}
	return nil
}

func (s *DefaultService) ToggleOffer(ctx context.Context, userID, offerID string) (*models.Offer, error) {
	offer, err := s.ownedOffer(ctx, userID, offerID)
	if err != nil {
		return nil, err
	}
	offer.IsActive = !offer.IsActive
	if err := s.repo.UpdateOffer(ctx, offer); err != nil {
		return nil, fmt.Errorf("error updating offer: %w", err)
	}
	return offer, nil
}

func applyOffer(o *models.Offer, req models.OfferRequest) error {
	d := req.DiscountPercent
	if d.Malformed || !d.IsPositive() || d.GreaterThan(hundred) {
		return fmt.Errorf("%w: discount_percent must be between 0 and 100", ErrInvalidInput)
	}

	o.ValidUntil = nil
	if v := strings.TrimSpace(req.ValidUntil); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return fmt.Errorf("%w: valid_until", ErrInvalidInput)
		}
		o.ValidUntil = &t
	}

	o.Title = strings.TrimSpace(req.Title)
	o.Description = req.Description
	o.DiscountPercent = models.NewAmount(d.Round(2))
	return nil
}

// parseDate accepts RFC 3339 timestamps and plain dates. A plain date is
// valid until the end of that day.
func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, err
	}
	return t.Add(24*time.Hour - time.Second), nil
}

// Ownership helpers
func (s *DefaultService) ownedBusinessIDs(ctx context.Context, userID string) ([]string, error) {
	businesses, err := s.repo.GetBusinessesByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting owned businesses: %w", err)
	}
	ids := make([]string, len(businesses))
	for i, b := range businesses {
		ids[i] = b.ID
	}
	return ids, nil
}

func (s *DefaultService) ownedProduct(ctx context.Context, userID, productID string) (*models.Product, error) {
	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("error getting product: %w", err)
	}
	if product == nil {
		return nil, ErrNotFound
	}
	owned, err := s.ownedBusinessIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !contains(owned, product.BusinessID) {
		return nil, ErrNotFound
	}
	return product, nil
}

func (s *DefaultService) ownedOffer(ctx context.Context, userID, offerID string) (*models.Offer, error) {
	offer, err := s.repo.GetOffer(ctx, offerID)
	if err != nil {
		return nil, fmt.Errorf("error getting offer: %w", err)
	}
	if offer == nil {
		return nil, ErrNotFound
	}
	owned, err := s.ownedBusinessIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !contains(owned, offer.BusinessID) {
		return nil, ErrNotFound
	}
	return offer, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
