package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ekthaa/customer-client/internal/models"
	"github.com/google/uuid"
)

// ErrDuplicate is returned when a unique column would be violated.
var ErrDuplicate = errors.New("duplicate key")

// MemoryRepository implements the Repository interface in process memory.
// It backs the sandbox when no database is configured and the handler tests.
type MemoryRepository struct {
	mu           sync.RWMutex
	users        map[string]models.User
	businesses   map[string]models.Business
	links        map[string][]models.CustomerBusiness
	transactions []models.Transaction
	products     map[string]models.Product
	offers       map[string]models.Offer
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:      make(map[string]models.User),
		businesses: make(map[string]models.Business),
		links:      make(map[string][]models.CustomerBusiness),
		products:   make(map[string]models.Product),
		offers:     make(map[string]models.Offer),
	}
}

func (r *MemoryRepository) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Phone == user.Phone {
			return ErrDuplicate
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryRepository) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Phone == phone {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *MemoryRepository) UpdateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.ID]
	if !ok {
		return nil
	}
	user.CreatedAt = existing.CreatedAt
	user.Phone = existing.Phone
	user.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryRepository) CreateBusiness(ctx context.Context, business *models.Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.businesses {
		if business.AccessPIN != "" && b.AccessPIN == business.AccessPIN {
			return ErrDuplicate
		}
	}
	if business.ID == "" {
		business.ID = uuid.New().String()
	}
	business.CreatedAt = time.Now().UTC()
	r.businesses[business.ID] = *business
	return nil
}

func (r *MemoryRepository) GetBusiness(ctx context.Context, id string) (*models.Business, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.businesses[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *MemoryRepository) GetBusinessByPIN(ctx context.Context, pin string) (*models.Business, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.businesses {
		if b.AccessPIN == pin {
			return &b, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) GetBusinessesByOwner(ctx context.Context, ownerID string) ([]models.Business, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	businesses := []models.Business{}
	for _, b := range r.businesses {
		if b.OwnerID == ownerID {
			businesses = append(businesses, b)
		}
	}
	sort.Slice(businesses, func(i, j int) bool { return businesses[i].Name < businesses[j].Name })
	return businesses, nil
}

func (r *MemoryRepository) ConnectCustomer(ctx context.Context, link *models.CustomerBusiness) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range r.links[link.CustomerID] {
		if l.BusinessID == link.BusinessID {
			return nil
		}
	}
	if link.ConnectedAt.IsZero() {
		link.ConnectedAt = time.Now().UTC()
	}
	r.links[link.CustomerID] = append(r.links[link.CustomerID], *link)
	return nil
}

func (r *MemoryRepository) IsConnected(ctx context.Context, customerID, businessID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.links[customerID] {
		if l.BusinessID == businessID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) GetCustomerBusinesses(ctx context.Context, customerID string) ([]models.Business, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	businesses := []models.Business{}
	for _, l := range r.links[customerID] {
		if b, ok := r.businesses[l.BusinessID]; ok {
			businesses = append(businesses, b)
		}
	}
	return businesses, nil
}

func (r *MemoryRepository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}
	stored := *txn
	stored.CustomerName = ""
	stored.BusinessName = ""
	r.transactions = append(r.transactions, stored)
	return nil
}

func (r *MemoryRepository) GetTransactions(ctx context.Context, customerID, businessID string) ([]models.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	txs := []models.Transaction{}
	for _, t := range r.transactions {
		if t.CustomerID != customerID || (businessID != "" && t.BusinessID != businessID) {
			continue
		}
		t.CustomerName = r.users[t.CustomerID].Name
		t.BusinessName = r.businesses[t.BusinessID].Name
		txs = append(txs, t)
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].CreatedAt.After(txs[j].CreatedAt) })
	return txs, nil
}

func (r *MemoryRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = *product
	return nil
}

func (r *MemoryRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return nil
	}
	product.BusinessID = existing.BusinessID
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now().UTC()
	r.products[product.ID] = *product
	return nil
}

func (r *MemoryRepository) DeleteProduct(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.products, id)
	return nil
}

func (r *MemoryRepository) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *MemoryRepository) GetProductsByBusiness(ctx context.Context, businessIDs []string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := []models.Product{}
	for _, p := range r.products {
		if contains(businessIDs, p.BusinessID) {
			products = append(products, p)
		}
	}
	sortProducts(products)
	return products, nil
}

func (r *MemoryRepository) SearchProducts(ctx context.Context, query string, limit int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	products := []models.Product{}
	for _, p := range r.products {
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q) {
			products = append(products, p)
		}
	}
	sortProducts(products)
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

func (r *MemoryRepository) CreateOffer(ctx context.Context, offer *models.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if offer.ID == "" {
		offer.ID = uuid.New().String()
	}
	offer.CreatedAt = time.Now().UTC()
	r.offers[offer.ID] = *offer
	return nil
}

func (r *MemoryRepository) UpdateOffer(ctx context.Context, offer *models.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.offers[offer.ID]
	if !ok {
		return nil
	}
	offer.BusinessID = existing.BusinessID
	offer.CreatedAt = existing.CreatedAt
	r.offers[offer.ID] = *offer
	return nil
}

func (r *MemoryRepository) DeleteOffer(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.offers, id)
	return nil
}

func (r *MemoryRepository) GetOffer(ctx context.Context, id string) (*models.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.offers[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *MemoryRepository) GetOffersByBusiness(ctx context.Context, businessIDs []string) ([]models.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	offers := []models.Offer{}
	for _, o := range r.offers {
		if contains(businessIDs, o.BusinessID) {
			offers = append(offers, o)
		}
	}
	sort.Slice(offers, func(i, j int) bool {
		if offers[i].CreatedAt.Equal(offers[j].CreatedAt) {
			return offers[i].ID < offers[j].ID
		}
		return offers[i].CreatedAt.After(offers[j].CreatedAt)
	})
	return offers, nil
}

func sortProducts(products []models.Product) {
	sort.Slice(products, func(i, j int) bool {
		if products[i].Name == products[j].Name {
			return products[i].ID < products[j].ID
		}
		return products[i].Name < products[j].Name
	})
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
