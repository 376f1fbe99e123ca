package repository

import (
	"context"

	"github.com/ekthaa/customer-client/internal/models"
)

// Repository interface defines the methods that any repository implementation must satisfy.
// Getters return (nil, nil) when the row does not exist.
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error

	// Business operations
	CreateBusiness(ctx context.Context, business *models.Business) error
	GetBusiness(ctx context.Context, id string) (*models.Business, error)
	GetBusinessByPIN(ctx context.Context, pin string) (*models.Business, error)
	GetBusinessesByOwner(ctx context.Context, ownerID string) ([]models.Business, error)

	// Connection operations
	ConnectCustomer(ctx context.Context, link *models.CustomerBusiness) error
	IsConnected(ctx context.Context, customerID, businessID string) (bool, error)
	GetCustomerBusinesses(ctx context.Context, customerID string) ([]models.Business, error)

	// Transaction operations
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	// GetTransactions lists a customer's transactions, newest first. An empty
	// businessID means every business.
	GetTransactions(ctx context.Context, customerID, businessID string) ([]models.Transaction, error)

	// Product operations
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetProductsByBusiness(ctx context.Context, businessIDs []string) ([]models.Product, error)
	SearchProducts(ctx context.Context, query string, limit int) ([]models.Product, error)

	// Offer operations
	CreateOffer(ctx context.Context, offer *models.Offer) error
	UpdateOffer(ctx context.Context, offer *models.Offer) error
	DeleteOffer(ctx context.Context, id string) error
	GetOffer(ctx context.Context, id string) (*models.Offer, error)
	GetOffersByBusiness(ctx context.Context, businessIDs []string) ([]models.Offer, error)
}

var (
	_ Repository = (*PostgresRepository)(nil)
	_ Repository = (*MemoryRepository)(nil)
)
