package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ekthaa/customer-client/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
	}
}

// GetDB returns the underlying database connection
func (r *PostgresRepository) GetDB() *sqlx.DB {
	return r.db
}

// get runs a single-row query and maps sql.ErrNoRows to (false, nil)
func (r *PostgresRepository) get(ctx context.Context, dest interface{}, query string, args ...interface{}) (bool, error) {
	err := r.db.GetContext(ctx, dest, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// User repository methods
func (r *PostgresRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, phone, email, address, city, state, pincode, password, created_at, updated_at)
		VALUES (:id, :name, :phone, :email, :address, :city, :state, :pincode, :password, :created_at, :updated_at)
	`

	// Generate a new UUID if not provided
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.NamedExecContext(ctx, query, user)
	return err
}

func (r *PostgresRepository) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	found, err := r.get(ctx, &user, `SELECT * FROM users WHERE phone = $1`, phone)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	found, err := r.get(ctx, &user, `SELECT * FROM users WHERE id = $1`, id)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	_, err := r.db.NamedExecContext(ctx, `
		UPDATE users SET name = :name, email = :email, address = :address, city = :city,
			state = :state, pincode = :pincode, password = :password, updated_at = :updated_at
		WHERE id = :id
	`, user)
	return err
}

// Business repository methods
func (r *PostgresRepository) CreateBusiness(ctx context.Context, business *models.Business) error {
	if business.ID == "" {
		business.ID = uuid.New().String()
	}
	business.CreatedAt = time.Now().UTC()

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO businesses (id, owner_id, name, description, category, phone, address, city, state, gstin, access_pin, created_at)
		VALUES (:id, :owner_id, :name, :description, :category, :phone, :address, :city, :state, :gstin, :access_pin, :created_at)
	`, business)
	return err
}

func (r *PostgresRepository) GetBusiness(ctx context.Context, id string) (*models.Business, error) {
	var business models.Business
	found, err := r.get(ctx, &business, `SELECT * FROM businesses WHERE id = $1`, id)
	if err != nil || !found {
		return nil, err
	}
	return &business, nil
}

func (r *PostgresRepository) GetBusinessByPIN(ctx context.Context, pin string) (*models.Business, error) {
	var business models.Business
	found, err := r.get(ctx, &business, `SELECT * FROM businesses WHERE access_pin = $1`, pin)
	if err != nil || !found {
		return nil, err
	}
	return &business, nil
}

func (r *PostgresRepository) GetBusinessesByOwner(ctx context.Context, ownerID string) ([]models.Business, error) {
	businesses := []models.Business{}
	err := r.db.SelectContext(ctx, &businesses, `SELECT * FROM businesses WHERE owner_id = $1 ORDER BY name`, ownerID)
	return businesses, err
}

// Connection repository methods
func (r *PostgresRepository) ConnectCustomer(ctx context.Context, link *models.CustomerBusiness) error {
	if link.ConnectedAt.IsZero() {
		link.ConnectedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customer_businesses (customer_id, business_id, connected_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (customer_id, business_id) DO NOTHING
	`, link.CustomerID, link.BusinessID, link.ConnectedAt)
	return err
}

func (r *PostgresRepository) IsConnected(ctx context.Context, customerID, businessID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM customer_businesses WHERE customer_id = $1 AND business_id = $2)
	`, customerID, businessID)
	return exists, err
}

func (r *PostgresRepository) GetCustomerBusinesses(ctx context.Context, customerID string) ([]models.Business, error) {
	query := `
		SELECT b.* FROM businesses b
		JOIN customer_businesses cb ON b.id = cb.business_id
		WHERE cb.customer_id = $1
		ORDER BY cb.connected_at
	`

	businesses := []models.Business{}
	err := r.db.SelectContext(ctx, &businesses, query, customerID)
	return businesses, err
}

// Transaction repository methods
func (r *PostgresRepository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO transactions (id, business_id, customer_id, amount, transaction_type, created_by, notes, receipt_url, created_at)
		VALUES (:id, :business_id, :customer_id, :amount, :transaction_type, :created_by, :notes, :receipt_url, :created_at)
	`, txn)
	return err
}

func (r *PostgresRepository) GetTransactions(ctx context.Context, customerID, businessID string) ([]models.Transaction, error) {
	query := `
		SELECT t.*, u.name AS customer_name, b.name AS business_name
		FROM transactions t
		JOIN users u ON u.id = t.customer_id
		JOIN businesses b ON b.id = t.business_id
		WHERE t.customer_id = $1 AND ($2 = '' OR t.business_id = $2)
		ORDER BY t.created_at DESC
	`

	txs := []models.Transaction{}
	err := r.db.SelectContext(ctx, &txs, query, customerID, businessID)
	return txs, err
}

// Product repository methods
func (r *PostgresRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO products (id, business_id, name, description, price, unit, hsn_code, image_url, created_at, updated_at)
		VALUES (:id, :business_id, :name, :description, :price, :unit, :hsn_code, :image_url, :created_at, :updated_at)
	`, product)
	return err
}

func (r *PostgresRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now().UTC()
	_, err := r.db.NamedExecContext(ctx, `
		UPDATE products SET name = :name, description = :description, price = :price, unit = :unit,
			hsn_code = :hsn_code, image_url = :image_url, updated_at = :updated_at
		WHERE id = :id
	`, product)
	return err
}

func (r *PostgresRepository) DeleteProduct(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	return err
}

func (r *PostgresRepository) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	found, err := r.get(ctx, &product, `SELECT * FROM products WHERE id = $1`, id)
	if err != nil || !found {
		return nil, err
	}
	return &product, nil
}

func (r *PostgresRepository) GetProductsByBusiness(ctx context.Context, businessIDs []string) ([]models.Product, error) {
	products := []models.Product{}
	if len(businessIDs) == 0 {
		return products, nil
	}
	query, args, err := sqlx.In(`SELECT * FROM products WHERE business_id IN (?) ORDER BY name`, businessIDs)
	if err != nil {
		return nil, err
	}
	err = r.db.SelectContext(ctx, &products, r.db.Rebind(query), args...)
	return products, err
}

func (r *PostgresRepository) SearchProducts(ctx context.Context, query string, limit int) ([]models.Product, error) {
	products := []models.Product{}
	err := r.db.SelectContext(ctx, &products, `
		SELECT * FROM products
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT $2
	`, query, limit)
	return products, err
}

// Offer repository methods
func (r *PostgresRepository) CreateOffer(ctx context.Context, offer *models.Offer) error {
	if offer.ID == "" {
		offer.ID = uuid.New().String()
	}
	offer.CreatedAt = time.Now().UTC()

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO offers (id, business_id, title, description, discount_percent, is_active, valid_until, created_at)
		VALUES (:id, :business_id, :title, :description, :discount_percent, :is_active, :valid_until, :created_at)
	`, offer)
	return err
}

func (r *PostgresRepository) UpdateOffer(ctx context.Context, offer *models.Offer) error {
	_, err := r.db.NamedExecContext(ctx, `
		UPDATE offers SET title = :title, description = :description, discount_percent = :discount_percent,
			is_active = :is_active, valid_until = :valid_until
		WHERE id = :id
	`, offer)
	return err
}

func (r *PostgresRepository) DeleteOffer(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM offers WHERE id = $1`, id)
	return err
}

func (r *PostgresRepository) GetOffer(ctx context.Context, id string) (*models.Offer, error) {
	var offer models.Offer
	found, err := r.get(ctx, &offer, `SELECT * FROM offers WHERE id = $1`, id)
	if err != nil || !found {
		return nil, err
	}
	return &offer, nil
}

func (r *PostgresRepository) GetOffersByBusiness(ctx context.Context, businessIDs []string) ([]models.Offer, error) {
	offers := []models.Offer{}
	if len(businessIDs) == 0 {
		return offers, nil
	}
	query, args, err := sqlx.In(`SELECT * FROM offers WHERE business_id IN (?) ORDER BY created_at DESC`, businessIDs)
	if err != nil {
		return nil, err
	}
	err = r.db.SelectContext(ctx, &offers, r.db.Rebind(query), args...)
	return offers, err
}
