package models

import (
	"time"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	// Credit increases what the customer owes the business.
	Credit TransactionType = "credit"
	// Payment decreases what the customer owes the business.
	Payment TransactionType = "payment"
)

// Valid reports whether t is one of the two ledger entry kinds.
func (t TransactionType) Valid() bool {
	return t == Credit || t == Payment
}

// Party identifies who recorded a transaction. It only affects how an entry
// is drawn, never how it is summed.
type Party string

const (
	PartyBusiness Party = "business"
	PartyCustomer Party = "customer"
)

// User represents a customer account
type User struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	Email     string    `db:"email" json:"email,omitempty"`
	Address   string    `db:"address" json:"address,omitempty"`
	City      string    `db:"city" json:"city,omitempty"`
	State     string    `db:"state" json:"state,omitempty"`
	Pincode   string    `db:"pincode" json:"pincode,omitempty"`
	Password  string    `db:"password" json:"-"` // Password hash, not returned in JSON
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Business represents a merchant a customer can connect to
type Business struct {
	ID          string    `db:"id" json:"id"`
	OwnerID     string    `db:"owner_id" json:"owner_id,omitempty"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	Category    string    `db:"category" json:"category,omitempty"`
	Phone       string    `db:"phone" json:"phone,omitempty"`
	Address     string    `db:"address" json:"address,omitempty"`
	City        string    `db:"city" json:"city,omitempty"`
	State       string    `db:"state" json:"state,omitempty"`
	GSTIN       string    `db:"gstin" json:"gstin,omitempty"`
	AccessPIN   string    `db:"access_pin" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CustomerBusiness links a customer to a business they connected with
type CustomerBusiness struct {
	CustomerID  string    `db:"customer_id" json:"customer_id"`
	BusinessID  string    `db:"business_id" json:"business_id"`
	ConnectedAt time.Time `db:"connected_at" json:"connected_at"`
}

// Transaction is a single credit or payment entry between a customer and a business
type Transaction struct {
	ID              string          `db:"id" json:"id"`
	BusinessID      string          `db:"business_id" json:"business_id"`
	CustomerID      string          `db:"customer_id" json:"customer_id"`
	Amount          Amount          `db:"amount" json:"amount"`
	TransactionType TransactionType `db:"transaction_type" json:"transaction_type"`
	CreatedBy       Party           `db:"created_by" json:"created_by"`
	Notes           string          `db:"notes" json:"notes,omitempty"`
	ReceiptURL      string          `db:"receipt_url" json:"receipt_url,omitempty"`
	CustomerName    string          `db:"customer_name" json:"customer_name,omitempty"`
	BusinessName    string          `db:"business_name" json:"business_name,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// Product is an item in a business catalog
type Product struct {
	ID          string    `db:"id" json:"id"`
	BusinessID  string    `db:"business_id" json:"business_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	Price       Amount    `db:"price" json:"price"`
	Unit        string    `db:"unit" json:"unit,omitempty"`
	HSNCode     string    `db:"hsn_code" json:"hsn_code,omitempty"`
	ImageURL    string    `db:"image_url" json:"image_url,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Offer is a promotional discount published by a business
type Offer struct {
	ID              string     `db:"id" json:"id"`
	BusinessID      string     `db:"business_id" json:"business_id"`
	Title           string     `db:"title" json:"title"`
	Description     string     `db:"description" json:"description,omitempty"`
	DiscountPercent Amount     `db:"discount_percent" json:"discount_percent"`
	IsActive        bool       `db:"is_active" json:"is_active"`
	ValidUntil      *time.Time `db:"valid_until" json:"valid_until,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// Voucher is a redeemable fixed-value coupon
type Voucher struct {
	ID          string     `json:"id"`
	BusinessID  string     `json:"business_id"`
	Code        string     `json:"code"`
	Title       string     `json:"title"`
	Value       Amount     `json:"value"`
	MinPurchase Amount     `json:"min_purchase"`
	IsActive    bool       `json:"is_active"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// BusinessSummary is a connected business with the customer's balance there
type BusinessSummary struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Category          string     `json:"category,omitempty"`
	TotalCredit       Amount     `json:"total_credit"`
	TotalPayment      Amount     `json:"total_payment"`
	LastTransactionAt *time.Time `json:"last_transaction_at,omitempty"`
}

// Dashboard is the aggregated home screen payload
type Dashboard struct {
	TotalCredit        Amount            `json:"total_credit"`
	TotalPayment       Amount            `json:"total_payment"`
	RecentTransactions []Transaction     `json:"recent_transactions"`
	Businesses         []BusinessSummary `json:"businesses"`
}

// BusinessDetails is a business together with the customer's ledger there
type BusinessDetails struct {
	Business     Business      `json:"business"`
	Transactions []Transaction `json:"transactions"`
}

// BusinessProfile is the public face of a business
type BusinessProfile struct {
	Business Business  `json:"business"`
	Products []Product `json:"products"`
	Offers   []Offer   `json:"offers"`
}
