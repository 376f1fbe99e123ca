package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Request models
type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required,number,len=10"`
	Password string `json:"password" binding:"required,min=6"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

type UpdateProfileRequest struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty" binding:"omitempty,email"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty" binding:"omitempty,number,len=6"`
}

type ConnectBusinessRequest struct {
	AccessPIN string `json:"access_pin" binding:"required"`
}

type CreateTransactionRequest struct {
	BusinessID      string          `json:"business_id" form:"business_id" binding:"required"`
	Amount          Amount          `json:"amount" form:"-"`
	TransactionType TransactionType `json:"transaction_type" form:"transaction_type" binding:"required,oneof=credit payment"`
	Notes           string          `json:"notes,omitempty" form:"notes"`
}

type ProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
	Price       Amount `json:"price"`
	Unit        string `json:"unit,omitempty"`
	HSNCode     string `json:"hsn_code,omitempty"`
}

type OfferRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description,omitempty"`
	DiscountPercent Amount `json:"discount_percent"`
	ValidUntil      string `json:"valid_until,omitempty"`
}

type VoucherRequest struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	Value       Amount `json:"value"`
	MinPurchase Amount `json:"min_purchase"`
	ExpiresAt   string `json:"expires_at,omitempty"`
}

// InvoiceItemRequest is a fully parsed invoice line as sent to the generator
type InvoiceItemRequest struct {
	Description string `json:"description"`
	HSNCode     string `json:"hsn_code,omitempty"`
	Unit        string `json:"unit,omitempty"`
	Quantity    Amount `json:"quantity"`
	Rate        Amount `json:"rate"`
	Total       Amount `json:"total"`
}

// InvoiceRequest is the body of POST /api/generate-invoice
type InvoiceRequest struct {
	InvoiceNumber string               `json:"invoice_number,omitempty"`
	InvoiceDate   string               `json:"invoice_date"`
	SellerName    string               `json:"seller_name,omitempty"`
	SellerAddress string               `json:"seller_address,omitempty"`
	SellerGSTIN   string               `json:"seller_gstin,omitempty"`
	BuyerName     string               `json:"buyer_name" binding:"required"`
	BuyerAddress  string               `json:"buyer_address" binding:"required"`
	BuyerCity     string               `json:"buyer_city" binding:"required"`
	BuyerState    string               `json:"buyer_state" binding:"required"`
	BuyerPincode  string               `json:"buyer_pincode" binding:"required"`
	BuyerGSTIN    string               `json:"buyer_gstin,omitempty"`
	Items         []InvoiceItemRequest `json:"items" binding:"required,min=1"`
	CGSTRate      Amount               `json:"cgst_rate"`
	SGSTRate      Amount               `json:"sgst_rate"`
	Subtotal      Amount               `json:"subtotal"`
	CGST          Amount               `json:"cgst"`
	SGST          Amount               `json:"sgst"`
	Total         Amount               `json:"total"`
	Notes         string               `json:"notes,omitempty"`
}

// Response models
type AuthResponse struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// The backend is inconsistent about envelopes: the same collection may come
// back bare, under "data", or under a resource-specific key. Each response
// type below names the keys it accepts so the rest of the code sees one shape.

type BusinessesResponse struct {
	Businesses []Business `json:"businesses"`
}

func (r *BusinessesResponse) UnmarshalJSON(data []byte) error {
	return decodeList(data, &r.Businesses, "businesses", "data")
}

type TransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

func (r *TransactionsResponse) UnmarshalJSON(data []byte) error {
	return decodeList(data, &r.Transactions, "transactions", "data")
}

type ProductsResponse struct {
	Products []Product `json:"products"`
}

func (r *ProductsResponse) UnmarshalJSON(data []byte) error {
	return decodeList(data, &r.Products, "products", "data")
}

type OffersResponse struct {
	Offers []Offer `json:"offers"`
}

func (r *OffersResponse) UnmarshalJSON(data []byte) error {
	return decodeList(data, &r.Offers, "offers", "data")
}

type VouchersResponse struct {
	Vouchers []Voucher `json:"vouchers"`
}

func (r *VouchersResponse) UnmarshalJSON(data []byte) error {
	return decodeList(data, &r.Vouchers, "vouchers", "data")
}

type DashboardResponse struct {
	Dashboard Dashboard `json:"data"`
}

func (r *DashboardResponse) UnmarshalJSON(data []byte) error {
	return decodeObject(data, &r.Dashboard, "dashboard", "data")
}

type ProfileResponse struct {
	User User `json:"user"`
}

func (r *ProfileResponse) UnmarshalJSON(data []byte) error {
	return decodeObject(data, &r.User, "user", "profile", "data")
}

type BusinessDetailsResponse struct {
	Details BusinessDetails `json:"data"`
}

func (r *BusinessDetailsResponse) UnmarshalJSON(data []byte) error {
	return decodeObject(data, &r.Details, "data")
}

type BusinessProfileResponse struct {
	Profile BusinessProfile `json:"data"`
}

func (r *BusinessProfileResponse) UnmarshalJSON(data []byte) error {
	return decodeObject(data, &r.Profile, "profile", "data")
}

type ConnectBusinessResponse struct {
	Status   string   `json:"status"`
	Message  string   `json:"message"`
	Business Business `json:"business"`
}

type TransactionResponse struct {
	Transaction Transaction `json:"transaction"`
}

func (r *TransactionResponse) UnmarshalJSON(data []byte) error {
	return decodeObject(data, &r.Transaction, "transaction", "data")
}

type ProductResponse struct {
	Product Product `json:"product"`
}

func (r *ProductResponse) UnmarshalJSON(data []byte) error {
	return decodeObject(data, &r.Product, "product", "data")
}

type OfferResponse struct {
	Offer Offer `json:"offer"`
}

func (r *OfferResponse) UnmarshalJSON(data []byte) error {
	return decodeObject(data, &r.Offer, "offer", "data")
}

type VoucherResponse struct {
	Voucher Voucher `json:"voucher"`
}

func (r *VoucherResponse) UnmarshalJSON(data []byte) error {
	return decodeObject(data, &r.Voucher, "voucher", "data")
}

// decodeList fills out from a bare JSON array, or from the first of keys that
// holds an array. A null or absent collection leaves out as an empty slice.
func decodeList[T any](data []byte, out *[]T, keys ...string) error {
	data = bytes.TrimSpace(data)
	*out = []T{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '[' {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("error decoding list: %w", err)
		}
		return nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("error decoding list envelope: %w", err)
	}
	for _, key := range keys {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '[' {
			continue
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("error decoding %q: %w", key, err)
		}
		return nil
	}
	return nil
}

// decodeObject fills out from the first of keys holding a JSON object, or
// from the whole document when none of them do.
func decodeObject[T any](data []byte, out *T, keys ...string) error {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("error decoding object: %w", err)
	}
	for _, key := range keys {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			continue
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("error decoding %q: %w", key, err)
		}
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("error decoding object: %w", err)
	}
	return nil
}
