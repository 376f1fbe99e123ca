package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ekthaa/customer-client/internal/models"
	"github.com/ekthaa/customer-client/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Demo accounts created by Seed
const (
	DemoCustomerPhone = "9000000001"
	DemoMerchantPhone = "9000000002"
	DemoPassword      = "demo1234"
)

// SeedResult describes what Seed created
type SeedResult struct {
	Customer   models.User
	Merchant   models.User
	Businesses []models.Business
}

// Seed fills an empty repository with a demo merchant owning two
// businesses, a demo customer connected to the first one, a short ledger
// history, products and offers. It refuses to run twice.
func Seed(ctx context.Context, repo repository.Repository, now time.Time) (*SeedResult, error) {
	existing, err := repo.GetUserByPhone(ctx, DemoCustomerPhone)
	if err != nil {
		return nil, fmt.Errorf("error checking seed state: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: demo data already present", ErrUserExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	res := &SeedResult{
		Customer: models.User{Name: "Asha Patil", Phone: DemoCustomerPhone, City: "Pune", State: "Maharashtra", Password: string(hash)},
		Merchant: models.User{Name: "Ravi Sharma", Phone: DemoMerchantPhone, City: "Pune", State: "Maharashtra", Password: string(hash)},
	}
	for _, u := range []*models.User{&res.Customer, &res.Merchant} {
		if err := repo.CreateUser(ctx, u); err != nil {
			return nil, fmt.Errorf("error creating user: %w", err)
		}
	}

	businesses := []models.Business{
		{OwnerID: res.Merchant.ID, Name: "Sharma Kirana Store", Category: "Grocery", City: "Pune", State: "Maharashtra", AccessPIN: "123456"},
		{OwnerID: res.Merchant.ID, Name: "Sharma Medicals", Category: "Pharmacy", City: "Pune", State: "Maharashtra", AccessPIN: "654321"},
	}
	for i := range businesses {
		if err := repo.CreateBusiness(ctx, &businesses[i]); err != nil {
			return nil, fmt.Errorf("error creating business: %w", err)
		}
	}
	res.Businesses = businesses
	kirana := businesses[0]

	if err := repo.ConnectCustomer(ctx, &models.CustomerBusiness{CustomerID: res.Customer.ID, BusinessID: kirana.ID}); err != nil {
		return nil, fmt.Errorf("error connecting customer: %w", err)
	}

	history := []struct {
		daysAgo int
		amount  float64
		typ     models.TransactionType
		notes   string
	}{
		{9, 1250, models.Credit, "Monthly groceries"},
		{7, 500, models.Payment, "UPI"},
		{3, 320.5, models.Credit, "Rice and dal"},
		{1, 800, models.Payment, "Cash"},
		{0, 75, models.Credit, "Milk"},
	}
	for _, h := range history {
		txn := &models.Transaction{
			BusinessID:      kirana.ID,
			CustomerID:      res.Customer.ID,
			Amount:          models.AmountFromFloat(h.amount),
			TransactionType: h.typ,
			CreatedBy:       models.PartyBusiness,
			Notes:           h.notes,
			CreatedAt:       now.AddDate(0, 0, -h.daysAgo).UTC(),
		}
		if err := repo.CreateTransaction(ctx, txn); err != nil {
			return nil, fmt.Errorf("error creating transaction: %w", err)
		}
	}

	products := []models.Product{
		{BusinessID: kirana.ID, Name: "Basmati Rice", Price: models.AmountFromFloat(95), Unit: "kg", HSNCode: "1006"},
		{BusinessID: kirana.ID, Name: "Toor Dal", Price: models.AmountFromFloat(140), Unit: "kg", HSNCode: "0713"},
		{BusinessID: kirana.ID, Name: "Sunflower Oil", Price: models.AmountFromFloat(160), Unit: "l", HSNCode: "1512"},
		{BusinessID: businesses[1].ID, Name: "Paracetamol 500mg", Price: models.AmountFromFloat(30), Unit: "strip", HSNCode: "3004"},
	}
	for i := range products {
		if err := repo.CreateProduct(ctx, &products[i]); err != nil {
			return nil, fmt.Errorf("error creating product: %w", err)
		}
	}

	validUntil := now.AddDate(0, 1, 0).UTC()
	offers := []models.Offer{
		{BusinessID: kirana.ID, Title: "Festive week", Description: "On all staples", DiscountPercent: models.AmountFromFloat(10), IsActive: true, ValidUntil: &validUntil},
		{BusinessID: kirana.ID, Title: "Old stock clearance", DiscountPercent: models.AmountFromFloat(25), IsActive: false},
	}
	for i := range offers {
		if err := repo.CreateOffer(ctx, &offers[i]); err != nil {
			return nil, fmt.Errorf("error creating offer: %w", err)
		}
	}

	return res, nil
}
