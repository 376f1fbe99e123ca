package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ekthaa/customer-client/internal/invoice"
	"github.com/ekthaa/customer-client/internal/ledger"
	"github.com/ekthaa/customer-client/internal/models"
	"github.com/ekthaa/customer-client/internal/report"
	"github.com/ekthaa/customer-client/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("user with this phone already exists")
	ErrInvalidCredentials = errors.New("invalid phone or password")
	ErrNotFound           = errors.New("not found")
	ErrInvalidPIN         = errors.New("invalid access PIN")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidAmount      = errors.New("amount must be a positive number")
	ErrInvalidInput       = errors.New("invalid input")
)

// recentLimit caps the dashboard's recent transactions
const recentLimit = 10

// publicSearchLimit caps the public catalog search
const publicSearchLimit = 50

// Service defines all the business logic operations
type Service interface {
	// Authentication
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error

	// Profile
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error)

	// Businesses and ledger
	Dashboard(ctx context.Context, userID string) (*models.Dashboard, error)
	Businesses(ctx context.Context, userID string) ([]models.Business, error)
	BusinessDetails(ctx context.Context, userID, businessID string) (*models.BusinessDetails, error)
	BusinessProfile(ctx context.Context, businessID string) (*models.BusinessProfile, error)
	ConnectBusiness(ctx context.Context, userID, pin string) (*models.Business, error)
	Transactions(ctx context.Context, userID string) ([]models.Transaction, error)
	CreateTransaction(ctx context.Context, userID string, req models.CreateTransactionRequest, receiptURL string) (*models.Transaction, error)

	// Catalog
	PublicProducts(ctx context.Context, search string) ([]models.Product, error)
	Products(ctx context.Context, userID string) ([]models.Product, error)
	CreateProduct(ctx context.Context, userID string, req models.ProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, userID, productID string, req models.ProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, userID, productID string) error

	// Offers
	Offers(ctx context.Context, userID string) ([]models.Offer, error)
	CreateOffer(ctx context.Context, userID string, req models.OfferRequest) (*models.Offer, error)
	UpdateOffer(ctx context.Context, userID, offerID string, req models.OfferRequest) (*models.Offer, error)
	DeleteOffer(ctx context.Context, userID, offerID string) error
	ToggleOffer(ctx context.Context, userID, offerID string) (*models.Offer, error)

	// Documents
	GenerateInvoice(ctx context.Context, userID string, req models.InvoiceRequest) ([]byte, error)
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo          repository.Repository
	jwtSecret     []byte
	tokenDuration time.Duration
	now           func() time.Time
}

var _ Service = (*DefaultService)(nil)

// NewDefaultService creates a new DefaultService
func NewDefaultService(repo repository.Repository, jwtSecret string, tokenDuration time.Duration) *DefaultService {
	if tokenDuration <= 0 {
		tokenDuration = 24 * time.Hour
	}
	return &DefaultService{
		repo:          repo,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: tokenDuration,
		now:           time.Now,
	}
}

// Authentication methods
func (s *DefaultService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	// Check if user already exists
	existingUser, err := s.repo.GetUserByPhone(ctx, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("error checking user existence: %w", err)
	}

	if existingUser != nil {
		return nil, ErrUserExists
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	// Create the user
	user := &models.User{
		ID:       uuid.New().String(),
		Name:     strings.TrimSpace(req.Name),
		Phone:    req.Phone,
		Password: string(hashedPassword),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.AuthResponse{
		Status:  "success",
		Message: "Registration successful",
		Token:   token,
		User:    user,
	}, nil
}

func (s *DefaultService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	// Get the user
	user, err := s.repo.GetUserByPhone(ctx, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}

	if user == nil {
		return nil, ErrInvalidCredentials
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Generate JWT token
	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &models.AuthResponse{
		Status: "success",
		Token:  token,
		User:   user,
	}, nil
}

func (s *DefaultService) ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error {
	user, err := s.user(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}
	user.Password = string(hashedPassword)

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("error updating user: %w", err)
	}
	return nil
}

// Profile methods
func (s *DefaultService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.user(ctx, userID)
}

func (s *DefaultService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Only fields present in the request are changed
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&user.Name, req.Name)
	set(&user.Email, req.Email)
	set(&user.Address, req.Address)
	set(&user.City, req.City)
	set(&user.State, req.State)
	set(&user.Pincode, req.Pincode)

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return user, nil
}

// Business and ledger methods
func (s *DefaultService) Dashboard(ctx context.Context, userID string) (*models.Dashboard, error) {
	businesses, err := s.repo.GetCustomerBusinesses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting businesses: %w", err)
	}

	txs, err := s.repo.GetTransactions(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("error getting transactions: %w", err)
	}

	byBusiness := make(map[string][]models.Transaction)
	for _, t := range txs {
		byBusiness[t.BusinessID] = append(byBusiness[t.BusinessID], t)
	}

	dashboard := &models.Dashboard{
		RecentTransactions: []models.Transaction{},
		Businesses:         make([]models.BusinessSummary, 0, len(businesses)),
	}

	total := ledger.Summarize(txs, ledger.CustomerWallet)
	dashboard.TotalCredit = models.NewAmount(total.TotalCredit)
	dashboard.TotalPayment = models.NewAmount(total.TotalPayment)

	for _, b := range businesses {
		entries := byBusiness[b.ID]
		summary := ledger.Summarize(entries, ledger.PerBusinessLedger)
		bs := models.BusinessSummary{
			ID:           b.ID,
			Name:         b.Name,
			Category:     b.Category,
			TotalCredit:  models.NewAmount(summary.TotalCredit),
			TotalPayment: models.NewAmount(summary.TotalPayment),
		}
		// Transactions are newest first
		if len(entries) > 0 {
			last := entries[0].CreatedAt
			bs.LastTransactionAt = &last
		}
		dashboard.Businesses = append(dashboard.Businesses, bs)
	}

	if len(txs) > recentLimit {
		txs = txs[:recentLimit]
	}
	dashboard.RecentTransactions = append(dashboard.RecentTransactions, txs...)

	return dashboard, nil
}

func (s *DefaultService) Businesses(ctx context.Context, userID string) ([]models.Business, error) {
	businesses, err := s.repo.GetCustomerBusinesses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting businesses: %w", err)
	}
	return businesses, nil
}

func (s *DefaultService) BusinessDetails(ctx context.Context, userID, businessID string) (*models.BusinessDetails, error) {
	business, err := s.connectedBusiness(ctx, userID, businessID)
	if err != nil {
		return nil, err
	}

	txs, err := s.repo.GetTransactions(ctx, userID, businessID)
	if err != nil {
		return nil, fmt.Errorf("error getting transactions: %w", err)
	}

	return &models.BusinessDetails{
		Business:     *business,
		Transactions: txs,
	}, nil
}

func (s *DefaultService) BusinessProfile(ctx context.Context, businessID string) (*models.BusinessProfile, error) {
	business, err := s.repo.GetBusiness(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("error getting business: %w", err)
	}
	if business == nil {
		return nil, ErrNotFound
	}

	products, err := s.repo.GetProductsByBusiness(ctx, []string{businessID})
	if err != nil {
		return nil, fmt.Errorf("error getting products: %w", err)
	}

	offers, err := s.repo.GetOffersByBusiness(ctx, []string{businessID})
	if err != nil {
		return nil, fmt.Errorf("error getting offers: %w", err)
	}

	return &models.BusinessProfile{
		Business: *business,
		Products: products,
		Offers:   s.live(offers),
	}, nil
}

func (s *DefaultService) ConnectBusiness(ctx context.Context, userID, pin string) (*models.Business, error) {
	business, err := s.repo.GetBusinessByPIN(ctx, strings.TrimSpace(pin))
	if err != nil {
		return nil, fmt.Errorf("error getting business: %w", err)
	}
	if business == nil {
		return nil, ErrInvalidPIN
	}

	link := &models.CustomerBusiness{CustomerID: userID, BusinessID: business.ID}
	if err := s.repo.ConnectCustomer(ctx, link); err != nil {
		return nil, fmt.Errorf("error connecting business: %w", err)
	}
	return business, nil
}

func (s *DefaultService) Transactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	txs, err := s.repo.GetTransactions(ctx, userID, "")
	if err != nil {
		return nil, fmt.Errorf("error getting transactions: %w", err)
	}
	return txs, nil
}

func (s *DefaultService) CreateTransaction(
	ctx context.Context,
	userID string,
	req models.CreateTransactionRequest,
	receiptURL string,
) (*models.Transaction, error) {
	if req.Amount.Malformed || !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if !req.TransactionType.Valid() {
		return nil, fmt.Errorf("%w: transaction_type", ErrInvalidInput)
	}

	business, err := s.connectedBusiness(ctx, userID, req.BusinessID)
	if err != nil {
		return nil, err
	}

	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		ID:              uuid.New().String(),
		BusinessID:      business.ID,
		CustomerID:      userID,
		Amount:          models.NewAmount(req.Amount.Round(2)),
		TransactionType: req.TransactionType,
		CreatedBy:       models.PartyCustomer,
		Notes:           strings.TrimSpace(req.Notes),
		ReceiptURL:      receiptURL,
		CreatedAt:       s.now().UTC(),
	}

	if err := s.repo.CreateTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("error creating transaction: %w", err)
	}

	txn.CustomerName = user.Name
	txn.BusinessName = business.Name
	return txn, nil
}

// Helper functions
func (s *DefaultService) user(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// connectedBusiness returns the business if userID is connected to it
func (s *DefaultService) connectedBusiness(ctx context.Context, userID, businessID string) (*models.Business, error) {
	business, err := s.repo.GetBusiness(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("error getting business: %w", err)
	}
	if business == nil {
		return nil, ErrNotFound
	}

	connected, err := s.repo.IsConnected(ctx, userID, businessID)
	if err != nil {
		return nil, fmt.Errorf("error checking connection: %w", err)
	}
	if !connected {
		return nil, ErrForbidden
	}
	return business, nil
}

// live drops inactive and expired offers
func (s *DefaultService) live(offers []models.Offer) []models.Offer {
	now := s.now()
	out := make([]models.Offer, 0, len(offers))
	for _, o := range offers {
		if !o.IsActive || (o.ValidUntil != nil && o.ValidUntil.Before(now)) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func (s *DefaultService) generateJWT(user *models.User) (string, error) {
	expirationTime := s.now().Add(s.tokenDuration)

	claims := jwt.MapClaims{
		"sub": user.ID, // subject
		"exp": expirationTime.Unix(),
		"iat": s.now().Unix(), // issued at
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// GenerateInvoice recomputes the totals from the items and renders the PDF.
func (s *DefaultService) GenerateInvoice(ctx context.Context, userID string, req models.InvoiceRequest) ([]byte, error) {
	if _, err := s.user(ctx, userID); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items", ErrInvalidInput)
	}

	items := make([]invoice.LineItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = invoice.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity.String(),
			Rate:        item.Rate.String(),
		}
		req.Items[i].Total = models.NewAmount(invoice.ItemTotal(items[i]).Round(2))
	}

	totals := invoice.ComputeTotals(items, req.CGSTRate.Decimal, req.SGSTRate.Decimal).Rounded()
	req.Subtotal = models.NewAmount(totals.Subtotal)
	req.CGST = models.NewAmount(totals.CGST)
	req.SGST = models.NewAmount(totals.SGST)
	req.Total = models.NewAmount(totals.Total)

	if req.InvoiceNumber == "" {
		req.InvoiceNumber = "INV-" + strings.ToUpper(uuid.New().String()[:8])
	}
	if req.InvoiceDate == "" {
		req.InvoiceDate = s.now().Format("02 Jan 2006")
	}

	pdf, err := report.RenderInvoice(req)
	if err != nil {
		return nil, fmt.Errorf("error rendering invoice: %w", err)
	}
	return pdf, nil
}
