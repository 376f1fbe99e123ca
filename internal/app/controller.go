// Package app is the application controller. It owns the session, theme and
// backend client and exposes one method per screen action. Screens hold no
// state of their own beyond what the controller hands them.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ekthaa/customer-client/internal/client"
	"github.com/ekthaa/customer-client/internal/invoice"
	"github.com/ekthaa/customer-client/internal/ledger"
	"github.com/ekthaa/customer-client/internal/models"
	"github.com/ekthaa/customer-client/internal/report"
	"github.com/ekthaa/customer-client/internal/session"
	"github.com/ekthaa/customer-client/internal/utils"
	"github.com/ekthaa/customer-client/internal/validate"
)

// ErrNotLoaded is returned when a view is requested before its data loaded.
var ErrNotLoaded = errors.New("not loaded yet")

// Controller wires the screens to the backend.
type Controller struct {
	client  *client.Client
	session *session.Manager
	logger  *utils.Logger
	now     func() time.Time

	dashboard    Slot[*models.Dashboard]
	businesses   Slot[[]models.Business]
	transactions Slot[[]models.Transaction]
	offers       Slot[[]models.Offer]

	mu      sync.Mutex
	ledgers map[string]*Slot[*models.BusinessDetails]
}

// NewController creates a controller around an existing client.
func NewController(c *client.Client, logger *utils.Logger) *Controller {
	return &Controller{
		client:  c,
		session: c.Session(),
		logger:  logger,
		now:     time.Now,
		ledgers: make(map[string]*Slot[*models.BusinessDetails]),
	}
}

// SetClock replaces the clock used for date labels.
func (a *Controller) SetClock(now func() time.Time) {
	a.now = now
}

// NeedsLogin reports whether err means the user must sign in again.
func NeedsLogin(err error) bool {
	return client.IsUnauthorized(err)
}

// Session exposes the signed-in user and theme for display.
func (a *Controller) Session() *session.Manager {
	return a.session
}

// Login validates the form and signs in.
func (a *Controller) Login(ctx context.Context, form validate.LoginForm) (*models.User, error) {
	if err := validate.Struct(form); err != nil {
		return nil, err
	}
	resp, err := a.client.Login(ctx, models.LoginRequest{Phone: form.Phone, Password: form.Password})
	if err != nil {
		return nil, err
	}
	a.logger.Info("signed in as %s", resp.User.ID)
	return resp.User, nil
}

// Register validates the form and creates the account.
func (a *Controller) Register(ctx context.Context, form validate.RegisterForm) (*models.AuthResponse, error) {
	if err := validate.Struct(form); err != nil {
		return nil, err
	}
	return a.client.Register(ctx, models.RegisterRequest{Name: form.Name, Phone: form.Phone, Password: form.Password})
}

// Logout ends the session and drops every cached screen.
func (a *Controller) Logout() error {
	a.dashboard.Reset()
	a.businesses.Reset()
	a.transactions.Reset()
	a.offers.Reset()
	a.mu.Lock()
	a.ledgers = make(map[string]*Slot[*models.BusinessDetails])
	a.mu.Unlock()
	return a.client.Logout()
}

// ChangePassword validates the form and changes the password.
func (a *Controller) ChangePassword(ctx context.Context, form validate.ChangePasswordForm) error {
	if err := validate.Struct(form); err != nil {
		return err
	}
	return a.client.ChangePassword(ctx, models.ChangePasswordRequest{
		CurrentPassword: form.CurrentPassword,
		NewPassword:     form.NewPassword,
	})
}

// Profile fetches the signed-in customer's profile.
func (a *Controller) Profile(ctx context.Context) (*models.User, error) {
	return a.client.Profile(ctx)
}

// UpdateProfile validates the form and saves it.
func (a *Controller) UpdateProfile(ctx context.Context, form validate.ProfileForm) (*models.User, error) {
	if err := validate.Struct(form); err != nil {
		return nil, err
	}
	return a.client.UpdateProfile(ctx, models.UpdateProfileRequest{
		Name:    form.Name,
		Email:   form.Email,
		Address: form.Address,
		City:    form.City,
		State:   form.State,
		Pincode: form.Pincode,
	})
}

// ToggleTheme flips the theme.
func (a *Controller) ToggleTheme() (session.Theme, error) {
	return a.session.ToggleTheme()
}

// Dashboard loads the home screen.
func (a *Controller) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	return a.dashboard.Load(ctx, a.client.Dashboard)
}

// Businesses loads the connected businesses.
func (a *Controller) Businesses(ctx context.Context) ([]models.Business, error) {
	return a.businesses.Load(ctx, a.client.Businesses)
}

// Offers loads the offers list.
func (a *Controller) Offers(ctx context.Context) ([]models.Offer, error) {
	return a.offers.Load(ctx, a.client.Offers)
}

// Products searches the public catalog.
func (a *Controller) Products(ctx context.Context, search string) ([]models.Product, error) {
	return a.client.PublicProducts(ctx, search)
}

// BusinessProfile loads a business's public page.
func (a *Controller) BusinessProfile(ctx context.Context, id string) (*models.BusinessProfile, error) {
	return a.client.BusinessProfile(ctx, id)
}

// Connect validates the PIN and links the business, then refreshes the list.
func (a *Controller) Connect(ctx context.Context, form validate.ConnectForm) (*models.Business, error) {
	if err := validate.Struct(form); err != nil {
		return nil, err
	}
	resp, err := a.client.ConnectBusiness(ctx, form.AccessPIN)
	if err != nil {
		return nil, err
	}
	if _, err := a.Businesses(ctx); err != nil {
		a.logger.Error("error refreshing businesses after connect: %v", err)
	}
	return &resp.Business, nil
}

// LedgerScreen is the per-business ledger.
type LedgerScreen struct {
	Business models.Business
	View     ledger.View
}

func (a *Controller) ledgerSlot(businessID string) *Slot[*models.BusinessDetails] {
	a.mu.Lock()
	defer a.mu.Unlock()
	slot, ok := a.ledgers[businessID]
	if !ok {
		slot = &Slot[*models.BusinessDetails]{}
		a.ledgers[businessID] = slot
	}
	return slot
}

// LoadLedger fetches a business ledger and builds its view.
func (a *Controller) LoadLedger(ctx context.Context, businessID string, f ledger.Filter) (*LedgerScreen, error) {
	details, err := a.ledgerSlot(businessID).Load(ctx, func(ctx context.Context) (*models.BusinessDetails, error) {
		return a.client.Business(ctx, businessID)
	})
	if err != nil {
		return nil, err
	}
	return a.ledgerScreen(details, f), nil
}

// LedgerView rebuilds the ledger view from the last load, e.g. after the
// filter changed. No request is made.
func (a *Controller) LedgerView(businessID string, f ledger.Filter) (*LedgerScreen, error) {
	details, ok := a.ledgerSlot(businessID).Value()
	if !ok {
		return nil, ErrNotLoaded
	}
	return a.ledgerScreen(details, f), nil
}

func (a *Controller) ledgerScreen(details *models.BusinessDetails, f ledger.Filter) *LedgerScreen {
	view := ledger.BuildView(details.Transactions, ledger.PerBusinessLedger, f, a.now())
	if view.Summary.Malformed > 0 {
		a.logger.Error("business %s: %d transactions with unreadable amount or type", details.Business.ID, view.Summary.Malformed)
	}
	return &LedgerScreen{Business: details.Business, View: view}
}

// LoadTransactions fetches every transaction and builds the wallet feed.
// Deployments without the transactions endpoint fall back to the recent
// transactions on the dashboard.
func (a *Controller) LoadTransactions(ctx context.Context, f ledger.Filter) (ledger.View, error) {
	txs, err := a.transactions.Load(ctx, func(ctx context.Context) ([]models.Transaction, error) {
		txs, err := a.client.Transactions(ctx)
		if client.IsNotFound(err) {
			d, derr := a.client.Dashboard(ctx)
			if derr != nil {
				return nil, derr
			}
			return d.RecentTransactions, nil
		}
		return txs, err
	})
	if err != nil {
		return ledger.View{}, err
	}
	return ledger.BuildView(txs, ledger.CustomerWallet, f, a.now()), nil
}

// TransactionsView rebuilds the wallet feed from the last load.
func (a *Controller) TransactionsView(f ledger.Filter) (ledger.View, error) {
	txs, ok := a.transactions.Value()
	if !ok {
		return ledger.View{}, ErrNotLoaded
	}
	return ledger.BuildView(txs, ledger.CustomerWallet, f, a.now()), nil
}

// RecordTransaction validates the form and records the entry, then reloads
// that business's ledger.
func (a *Controller) RecordTransaction(ctx context.Context, form validate.TransactionForm, receipt *client.Attachment) (*models.Transaction, error) {
	if err := validate.Struct(form); err != nil {
		return nil, err
	}
	req := models.CreateTransactionRequest{
		BusinessID:      form.BusinessID,
		Amount:          models.ParseAmount(form.Amount),
		TransactionType: models.TransactionType(form.TransactionType),
		Notes:           form.Notes,
	}
	txn, err := a.client.CreateTransaction(ctx, req, receipt)
	if err != nil {
		return nil, err
	}
	if _, err := a.LoadLedger(ctx, form.BusinessID, ledger.Filter{}); err != nil {
		a.logger.Error("error reloading ledger %s: %v", form.BusinessID, err)
	}
	return txn, nil
}

// GenerateInvoice validates the invoice form and returns the generated PDF.
// Nothing is sent when validation fails.
func (a *Controller) GenerateInvoice(ctx context.Context, inv invoice.Invoice) (*client.Blob, error) {
	if inv.InvoiceDate == "" {
		inv.InvoiceDate = a.now().Format("2006-01-02")
	}
	req, err := inv.Request()
	if err != nil {
		return nil, err
	}
	return a.client.GenerateInvoice(ctx, req)
}

// Statement renders the loaded ledger of a business as a PDF.
func (a *Controller) Statement(businessID string, f ledger.Filter) ([]byte, error) {
	screen, err := a.LedgerView(businessID, f)
	if err != nil {
		return nil, fmt.Errorf("error building statement: %w", err)
	}
	return report.RenderStatement(screen.Business.Name, screen.View, a.now())
}

// QRCode fetches the business QR image.
func (a *Controller) QRCode(ctx context.Context) (*client.Blob, error) {
	return a.client.QRCode(ctx)
}
