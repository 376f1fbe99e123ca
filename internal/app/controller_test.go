package app_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ekthaa/customer-client/internal/app"
	"github.com/ekthaa/customer-client/internal/client"
	"github.com/ekthaa/customer-client/internal/invoice"
	"github.com/ekthaa/customer-client/internal/ledger"
	"github.com/ekthaa/customer-client/internal/models"
	"github.com/ekthaa/customer-client/internal/session"
	"github.com/ekthaa/customer-client/internal/utils"
	"github.com/ekthaa/customer-client/internal/validate"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.October, 16, 18, 0, 0, 0, time.UTC)

type backend struct {
	router   *gin.Engine
	requests atomic.Int32
}

func newBackend() *backend {
	gin.SetMode(gin.TestMode)
	b := &backend{router: gin.New()}
	b.router.Use(func(c *gin.Context) {
		b.requests.Add(1)
		c.Next()
	})
	return b
}

func newController(t *testing.T, b *backend, state session.State) (*app.Controller, *session.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(b.router)
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore(state)
	sess, err := session.NewManager(store)
	require.NoError(t, err)

	ctrl := app.NewController(client.NewClient(srv.URL, time.Second, sess, utils.Discard()), utils.Discard())
	ctrl.SetClock(func() time.Time { return now })
	return ctrl, store
}

func signedIn() session.State {
	return session.State{Token: "tok", User: &models.User{ID: "u1"}}
}

func ledgerTxs() []models.Transaction {
	return []models.Transaction{
		{ID: "1", Amount: models.AmountFromFloat(100), TransactionType: models.Credit, Notes: "rice", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "2", Amount: models.AmountFromFloat(40), TransactionType: models.Payment, Notes: "upi", CreatedAt: now.AddDate(0, 0, -1)},
		{ID: "3", Amount: models.AmountFromFloat(10), TransactionType: models.Credit, Notes: "oil", CreatedAt: now.Add(-1 * time.Hour)},
	}
}

func TestLoadLedger(t *testing.T) {
	b := newBackend()
	b.router.GET("/api/business/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, models.BusinessDetails{
			Business:     models.Business{ID: c.Param("id"), Name: "Sharma Kirana"},
			Transactions: ledgerTxs(),
		})
	})
	ctrl, _ := newController(t, b, signedIn())

	screen, err := ctrl.LoadLedger(context.Background(), "b1", ledger.Filter{})
	require.NoError(t, err)
	assert.Equal(t, "Sharma Kirana", screen.Business.Name)
	require.Len(t, screen.View.Groups, 2)
	assert.Equal(t, "Yesterday", screen.View.Groups[0].DisplayDate)
	assert.Equal(t, "Today", screen.View.Groups[1].DisplayDate)
	assert.Equal(t, "-70", screen.View.Summary.Balance.String())
	assert.Equal(t, "You will give", screen.View.Summary.Label())

	requests := b.requests.Load()
	filtered, err := ctrl.LedgerView("b1", ledger.Filter{Type: models.Payment})
	require.NoError(t, err)
	assert.Equal(t, requests, b.requests.Load(), "refiltering makes no request")
	assert.Equal(t, "40", filtered.View.Summary.Balance.String())

	_, err = ctrl.LedgerView("other", ledger.Filter{})
	assert.ErrorIs(t, err, app.ErrNotLoaded)

	pdf, err := ctrl.Statement("b1", ledger.Filter{})
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}

func TestLoadTransactionsFallsBackToDashboard(t *testing.T) {
	b := newBackend()
	b.router.GET("/api/dashboard", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": models.Dashboard{RecentTransactions: ledgerTxs()}})
	})
	ctrl, _ := newController(t, b, signedIn())

	view, err := ctrl.LoadTransactions(context.Background(), ledger.Filter{Query: "RICE"})
	require.NoError(t, err)
	require.Len(t, view.Groups, 1)
	assert.Equal(t, "1", view.Groups[0].Data[0].ID)
	assert.Equal(t, "100", view.Summary.Balance.String(), "wallet balance is credit - payment")

	all, err := ctrl.TransactionsView(ledger.Filter{})
	require.NoError(t, err)
	assert.Equal(t, "Today", all.Groups[0].DisplayDate, "wallet feed is newest first")
	assert.Equal(t, []string{"3", "1"}, []string{all.Groups[0].Data[0].ID, all.Groups[0].Data[1].ID})
}

func TestValidationHappensBeforeAnyRequest(t *testing.T) {
	b := newBackend()
	ctrl, _ := newController(t, b, signedIn())
	ctx := context.Background()

	_, err := ctrl.GenerateInvoice(ctx, invoice.Invoice{
		BuyerName:    "Asha",
		BuyerAddress: "12 MG Road",
		BuyerState:   "Maharashtra",
		Items:        []invoice.LineItem{{Description: "Rice", Quantity: "2"}},
	})
	require.Error(t, err)
	var verr *invoice.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"Buyer city", "Buyer pincode", "Item 1 rate"}, verr.Missing)

	_, err = ctrl.Login(ctx, validate.LoginForm{Phone: "123"})
	assert.ErrorIs(t, err, validate.ErrInvalidInput)

	_, err = ctrl.Connect(ctx, validate.ConnectForm{AccessPIN: "12"})
	assert.ErrorIs(t, err, validate.ErrInvalidInput)

	_, err = ctrl.RecordTransaction(ctx, validate.TransactionForm{BusinessID: "b1", Amount: "abc", TransactionType: "credit"}, nil)
	assert.ErrorIs(t, err, validate.ErrInvalidInput)

	assert.Zero(t, b.requests.Load())
}

func TestGenerateInvoice(t *testing.T) {
	b := newBackend()
	var got models.InvoiceRequest
	b.router.POST("/api/generate-invoice", func(c *gin.Context) {
		if err := c.ShouldBindJSON(&got); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/pdf", []byte("%PDF-1.3"))
	})
	ctrl, _ := newController(t, b, signedIn())

	blob, err := ctrl.GenerateInvoice(context.Background(), invoice.Invoice{
		BuyerName: "Asha", BuyerAddress: "12 MG Road", BuyerCity: "Pune", BuyerState: "Maharashtra", BuyerPincode: "411001",
		Items:    []invoice.LineItem{{Description: "Rice", Quantity: "2", Rate: "50"}, {Description: "Dal", Quantity: "1", Rate: "25"}},
		CGSTRate: "9",
		SGSTRate: "9",
	})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", blob.ContentType)
	assert.Equal(t, "2026-10-16", got.InvoiceDate)
	assert.Equal(t, "125", got.Subtotal.String())
	assert.Equal(t, "11.25", got.CGST.String())
	assert.Equal(t, "147.5", got.Total.String())
}

func TestRecordTransactionReloadsLedger(t *testing.T) {
	b := newBackend()
	var stored []models.Transaction
	b.router.POST("/api/transaction/create", func(c *gin.Context) {
		var req models.CreateTransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		txn := models.Transaction{ID: "new", BusinessID: req.BusinessID, Amount: req.Amount, TransactionType: req.TransactionType, CreatedBy: models.PartyCustomer, CreatedAt: now}
		stored = append(stored, txn)
		c.JSON(http.StatusCreated, models.TransactionResponse{Transaction: txn})
	})
	b.router.GET("/api/business/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, models.BusinessDetails{Business: models.Business{ID: "b1"}, Transactions: stored})
	})
	ctrl, _ := newController(t, b, signedIn())

	txn, err := ctrl.RecordTransaction(context.Background(), validate.TransactionForm{
		BusinessID: "b1", Amount: "75", TransactionType: "payment",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "new", txn.ID)

	screen, err := ctrl.LedgerView("b1", ledger.Filter{})
	require.NoError(t, err)
	assert.Equal(t, "75", screen.View.Summary.TotalPayment.String())
	assert.Equal(t, "You will get", screen.View.Summary.Label())
}

func TestUnauthorizedNeedsLogin(t *testing.T) {
	b := newBackend()
	b.router.GET("/api/businesses", func(c *gin.Context) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
	})
	ctrl, store := newController(t, b, signedIn())

	_, err := ctrl.Businesses(context.Background())
	assert.True(t, app.NeedsLogin(err))
	persisted, _ := store.Load()
	assert.Empty(t, persisted.Token)
	assert.False(t, ctrl.Session().Authenticated())
}

func TestOffersUnavailableIsEmpty(t *testing.T) {
	b := newBackend()
	ctrl, _ := newController(t, b, signedIn())

	offers, err := ctrl.Offers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, offers)

	businesses, err := ctrl.Businesses(context.Background())
	require.NoError(t, err)
	assert.Empty(t, businesses)
}

func TestLogoutAndTheme(t *testing.T) {
	b := newBackend()
	ctrl, store := newController(t, b, signedIn())

	theme, err := ctrl.ToggleTheme()
	require.NoError(t, err)
	assert.Equal(t, session.ThemeDark, theme)

	require.NoError(t, ctrl.Logout())
	persisted, _ := store.Load()
	assert.Empty(t, persisted.Token)
	assert.Nil(t, persisted.User)
	assert.Equal(t, session.ThemeDark, persisted.Theme)
}
