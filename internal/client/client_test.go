package client_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ekthaa/customer-client/internal/client"
	"github.com/ekthaa/customer-client/internal/models"
	"github.com/ekthaa/customer-client/internal/session"
	"github.com/ekthaa/customer-client/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	client *client.Client
	store  *session.MemoryStore
	sess   *session.Manager
}

// newFixture serves router over HTTP and points a client at it with the
// given persisted session.
func newFixture(t *testing.T, router *gin.Engine, initial session.State) *fixture {
	t.Helper()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore(initial)
	sess, err := session.NewManager(store)
	require.NoError(t, err)

	return &fixture{
		client: client.NewClient(srv.URL, 2*time.Second, sess, utils.Discard()),
		store:  store,
		sess:   sess,
	}
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func signedIn() session.State {
	return session.State{Token: "tok-123", User: &models.User{ID: "u1", Name: "Asha"}}
}

func TestBearerTokenAttached(t *testing.T) {
	var got []string
	r := newRouter()
	r.GET("/api/dashboard", func(c *gin.Context) {
		got = append(got, c.GetHeader("Authorization"))
		c.JSON(http.StatusOK, gin.H{"total_credit": 10, "total_payment": "4.5"})
	})

	f := newFixture(t, r, signedIn())
	d, err := f.client.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "10", d.TotalCredit.String())
	assert.Equal(t, "4.5", d.TotalPayment.String())
	assert.NotNil(t, d.RecentTransactions)

	anon := newFixture(t, r, session.State{})
	_, err = anon.client.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer tok-123", ""}, got)
}

func TestUnauthorizedClearsSession(t *testing.T) {
	r := newRouter()
	unauthorized := func(c *gin.Context) {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Status: "error", Code: "UNAUTHORIZED", Message: "Token expired"})
	}
	r.GET("/api/dashboard", unauthorized)
	r.GET("/api/offers", unauthorized)
	r.POST("/api/transaction/create", unauthorized)
	r.GET("/api/business/qr-code", unauthorized)

	calls := map[string]func(c *client.Client) error{
		"dashboard": func(c *client.Client) error { _, err := c.Dashboard(context.Background()); return err },
		"offers":    func(c *client.Client) error { _, err := c.Offers(context.Background()); return err },
		"create": func(c *client.Client) error {
			_, err := c.CreateTransaction(context.Background(), models.CreateTransactionRequest{BusinessID: "b", TransactionType: models.Payment}, nil)
			return err
		},
		"qr": func(c *client.Client) error { _, err := c.QRCode(context.Background()); return err },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, r, signedIn())
			err := call(f.client)

			require.Error(t, err)
			assert.True(t, client.IsUnauthorized(err))
			assert.Equal(t, http.StatusUnauthorized, client.StatusCode(err))
			assert.Contains(t, err.Error(), "Token expired")

			persisted, _ := f.store.Load()
			assert.Empty(t, persisted.Token)
			assert.Nil(t, persisted.User)
			assert.False(t, f.sess.Authenticated())
		})
	}
}

func TestUnauthorizedClearsOnlyOnce(t *testing.T) {
	r := newRouter()
	r.GET("/api/profile", func(c *gin.Context) { c.Status(http.StatusUnauthorized) })

	f := newFixture(t, r, signedIn())
	savesBefore := f.store.Saves
	for i := 0; i < 3; i++ {
		_, err := f.client.Profile(context.Background())
		assert.True(t, client.IsUnauthorized(err))
	}
	assert.Equal(t, savesBefore+1, f.store.Saves)
}

func TestUnauthorizedKeepsNewerSession(t *testing.T) {
	var f *fixture
	r := newRouter()
	r.GET("/api/profile", func(c *gin.Context) {
		// the user signs in again while the old request is in flight
		assert.NoError(t, f.sess.Begin("tok-new", &models.User{ID: "u1", Name: "Asha"}))
		c.Status(http.StatusUnauthorized)
	})
	f = newFixture(t, r, signedIn())

	_, err := f.client.Profile(context.Background())
	assert.True(t, client.IsUnauthorized(err))
	assert.Equal(t, "tok-new", f.sess.Token())
	persisted, _ := f.store.Load()
	assert.Equal(t, "tok-new", persisted.Token)
}

func TestOversizedBlobIsAnError(t *testing.T) {
	r := newRouter()
	r.POST("/api/generate-invoice", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/pdf", make([]byte, 32<<20+1))
	})
	r.GET("/api/business/qr-code", func(c *gin.Context) {
		c.Data(http.StatusOK, "image/png", make([]byte, 32<<20))
	})
	f := newFixture(t, r, signedIn())

	_, err := f.client.GenerateInvoice(context.Background(), models.InvoiceRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, client.ErrBlobTooLarge))

	blob, err := f.client.QRCode(context.Background())
	require.NoError(t, err)
	assert.Len(t, blob.Data, 32<<20)
}

func TestNotFoundCollectionsAreEmpty(t *testing.T) {
	r := newRouter()
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})
	f := newFixture(t, r, signedIn())
	ctx := context.Background()

	offers, err := f.client.Offers(ctx)
	require.NoError(t, err)
	assert.NotNil(t, offers)
	assert.Empty(t, offers)

	businesses, err := f.client.Businesses(ctx)
	require.NoError(t, err)
	assert.NotNil(t, businesses)
	assert.Empty(t, businesses)

	vouchers, err := f.client.Vouchers(ctx)
	require.NoError(t, err)
	assert.Empty(t, vouchers)

	// single resources still fail
	_, err = f.client.Business(ctx, "missing")
	assert.True(t, client.IsNotFound(err))
	_, err = f.client.Transactions(ctx)
	assert.True(t, client.IsNotFound(err))

	assert.True(t, f.sess.Authenticated(), "404 leaves the session alone")
}

func TestServerErrorShape(t *testing.T) {
	r := newRouter()
	r.GET("/api/businesses", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "database unavailable"})
	})
	r.GET("/api/offers", func(c *gin.Context) {
		c.String(http.StatusBadGateway, "upstream timed out")
	})
	r.POST("/api/business/connect", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid PIN"})
	})
	f := newFixture(t, r, signedIn())
	ctx := context.Background()

	_, err := f.client.Businesses(ctx)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "database unavailable", apiErr.Message)
	assert.True(t, apiErr.Retryable())
	assert.False(t, client.IsNotFound(err))

	_, err = f.client.Offers(ctx)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "upstream timed out", apiErr.Message)

	_, err = f.client.ConnectBusiness(ctx, "000000")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Invalid PIN", apiErr.Message)
	assert.False(t, apiErr.Retryable())
}

func TestListShapesAreNormalized(t *testing.T) {
	bodies := map[string]string{
		"bare":     `[{"id":"o1","title":"Diwali","discount_percent":"10","is_active":true}]`,
		"data":     `{"data":[{"id":"o1","title":"Diwali","discount_percent":10,"is_active":true}]}`,
		"resource": `{"status":"success","offers":[{"id":"o1","title":"Diwali","discount_percent":10.0,"is_active":true}]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			r := newRouter()
			r.GET("/api/offers", func(c *gin.Context) {
				c.Data(http.StatusOK, "application/json", []byte(body))
			})
			f := newFixture(t, r, signedIn())

			offers, err := f.client.Offers(context.Background())
			require.NoError(t, err)
			require.Len(t, offers, 1)
			assert.Equal(t, "Diwali", offers[0].Title)
			assert.Equal(t, "10", offers[0].DiscountPercent.String())
		})
	}

	r := newRouter()
	r.GET("/api/offers", func(c *gin.Context) { c.Data(http.StatusOK, "application/json", []byte(`{"offers":null}`)) })
	f := newFixture(t, r, signedIn())
	offers, err := f.client.Offers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, offers)
	assert.Empty(t, offers)
}

func TestMalformedAmountDecodesAsZero(t *testing.T) {
	r := newRouter()
	r.GET("/api/business/:id", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(`{
			"business": {"id": "b1", "name": "Sharma Kirana"},
			"transactions": [
				{"id": "t1", "amount": "abc", "transaction_type": "credit", "created_at": "2026-10-16T10:00:00Z"},
				{"id": "t2", "transaction_type": "payment", "created_at": "2026-10-16T11:00:00Z"},
				{"id": "t3", "amount": 12.5, "transaction_type": "payment", "created_at": "2026-10-16T12:00:00Z"},
				{"id": "t4", "amount": 1e99999999, "transaction_type": "credit", "created_at": "2026-10-16T13:00:00Z"},
				{"id": "t5", "amount": -50, "transaction_type": "credit", "created_at": "2026-10-16T14:00:00Z"}
			]
		}`))
	})
	f := newFixture(t, r, signedIn())

	details, err := f.client.Business(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "Sharma Kirana", details.Business.Name)
	require.Len(t, details.Transactions, 5)
	assert.True(t, details.Transactions[0].Amount.Malformed)
	assert.True(t, details.Transactions[0].Amount.IsZero())
	assert.True(t, details.Transactions[1].Amount.IsZero(), "absent amount is zero")
	assert.False(t, details.Transactions[1].Amount.Valid())
	assert.False(t, details.Transactions[2].Amount.Malformed)
	assert.True(t, details.Transactions[2].Amount.Valid())
	assert.Equal(t, "12.5", details.Transactions[2].Amount.String())
	assert.True(t, details.Transactions[3].Amount.Malformed, "exponent form is refused")
	assert.False(t, details.Transactions[4].Amount.Valid(), "negative amount")
}

func TestLoginStartsSession(t *testing.T) {
	r := newRouter()
	r.POST("/api/auth/login", func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Password != "secret1" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid phone or password"})
			return
		}
		c.JSON(http.StatusOK, models.AuthResponse{Token: "fresh", User: &models.User{ID: "u9", Phone: req.Phone}})
	})
	f := newFixture(t, r, session.State{})

	_, err := f.client.Login(context.Background(), models.LoginRequest{Phone: "9876543210", Password: "wrong"})
	assert.True(t, client.IsUnauthorized(err))
	assert.False(t, f.sess.Authenticated())

	resp, err := f.client.Login(context.Background(), models.LoginRequest{Phone: "9876543210", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "fresh", resp.Token)
	assert.Equal(t, "fresh", f.sess.Token())
	assert.Equal(t, "9876543210", f.sess.User().Phone)

	require.NoError(t, f.client.Logout())
	assert.False(t, f.sess.Authenticated())
}

func TestLoginRequiresTokenAndUser(t *testing.T) {
	r := newRouter()
	r.POST("/api/auth/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"token": "only-token"})
	})
	f := newFixture(t, r, session.State{})

	_, err := f.client.Login(context.Background(), models.LoginRequest{Phone: "9876543210", Password: "x"})
	assert.ErrorIs(t, err, client.ErrIncompleteAuth)
	assert.False(t, f.sess.Authenticated())
}

func TestCreateTransactionMultipart(t *testing.T) {
	r := newRouter()
	r.POST("/api/transaction/create", func(c *gin.Context) {
		file, err := c.FormFile("receipt")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "receipt missing"})
			return
		}
		opened, _ := file.Open()
		content, _ := io.ReadAll(opened)
		opened.Close()

		c.JSON(http.StatusCreated, gin.H{"transaction": gin.H{
			"id":               "t1",
			"business_id":      c.PostForm("business_id"),
			"amount":           c.PostForm("amount"),
			"transaction_type": c.PostForm("transaction_type"),
			"notes":            c.PostForm("notes") + "|" + file.Filename + "|" + string(content),
		}})
	})
	f := newFixture(t, r, signedIn())

	txn, err := f.client.CreateTransaction(context.Background(), models.CreateTransactionRequest{
		BusinessID:      "b1",
		Amount:          models.ParseAmount("250.50"),
		TransactionType: models.Payment,
		Notes:           "upi",
	}, &client.Attachment{FileName: "receipt.jpg", Reader: strings.NewReader("jpeg-bytes")})
	require.NoError(t, err)

	assert.Equal(t, "b1", txn.BusinessID)
	assert.Equal(t, "250.5", txn.Amount.String())
	assert.Equal(t, models.Payment, txn.TransactionType)
	assert.Equal(t, "upi|receipt.jpg|jpeg-bytes", txn.Notes)
}

func TestCreateTransactionJSON(t *testing.T) {
	r := newRouter()
	r.POST("/api/transaction/create", func(c *gin.Context) {
		assert.Equal(t, "application/json", c.ContentType())
		var req models.CreateTransactionRequest
		assert.NoError(t, c.ShouldBindJSON(&req))
		c.JSON(http.StatusCreated, models.TransactionResponse{Transaction: models.Transaction{
			ID: "t2", BusinessID: req.BusinessID, Amount: req.Amount, TransactionType: req.TransactionType,
		}})
	})
	f := newFixture(t, r, signedIn())

	txn, err := f.client.CreateTransaction(context.Background(), models.CreateTransactionRequest{
		BusinessID: "b1", Amount: models.ParseAmount("99.99"), TransactionType: models.Credit,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "t2", txn.ID)
	assert.Equal(t, "99.99", txn.Amount.String())
}

func TestBlobEndpoints(t *testing.T) {
	r := newRouter()
	r.POST("/api/generate-invoice", func(c *gin.Context) {
		var req models.InvoiceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/pdf", []byte("%PDF-1.3 "+req.BuyerName))
	})
	r.GET("/api/profile/qr", func(c *gin.Context) {
		c.Data(http.StatusOK, "image/png", []byte{0x89, 'P', 'N', 'G'})
	})
	f := newFixture(t, r, signedIn())
	ctx := context.Background()

	pdf, err := f.client.GenerateInvoice(ctx, models.InvoiceRequest{
		BuyerName: "Asha", BuyerAddress: "a", BuyerCity: "c", BuyerState: "s", BuyerPincode: "411001",
		Items: []models.InvoiceItemRequest{{Description: "x"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType)
	assert.Equal(t, "%PDF-1.3 Asha", string(pdf.Data))

	qr, err := f.client.QRCode(ctx)
	require.NoError(t, err, "falls back to the profile route on 404")
	assert.Equal(t, "image/png", qr.ContentType)
	assert.True(t, strings.HasPrefix(qr.DataURI(), "data:image/png;base64,"))
}

func TestPublicProductsSearch(t *testing.T) {
	r := newRouter()
	r.GET("/api/products/public", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"products": []gin.H{{"id": "p1", "name": c.Query("search"), "price": 40}}})
	})
	f := newFixture(t, r, session.State{})

	products, err := f.client.PublicProducts(context.Background(), "basmati rice")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "basmati rice", products[0].Name)
}

func TestTimeoutIsNetworkError(t *testing.T) {
	r := newRouter()
	r.GET("/api/dashboard", func(c *gin.Context) {
		time.Sleep(300 * time.Millisecond)
		c.JSON(http.StatusOK, gin.H{})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	sess, err := session.NewManager(session.NewMemoryStore(signedIn()))
	require.NoError(t, err)
	c := client.NewClient(srv.URL, 50*time.Millisecond, sess, utils.Discard())

	_, err = c.Dashboard(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, client.StatusCode(err))
	assert.True(t, sess.Authenticated())
}
