package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ekthaa/customer-client/internal/api"
	"github.com/ekthaa/customer-client/internal/repository"
	"github.com/ekthaa/customer-client/internal/service"
	"github.com/ekthaa/customer-client/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key"

// TestContext holds all dependencies for tests
type TestContext struct {
	Router      *gin.Engine
	Repository  *repository.MemoryRepository
	Service     service.Service
	JWTSecret   []byte
	Seed        *service.SeedResult
	CustomerJWT string
	MerchantJWT string
}

// SetupTestContext builds a router over a seeded in-memory repository
func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()

	repo := repository.NewMemoryRepository()
	seeded, err := service.Seed(context.Background(), repo, time.Now())
	require.NoError(t, err, "Failed to seed repository")

	svc := service.NewDefaultService(repo, testJWTSecret, time.Hour)
	handler := api.NewHandler(svc, utils.Discard(), t.TempDir())

	// Set up Gin router
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(api.JWTSecretMiddleware([]byte(testJWTSecret)))
	handler.SetupRoutes(router)

	return &TestContext{
		Router:      router,
		Repository:  repo,
		Service:     svc,
		JWTSecret:   []byte(testJWTSecret),
		Seed:        seeded,
		CustomerJWT: Token(t, seeded.Customer.ID, time.Hour),
		MerchantJWT: Token(t, seeded.Merchant.ID, time.Hour),
	}
}

// Token signs a token for userID valid for ttl. A negative ttl yields an
// expired token.
func Token(t *testing.T, userID string, ttl time.Duration) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	})

	tokenString, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err, "Failed to generate JWT token")
	return tokenString
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	if body != nil {
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// AuthHeaders returns headers with Authorization token
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}
