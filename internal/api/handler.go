package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ekthaa/customer-client/internal/models"
	"github.com/ekthaa/customer-client/internal/service"
	"github.com/ekthaa/customer-client/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxReceiptSize caps uploaded receipt photos
const maxReceiptSize = 8 << 20

// Handler serves the REST API on top of a Service
type Handler struct {
	svc       service.Service
	logger    *utils.Logger
	uploadDir string
}

// NewHandler creates a new API handler. Receipts are stored under uploadDir.
func NewHandler(svc service.Service, logger *utils.Logger, uploadDir string) *Handler {
	if uploadDir == "" {
		uploadDir = filepath.Join(os.TempDir(), "ekthaa-receipts")
	}
	return &Handler{
		svc:       svc,
		logger:    logger,
		uploadDir: uploadDir,
	}
}

// SetupRoutes registers every route on router
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.MaxMultipartMemory = maxReceiptSize
	router.Static("/uploads", h.uploadDir)

	// Public routes
	public := router.Group("/api")
	{
		public.POST("/auth/register", h.Register)
		public.POST("/auth/login", h.Login)
		public.GET("/products/public", h.PublicProducts)
		public.GET("/business/:id/profile", h.BusinessProfile)
	}

	// Protected routes
	protected := router.Group("/api")
	protected.Use(AuthMiddleware())
	{
		protected.POST("/auth/change-password", h.ChangePassword)
		protected.GET("/profile", h.GetProfile)
		protected.PUT("/profile", h.UpdateProfile)

		protected.GET("/dashboard", h.Dashboard)
		protected.GET("/businesses", h.Businesses)
		protected.GET("/business/:id", h.BusinessDetails)
		protected.POST("/business/connect", h.ConnectBusiness)

		protected.GET("/transactions", h.Transactions)
		protected.POST("/transaction/create", h.CreateTransaction)

		protected.GET("/products", h.Products)
		protected.POST("/product", h.CreateProduct)
		protected.PUT("/product/:id", h.UpdateProduct)
		protected.DELETE("/product/:id", h.DeleteProduct)

		protected.GET("/offers", h.Offers)
		protected.POST("/offer", h.CreateOffer)
		protected.PUT("/offer/:id", h.UpdateOffer)
		protected.DELETE("/offer/:id", h.DeleteOffer)
		protected.PUT("/offer/:id/toggle", h.ToggleOffer)

		protected.POST("/generate-invoice", h.GenerateInvoice)
	}
}

// Auth handlers
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if !h.bind(c, &req) {
		return
	}

	err := h.svc.ChangePassword(c.Request.Context(), UserID(c), req)
	// A wrong current password must not look like an expired session
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.respondError(c, http.StatusBadRequest, "INVALID_PASSWORD", "Current password is incorrect")
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Status: "success", Message: "Password changed"})
}

// Profile handlers
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.svc.GetProfile(c.Request.Context(), UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "user": user})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if !h.bind(c, &req) {
		return
	}

	user, err := h.svc.UpdateProfile(c.Request.Context(), UserID(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "user": user})
}

// Business handlers
func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, err := h.svc.Dashboard(c.Request.Context(), UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": dashboard})
}

func (h *Handler) Businesses(c *gin.Context) {
	businesses, err := h.svc.Businesses(c.Request.Context(), UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "businesses": businesses})
}

func (h *Handler) BusinessDetails(c *gin.Context) {
	details, err := h.svc.BusinessDetails(c.Request.Context(), UserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": details})
}

func (h *Handler) BusinessProfile(c *gin.Context) {
	profile, err := h.svc.BusinessProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "profile": profile})
}

func (h *Handler) ConnectBusiness(c *gin.Context) {
	var req models.ConnectBusinessRequest
	if !h.bind(c, &req) {
		return
	}

	business, err := h.svc.ConnectBusiness(c.Request.Context(), UserID(c), req.AccessPIN)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ConnectBusinessResponse{
		Status:   "success",
		Message:  "Connected to " + business.Name,
		Business: *business,
	})
}

// Transaction handlers
func (h *Handler) Transactions(c *gin.Context) {
	txs, err := h.svc.Transactions(c.Request.Context(), UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "transactions": txs})
}

// CreateTransaction accepts a JSON body, or multipart form data carrying a
// receipt photo in the "receipt" field.
func (h *Handler) CreateTransaction(c *gin.Context) {
	var req models.CreateTransactionRequest
	var receiptURL string

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBind(&req); err != nil {
			h.respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
			return
		}
		req.Amount = models.ParseAmount(c.PostForm("amount"))

		if file, err := c.FormFile("receipt"); err == nil {
			if file.Size > maxReceiptSize {
				h.respondError(c, http.StatusRequestEntityTooLarge, "RECEIPT_TOO_LARGE", "Receipt must be at most 8 MB")
				return
			}
			name := uuid.New().String() + strings.ToLower(filepath.Ext(file.Filename))
			if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
				h.fail(c, fmt.Errorf("error creating upload dir: %w", err))
				return
			}
			if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, name)); err != nil {
				h.fail(c, fmt.Errorf("error saving receipt: %w", err))
				return
			}
			receiptURL = "/uploads/" + name
		}
	} else if !h.bind(c, &req) {
		return
	}

	txn, err := h.svc.CreateTransaction(c.Request.Context(), UserID(c), req, receiptURL)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Info("Transaction %s recorded: %s %s", txn.ID, txn.TransactionType, txn.Amount.String())
	c.JSON(http.StatusCreated, gin.H{"status": "success", "transaction": txn})
}

// Catalog handlers
func (h *Handler) PublicProducts(c *gin.Context) {
	products, err := h.svc.PublicProducts(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "products": products})
}

func (h *Handler) Products(c *gin.Context) {
	products, err := h.svc.Products(c.Request.Context(), UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "products": products})
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req models.ProductRequest
	if !h.bind(c, &req) {
		return
	}

	product, err := h.svc.CreateProduct(c.Request.Context(), UserID(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "product": product})
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	var req models.ProductRequest
	if !h.bind(c, &req) {
		return
	}

	product, err := h.svc.UpdateProduct(c.Request.Context(), UserID(c), c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "product": product})
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.svc.DeleteProduct(c.Request.Context(), UserID(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Status: "success", Message: "Product deleted"})
}

// Offer handlers
func (h *Handler) Offers(c *gin.Context) {
	offers, err := h.svc.Offers(c.Request.Context(), UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "offers": offers})
}

func (h *Handler) CreateOffer(c *gin.Context) {
	var req models.OfferRequest
	if !h.bind(c, &req) {
		return
	}

	offer, err := h.svc.CreateOffer(c.Request.Context(), UserID(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "offer": offer})
}

func (h *Handler) UpdateOffer(c *gin.Context) {
	var req models.OfferRequest
	if !h.bind(c, &req) {
		return
	}

	offer, err := h.svc.UpdateOffer(c.Request.Context(), UserID(c), c.Param("id"), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "offer": offer})
}

func (h *Handler) DeleteOffer(c *gin.Context) {
	if err := h.svc.DeleteOffer(c.Request.Context(), UserID(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Status: "success", Message: "Offer deleted"})
}

func (h *Handler) ToggleOffer(c *gin.Context) {
	offer, err := h.svc.ToggleOffer(c.Request.Context(), UserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "offer": offer})
}

// Document handlers
func (h *Handler) GenerateInvoice(c *gin.Context) {
	var req models.InvoiceRequest
	if !h.bind(c, &req) {
		return
	}

	pdf, err := h.svc.GenerateInvoice(c.Request.Context(), UserID(c), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="invoice.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Helper functions
func (h *Handler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return false
	}
	return true
}

func (h *Handler) respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, models.ErrorResponse{
		Status:  "error",
		Code:    code,
		Message: message,
	})
}

// fail maps service errors onto HTTP status codes
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserExists):
		h.respondError(c, http.StatusConflict, "USER_EXISTS", err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		h.respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
	case errors.Is(err, service.ErrNotFound):
		h.respondError(c, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	case errors.Is(err, service.ErrInvalidPIN):
		h.respondError(c, http.StatusBadRequest, "INVALID_PIN", err.Error())
	case errors.Is(err, service.ErrForbidden):
		h.respondError(c, http.StatusForbidden, "FORBIDDEN", "Access denied")
	case errors.Is(err, service.ErrInvalidAmount), errors.Is(err, service.ErrInvalidInput):
		h.respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	default:
		h.logger.Error("%s %s: %v", c.Request.Method, c.FullPath(), err)
		h.respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
