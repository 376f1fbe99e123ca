package client

import (
	"context"
	"net/http"

	"github.com/ekthaa/customer-client/internal/models"
)

// GenerateInvoice sends a validated invoice to the PDF generator and returns
// the PDF.
func (c *Client) GenerateInvoice(ctx context.Context, req models.InvoiceRequest) (*Blob, error) {
	return c.doBlob(ctx, http.MethodPost, "/api/generate-invoice", req)
}

// QRCode fetches the QR image a business shows for connecting. Older
// deployments only serve it from the profile route.
func (c *Client) QRCode(ctx context.Context) (*Blob, error) {
	blob, err := c.doBlob(ctx, http.MethodGet, "/api/business/qr-code", nil)
	if err == nil {
		return blob, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}
	return c.doBlob(ctx, http.MethodGet, "/api/profile/qr", nil)
}
