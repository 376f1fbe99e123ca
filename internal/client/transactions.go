package client

import (
	"context"
	"net/http"

	"github.com/ekthaa/customer-client/internal/models"
)

// CreateTransaction records a credit or payment. With a receipt the request
// is sent as multipart form data, otherwise as JSON.
func (c *Client) CreateTransaction(ctx context.Context, req models.CreateTransactionRequest, receipt *Attachment) (*models.Transaction, error) {
	var resp models.TransactionResponse
	const path = "/api/transaction/create"

	if receipt == nil {
		if err := c.doJSON(ctx, http.MethodPost, path, req, &resp); err != nil {
			return nil, err
		}
		return &resp.Transaction, nil
	}

	if receipt.FieldName == "" {
		receipt.FieldName = "receipt"
	}
	fields := map[string]string{
		"business_id":      req.BusinessID,
		"amount":           req.Amount.String(),
		"transaction_type": string(req.TransactionType),
	}
	if req.Notes != "" {
		fields["notes"] = req.Notes
	}
	if err := c.doMultipart(ctx, http.MethodPost, path, fields, receipt, &resp); err != nil {
		return nil, err
	}
	return &resp.Transaction, nil
}
