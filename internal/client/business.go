package client

import (
	"context"
	"net/http"

	"github.com/ekthaa/customer-client/internal/models"
)

// Dashboard fetches the home screen summary.
func (c *Client) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	var resp models.DashboardResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/dashboard", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Dashboard.RecentTransactions == nil {
		resp.Dashboard.RecentTransactions = []models.Transaction{}
	}
	if resp.Dashboard.Businesses == nil {
		resp.Dashboard.Businesses = []models.BusinessSummary{}
	}
	return &resp.Dashboard, nil
}

// Businesses lists the businesses the customer is connected to. A 404 means
// none.
func (c *Client) Businesses(ctx context.Context) ([]models.Business, error) {
	var resp models.BusinessesResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/businesses", nil, &resp)
	return emptyOn404(resp.Businesses, err)
}

// Business fetches one business with the customer's ledger there.
func (c *Client) Business(ctx context.Context, id string) (*models.BusinessDetails, error) {
	var resp models.BusinessDetailsResponse
	if err := c.doJSON(ctx, http.MethodGet, idPath("/api/business/%s", id), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Details.Transactions == nil {
		resp.Details.Transactions = []models.Transaction{}
	}
	return &resp.Details, nil
}

// BusinessProfile fetches the public profile of a business.
func (c *Client) BusinessProfile(ctx context.Context, id string) (*models.BusinessProfile, error) {
	var resp models.BusinessProfileResponse
	if err := c.doJSON(ctx, http.MethodGet, idPath("/api/business/%s/profile", id), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Profile.Products == nil {
		resp.Profile.Products = []models.Product{}
	}
	if resp.Profile.Offers == nil {
		resp.Profile.Offers = []models.Offer{}
	}
	return &resp.Profile, nil
}

// ConnectBusiness links the customer to the business owning pin.
func (c *Client) ConnectBusiness(ctx context.Context, pin string) (*models.ConnectBusinessResponse, error) {
	var resp models.ConnectBusinessResponse
	req := models.ConnectBusinessRequest{AccessPIN: pin}
	if err := c.doJSON(ctx, http.MethodPost, "/api/business/connect", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Transactions lists every transaction of the customer across businesses.
func (c *Client) Transactions(ctx context.Context) ([]models.Transaction, error) {
	var resp models.TransactionsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/transactions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}
