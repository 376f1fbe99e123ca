package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ekthaa/customer-client/internal/models"
)

// PublicProducts searches the public catalog.
func (c *Client) PublicProducts(ctx context.Context, search string) ([]models.Product, error) {
	path := "/api/products/public"
	if search != "" {
		path += "?" + url.Values{"search": {search}}.Encode()
	}
	var resp models.ProductsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// Products lists the caller's own products.
func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var resp models.ProductsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/products", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

func (c *Client) CreateProduct(ctx context.Context, req models.ProductRequest) (*models.Product, error) {
	var resp models.ProductResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/product", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, req models.ProductRequest) (*models.Product, error) {
	var resp models.ProductResponse
	if err := c.doJSON(ctx, http.MethodPut, idPath("/api/product/%s", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp.Product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, idPath("/api/product/%s", id), nil, nil)
}

// Offers lists offers. A 404 means the offers feature is off: no offers.
func (c *Client) Offers(ctx context.Context) ([]models.Offer, error) {
	var resp models.OffersResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/offers", nil, &resp)
	return emptyOn404(resp.Offers, err)
}

func (c *Client) CreateOffer(ctx context.Context, req models.OfferRequest) (*models.Offer, error) {
	var resp models.OfferResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/offer", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Offer, nil
}

func (c *Client) UpdateOffer(ctx context.Context, id string, req models.OfferRequest) (*models.Offer, error) {
	var resp models.OfferResponse
	if err := c.doJSON(ctx, http.MethodPut, idPath("/api/offer/%s", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp.Offer, nil
}

func (c *Client) DeleteOffer(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, idPath("/api/offer/%s", id), nil, nil)
}

// ToggleOffer flips an offer between active and inactive.
func (c *Client) ToggleOffer(ctx context.Context, id string) (*models.Offer, error) {
	var resp models.OfferResponse
	if err := c.doJSON(ctx, http.MethodPut, idPath("/api/offer/%s/toggle", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Offer, nil
}

// Vouchers lists vouchers. A 404 means none.
func (c *Client) Vouchers(ctx context.Context) ([]models.Voucher, error) {
	var resp models.VouchersResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/vouchers", nil, &resp)
	return emptyOn404(resp.Vouchers, err)
}

func (c *Client) CreateVoucher(ctx context.Context, req models.VoucherRequest) (*models.Voucher, error) {
	var resp models.VoucherResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/voucher", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Voucher, nil
}

func (c *Client) UpdateVoucher(ctx context.Context, id string, req models.VoucherRequest) (*models.Voucher, error) {
	var resp models.VoucherResponse
	if err := c.doJSON(ctx, http.MethodPut, idPath("/api/voucher/%s", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp.Voucher, nil
}

func (c *Client) DeleteVoucher(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, idPath("/api/voucher/%s", id), nil, nil)
}

func (c *Client) ToggleVoucher(ctx context.Context, id string) (*models.Voucher, error) {
	var resp models.VoucherResponse
	if err := c.doJSON(ctx, http.MethodPut, idPath("/api/voucher/%s/toggle", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Voucher, nil
}
