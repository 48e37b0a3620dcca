package backend

import (
	"context"

	"go.uber.org/zap"

	"github.com/amiranbari/telestore/internal/errs"
	"github.com/amiranbari/telestore/internal/model"
)

// GetUserInfo returns the account summary. When the identity is absent no
// call is made; on failure the error is logged and a zero summary returned.
func (c *Client) GetUserInfo(ctx context.Context) model.UserInfo {
	if c.userID == 0 {
		return model.UserInfo{}
	}
	var out model.UserInfo
	if err := c.invoke(ctx, "getUserInfo", nil, false, &out); err != nil {
		c.log.Warn("get user info", zap.Error(err))
		return model.UserInfo{}
	}
	return out
}

// GetCategories lists product categories; empty on failure (logged).
func (c *Client) GetCategories(ctx context.Context) []model.Category {
	var out struct {
		Categories []model.Category `json:"categories"`
	}
	if err := c.invoke(ctx, "getCategories", nil, false, &out); err != nil {
		c.log.Warn("get categories", zap.Error(err))
		return nil
	}
	return out.Categories
}

// GetProducts lists the catalog, optionally pre-filtered by category on the
// backend side; empty on failure (logged).
func (c *Client) GetProducts(ctx context.Context, categoryID int64) []model.Product {
	params := map[string]any{}
	if categoryID != 0 {
		params["category_id"] = categoryID
	}
	var out struct {
		Products []model.Product `json:"products"`
	}
	if err := c.invoke(ctx, "getProducts", params, false, &out); err != nil {
		c.log.Warn("get products", zap.Int64("category_id", categoryID), zap.Error(err))
		return nil
	}
	return out.Products
}

// GetServices lists owned services filtered by status tab and free-text
// search (both delegated to the backend); empty on failure (logged).
func (c *Client) GetServices(ctx context.Context, filter model.StatusFilter, search string) []model.Service {
	if filter == "" {
		filter = model.FilterAll
	}
	var out struct {
		Services []model.Service `json:"services"`
	}
	params := map[string]any{"status": string(filter), "search": search}
	if err := c.invoke(ctx, "getServices", params, false, &out); err != nil {
		c.log.Warn("get services", zap.String("status", string(filter)), zap.Error(err))
		return nil
	}
	return out.Services
}

// GetServiceDetail returns one owned service. Unlike the list reads the
// failure is surfaced: the detail view has no sensible empty state.
// A present envelope without a service maps to errs.ErrNotFound.
func (c *Client) GetServiceDetail(ctx context.Context, username string) (*model.Service, error) {
	var out struct {
		Service *model.Service `json:"service"`
	}
	if err := c.invoke(ctx, "getServiceDetail", map[string]any{"username": username}, false, &out); err != nil {
		return nil, err
	}
	if out.Service == nil {
		return nil, errs.ErrNotFound
	}
	return out.Service, nil
}

// BuyService debits the wallet for quantity units of the product. Failures
// propagate; an explicit failure flag is returned, not an error.
func (c *Client) BuyService(ctx context.Context, productID int64, quantity int) (model.PurchaseResult, error) {
	if quantity <= 0 {
		quantity = 1
	}
	var out model.PurchaseResult
	params := map[string]any{"product_id": productID, "quantity": quantity}
	if err := c.invoke(ctx, "buyService", params, true, &out); err != nil {
		return model.PurchaseResult{}, err
	}
	c.log.Info("purchase",
		zap.Int64("product_id", productID),
		zap.Int("quantity", quantity),
		zap.Bool("success", out.Success),
	)
	return out, nil
}

// RenewService is a purchase scoped to an existing username.
func (c *Client) RenewService(ctx context.Context, username string, productID int64) (model.PurchaseResult, error) {
	var out model.PurchaseResult
	params := map[string]any{"username": username, "product_id": productID}
	if err := c.invoke(ctx, "renew", params, true, &out); err != nil {
		return model.PurchaseResult{}, err
	}
	c.log.Info("renew",
		zap.String("username", username),
		zap.Int64("product_id", productID),
		zap.Bool("success", out.Success),
	)
	return out, nil
}

// GetSubscriptionLink fetches the access URL for a service.
func (c *Client) GetSubscriptionLink(ctx context.Context, username string) (model.SubscriptionLink, error) {
	var out model.SubscriptionLink
	if err := c.invoke(ctx, "getSubscriptionLink", map[string]any{"username": username}, false, &out); err != nil {
		return model.SubscriptionLink{}, err
	}
	return out, nil
}
