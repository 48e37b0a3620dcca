// Package backend adapts the remote storefront API to one stable domain
// interface. The backend is a single HTTP endpoint with two observed
// request/envelope variants; callers never see raw envelope fields.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/amiranbari/telestore/internal/config"
	"github.com/amiranbari/telestore/internal/errs"
	"github.com/amiranbari/telestore/internal/model"
)

// API is the domain interface consumed by view flows. The failure policy is
// part of the signatures: list/summary reads degrade to empty results, the
// detail read and all mutations surface their errors.
type API interface {
	GetUserInfo(ctx context.Context) model.UserInfo
	GetCategories(ctx context.Context) []model.Category
	GetProducts(ctx context.Context, categoryID int64) []model.Product
	GetServices(ctx context.Context, filter model.StatusFilter, search string) []model.Service
	GetServiceDetail(ctx context.Context, username string) (*model.Service, error)
	BuyService(ctx context.Context, productID int64, quantity int) (model.PurchaseResult, error)
	RenewService(ctx context.Context, username string, productID int64) (model.PurchaseResult, error)
	GetSubscriptionLink(ctx context.Context, username string) (model.SubscriptionLink, error)
}

// Options configures a Client. The credential and identity are passed in
// explicitly; the adapter holds no global state.
type Options struct {
	Endpoint string
	Variant  string // config.VariantAction or config.VariantQuery
	Token    string // bearer credential, used by the query variant
	UserID   int64  // platform identity; zero means absent
	Timeout  time.Duration
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Client implements API over the configured backend variant.
type Client struct {
	endpoint string
	variant  string
	token    string
	userID   int64
	http     *http.Client
	log      *zap.Logger
}

var _ API = (*Client)(nil)

// New constructs a Client. The logger is required: read failures are logged
// here and nowhere else.
func New(opts Options, log *zap.Logger) (*Client, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("backend: endpoint required")
	}
	if opts.Variant == "" {
		opts.Variant = config.VariantAction
	}
	if opts.Variant != config.VariantAction && opts.Variant != config.VariantQuery {
		return nil, fmt.Errorf("backend: unknown variant %q", opts.Variant)
	}
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		endpoint: opts.Endpoint,
		variant:  opts.Variant,
		token:    opts.Token,
		userID:   opts.UserID,
		http:     hc,
		log:      log,
	}, nil
}

// call performs one backend request and returns the normalized payload.
// Mutating calls carry a correlation id so retries can be traced server-side.
func (c *Client) call(ctx context.Context, action string, params map[string]any, mutating bool) (json.RawMessage, error) {
	var req *http.Request
	var err error

	switch c.variant {
	case config.VariantQuery:
		req, err = c.queryRequest(ctx, action, params)
	default:
		req, err = c.actionRequest(ctx, action, params)
	}
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if mutating {
		if rid, uerr := uuid.NewV4(); uerr == nil {
			req.Header.Set("X-Request-Id", rid.String())
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", action, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%s: %w", action, errs.ErrUnauthorized)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%s: unexpected status code: %d", action, resp.StatusCode)
	}

	payload, err := decodeEnvelope(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	return payload, nil
}

// actionRequest builds the POST variant: JSON body {action, ...params} with
// the identity in the X-Telegram-User-Id header.
func (c *Client) actionRequest(ctx context.Context, action string, params map[string]any) (*http.Request, error) {
	body := map[string]any{"action": action}
	for k, v := range params {
		body[k] = v
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.userID != 0 {
		req.Header.Set("X-Telegram-User-Id", fmt.Sprint(c.userID))
	}
	return req, nil
}

// queryRequest builds the GET variant: ?actions=<name>&user_id=<id>&... with
// the bearer credential in the Authorization header.
func (c *Client) queryRequest(ctx context.Context, action string, params map[string]any) (*http.Request, error) {
	q := url.Values{}
	q.Set("actions", queryAction(action))
	if c.userID != 0 {
		q.Set("user_id", fmt.Sprint(c.userID))
	}
	for k, v := range params {
		q.Set(k, fmt.Sprint(v))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// invoke runs call and unmarshals the payload into out.
func (c *Client) invoke(ctx context.Context, action string, params map[string]any, mutating bool, out any) error {
	payload, err := c.call(ctx, action, params, mutating)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%s: %w: %v", action, errs.ErrMalformedResponse, err)
	}
	return nil
}
