package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/client/models"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"golang.org/x/time/rate"
)

type HTTPGateway struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        logging.Logger
}

type Option func(*HTTPGateway)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *HTTPGateway) { g.httpClient = c }
}

// WithRateLimit paces outgoing requests to rps per second with the given
// burst. rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(g *HTTPGateway) {
		if rps <= 0 {
			g.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithLogger(l logging.Logger) Option {
	return func(g *HTTPGateway) { g.log = l }
}

func NewHTTPGateway(baseURL string, opts ...Option) *HTTPGateway {
	g := &HTTPGateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		log:        logging.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.With("component", "gateway")
	return g
}

func (g *HTTPGateway) Products(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := g.do(ctx, http.MethodGet, "/productos", nil, &out, "failed to load products"); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *HTTPGateway) Users(ctx context.Context) ([]models.UserRecord, error) {
	var out []models.UserRecord
	if err := g.do(ctx, http.MethodGet, "/usuarios", nil, &out, "failed to load users"); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *HTTPGateway) CreateUser(ctx context.Context, u models.UserRecord) (models.UserRecord, error) {
	var out models.UserRecord
	if err := g.do(ctx, http.MethodPost, "/usuarios", u, &out, "failed to register user"); err != nil {
		return models.UserRecord{}, err
	}
	return out, nil
}

func (g *HTTPGateway) UpdateUser(ctx context.Context, id models.ID, u models.UserRecord) (models.UserRecord, error) {
	var out models.UserRecord
	if err := g.do(ctx, http.MethodPut, "/usuarios/"+url.PathEscape(id.String()), u, &out, "failed to update user"); err != nil {
		return models.UserRecord{}, err
	}
	return out, nil
}

func (g *HTTPGateway) ChangePassword(ctx context.Context, id models.ID, current, next string) error {
	body := models.PasswordChange{Current: current, Next: next}
	return g.do(ctx, http.MethodPut, "/usuarios/"+url.PathEscape(id.String())+"/password", body, nil, "failed to change password")
}

func (g *HTTPGateway) Login(ctx context.Context, email, password string) (models.Identity, error) {
	var out models.Identity
	body := models.Credentials{Email: email, Password: password}
	if err := g.do(ctx, http.MethodPost, "/login", body, &out, "login failed"); err != nil {
		return models.Identity{}, err
	}
	return out, nil
}

func (g *HTTPGateway) Orders(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	if err := g.do(ctx, http.MethodGet, "/ordenes", nil, &out, "failed to load orders"); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *HTTPGateway) OrdersByUser(ctx context.Context, userID models.ID) ([]models.Order, error) {
	var out []models.Order
	path := "/ordenes?" + url.Values{"usuarioId": {userID.String()}}.Encode()
	if err := g.do(ctx, http.MethodGet, path, nil, &out, "failed to load orders"); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *HTTPGateway) CreateOrder(ctx context.Context, o models.Order) (models.Order, error) {
	var out models.Order
	if err := g.do(ctx, http.MethodPost, "/ordenes", o, &out, "failed to create order"); err != nil {
		return models.Order{}, err
	}
	return out, nil
}

func (g *HTTPGateway) Order(ctx context.Context, id models.ID) (models.Order, error) {
	var out models.Order
	if err := g.do(ctx, http.MethodGet, "/ordenes/"+url.PathEscape(id.String()), nil, &out, "failed to load order"); err != nil {
		return models.Order{}, err
	}
	return out, nil
}

func (g *HTTPGateway) CancelOrder(ctx context.Context, id models.ID) (*models.Order, error) {
	var raw json.RawMessage
	if err := g.do(ctx, http.MethodDelete, "/ordenes/"+url.PathEscape(id.String()), nil, &raw, "failed to cancel order"); err != nil {
		return nil, err
	}
	return decodeCancelled(raw), nil
}

// decodeCancelled extracts a full order from a cancel response. Confirmation
// objects ({"message": ...}), empty bodies and anything without an id yield nil.
func decodeCancelled(raw json.RawMessage) *models.Order {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var o models.Order
	if err := json.Unmarshal(raw, &o); err != nil || o.ID.IsZero() {
		return nil
	}
	return &o
}

// do performs one JSON round-trip. in is marshalled as the request body when
// non-nil; out receives the decoded success body when non-nil. A
// *json.RawMessage out accepts an empty body.
func (g *HTTPGateway) do(ctx context.Context, method, path string, in, out any, fallback string) error {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %w", common.ErrNetwork, err)
		}
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", common.ContentTypeJSON)
	if in != nil {
		req.Header.Set("Content-Type", common.ContentTypeJSON)
	}

	log := g.log.With("method", method, "path", path)
	log.Debug(ctx, "sending request")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		return fmt.Errorf("%w: %w", common.ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", common.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn(ctx, "backend returned non-success status", "status", resp.StatusCode)
		return mapStatus(resp.StatusCode, respBody, fallback)
	}

	if out == nil {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], respBody...)
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &common.Error{Kind: common.ErrRemote, Status: resp.StatusCode, Message: "unexpected response from server"}
	}
	return nil
}

// mapStatus converts a non-2xx answer into a classified *common.Error.
func mapStatus(status int, body []byte, fallback string) error {
	msg := fallback
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		msg = payload.Error
	}

	kind := common.ErrRemote
	switch status {
	case http.StatusNotFound:
		kind = common.ErrNotFound
	case http.StatusConflict:
		kind = common.ErrConflict
	}
	return &common.Error{Kind: kind, Status: status, Message: msg}
}

// IsRemote reports whether err carries a backend verdict (as opposed to a
// transport or local failure) and returns it.
func IsRemote(err error) (*common.Error, bool) {
	var e *common.Error
	if errors.As(err, &e) && e.Status != 0 {
		return e, true
	}
	return nil, false
}
