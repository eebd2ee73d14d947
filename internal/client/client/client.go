package client

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
	"sync"
	"time"

	"github.com/dmitrijs2005/kasir/internal/client/models"
	"github.com/dmitrijs2005/kasir/internal/common"
)

// envelope mirrors the server response body.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Total   *int            `json:"total"`
}

type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) setToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) getToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do sends body as JSON and decodes the envelope data into out (if not nil).
func (c *HTTPClient) do(ctx context.Context, method, path string, auth bool, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if auth {
		token := c.getToken()
		if token == "" {
			return ErrNotLoggedIn
		}
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		if resp.StatusCode >= http.StatusBadRequest {
			return &APIError{StatusCode: resp.StatusCode}
		}
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", false, nil, nil)
}

func (c *HTTPClient) Register(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	return c.do(ctx, http.MethodPost, "/auth/register", false, body, nil)
}

// Login authenticates and keeps the token for later calls.
func (c *HTTPClient) Login(ctx context.Context, username, password string) (*models.Token, error) {
	body := map[string]string{"username": username, "password": password}

	var token models.Token
	if err := c.do(ctx, http.MethodPost, "/auth/login", false, body, &token); err != nil {
		return nil, err
	}
	c.setToken(token.Token)
	return &token, nil
}

// Logout forgets the token. Tokens are stateless so nothing is sent.
func (c *HTTPClient) Logout() {
	c.setToken("")
}

func (c *HTTPClient) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", true, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *HTTPClient) CreateTransaction(ctx context.Context, buyerName, productCode string) (*models.Transaction, error) {
	body := map[string]string{"buyer_name": buyerName, "product_code": productCode}

	var tx models.Transaction
	if err := c.do(ctx, http.MethodPost, "/api/transactions", true, body, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// History lists transactions, optionally only those of buyer.
func (c *HTTPClient) History(ctx context.Context, buyer string) ([]models.Transaction, error) {
	path := "/api/history"
	if buyer != "" {
		path += "?" + url.Values{"buyer": {buyer}}.Encode()
	}

	var records []models.Transaction
	if err := c.do(ctx, http.MethodGet, path, true, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *HTTPClient) Report(ctx context.Context) (*models.Report, error) {
	var report models.Report
	if err := c.do(ctx, http.MethodGet, "/api/report", true, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
