package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/kasir/internal/common"
	"github.com/dmitrijs2005/kasir/internal/server/models"
	"github.com/dmitrijs2005/kasir/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type fakeUsers struct {
	registerErr error
	loginErr    error
}

func (f *fakeUsers) Register(_ context.Context, username, _ string) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &models.User{UserName: username}, nil
}

func (f *fakeUsers) Login(context.Context, string, string) (*services.Token, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &services.Token{Token: "good"}, nil
}

func (f *fakeUsers) Authenticate(_ context.Context, token string) (string, error) {
	switch token {
	case "good":
		return "bob", nil
	case "old":
		return "", common.ErrTokenExpired
	default:
		return "", common.ErrTokenMalformed
	}
}

type fakeTransactions struct {
	err        error
	panicWith  any
	lastBuyer  string
	lastFilter string
}

func (f *fakeTransactions) Create(_ context.Context, operator, buyer, code string) (*models.Transaction, error) {
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	if f.err != nil {
		return nil, f.err
	}
	f.lastBuyer = buyer
	return &models.Transaction{BuyerName: buyer, ProductCode: code, Operator: operator, Price: 1}, nil
}

func (f *fakeTransactions) ListAll(context.Context) ([]models.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return nil, nil
}

func (f *fakeTransactions) ListByBuyer(_ context.Context, buyer string) ([]models.Transaction, error) {
	f.lastFilter = buyer
	return []models.Transaction{{BuyerName: buyer}}, nil
}

func (f *fakeTransactions) Products() []models.Product {
	return []models.Product{{Code: "ML_86"}}
}

type fakeReports struct{ err error }

func (f *fakeReports) Report(context.Context) (*services.Report, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.Report{}, nil
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

func fakeOptions() (Options, *fakeUsers, *fakeTransactions, *fakeReports) {
	u, tx, r := &fakeUsers{}, &fakeTransactions{}, &fakeReports{}
	return Options{Users: u, Transactions: tx, Reports: r, DB: fakePinger{}, Version: "1.2.3"}, u, tx, r
}

func TestIndex(t *testing.T) {
	opts, _, _, _ := fakeOptions()
	h := newTestServer(t, opts).Handler()

	w, resp := do(t, h, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	b := decode[banner](t, resp.Data)
	assert.Equal(t, "1.2.3", b.Version)
	assert.Contains(t, b.Endpoints, "POST /api/transactions")
}

func TestHealth(t *testing.T) {
	opts, _, _, _ := fakeOptions()
	w, _ := do(t, newTestServer(t, opts).Handler(), http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	opts.DB = fakePinger{err: errors.New("connection refused")}
	w, resp := do(t, newTestServer(t, opts).Handler(), http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, resp.Message, "refused")
}

func TestAuthHeader(t *testing.T) {
	opts, _, _, _ := fakeOptions()
	h := newTestServer(t, opts).Handler()

	tests := []struct {
		name    string
		header  string
		want    int
		message string
	}{
		{"missing", "", http.StatusUnauthorized, common.ErrTokenMissing.Error()},
		{"wrong scheme", "Basic Ym9iOnNlY3JldA==", http.StatusUnauthorized, common.ErrTokenMalformed.Error()},
		{"no token", "Bearer ", http.StatusUnauthorized, common.ErrTokenMissing.Error()},
		{"expired", "Bearer old", http.StatusUnauthorized, common.ErrTokenExpired.Error()},
		{"lowercase scheme", "bearer good", http.StatusOK, ""},
		{"valid", "Bearer good", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/report", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.message != "" {
				assert.Contains(t, w.Body.String(), tt.message)
			}
		})
	}
}

func TestCreateTransaction_UsesOperatorFromToken(t *testing.T) {
	opts, _, tx, _ := fakeOptions()
	h := newTestServer(t, opts).Handler()

	w, resp := do(t, h, http.MethodPost, "/api/transactions", "good", transactionRequest{BuyerName: "Andi", ProductCode: "ml_86"})
	require.Equal(t, http.StatusCreated, w.Code)
	got := decode[models.Transaction](t, resp.Data)
	assert.Equal(t, "bob", got.Operator)
	assert.Equal(t, "Andi", tx.lastBuyer)
}

func TestCreateTransaction_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    int
		message string
	}{
		{"validation", common.ErrInvalidInput, http.StatusBadRequest, "invalid input"},
		{"not found", common.ErrProductNotFound, http.StatusNotFound, "product not found"},
		{"storage", common.Storage("insert transaction", errors.New("pq: disk full at /var/lib")), http.StatusInternalServerError, internalErrorMessage},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, internalErrorMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, _, tx, _ := fakeOptions()
			tx.err = tt.err
			h := newTestServer(t, opts).Handler()

			w, resp := do(t, h, http.MethodPost, "/api/transactions", "good", transactionRequest{BuyerName: "Andi", ProductCode: "X"})
			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, "error", resp.Status)
			assert.Equal(t, tt.message, resp.Message)
			assert.NotContains(t, w.Body.String(), "disk full")
		})
	}
}

func TestCreateTransaction_Malformed(t *testing.T) {
	opts, _, _, _ := fakeOptions()
	h := newTestServer(t, opts).Handler()

	w, _ := do(t, h, http.MethodPost, "/api/transactions", "good", `{"buyer_name": 12`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPanicIsRecovered(t *testing.T) {
	opts, _, tx, _ := fakeOptions()
	tx.panicWith = "nil map write"
	h := newTestServer(t, opts).Handler()

	w, resp := do(t, h, http.MethodPost, "/api/transactions", "good", transactionRequest{BuyerName: "Andi", ProductCode: "X"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, internalErrorMessage, resp.Message)
	assert.NotContains(t, w.Body.String(), "nil map")
}

func TestHistory(t *testing.T) {
	opts, _, tx, _ := fakeOptions()
	h := newTestServer(t, opts).Handler()

	w, resp := do(t, h, http.MethodGet, "/api/history", "good", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(resp.Data))
	assert.Equal(t, 0, *resp.Total)

	w, resp = do(t, h, http.MethodGet, "/api/history?buyer=%20Andi%20", "good", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Andi", tx.lastFilter)
	assert.Equal(t, 1, *resp.Total)

	tx.err = common.Storage("select transactions", errors.New("down"))
	w, _ = do(t, h, http.MethodGet, "/api/history", "good", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestReport_StorageError(t *testing.T) {
	opts, _, _, r := fakeOptions()
	r.err = common.Storage("aggregate", errors.New("down"))
	h := newTestServer(t, opts).Handler()

	w, resp := do(t, h, http.MethodGet, "/api/report", "good", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, internalErrorMessage, resp.Message)
}

func TestRegisterAndLogin_ErrorMapping(t *testing.T) {
	opts, u, _, _ := fakeOptions()
	h := newTestServer(t, opts).Handler()

	u.registerErr = common.ErrDuplicateUser
	w, resp := do(t, h, http.MethodPost, "/auth/register", "", credentialsRequest{Username: "bob", Password: "secret1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, common.ErrDuplicateUser.Error(), resp.Message)

	u.loginErr = common.ErrBadPassword
	w, _ = do(t, h, http.MethodPost, "/auth/login", "", credentialsRequest{Username: "bob", Password: "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(t, h, http.MethodPost, "/auth/login", "", credentialsRequest{Username: "", Password: ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRateLimit(t *testing.T) {
	opts, _, _, _ := fakeOptions()
	opts.LoginRateLimit = 0.001
	opts.LoginRateBurst = 2
	h := newTestServer(t, opts).Handler()

	body := credentialsRequest{Username: "bob", Password: "secret1"}
	for i := 0; i < 2; i++ {
		w, _ := do(t, h, http.MethodPost, "/auth/login", "", body)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w, resp := do(t, h, http.MethodPost, "/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "error", resp.Status)

	// other routes are not limited
	w, _ = do(t, h, http.MethodGet, "/api/report", "good", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := newRateLimiter(0.001, 1)

	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.2"))
}

func TestNoRoute(t *testing.T) {
	opts, _, _, _ := fakeOptions()
	w, resp := do(t, newTestServer(t, opts).Handler(), http.MethodGet, "/nope", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error", resp.Status)
}

func TestRequestID(t *testing.T) {
	opts, _, _, _ := fakeOptions()
	h := newTestServer(t, opts).Handler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w, _ = do(t, h, http.MethodGet, "/", "", nil)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestMetricsEndpoint(t *testing.T) {
	opts, _, _, _ := fakeOptions()
	h := newTestServer(t, opts).Handler()

	do(t, h, http.MethodGet, "/api/report", "good", nil)

	w, _ := do(t, h, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `kasir_http_requests_total{method="GET",route="/api/report",status="200"} 1`), w.Body.String())
}

func TestOpenAPIDocument(t *testing.T) {
	opts, _, _, _ := fakeOptions()
	w, _ := do(t, newTestServer(t, opts).Handler(), http.MethodGet, "/openapi.yaml", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "openapi: 3.0.3"))
	for _, path := range []string{"/auth/register:", "/auth/login:", "/api/products:", "/api/transactions:", "/api/history:", "/api/report:"} {
		assert.Contains(t, body, path)
	}
}

func TestOpenAPIDocument_MatchesRoutes(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]any `yaml:"paths"`
	}
	require.NoError(t, yaml.Unmarshal(openAPIDocument, &doc))

	documented := map[string]bool{}
	for path, ops := range doc.Paths {
		for method := range ops {
			documented[strings.ToUpper(method)+" "+path] = true
		}
	}

	opts, _, _, _ := fakeOptions()
	for _, r := range newTestServer(t, opts).engine.Routes() {
		if r.Path == "/openapi.yaml" {
			continue
		}
		assert.True(t, documented[r.Method+" "+r.Path], "undocumented route %s %s", r.Method, r.Path)
	}
}
