// Package httpapi is the HTTP gateway of the kasir server: a gin router with
// JSON envelopes, bearer-token authentication and request instrumentation.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/kasir/internal/logging"
	"github.com/dmitrijs2005/kasir/internal/server/metrics"
	"github.com/dmitrijs2005/kasir/internal/server/models"
	"github.com/dmitrijs2005/kasir/internal/server/services"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Users is the auth surface the gateway needs.
type Users interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.Token, error)
	Authenticate(ctx context.Context, token string) (string, error)
}

// Transactions is the ledger surface the gateway needs.
type Transactions interface {
	Create(ctx context.Context, operator, buyerName, productCode string) (*models.Transaction, error)
	ListAll(ctx context.Context) ([]models.Transaction, error)
	ListByBuyer(ctx context.Context, buyer string) ([]models.Transaction, error)
	Products() []models.Product
}

type Reports interface {
	Report(ctx context.Context) (*services.Report, error)
}

// Pinger reports storage health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options holds the collaborators and settings of a Server.
type Options struct {
	Users          Users
	Transactions   Transactions
	Reports        Reports
	DB             Pinger
	Metrics        *metrics.Metrics
	LoginRateLimit float64
	LoginRateBurst int
	Version        string
}

type Server struct {
	address      string
	logger       logging.Logger
	users        Users
	transactions Transactions
	reports      Reports
	db           Pinger
	metrics      *metrics.Metrics
	version      string
	engine       *gin.Engine
}

func NewServer(address string, l logging.Logger, opts Options) *Server {
	s := &Server{
		address:      address,
		logger:       l.With("module", "http_server"),
		users:        opts.Users,
		transactions: opts.Transactions,
		reports:      opts.Reports,
		db:           opts.DB,
		metrics:      opts.Metrics,
		version:      opts.Version,
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}

	var limiter *rateLimiter
	if opts.LoginRateLimit > 0 {
		limiter = newRateLimiter(opts.LoginRateLimit, opts.LoginRateBurst)
	}
	s.engine = s.routes(limiter)

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())
		errCh <- srv.Serve(listen)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
