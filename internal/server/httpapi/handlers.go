package httpapi

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/kasir/internal/common"
	"github.com/dmitrijs2005/kasir/internal/server/models"
	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type transactionRequest struct {
	BuyerName   string `json:"buyer_name"`
	ProductCode string `json:"product_code"`
}

type banner struct {
	Service   string   `json:"service"`
	Version   string   `json:"version"`
	Endpoints []string `json:"endpoints"`
}

func (s *Server) handleIndex(c *gin.Context) {
	respond(c, http.StatusOK, "kasir digital top-up API", banner{
		Service: "kasir",
		Version: s.version,
		Endpoints: []string{
			"POST /auth/register",
			"POST /auth/login",
			"GET /api/products",
			"POST /api/transactions",
			"GET /api/history",
			"GET /api/report",
			"GET /openapi.yaml",
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.db != nil {
		if err := s.db.PingContext(c.Request.Context()); err != nil {
			s.logger.Error(c.Request.Context(), "health check failed", "request_id", requestID(c), "error", err)
			abortWithMessage(c, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
	}
	respond(c, http.StatusOK, "ok", nil)
}

func (s *Server) handleRegister(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, "malformed request body")
		return
	}

	user, err := s.users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "user registered", "request_id", requestID(c), "username", user.UserName)
	respond(c, http.StatusCreated, "registration successful", gin.H{"username": user.UserName})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, "malformed request body")
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		s.abortWithError(c, common.ErrInvalidInput)
		return
	}

	token, err := s.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "login successful", token)
}

func (s *Server) handleProducts(c *gin.Context) {
	respondList(c, s.transactions.Products())
}

func (s *Server) handleCreateTransaction(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithMessage(c, http.StatusBadRequest, "malformed request body")
		return
	}

	tx, err := s.transactions.Create(c.Request.Context(), operator(c), req.BuyerName, req.ProductCode)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "transaction created",
		"request_id", requestID(c), "operator", tx.Operator, "product_code", tx.ProductCode, "price", tx.Price)
	respond(c, http.StatusCreated, "transaction recorded", tx)
}

func (s *Server) handleHistory(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		records []models.Transaction
		err     error
	)
	if buyer := strings.TrimSpace(c.Query("buyer")); buyer != "" {
		records, err = s.transactions.ListByBuyer(ctx, buyer)
	} else {
		records, err = s.transactions.ListAll(ctx)
	}
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	respondList(c, records)
}

func (s *Server) handleReport(c *gin.Context) {
	report, err := s.reports.Report(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	respond(c, http.StatusOK, "", report)
}
