package client

import (
	"context"

	"github.com/dmitrijs2005/kasir/internal/client/models"
)

type Client interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (*models.Token, error)
	Logout()
	Products(ctx context.Context) ([]models.Product, error)
	CreateTransaction(ctx context.Context, buyerName, productCode string) (*models.Transaction, error)
	History(ctx context.Context, buyer string) ([]models.Transaction, error)
	Report(ctx context.Context) (*models.Report, error)
}
