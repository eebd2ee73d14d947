package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/kasir/internal/client/client"
	"github.com/dmitrijs2005/kasir/internal/client/models"
)

// cancelWord aborts the product prompt of a new transaction.
const cancelWord = "CANCEL"

func (a *App) Products(ctx context.Context) error {
	products, err := a.api.Products(ctx)
	if err != nil {
		return a.checkSession(err)
	}

	fmt.Fprintln(a.out, "AVAILABLE PRODUCTS")
	fmt.Fprintln(a.out, separator())
	for _, p := range products {
		fmt.Fprintf(a.out, "  %-12s | %-30s | %-8s | %s\n", p.Code, p.Name, p.Category, formatRupiah(p.Price))
	}
	fmt.Fprintln(a.out, separator())
	return nil
}

// NewTransaction asks for the buyer and a product code, retrying on unknown
// codes until the sale is recorded or the user types CANCEL.
func (a *App) NewTransaction(ctx context.Context) error {
	var buyer string
	for buyer == "" {
		var err error
		buyer, err = GetSimpleText(a.reader, "Buyer name", a.out)
		if err != nil {
			return err
		}
		if buyer == "" {
			fmt.Fprintln(a.out, "Buyer name must not be empty")
		}
	}

	for {
		code, err := GetSimpleText(a.reader, "Product code (e.g. ML_86, or CANCEL)", a.out)
		if err != nil {
			return err
		}
		code = strings.ToUpper(code)

		switch code {
		case "":
			fmt.Fprintln(a.out, "Product code must not be empty")
			continue
		case cancelWord:
			fmt.Fprintln(a.out, "Transaction cancelled")
			return nil
		}

		tx, err := a.api.CreateTransaction(ctx, buyer, code)
		if err != nil {
			var apiErr *client.APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
				fmt.Fprintf(a.out, "Product code '%s' not found, try again\n", code)
				continue
			}
			return a.checkSession(err)
		}

		a.printReceipt(tx)
		return nil
	}
}

func (a *App) printReceipt(tx *models.Transaction) {
	fmt.Fprintln(a.out, separator())
	fmt.Fprintln(a.out, "TRANSACTION SUCCESSFUL")
	fmt.Fprintln(a.out, separator())
	fmt.Fprintf(a.out, "Date     : %s\n", formatTime(tx.Timestamp))
	fmt.Fprintf(a.out, "Buyer    : %s\n", tx.BuyerName)
	fmt.Fprintf(a.out, "Product  : %s (%s)\n", tx.ProductName, tx.ProductCode)
	fmt.Fprintf(a.out, "Price    : %s\n", formatRupiah(tx.Price))
	fmt.Fprintf(a.out, "Operator : %s\n", tx.Operator)
	fmt.Fprintln(a.out, separator())
}

// History prints all transactions, or only those of buyer when given.
func (a *App) History(ctx context.Context, buyer string) error {
	records, err := a.api.History(ctx, buyer)
	if err != nil {
		return a.checkSession(err)
	}

	fmt.Fprintln(a.out, "TRANSACTION HISTORY")
	fmt.Fprintln(a.out, separator())
	if len(records) == 0 {
		fmt.Fprintln(a.out, "  No transactions yet")
		fmt.Fprintln(a.out, separator())
		return nil
	}

	fmt.Fprintf(a.out, "  %-4s | %-19s | %-15s | %-30s | %s\n", "No", "Date", "Buyer", "Product", "Price")
	fmt.Fprintln(a.out, separator())
	for i, r := range records {
		fmt.Fprintf(a.out, "  %-4d | %-19s | %-15s | %-30s | %s\n",
			i+1, formatTime(r.Timestamp), r.BuyerName, r.ProductName, formatRupiah(r.Price))
	}
	fmt.Fprintln(a.out, separator())
	return nil
}

func (a *App) Report(ctx context.Context) error {
	report, err := a.api.Report(ctx)
	if err != nil {
		return a.checkSession(err)
	}

	fmt.Fprintln(a.out, "SALES REPORT")
	fmt.Fprintln(a.out, separator())
	fmt.Fprintf(a.out, "  Total transactions : %d\n", report.Count)
	fmt.Fprintf(a.out, "  Total revenue      : %s\n", formatRupiah(report.Total))
	if report.Count > 0 {
		fmt.Fprintf(a.out, "  Average per item   : %s\n", formatRupiah(int64(report.Average)))
	}
	fmt.Fprintln(a.out, separator())
	return nil
}
