// Package cli provides the interactive kasir console client.
//
// The client logs in against the kasir API, then offers a small menu:
// list products, record a new transaction, browse the transaction history
// (optionally for one buyer) and print the sales report. Amounts are shown
// in Rupiah, e.g. Rp20.000.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
