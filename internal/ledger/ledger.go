// Package ledger holds the pure balance arithmetic: no storage, no I/O.
package ledger

import (
	"github.com/shopspring/decimal"

	"hisab/internal/models"
)

// archiveEpsilon absorbs decimal rounding when deciding whether a balance
// has netted out. It is not a business tolerance and is not configurable.
var archiveEpsilon = decimal.RequireFromString("0.001")

// Balance is the signed sum of the contact's transactions restricted to one
// type: given counts positive, received negative. Order independent, can be
// negative.
func Balance(transactions []models.Transaction, txType string) decimal.Decimal {
	sum := decimal.Zero
	for _, transaction := range transactions {
		if transaction.Type != txType {
			continue
		}
		if transaction.Direction == models.DirectionGiven {
			sum = sum.Add(transaction.Amount)
		} else {
			sum = sum.Sub(transaction.Amount)
		}
	}
	return sum
}

// ShouldArchive reports whether a balance has reached zero within the
// rounding epsilon. Checked once per transaction write; a later nonzero
// transaction never auto-restores an archived contact.
func ShouldArchive(balance decimal.Decimal) bool {
	return balance.Abs().LessThan(archiveEpsilon)
}
