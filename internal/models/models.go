package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Transaction kinds. Cash amounts are INR, gold amounts are net grams.
const (
	TypeCash = "cash"
	TypeGold = "gold"
)

const (
	DirectionGiven    = "given"
	DirectionReceived = "received"
)

// Outbox actions and entity kinds, part of the sync wire format.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"

	EntityContact     = "contact"
	EntityTransaction = "transaction"
)

// Sync status values. Syncing is only ever entered from online.
const (
	StatusOffline = "offline"
	StatusOnline  = "online"
	StatusSyncing = "syncing"
)

type Contact struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	CreatedAt  int64  `json:"createdAt"`
	IsArchived bool   `json:"isArchived"`
}

// Transaction is append-only: financial fields are never edited once written.
// For gold entries Amount is the net weight in grams; GrossWeight and Purity
// record how it was derived.
type Transaction struct {
	ID          string           `json:"id"`
	ContactID   string           `json:"contactId"`
	Type        string           `json:"type"`
	Direction   string           `json:"direction"`
	Amount      decimal.Decimal  `json:"amount"`
	GrossWeight *decimal.Decimal `json:"grossWeight,omitempty"`
	Purity      *decimal.Decimal `json:"purity,omitempty"`
	Description string           `json:"description"`
	Date        string           `json:"date"`
	Timestamp   int64            `json:"timestamp"`
	ReceiptURL  *string          `json:"receiptUrl,omitempty"`
	IsSynced    bool             `json:"isSynced"`
}

// PendingSyncItem is one not-yet-confirmed remote mutation. Data holds the
// entity snapshot exactly as it will be shipped to the remote endpoint.
type PendingSyncItem struct {
	ID         string          `json:"id"`
	Action     string          `json:"action"`
	EntityType string          `json:"type"`
	Data       json.RawMessage `json:"data"`
	Timestamp  int64           `json:"timestamp"`
}

func ValidType(t string) bool {
	return t == TypeCash || t == TypeGold
}

func ValidDirection(d string) bool {
	return d == DirectionGiven || d == DirectionReceived
}
