package handlers

import (
	"context"

	"hisab/internal/models"
	"hisab/internal/services"
)

type LedgerService interface {
	AddContact(ctx context.Context, name, phone string) (models.Contact, error)
	AddTransaction(ctx context.Context, input services.AddTransactionInput) (models.Transaction, bool, error)
	ArchiveContact(ctx context.Context, id string) (bool, error)
	RestoreContact(ctx context.Context, id string) (bool, error)
	ListContacts(ctx context.Context, query string) []models.Contact
	ListArchived(ctx context.Context) []models.Contact
	ListTransactions(ctx context.Context) []models.Transaction
	ContactLedger(ctx context.Context, id string) (services.ContactLedger, error)
}

type SyncService interface {
	Flush(ctx context.Context) error
	SetOnline(ctx context.Context, online bool)
	Status() string
	PendingCount(ctx context.Context) int
}
