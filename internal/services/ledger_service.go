package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hisab/internal/gold"
	"hisab/internal/ledger"
	"hisab/internal/models"
	"hisab/internal/search"
	"hisab/internal/validator"
)

var (
	ErrUnknownContact    = errors.New("unknown contact")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidType       = errors.New("invalid transaction type")
	ErrInvalidDirection  = errors.New("invalid direction")
	ErrInvalidGoldFields = errors.New("gross weight and purity must be provided together on gold entries only")
	ErrNetWeightMismatch = errors.New("amount does not match gross weight and purity")
)

type ContactStore interface {
	List(ctx context.Context) []models.Contact
	GetByID(ctx context.Context, id string) (models.Contact, bool)
	Add(ctx context.Context, contact models.Contact) error
	Update(ctx context.Context, contact models.Contact) (bool, error)
	Archive(ctx context.Context, id string) (models.Contact, bool, error)
	Restore(ctx context.Context, id string) (models.Contact, bool, error)
}

type TransactionStore interface {
	Append(ctx context.Context, transaction models.Transaction) error
	ListAll(ctx context.Context) []models.Transaction
	ListByContact(ctx context.Context, contactID string) []models.Transaction
}

type Outbox interface {
	Enqueue(ctx context.Context, action, entityType string, payload any) error
}

// LedgerService orchestrates the financial mutations: validation, the
// store write, mirroring into the sync outbox, and the auto-archive check
// after every transaction append.
type LedgerService struct {
	contacts     ContactStore
	transactions TransactionStore
	outbox       Outbox
}

func NewLedgerService(contacts ContactStore, transactions TransactionStore, outbox Outbox) *LedgerService {
	return &LedgerService{
		contacts:     contacts,
		transactions: transactions,
		outbox:       outbox,
	}
}

func (s *LedgerService) AddContact(ctx context.Context, name, phone string) (models.Contact, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if err := validator.ValidateName(name); err != nil {
		return models.Contact{}, err
	}
	if err := validator.ValidatePhone(phone); err != nil {
		return models.Contact{}, err
	}
	contact := models.Contact{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     phone,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := s.contacts.Add(ctx, contact); err != nil {
		return models.Contact{}, err
	}
	s.mirror(ctx, models.ActionCreate, models.EntityContact, contact)
	return contact, nil
}

type AddTransactionInput struct {
	ContactID   string
	Type        string
	Direction   string
	Amount      decimal.Decimal
	GrossWeight *decimal.Decimal
	Purity      *decimal.Decimal
	Description string
	Date        string
	ReceiptURL  *string
}

// AddTransaction appends a transaction and settles the auto-archive
// decision before returning: when the contact's balance for the entry's
// type nets to zero, the contact is archived in the same call.
func (s *LedgerService) AddTransaction(ctx context.Context, input AddTransactionInput) (models.Transaction, bool, error) {
	if err := s.validateTransaction(input); err != nil {
		return models.Transaction{}, false, err
	}
	if _, ok := s.contacts.GetByID(ctx, input.ContactID); !ok {
		return models.Transaction{}, false, ErrUnknownContact
	}
	transaction := models.Transaction{
		ID:          uuid.NewString(),
		ContactID:   input.ContactID,
		Type:        input.Type,
		Direction:   input.Direction,
		Amount:      input.Amount,
		GrossWeight: input.GrossWeight,
		Purity:      input.Purity,
		Description: strings.TrimSpace(input.Description),
		Date:        input.Date,
		Timestamp:   time.Now().UnixMilli(),
		ReceiptURL:  input.ReceiptURL,
	}
	if err := s.transactions.Append(ctx, transaction); err != nil {
		return models.Transaction{}, false, err
	}
	s.mirror(ctx, models.ActionCreate, models.EntityTransaction, transaction)

	archived := false
	balance := ledger.Balance(s.transactions.ListByContact(ctx, input.ContactID), input.Type)
	if ledger.ShouldArchive(balance) {
		contact, found, err := s.contacts.Archive(ctx, input.ContactID)
		if err != nil {
			log.Printf("ledger: auto-archive of contact %s failed: %v", input.ContactID, err)
		} else if found {
			archived = true
			s.mirror(ctx, models.ActionUpdate, models.EntityContact, contact)
		}
	}
	return transaction, archived, nil
}

// ArchiveContact archives by id. The bool reports whether the contact
// existed; an unknown id is a successful no-op.
func (s *LedgerService) ArchiveContact(ctx context.Context, id string) (bool, error) {
	contact, found, err := s.contacts.Archive(ctx, id)
	if err != nil || !found {
		return false, err
	}
	s.mirror(ctx, models.ActionUpdate, models.EntityContact, contact)
	return true, nil
}

func (s *LedgerService) RestoreContact(ctx context.Context, id string) (bool, error) {
	contact, found, err := s.contacts.Restore(ctx, id)
	if err != nil || !found {
		return false, err
	}
	s.mirror(ctx, models.ActionUpdate, models.EntityContact, contact)
	return true, nil
}

// ListContacts returns active contacts, fuzzy-ranked when a query is
// given, in insertion order otherwise.
func (s *LedgerService) ListContacts(ctx context.Context, query string) []models.Contact {
	return search.Contacts(s.contacts.List(ctx), query)
}

func (s *LedgerService) ListArchived(ctx context.Context) []models.Contact {
	var archived []models.Contact
	for _, contact := range s.contacts.List(ctx) {
		if contact.IsArchived {
			archived = append(archived, contact)
		}
	}
	return archived
}

func (s *LedgerService) ListTransactions(ctx context.Context) []models.Transaction {
	return s.transactions.ListAll(ctx)
}

type ContactLedger struct {
	Contact      models.Contact       `json:"contact"`
	Transactions []models.Transaction `json:"transactions"`
	CashBalance  decimal.Decimal      `json:"cashBalance"`
	GoldBalance  decimal.Decimal      `json:"goldBalance"`
}

// ContactLedger returns the contact's transactions, most recent activity
// first, with the running balance per type.
func (s *LedgerService) ContactLedger(ctx context.Context, id string) (ContactLedger, error) {
	contact, ok := s.contacts.GetByID(ctx, id)
	if !ok {
		return ContactLedger{}, ErrUnknownContact
	}
	transactions := s.transactions.ListByContact(ctx, id)
	return ContactLedger{
		Contact:      contact,
		Transactions: transactions,
		CashBalance:  ledger.Balance(transactions, models.TypeCash),
		GoldBalance:  ledger.Balance(transactions, models.TypeGold),
	}, nil
}

func (s *LedgerService) validateTransaction(input AddTransactionInput) error {
	if !models.ValidType(input.Type) {
		return ErrInvalidType
	}
	if !models.ValidDirection(input.Direction) {
		return ErrInvalidDirection
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if err := validator.ValidateDate(input.Date); err != nil {
		return err
	}
	hasGross, hasPurity := input.GrossWeight != nil, input.Purity != nil
	if input.Type == models.TypeCash {
		if hasGross || hasPurity {
			return ErrInvalidGoldFields
		}
		return nil
	}
	if hasGross != hasPurity {
		return ErrInvalidGoldFields
	}
	if !hasGross {
		return nil
	}
	if input.Purity.LessThanOrEqual(decimal.Zero) || input.Purity.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidGoldFields
	}
	// the stored net weight must agree with its derivation to 3 decimals
	if !gold.NetWeight(*input.GrossWeight, *input.Purity).Equal(input.Amount.Round(3)) {
		return ErrNetWeightMismatch
	}
	return nil
}

// mirror records the mutation in the sync outbox. The financial write is
// already durable; an enqueue failure only risks a missed sync, so it is
// logged and not propagated.
func (s *LedgerService) mirror(ctx context.Context, action, entityType string, payload any) {
	if err := s.outbox.Enqueue(ctx, action, entityType, payload); err != nil {
		log.Printf("ledger: failed to enqueue %s %s for sync: %v", action, entityType, err)
	}
}
