package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"hisab/internal/config"
	"hisab/internal/models"
	"hisab/internal/services"
	"hisab/internal/websocket"
)

const testSecret = "test-secret"

type stubLedger struct {
	addContactFn      func(ctx context.Context, name, phone string) (models.Contact, error)
	addTransactionFn  func(ctx context.Context, input services.AddTransactionInput) (models.Transaction, bool, error)
	archiveContactFn  func(ctx context.Context, id string) (bool, error)
	restoreContactFn  func(ctx context.Context, id string) (bool, error)
	listContactsFn    func(ctx context.Context, query string) []models.Contact
	listArchivedFn    func(ctx context.Context) []models.Contact
	listTransactionFn func(ctx context.Context) []models.Transaction
	contactLedgerFn   func(ctx context.Context, id string) (services.ContactLedger, error)
}

func (s *stubLedger) AddContact(ctx context.Context, name, phone string) (models.Contact, error) {
	return s.addContactFn(ctx, name, phone)
}

func (s *stubLedger) AddTransaction(ctx context.Context, input services.AddTransactionInput) (models.Transaction, bool, error) {
	return s.addTransactionFn(ctx, input)
}

func (s *stubLedger) ArchiveContact(ctx context.Context, id string) (bool, error) {
	return s.archiveContactFn(ctx, id)
}

func (s *stubLedger) RestoreContact(ctx context.Context, id string) (bool, error) {
	return s.restoreContactFn(ctx, id)
}

func (s *stubLedger) ListContacts(ctx context.Context, query string) []models.Contact {
	if s.listContactsFn == nil {
		return nil
	}
	return s.listContactsFn(ctx, query)
}

func (s *stubLedger) ListArchived(ctx context.Context) []models.Contact {
	if s.listArchivedFn == nil {
		return nil
	}
	return s.listArchivedFn(ctx)
}

func (s *stubLedger) ListTransactions(ctx context.Context) []models.Transaction {
	if s.listTransactionFn == nil {
		return nil
	}
	return s.listTransactionFn(ctx)
}

func (s *stubLedger) ContactLedger(ctx context.Context, id string) (services.ContactLedger, error) {
	return s.contactLedgerFn(ctx, id)
}

type stubSync struct {
	flushFn      func(ctx context.Context) error
	setOnlineFn  func(ctx context.Context, online bool)
	status       string
	pendingCount int
}

func (s *stubSync) Flush(ctx context.Context) error {
	if s.flushFn == nil {
		return nil
	}
	return s.flushFn(ctx)
}

func (s *stubSync) SetOnline(ctx context.Context, online bool) {
	if s.setOnlineFn != nil {
		s.setOnlineFn(ctx, online)
	}
}

func (s *stubSync) Status() string {
	return s.status
}

func (s *stubSync) PendingCount(context.Context) int {
	return s.pendingCount
}

type stubReceipts struct {
	processFn func(ctx context.Context, r io.Reader) (string, error)
}

func (s *stubReceipts) Process(ctx context.Context, r io.Reader) (string, error) {
	return s.processFn(ctx, r)
}

func newTestHandler(ledger *stubLedger, sync *stubSync, receipts *stubReceipts) *Handler {
	cfg := config.Config{
		AccessSecret:   testSecret,
		AllowedOrigins: "*",
		ReceiptDir:     "receipts",
	}
	if sync == nil {
		sync = &stubSync{status: models.StatusOffline}
	}
	if receipts == nil {
		receipts = &stubReceipts{processFn: func(context.Context, io.Reader) (string, error) {
			return "/receipts/unused.jpg", nil
		}}
	}
	return New(cfg, ledger, sync, receipts, websocket.NewHub())
}

func dec(raw string) decimal.Decimal {
	return decimal.RequireFromString(raw)
}

func httptestRequest(method, target, authorization string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	return req
}

func httptestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

// serve sends an authorized request through the full router so middleware
// and URL params behave as in production.
func serve(t *testing.T, handler *Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+testSecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	handler.Routes().ServeHTTP(recorder, req)
	return recorder
}
