package store

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"hisab/internal/models"
)

var ErrDuplicateContact = errors.New("contact with same name or phone already exists")

type ContactStore struct {
	db DB
	kv *KV
}

func NewContactStore(db DB, kv *KV) *ContactStore {
	return &ContactStore{db: db, kv: kv}
}

// List returns every contact in insertion order. An unavailable substrate
// reads as an empty list; the failure is reported on the write path instead.
func (s *ContactStore) List(ctx context.Context) []models.Contact {
	contacts, err := s.load(ctx)
	if err != nil {
		log.Printf("contact store: read failed, serving empty list: %v", err)
		return nil
	}
	return contacts
}

func (s *ContactStore) GetByID(ctx context.Context, id string) (models.Contact, bool) {
	contacts, err := s.load(ctx)
	if err != nil {
		log.Printf("contact store: read failed: %v", err)
		return models.Contact{}, false
	}
	for _, contact := range contacts {
		if contact.ID == id {
			return contact, true
		}
	}
	return models.Contact{}, false
}

// Add appends the contact unless one already exists with the same name
// (case-insensitive) or the same phone. On conflict nothing is written.
func (s *ContactStore) Add(ctx context.Context, contact models.Contact) error {
	contacts, err := s.load(ctx)
	if err != nil {
		return err
	}
	for _, existing := range contacts {
		if strings.EqualFold(existing.Name, contact.Name) || existing.Phone == contact.Phone {
			return ErrDuplicateContact
		}
	}
	return s.save(ctx, append(contacts, contact))
}

// Update replaces the record matching contact.ID. The bool reports whether
// the record existed; an unknown id is a successful no-op.
func (s *ContactStore) Update(ctx context.Context, contact models.Contact) (bool, error) {
	contacts, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	for i := range contacts {
		if contacts[i].ID == contact.ID {
			contacts[i] = contact
			return true, s.save(ctx, contacts)
		}
	}
	return false, nil
}

// Archive marks the contact archived. Idempotent: archiving an archived
// contact succeeds without a write. Returns the resulting snapshot and
// whether the contact existed.
func (s *ContactStore) Archive(ctx context.Context, id string) (models.Contact, bool, error) {
	return s.setArchived(ctx, id, true)
}

func (s *ContactStore) Restore(ctx context.Context, id string) (models.Contact, bool, error) {
	return s.setArchived(ctx, id, false)
}

func (s *ContactStore) setArchived(ctx context.Context, id string, archived bool) (models.Contact, bool, error) {
	contacts, err := s.load(ctx)
	if err != nil {
		return models.Contact{}, false, err
	}
	for i := range contacts {
		if contacts[i].ID != id {
			continue
		}
		if contacts[i].IsArchived == archived {
			return contacts[i], true, nil
		}
		contacts[i].IsArchived = archived
		return contacts[i], true, s.save(ctx, contacts)
	}
	return models.Contact{}, false, nil
}

func (s *ContactStore) load(ctx context.Context) ([]models.Contact, error) {
	raw, err := s.kv.Get(ctx, s.db, contactsKey)
	if err != nil || raw == nil {
		return nil, err
	}
	var contacts []models.Contact
	if err := json.Unmarshal(raw, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

func (s *ContactStore) save(ctx context.Context, contacts []models.Contact) error {
	raw, err := json.Marshal(contacts)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.db, contactsKey, raw)
}
