package search

import (
	"testing"

	"hisab/internal/models"
)

func named(id, name, phone string, archived bool) models.Contact {
	return models.Contact{ID: id, Name: name, Phone: phone, IsArchived: archived}
}

func ids(contacts []models.Contact) []string {
	var out []string
	for _, contact := range contacts {
		out = append(out, contact.ID)
	}
	return out
}

func TestEmptyQueryReturnsActiveInOrder(t *testing.T) {
	contacts := []models.Contact{
		named("c1", "Ram", "9876500001", false),
		named("c2", "Shyam", "9876500002", true),
		named("c3", "Mohan", "9876500003", false),
	}
	got := Contacts(contacts, "")
	if len(got) != 2 || got[0].ID != "c1" || got[1].ID != "c3" {
		t.Fatalf("expected [c1 c3], got %v", ids(got))
	}
}

func TestArchivedNeverMatch(t *testing.T) {
	contacts := []models.Contact{
		named("c1", "Ram", "9876500001", true),
	}
	if got := Contacts(contacts, "Ram"); len(got) != 0 {
		t.Fatalf("archived contact matched: %v", ids(got))
	}
}

func TestPrefixRanksAboveSubstring(t *testing.T) {
	contacts := []models.Contact{
		named("c1", "Balram", "9876500001", false),
		named("c2", "Ram", "9876500002", false),
	}
	got := Contacts(contacts, "ram")
	if len(got) != 2 || got[0].ID != "c2" || got[1].ID != "c1" {
		t.Fatalf("expected prefix match first, got %v", ids(got))
	}
}

func TestFuzzyMatchesNearMiss(t *testing.T) {
	contacts := []models.Contact{
		named("c1", "Shyam", "9876500001", false),
	}
	if got := Contacts(contacts, "shaym"); len(got) != 1 {
		t.Fatalf("expected transposition to match, got %v", ids(got))
	}
	if got := Contacts(contacts, "qqqqq"); len(got) != 0 {
		t.Fatalf("unrelated query matched: %v", ids(got))
	}
}

func TestPhonePrefix(t *testing.T) {
	contacts := []models.Contact{
		named("c1", "Ram", "9876500001", false),
		named("c2", "Shyam", "1234500002", false),
	}
	got := Contacts(contacts, "98765")
	if len(got) != 1 || got[0].ID != "c1" {
		t.Fatalf("expected phone prefix match, got %v", ids(got))
	}
}
