package validator

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	if err := ValidateName("Ram Kumar"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateName(""); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	if err := ValidateName(strings.Repeat("x", 81)); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName for long name, got %v", err)
	}
}

func TestValidatePhone(t *testing.T) {
	for _, phone := range []string{"9876543210", "+919876543210"} {
		if err := ValidatePhone(phone); err != nil {
			t.Fatalf("%s: unexpected error: %v", phone, err)
		}
	}
	for _, phone := range []string{"", "12345", "98-76-54", "phone"} {
		if err := ValidatePhone(phone); !errors.Is(err, ErrInvalidPhone) {
			t.Fatalf("%s: expected ErrInvalidPhone, got %v", phone, err)
		}
	}
}

func TestValidateDate(t *testing.T) {
	if err := ValidateDate("2026-08-31"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, date := range []string{"", "31-08-2026", "2026-13-01", "yesterday"} {
		if err := ValidateDate(date); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%s: expected ErrInvalidDate, got %v", date, err)
		}
	}
}
