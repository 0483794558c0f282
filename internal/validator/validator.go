package validator

import (
	"errors"
	"regexp"
	"time"
)

var (
	ErrInvalidName  = errors.New("invalid name")
	ErrInvalidPhone = errors.New("invalid phone")
	ErrInvalidDate  = errors.New("invalid date")
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9]{6,15}$`)

func ValidateName(name string) error {
	if name == "" || len(name) > 80 {
		return ErrInvalidName
	}
	return nil
}

func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

// ValidateDate accepts calendar dates in YYYY-MM-DD form, the format
// transactions carry on the wire.
func ValidateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDate
	}
	return nil
}
