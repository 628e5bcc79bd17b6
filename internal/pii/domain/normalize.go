package domain

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	validation "github.com/jellydator/validation"
	"github.com/nyaruka/phonenumbers"

	validationRules "github.com/allisson/piivault/internal/validation"
)

// DefaultCountryCode is used for phone numbers written in national format.
const DefaultCountryCode = "36"

// Normalizer canonicalizes plaintext so logically equal values hash identically. The
// same Normalizer must be used at write and at query time.
type Normalizer struct {
	countryCode string
	region      string
}

// NewNormalizer creates a Normalizer. countryCode is the calling code, without "+",
// assumed for phone numbers in national format. Its main region decides the national
// dialling rules, e.g. the "06" trunk prefix for 36 (HU).
func NewNormalizer(countryCode string) (*Normalizer, error) {
	countryCode = strings.TrimPrefix(strings.TrimSpace(countryCode), "+")
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	cc, err := strconv.Atoi(countryCode)
	if err != nil || countryCode[0] == '0' {
		return nil, fmt.Errorf("invalid country code %q", countryCode)
	}
	region := phonenumbers.GetRegionCodeForCountryCode(cc)
	if region == phonenumbers.UNKNOWN_REGION {
		return nil, fmt.Errorf("unassigned country code %q", countryCode)
	}
	return &Normalizer{countryCode: countryCode, region: region}, nil
}

// Normalize returns the canonical form of value for a field kind.
func (n *Normalizer) Normalize(kind FieldKind, value string) (string, error) {
	switch kind {
	case KindEmail:
		return n.Email(value)
	case KindPhone:
		return n.Phone(value)
	case KindText:
		return n.Text(value)
	default:
		return "", fmt.Errorf("%w: unknown field kind %d", ErrNormalization, kind)
	}
}

// Email trims and lower-cases an address and checks its format.
func (n *Normalizer) Email(value string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return "", fmt.Errorf("%w: email is empty", ErrNormalization)
	}
	if err := validation.Validate(normalized, validationRules.Email); err != nil {
		return "", fmt.Errorf("%w: email: %v", ErrNormalization, err)
	}
	return normalized, nil
}

// Phone reduces a phone number to its E.164 form "+<country code><national number>".
//
// Numbers without an international prefix ("+" or the region's IDD, e.g. "00") are
// read with the national rules of the default region. Numbers that are not valid
// for their region are rejected.
func (n *Normalizer) Phone(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: phone number is empty", ErrNormalization)
	}

	number, err := phonenumbers.Parse(value, n.region)
	if err != nil {
		return "", fmt.Errorf("%w: phone number: %v", ErrNormalization, err)
	}
	if !phonenumbers.IsValidNumber(number) {
		return "", fmt.Errorf("%w: phone number is not valid", ErrNormalization)
	}
	return phonenumbers.Format(number, phonenumbers.E164), nil
}

// Text trims free text and collapses internal whitespace runs to one space.
func (n *Normalizer) Text(value string) (string, error) {
	normalized := strings.Join(strings.FieldsFunc(value, unicode.IsSpace), " ")
	if normalized == "" {
		return "", fmt.Errorf("%w: value is empty", ErrNormalization)
	}
	return normalized, nil
}
