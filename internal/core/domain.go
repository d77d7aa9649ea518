package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Money           DonationType = "MONEY"
	Food            DonationType = "FOOD"
	Clothing        DonationType = "CLOTHING"
	Medicine        DonationType = "MEDICINE"
	Blankets        DonationType = "BLANKETS"
	Toys            DonationType = "TOYS"
	Books           DonationType = "BOOKS"
	Furniture       DonationType = "FURNITURE"
	HygieneProducts DonationType = "HYGIENE_PRODUCTS"
	Other           DonationType = "OTHER"
)

type (
	// DonationType is the closed set of categories every record and
	// aggregate is partitioned by.
	DonationType string

	// Date is a calendar date without a time component.
	Date struct {
		time.Time
	}

	// Donation is an immutable record of goods or money received from a
	// donor. Quantity is the currency amount for MONEY and a unit count
	// for every other type.
	Donation struct {
		ID           int64           `json:"id,omitempty"`
		DonorName    string          `json:"donorName"`
		DonationType DonationType    `json:"donationType"`
		Quantity     decimal.Decimal `json:"quantity"`
		DonationDate Date            `json:"donationDate"`
		CreatedAt    time.Time       `json:"createdAt,omitempty"`
	}

	// Distribution is an immutable record of goods or money handed out to
	// a recipient.
	Distribution struct {
		ID               int64           `json:"id,omitempty"`
		DonationType     DonationType    `json:"donationType"`
		Quantity         decimal.Decimal `json:"quantity"`
		Recipient        string          `json:"recipient"`
		DistributionDate Date            `json:"distributionDate"`
		CreatedAt        time.Time       `json:"createdAt,omitempty"`
	}
)

var (
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrEmptyDonorName      = errors.New("empty donor name")
	ErrEmptyRecipient      = errors.New("empty recipient")
	ErrInvalidDate         = errors.New("invalid date")
	ErrUnknownDonationType = errors.New("unknown donation type")
)

// validationErrs lists every error that marks bad caller input rather than
// an engine fault.
var validationErrs = []error{
	ErrInvalidQuantity,
	ErrEmptyDonorName,
	ErrEmptyRecipient,
	ErrInvalidDate,
	ErrUnknownDonationType,
}

// IsValidationError reports whether err stems from malformed input.
func IsValidationError(err error) bool {
	for _, v := range validationErrs {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// AllDonationTypes returns the full enumeration in declaration order.
func AllDonationTypes() []DonationType {
	return []DonationType{
		Money, Food, Clothing, Medicine, Blankets,
		Toys, Books, Furniture, HygieneProducts, Other,
	}
}

var displayNames = map[DonationType]string{
	Money:           "Money",
	Food:            "Food",
	Clothing:        "Clothing",
	Medicine:        "Medicine",
	Blankets:        "Blankets",
	Toys:            "Toys",
	Books:           "Books",
	Furniture:       "Furniture",
	HygieneProducts: "Hygiene Products",
	Other:           "Other",
}

// ParseDonationType matches an enum name or display name, case-insensitively.
func ParseDonationType(s string) (DonationType, error) {
	s = strings.TrimSpace(s)
	for _, t := range AllDonationTypes() {
		if strings.EqualFold(s, string(t)) || strings.EqualFold(s, displayNames[t]) {
			return t, nil
		}
	}
	return "", ErrUnknownDonationType
}

// DisplayName returns the human-readable label for the type.
func (t DonationType) DisplayName() string {
	return displayNames[t]
}

func (t DonationType) Validate() error {
	if _, ok := displayNames[t]; !ok {
		return ErrUnknownDonationType
	}
	return nil
}

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date in UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidDate
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Donation) Validate() error {
	if strings.TrimSpace(d.DonorName) == "" {
		return ErrEmptyDonorName
	}
	if err := d.DonationType.Validate(); err != nil {
		return err
	}
	if !d.Quantity.IsPositive() {
		return ErrInvalidQuantity
	}
	return d.DonationDate.Validate()
}

func (d Distribution) Validate() error {
	if strings.TrimSpace(d.Recipient) == "" {
		return ErrEmptyRecipient
	}
	if err := d.DonationType.Validate(); err != nil {
		return err
	}
	if !d.Quantity.IsPositive() {
		return ErrInvalidQuantity
	}
	return d.DistributionDate.Validate()
}
