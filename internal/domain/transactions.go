package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// UnknownKey is the grouping key used when a record has no branch or no date.
const UnknownKey = "unknown"

// SourceRecord represents one sale from the internal point-of-sale system.
type SourceRecord struct {
	ID           int64           `json:"id"`
	BranchCode   string          `json:"branch"`
	BranchName   string          `json:"branch_name"`
	OrderDate    time.Time       `json:"orddate"`
	OrderTime    string          `json:"ordtime"`
	CustomerID   string          `json:"cusno"`
	CustomerName string          `json:"cusname"`
	Amount       decimal.Decimal `json:"grschrg"`
}

// BranchIdentifier is the value handed to the branch resolver: the display
// name when present, the branch code otherwise.
func (r SourceRecord) BranchIdentifier() string {
	if name := strings.TrimSpace(r.BranchName); name != "" {
		return name
	}
	return strings.TrimSpace(r.BranchCode)
}

// CounterpartRecord represents one settlement entry from the delivery platform.
type CounterpartRecord struct {
	ID           int64           `json:"id"`
	StoreName    string          `json:"store_name"`
	CreatedOn    time.Time       `json:"created_on"`
	Amount       decimal.Decimal `json:"amount"` // negative for chargebacks
	BookingID    string          `json:"booking_id"`
	ShortOrderID string          `json:"short_order_id"`
	OrderType    string          `json:"order_type"`
}

// BranchMapping links a POS branch to the store name used by the platform.
// Several source codes may share one canonical name.
type BranchMapping struct {
	SourceCode    string `json:"pos_code"`
	SourceName    string `json:"pos_name"`
	CanonicalName string `json:"grab_name"`
}

// ParseAmount converts a raw amount field to a decimal. Empty, missing or
// non-numeric values become zero.
func ParseAmount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01/02/2006 15:04:05",
	"1/2/2006 3:04:05 PM",
}

// ParseDate parses the date formats found in exported POS and platform files.
// It returns the zero time when the value is empty or cannot be parsed.
func ParseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// DayKey returns the locale-independent calendar day of t, or UnknownKey for
// the zero time.
func DayKey(t time.Time) string {
	if t.IsZero() {
		return UnknownKey
	}
	return t.Format(time.DateOnly)
}
