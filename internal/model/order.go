// Package model defines the canonical order record and its raw input form.
package model

import (
	"fmt"
	"time"
)

// DateLayout is the canonical wire and storage format for order dates.
const DateLayout = "2006-01-02"

// Date is a calendar day. Time-of-day and zone are discarded on construction
// and it marshals as "YYYY-MM-DD".
type Date struct {
	t time.Time
}

// NewDate truncates t to its calendar day in UTC.
func NewDate(t time.Time) Date {
	return Date{t: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate reads a canonical "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return NewDate(t), nil
}

// String formats the date as "YYYY-MM-DD". An unset date renders as the
// empty string, keeping diagnostics free of the Go zero time.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// Time returns the underlying midnight-UTC instant.
func (d Date) Time() time.Time {
	return d.t
}

// IsZero reports whether the date was never set.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// MarshalJSON encodes the date as a "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" string. An empty string decodes to
// the unset date, mirroring MarshalJSON.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s: not a JSON string", s)
	}
	if s == `""` {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// RawRecord is one uncleaned input record: arbitrary labels mapped to
// arbitrary values, as decoded from JSON or paired from a CSV row.
type RawRecord map[string]any

// Order is the canonical cleaned sales record. JSON field names match the
// dashboard's original API contract.
type Order struct {
	OrderDate     Date      `json:"Order_Date"`
	CreatedAt     time.Time `json:"created_at"`
	OrderID       string    `json:"Order_ID"`
	CustomerID    string    `json:"Customer_ID"`
	CustomerName  string    `json:"Customer_Name"`
	Region        string    `json:"Region"`
	Product       string    `json:"Product"`
	Category      string    `json:"Category"`
	PaymentMethod string    `json:"Payment_Method"`
	Gender        string    `json:"Gender"`
	ID            int64     `json:"id"`
	Quantity      int       `json:"Quantity"`
	Age           int       `json:"Age"`
	UnitPrice     float64   `json:"Unit_Price"`
	CostPrice     float64   `json:"Cost_Price"`
	Discount      float64   `json:"Discount"`
	SalesAmount   float64   `json:"Sales_Amount"`
	Profit        float64   `json:"Profit"`
	AnnualIncome  float64   `json:"Annual_Income"`
}

// Margin returns the profit margin as a percentage of revenue, zero when the
// order produced no revenue.
func (o *Order) Margin() float64 {
	if o.SalesAmount == 0 {
		return 0
	}
	return o.Profit * 100.0 / o.SalesAmount
}
