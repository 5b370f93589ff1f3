package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// QuotationStatus represents the lifecycle status of a quotation
type QuotationStatus string

const (
	QuotationStatusDraft     QuotationStatus = "Draft"
	QuotationStatusSubmitted QuotationStatus = "Submitted"
	QuotationStatusApproved  QuotationStatus = "Approved"
	QuotationStatusRejected  QuotationStatus = "Rejected"
	// QuotationStatusCancelled is not reachable by any transition. Rows that
	// carry it can still be deleted.
	QuotationStatusCancelled QuotationStatus = "Cancelled"
)

func (s QuotationStatus) String() string {
	return string(s)
}

func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusDraft, QuotationStatusSubmitted, QuotationStatusApproved,
		QuotationStatusRejected, QuotationStatusCancelled:
		return true
	}
	return false
}

func (s QuotationStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *QuotationStatus) UnmarshalJSON(data []byte) error {
	return unmarshalStatus(data, s, QuotationStatus.IsValid)
}

func (s QuotationStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *QuotationStatus) Scan(value interface{}) error {
	return scanStatus(value, s, QuotationStatusDraft)
}

// InvoiceStatus represents the lifecycle status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "Draft"
	InvoiceStatusSubmitted InvoiceStatus = "Submitted"
	InvoiceStatusApproved  InvoiceStatus = "Approved"
	InvoiceStatusRejected  InvoiceStatus = "Rejected"
	// InvoiceStatusPaid is set by the payment recording flow only.
	InvoiceStatusPaid InvoiceStatus = "Paid"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSubmitted, InvoiceStatusApproved,
		InvoiceStatusRejected, InvoiceStatusPaid:
		return true
	}
	return false
}

func (s InvoiceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	return unmarshalStatus(data, s, InvoiceStatus.IsValid)
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	return scanStatus(value, s, InvoiceStatusDraft)
}

// ReceiptStatus represents the lifecycle status of a receipt
type ReceiptStatus string

const (
	ReceiptStatusPending   ReceiptStatus = "Pending"
	ReceiptStatusSubmitted ReceiptStatus = "Submitted"
	ReceiptStatusApproved  ReceiptStatus = "Approved"
	ReceiptStatusRejected  ReceiptStatus = "Rejected"
)

func (s ReceiptStatus) String() string {
	return string(s)
}

func (s ReceiptStatus) IsValid() bool {
	switch s {
	case ReceiptStatusPending, ReceiptStatusSubmitted, ReceiptStatusApproved, ReceiptStatusRejected:
		return true
	}
	return false
}

func (s ReceiptStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *ReceiptStatus) UnmarshalJSON(data []byte) error {
	return unmarshalStatus(data, s, ReceiptStatus.IsValid)
}

func (s ReceiptStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *ReceiptStatus) Scan(value interface{}) error {
	return scanStatus(value, s, ReceiptStatusPending)
}

func unmarshalStatus[S ~string](data []byte, dst *S, valid func(S) bool) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	s := S(str)
	if !valid(s) {
		return fmt.Errorf("invalid status %q", str)
	}
	*dst = s
	return nil
}

func scanStatus[S ~string](value interface{}, dst *S, fallback S) error {
	switch v := value.(type) {
	case nil:
		*dst = fallback
	case string:
		*dst = S(v)
	case []byte:
		*dst = S(string(v))
	default:
		return fmt.Errorf("cannot scan %T into status", value)
	}
	return nil
}
