package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentMethod represents how a receipt was paid
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "Bank Transfer"
	PaymentMethodCash         PaymentMethod = "Cash"
	PaymentMethodCreditCard   PaymentMethod = "Credit Card"
)

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodBankTransfer, PaymentMethodCash, PaymentMethodCreditCard:
		return true
	}
	return false
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str == "" {
		*m = PaymentMethodBankTransfer
		return nil
	}
	if !PaymentMethod(str).IsValid() {
		return fmt.Errorf("invalid payment method %q", str)
	}
	*m = PaymentMethod(str)
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	return scanStatus(value, m, PaymentMethodBankTransfer)
}
