package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceStatus_PaidRoundTrips(t *testing.T) {
	data, err := json.Marshal(InvoiceStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, `"Paid"`, string(data))

	var got InvoiceStatus
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, InvoiceStatusPaid, got)

	v, err := got.Value()
	require.NoError(t, err)
	var scanned InvoiceStatus
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, InvoiceStatusPaid, scanned)
}

func TestStatus_UnmarshalRejectsUnknown(t *testing.T) {
	var q QuotationStatus
	assert.Error(t, json.Unmarshal([]byte(`"Pending"`), &q))

	var r ReceiptStatus
	assert.Error(t, json.Unmarshal([]byte(`"Draft"`), &r))
	require.NoError(t, json.Unmarshal([]byte(`"Pending"`), &r))
	assert.Equal(t, ReceiptStatusPending, r)
}

func TestStatus_ScanDefaults(t *testing.T) {
	var r ReceiptStatus
	require.NoError(t, r.Scan(nil))
	assert.Equal(t, ReceiptStatusPending, r)

	var q QuotationStatus
	require.NoError(t, q.Scan([]byte("Submitted")))
	assert.Equal(t, QuotationStatusSubmitted, q)
	assert.Error(t, q.Scan(42))
}

func TestPaymentMethod_Unmarshal(t *testing.T) {
	var m PaymentMethod
	require.NoError(t, json.Unmarshal([]byte(`"Cash"`), &m))
	assert.Equal(t, PaymentMethodCash, m)

	require.NoError(t, json.Unmarshal([]byte(`""`), &m))
	assert.Equal(t, PaymentMethodBankTransfer, m)

	assert.Error(t, json.Unmarshal([]byte(`"Bitcoin"`), &m))
}
