package workflow

import (
	"errors"
	"testing"

	"github.com/sangkips/fms-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotationMachine_Fire(t *testing.T) {
	tests := []struct {
		name    string
		current enum.QuotationStatus
		action  Action
		role    enum.Role
		want    enum.QuotationStatus
		wantErr error
	}{
		{"submit draft", enum.QuotationStatusDraft, ActionSubmit, enum.RoleUser, enum.QuotationStatusSubmitted, nil},
		{"approve submitted", enum.QuotationStatusSubmitted, ActionApprove, enum.RoleAdmin, enum.QuotationStatusApproved, nil},
		{"reject submitted", enum.QuotationStatusSubmitted, ActionReject, enum.RoleAdmin, enum.QuotationStatusRejected, nil},
		{"submit approved", enum.QuotationStatusApproved, ActionSubmit, enum.RoleUser, enum.QuotationStatusApproved, ErrInvalidTransition},
		{"approve draft", enum.QuotationStatusDraft, ActionApprove, enum.RoleAdmin, enum.QuotationStatusDraft, ErrInvalidTransition},
		{"admin cannot submit", enum.QuotationStatusDraft, ActionSubmit, enum.RoleAdmin, enum.QuotationStatusDraft, ErrRoleNotPermitted},
		{"user cannot approve", enum.QuotationStatusSubmitted, ActionApprove, enum.RoleUser, enum.QuotationStatusSubmitted, ErrRoleNotPermitted},
		{"resubmit rejected", enum.QuotationStatusRejected, ActionSubmit, enum.RoleUser, enum.QuotationStatusRejected, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Quotations.Fire(tt.current, tt.action, tt.role)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMachine_RoleCheckedBeforeStatus(t *testing.T) {
	// a User approving an already approved quotation is a role failure
	_, err := Quotations.Fire(enum.QuotationStatusApproved, ActionApprove, enum.RoleUser)

	var roleErr *RoleError
	require.True(t, errors.As(err, &roleErr))
	assert.Equal(t, "Admin", roleErr.Required)
}

func TestMachine_TransitionErrorDetail(t *testing.T) {
	_, err := Invoices.Fire(enum.InvoiceStatusApproved, ActionSubmit, enum.RoleUser)

	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "Invoice", te.Document)
	assert.Equal(t, ActionSubmit, te.Action)
	assert.Equal(t, "Approved", te.Current)
	assert.Equal(t, "submitted", te.Action.Verb())
}

func TestQuotationMachine_EditDelete(t *testing.T) {
	for _, s := range []enum.QuotationStatus{
		enum.QuotationStatusDraft, enum.QuotationStatusSubmitted,
		enum.QuotationStatusRejected, enum.QuotationStatusCancelled,
	} {
		assert.NoError(t, Quotations.CheckEdit(s), s)
	}
	assert.ErrorIs(t, Quotations.CheckEdit(enum.QuotationStatusApproved), ErrInvalidTransition)

	assert.NoError(t, Quotations.CheckDelete(enum.QuotationStatusDraft))
	assert.NoError(t, Quotations.CheckDelete(enum.QuotationStatusRejected))
	assert.NoError(t, Quotations.CheckDelete(enum.QuotationStatusCancelled))
	assert.ErrorIs(t, Quotations.CheckDelete(enum.QuotationStatusSubmitted), ErrInvalidTransition)
	assert.ErrorIs(t, Quotations.CheckDelete(enum.QuotationStatusApproved), ErrInvalidTransition)
}

func TestInvoiceMachine_EditDelete(t *testing.T) {
	assert.NoError(t, Invoices.CheckEdit(enum.InvoiceStatusDraft))
	assert.Error(t, Invoices.CheckEdit(enum.InvoiceStatusSubmitted))
	assert.Error(t, Invoices.CheckEdit(enum.InvoiceStatusApproved))

	assert.NoError(t, Invoices.CheckDelete(enum.InvoiceStatusDraft))
	assert.NoError(t, Invoices.CheckDelete(enum.InvoiceStatusSubmitted))
	assert.NoError(t, Invoices.CheckDelete(enum.InvoiceStatusRejected))
	assert.Error(t, Invoices.CheckDelete(enum.InvoiceStatusApproved))
	assert.Error(t, Invoices.CheckDelete(enum.InvoiceStatusPaid))
}

func TestReceiptMachine(t *testing.T) {
	assert.Equal(t, enum.ReceiptStatusPending, Receipts.Initial())

	next, err := Receipts.Fire(enum.ReceiptStatusPending, ActionSubmit, enum.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, enum.ReceiptStatusSubmitted, next)

	_, err = Receipts.Fire(enum.ReceiptStatusPending, ActionApprove, enum.RoleAdmin)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	assert.Error(t, Receipts.CheckEdit(enum.ReceiptStatusPending))
	assert.Error(t, Receipts.CheckDelete(enum.ReceiptStatusPending))
}

func TestMachine_PermittedActionsAndTerminal(t *testing.T) {
	assert.Equal(t, []Action{ActionApprove, ActionReject}, Quotations.PermittedActions(enum.QuotationStatusSubmitted))
	assert.True(t, Quotations.IsTerminal(enum.QuotationStatusApproved))
	assert.False(t, Quotations.IsTerminal(enum.QuotationStatusDraft))
	assert.True(t, Invoices.CanFire(enum.InvoiceStatusDraft, ActionSubmit))
	assert.False(t, Invoices.CanFire(enum.InvoiceStatusPaid, ActionSubmit))
}

func TestBuilder_ConflictingPermitPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewBuilder("Thing", "a").
			Configure("a").
			Permit(ActionSubmit, "b").
			Permit(ActionSubmit, "c")
	})
}

func TestDecisionAction(t *testing.T) {
	a, err := DecisionAction("Approved")
	require.NoError(t, err)
	assert.Equal(t, ActionApprove, a)

	a, err = DecisionAction("Rejected")
	require.NoError(t, err)
	assert.Equal(t, ActionReject, a)

	for _, bad := range []string{"", "approved", "Maybe", "Submitted"} {
		_, err := DecisionAction(bad)
		assert.ErrorIs(t, err, ErrInvalidDecision, bad)
	}
}

func TestSubmitOnCreate(t *testing.T) {
	for _, status := range []string{"", "Draft"} {
		submit, err := SubmitOnCreate(status)
		require.NoError(t, err)
		assert.False(t, submit, status)
	}

	submit, err := SubmitOnCreate("Submitted")
	require.NoError(t, err)
	assert.True(t, submit)

	for _, bad := range []string{"Approved", "submitted", "Pending"} {
		_, err := SubmitOnCreate(bad)
		assert.ErrorIs(t, err, ErrInvalidCreateStatus, bad)
	}
}
