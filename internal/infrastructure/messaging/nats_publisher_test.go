package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingConn struct {
	subject string
	data    []byte
	err     error
}

func (c *recordingConn) Publish(subject string, data []byte) error {
	c.subject = subject
	c.data = data
	return c.err
}

func TestNATSPublisher_Publish(t *testing.T) {
	rc := &recordingConn{}
	p := newPublisher(rc, "fms.documents.", zap.NewNop())

	derived := uuid.New()
	evt := event.NewDocumentEvent("Quotation", "approve", uuid.New(), "QT-001", "Approved", uuid.New())
	evt.DerivedID = &derived

	require.NoError(t, p.Publish(context.Background(), evt))
	assert.Equal(t, "fms.documents.quotation.approve", rc.subject)

	var got event.DocumentEvent
	require.NoError(t, json.Unmarshal(rc.data, &got))
	assert.Equal(t, evt.DocumentID, got.DocumentID)
	assert.Equal(t, "Approved", got.Status)
	require.NotNil(t, got.DerivedID)
	assert.Equal(t, derived, *got.DerivedID)
}

func TestNATSPublisher_PublishError(t *testing.T) {
	rc := &recordingConn{err: errors.New("connection closed")}
	p := newPublisher(rc, "fms.documents", zap.NewNop())

	evt := event.NewDocumentEvent("Receipt", "submit", uuid.New(), "RC-INV-1", "Submitted", uuid.New())
	err := p.Publish(context.Background(), evt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fms.documents.receipt.submit")
}

func TestNATSPublisher_CancelledContext(t *testing.T) {
	rc := &recordingConn{}
	p := newPublisher(rc, "fms.documents", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Publish(ctx, event.NewDocumentEvent("Invoice", "approve", uuid.New(), "INV-1", "Approved", uuid.New()))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rc.subject)
}
