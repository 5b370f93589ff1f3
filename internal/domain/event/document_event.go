package event

import (
	"time"

	"github.com/google/uuid"
)

// DocumentEvent describes a committed status change of a document
type DocumentEvent struct {
	ID         uuid.UUID  `json:"id"`
	Document   string     `json:"document"`
	Action     string     `json:"action"`
	DocumentID uuid.UUID  `json:"document_id"`
	Number     string     `json:"number"`
	Status     string     `json:"status"`
	ActorID    uuid.UUID  `json:"actor_id"`
	DerivedID  *uuid.UUID `json:"derived_id,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// NewDocumentEvent stamps a new event with an id and the current time
func NewDocumentEvent(document, action string, documentID uuid.UUID, number, status string, actorID uuid.UUID) DocumentEvent {
	return DocumentEvent{
		ID:         uuid.New(),
		Document:   document,
		Action:     action,
		DocumentID: documentID,
		Number:     number,
		Status:     status,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
}
