package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateDocumentNumber returns prefix followed by a short random suffix,
// e.g. "QT-3F2A9C1B". Used when a client creates a document without a number.
func GenerateDocumentNumber(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.New().String()[:8])
}
