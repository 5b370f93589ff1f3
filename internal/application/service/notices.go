package service

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sangkips/fms-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

func submittedNotice(document, number string, total decimal.Decimal, by string) (message, subject string) {
	message = fmt.Sprintf("%s %s (Total: %s) has been submitted for approval by %s.", document, number, total.StringFixed(2), by)
	subject = fmt.Sprintf("Approval Required: %s %s", document, number)
	return message, subject
}

func decisionNotice(document, number string, total decimal.Decimal, approved bool) (message, subject string) {
	if approved {
		message = fmt.Sprintf("Good news! Your %s %s (Total: %s) has been APPROVED by admin.", document, number, total.StringFixed(2))
		subject = fmt.Sprintf("Your %s %s was Approved", document, number)
		return message, subject
	}
	message = fmt.Sprintf("Update: Your %s %s (Total: %s) has been REJECTED by admin.", document, number, total.StringFixed(2))
	subject = fmt.Sprintf("Your %s %s was Rejected", document, number)
	return message, subject
}

// transitionResult labels a transition outcome for metrics
func transitionResult(err error) string {
	if err == nil {
		return "success"
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Code < http.StatusInternalServerError {
		return "denied"
	}
	return "error"
}
