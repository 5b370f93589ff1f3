package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/application/service"
	"github.com/sangkips/fms-api/internal/config"
	"github.com/sangkips/fms-api/internal/domain/entity"
	"github.com/sangkips/fms-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lineUser(lineID string) *entity.User {
	u := &entity.User{ID: uuid.New(), Name: "Somchai", Email: "somchai@example.com", Role: enum.RoleUser}
	if lineID != "" {
		u.LineUserID = &lineID
	}
	return u
}

func TestLineNotifier_Send(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody linePushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "{}")
	}))
	defer srv.Close()

	n := NewLineNotifier(NewLineClient(srv.URL+"/", "token-123"))
	assert.Equal(t, enum.NotificationTypeLINE, n.Type())

	err := n.Send(context.Background(), lineUser("U123"), "Quotation QT-1 approved", "ignored")
	require.NoError(t, err)

	assert.Equal(t, "Bearer token-123", gotAuth)
	assert.Equal(t, linePushPath, gotPath)
	assert.Equal(t, "U123", gotBody.To)
	require.Len(t, gotBody.Messages, 1)
	assert.Equal(t, "text", gotBody.Messages[0].Type)
	assert.Equal(t, "Quotation QT-1 approved", gotBody.Messages[0].Text)
}

func TestLineNotifier_NoLineAccount(t *testing.T) {
	n := NewLineNotifier(NewLineClient("http://127.0.0.1:1", "token"))

	err := n.Send(context.Background(), lineUser(""), "hello", "")
	assert.ErrorIs(t, err, service.ErrNoAddress)
}

func TestLineNotifier_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"message":"The user hasn't added the bot"}`)
	}))
	defer srv.Close()

	n := NewLineNotifier(NewLineClient(srv.URL, "token"))
	err := n.Send(context.Background(), lineUser("U999"), "hello", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.NotErrorIs(t, err, service.ErrNoAddress)
}

func TestLineClient_Reply(t *testing.T) {
	var got lineReplyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, lineReplyPath, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	require.NoError(t, NewLineClient(srv.URL, "token").Reply(context.Background(), "reply-token", "Welcome"))
	assert.Equal(t, "reply-token", got.ReplyToken)
	assert.Equal(t, "Welcome", got.Messages[0].Text)
}

func TestTextMessages_Truncates(t *testing.T) {
	msgs := textMessages(strings.Repeat("a", lineMaxText+10))
	assert.Len(t, msgs[0].Text, lineMaxText)
}

func TestValidateSignature(t *testing.T) {
	body := []byte(`{"events":[]}`)
	sig := Sign("secret", body)

	assert.True(t, ValidateSignature("secret", body, sig))
	assert.False(t, ValidateSignature("other", body, sig))
	assert.False(t, ValidateSignature("secret", []byte(`{"events":[{}]}`), sig))
	assert.False(t, ValidateSignature("secret", body, "not base64!"))
	assert.False(t, ValidateSignature("secret", body, ""))
	assert.False(t, ValidateSignature("", body, sig))
}

func TestEmailNotifier_Send(t *testing.T) {
	n := NewEmailNotifier(config.EmailConfig{
		Enabled:      true,
		SMTPHost:     "smtp.example.com",
		SMTPPort:     587,
		SMTPUsername: "mailer",
		SMTPPassword: "pw",
		FromName:     "FMS",
		FromEmail:    "noreply@example.com",
	})

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	n.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	user := lineUser("")
	err := n.Send(context.Background(), user, "Line one\nLine <two>", "Approval Required: Quotation QT-1")
	require.NoError(t, err)

	assert.Equal(t, enum.NotificationTypeEmail, n.Type())
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "noreply@example.com", gotFrom)
	assert.Equal(t, []string{user.Email}, gotTo)

	msg := string(gotMsg)
	assert.Contains(t, msg, "Subject: Approval Required: Quotation QT-1\r\n")
	assert.Contains(t, msg, "Line one<br>Line &lt;two&gt;")
	assert.Contains(t, msg, "Hello Somchai,")
}

func TestEmailNotifier_Errors(t *testing.T) {
	n := NewEmailNotifier(config.EmailConfig{SMTPHost: "localhost", SMTPPort: 25})
	n.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	user := lineUser("")
	err := n.Send(context.Background(), user, "hi", "subject")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send email")

	user.Email = ""
	assert.ErrorIs(t, n.Send(context.Background(), user, "hi", "subject"), service.ErrNoAddress)
}
