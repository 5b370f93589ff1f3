package notifier

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sangkips/fms-api/internal/application/service"
	"github.com/sangkips/fms-api/internal/domain/entity"
	"github.com/sangkips/fms-api/internal/domain/enum"
)

const (
	linePushPath  = "/v2/bot/message/push"
	lineReplyPath = "/v2/bot/message/reply"

	// LINE rejects text messages longer than this
	lineMaxText = 5000
)

type lineTextMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type linePushRequest struct {
	To       string            `json:"to"`
	Messages []lineTextMessage `json:"messages"`
}

type lineReplyRequest struct {
	ReplyToken string            `json:"replyToken"`
	Messages   []lineTextMessage `json:"messages"`
}

// LineClient talks to the LINE Messaging API
type LineClient struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// NewLineClient creates a client for the Messaging API at baseURL
func NewLineClient(baseURL, accessToken string) *LineClient {
	return &LineClient{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Push sends a text message to a LINE user
func (c *LineClient) Push(ctx context.Context, to, text string) error {
	return c.post(ctx, linePushPath, linePushRequest{To: to, Messages: textMessages(text)})
}

// Reply answers a webhook event through its reply token
func (c *LineClient) Reply(ctx context.Context, replyToken, text string) error {
	return c.post(ctx, lineReplyPath, lineReplyRequest{ReplyToken: replyToken, Messages: textMessages(text)})
}

func textMessages(text string) []lineTextMessage {
	if r := []rune(text); len(r) > lineMaxText {
		text = string(r[:lineMaxText])
	}
	return []lineTextMessage{{Type: "text", Text: text}}
}

func (c *LineClient) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode LINE request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build LINE request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("LINE request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("LINE API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

// LineNotifier pushes notifications to users with a linked LINE account
type LineNotifier struct {
	client *LineClient
}

// NewLineNotifier creates a LINE channel
func NewLineNotifier(client *LineClient) *LineNotifier {
	return &LineNotifier{client: client}
}

func (n *LineNotifier) Type() enum.NotificationType {
	return enum.NotificationTypeLINE
}

// Send pushes message to the user's LINE account. The subject is not used.
func (n *LineNotifier) Send(ctx context.Context, user *entity.User, message, _ string) error {
	if !user.HasLineAccount() {
		return service.ErrNoAddress
	}
	return n.client.Push(ctx, *user.LineUserID, message)
}

// ValidateSignature checks the X-Line-Signature header of a webhook call:
// base64(HMAC-SHA256(channelSecret, body)).
func ValidateSignature(channelSecret string, body []byte, signature string) bool {
	if channelSecret == "" || signature == "" {
		return false
	}
	decoded, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return hmac.Equal(decoded, mac.Sum(nil))
}

// Sign produces the signature LINE would send for body
func Sign(channelSecret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
