package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/fms-api/internal/application/service"
	"github.com/sangkips/fms-api/internal/infrastructure/notifier"
	"github.com/sangkips/fms-api/internal/presentation/http/dto/response"
	"go.uber.org/zap"
)

const lineSignatureHeader = "X-Line-Signature"

// Replier answers a LINE webhook event
type Replier interface {
	Reply(ctx context.Context, replyToken, text string) error
}

type lineWebhook struct {
	Events []lineEvent `json:"events"`
}

type lineEvent struct {
	Type       string `json:"type"`
	ReplyToken string `json:"replyToken"`
	Source     struct {
		UserID string `json:"userId"`
	} `json:"source"`
	Message struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"message"`
}

// LineHandler receives LINE webhook calls
type LineHandler struct {
	channelSecret string
	linkService   *service.LineLinkService
	replier       Replier
	log           *zap.Logger
}

// NewLineHandler creates a new LINE webhook handler. replier may be nil, in
// which case replies are only logged.
func NewLineHandler(channelSecret string, linkService *service.LineLinkService, replier Replier, log *zap.Logger) *LineHandler {
	return &LineHandler{
		channelSecret: channelSecret,
		linkService:   linkService,
		replier:       replier,
		log:           log,
	}
}

// Webhook verifies the signature and handles follow and text message events
func (h *LineHandler) Webhook(c *gin.Context) {
	signature := c.GetHeader(lineSignatureHeader)
	if signature == "" {
		response.BadRequest(c, "Missing X-Line-Signature header")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if !notifier.ValidateSignature(h.channelSecret, body, signature) {
		h.log.Warn("LINE webhook signature mismatch")
		response.BadRequest(c, "Invalid signature")
		return
	}

	var payload lineWebhook
	if err := json.Unmarshal(body, &payload); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	ctx := c.Request.Context()
	for _, evt := range payload.Events {
		lineUserID := evt.Source.UserID
		if lineUserID == "" {
			continue
		}

		var reply string
		switch {
		case evt.Type == "follow":
			reply = h.linkService.Follow(ctx, lineUserID)
		case evt.Type == "message" && evt.Message.Type == "text":
			reply = h.linkService.HandleMessage(ctx, lineUserID, evt.Message.Text)
		default:
			continue
		}
		h.reply(ctx, evt.ReplyToken, reply)
	}

	c.String(http.StatusOK, "OK")
}

func (h *LineHandler) reply(ctx context.Context, token, text string) {
	if h.replier == nil || token == "" {
		h.log.Debug("LINE reply skipped", zap.String("text", text))
		return
	}
	if err := h.replier.Reply(ctx, token, text); err != nil {
		h.log.Warn("failed to reply to LINE event", zap.Error(err))
	}
}
