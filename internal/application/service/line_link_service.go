package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sangkips/fms-api/internal/domain/repository"
	"go.uber.org/zap"
)

const (
	registerCommand = "/register"

	lineWelcomeReply = "Welcome to the Financial Management System!\n\n" +
		"To receive notifications, please link your account by replying with:\n\n" +
		"/register your-email@example.com"
	lineUsageReply   = "Invalid command. Please use the format: /register your-email@example.com"
	lineDefaultReply = "I am a notification bot. To link your account, please reply with: /register your-email@example.com"
)

// LineLinkService links LINE accounts to users through chat commands. Every
// method returns the text to reply with.
type LineLinkService struct {
	users repository.UserRepository
	log   *zap.Logger
}

// NewLineLinkService creates a new LINE link service
func NewLineLinkService(users repository.UserRepository, log *zap.Logger) *LineLinkService {
	return &LineLinkService{users: users, log: log}
}

// Follow answers a new follower with linking instructions
func (s *LineLinkService) Follow(ctx context.Context, lineUserID string) string {
	s.log.Info("LINE user followed", zap.String("line_user_id", lineUserID))
	return lineWelcomeReply
}

// HandleMessage processes a text message from lineUserID
func (s *LineLinkService) HandleMessage(ctx context.Context, lineUserID, text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, registerCommand) {
		return lineDefaultReply
	}

	parts := strings.Fields(text)
	if len(parts) != 2 || parts[0] != registerCommand {
		return lineUsageReply
	}
	email := normalizeEmail(parts[1])

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		s.log.Error("LINE link lookup failed", zap.String("email", email), zap.Error(err))
		return "Sorry, something went wrong. Please try again later."
	}
	if user == nil {
		return fmt.Sprintf("Error: No account found with the email '%s'.", email)
	}

	if user.HasLineAccount() {
		if *user.LineUserID == lineUserID {
			return "This LINE account is already linked to your email."
		}
		return "Error: This email is already linked to another LINE account."
	}

	other, err := s.users.GetByLineUserID(ctx, lineUserID)
	if err != nil {
		s.log.Error("LINE link lookup failed", zap.String("line_user_id", lineUserID), zap.Error(err))
		return "Sorry, something went wrong. Please try again later."
	}
	if other != nil {
		return "Error: This LINE account is already linked to another email."
	}

	id := lineUserID
	user.LineUserID = &id
	if err := s.users.Update(ctx, user); err != nil {
		s.log.Error("failed to link LINE account", zap.String("user_id", user.ID.String()), zap.Error(err))
		return "Sorry, something went wrong. Please try again later."
	}

	s.log.Info("LINE account linked", zap.String("user_id", user.ID.String()))
	return fmt.Sprintf("Success! Your LINE account is now linked to %s.", user.Name)
}
