package lark

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/foundationpro/inspection-billing/internal/application/port"
	"github.com/foundationpro/inspection-billing/internal/domain/workflow"
)

// ErrNoChatForRole is returned when a role has no chat configured
var ErrNoChatForRole = errors.New("no chat configured for role")

// MessageSender is the subset of the Lark IM API the messenger needs
type MessageSender interface {
	SendMessage(ctx context.Context, receiveIDType, receiveID, msgType, content string) (string, error)
}

// Messenger implements port.RoleMessenger by posting to one group chat per role
type Messenger struct {
	sender    MessageSender
	roleChats map[workflow.Role]string
	logger    *zap.Logger
}

// NewMessenger creates a new role messenger. Unknown role names in
// roleChats are ignored with a warning.
func NewMessenger(sender MessageSender, roleChats map[string]string, logger *zap.Logger) *Messenger {
	chats := make(map[workflow.Role]string, len(roleChats))
	for name, chatID := range roleChats {
		role := workflow.Role(name)
		if !role.IsValid() {
			logger.Warn("Ignoring chat for unknown role", zap.String("role", name))
			continue
		}
		chats[role] = chatID
	}

	return &Messenger{
		sender:    sender,
		roleChats: chats,
		logger:    logger,
	}
}

// SendToRole posts a rich-text message to the role's chat
func (m *Messenger) SendToRole(ctx context.Context, role workflow.Role, title, content string) error {
	chatID, ok := m.roleChats[role]
	if !ok || chatID == "" {
		return fmt.Errorf("%w: %s", ErrNoChatForRole, role)
	}

	body, err := postContent(title, content)
	if err != nil {
		return err
	}

	messageID, err := m.sender.SendMessage(ctx, "chat_id", chatID, "post", body)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			m.logger.Warn("Lark rejected role notification",
				zap.String("role", string(role)),
				zap.String("chat_id", chatID),
				zap.Int("code", apiErr.Code))
		}
		return fmt.Errorf("failed to notify %s: %w", role, err)
	}

	m.logger.Info("Role notification sent",
		zap.String("role", string(role)),
		zap.String("chat_id", chatID),
		zap.String("message_id", messageID))
	return nil
}

type postElement struct {
	Tag  string `json:"tag"`
	Text string `json:"text"`
}

type postBody struct {
	Title   string          `json:"title"`
	Content [][]postElement `json:"content"`
}

// postContent builds the JSON content of a Lark "post" message
func postContent(title, content string) (string, error) {
	msg := map[string]postBody{
		"en_us": {
			Title:   title,
			Content: [][]postElement{{{Tag: "text", Text: content}}},
		},
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal message content: %w", err)
	}
	return string(data), nil
}

// LogMessenger implements port.RoleMessenger by logging. Used when Lark is disabled.
type LogMessenger struct {
	logger *zap.Logger
}

// NewLogMessenger creates a messenger that only logs
func NewLogMessenger(logger *zap.Logger) *LogMessenger {
	return &LogMessenger{logger: logger}
}

// SendToRole logs the notification
func (m *LogMessenger) SendToRole(_ context.Context, role workflow.Role, title, content string) error {
	m.logger.Info("Role notification",
		zap.String("role", string(role)),
		zap.String("title", title),
		zap.String("content", content))
	return nil
}

// Verify interface compliance
var (
	_ port.RoleMessenger = (*Messenger)(nil)
	_ port.RoleMessenger = (*LogMessenger)(nil)
	_ MessageSender      = (*SDKClient)(nil)
)
