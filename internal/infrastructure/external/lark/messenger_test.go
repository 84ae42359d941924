package lark

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/foundationpro/inspection-billing/internal/domain/workflow"
)

type sentMessage struct {
	receiveIDType, receiveID, msgType, content string
}

type fakeSender struct {
	sent []sentMessage
	err  error
}

func (f *fakeSender) SendMessage(_ context.Context, receiveIDType, receiveID, msgType, content string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, sentMessage{receiveIDType, receiveID, msgType, content})
	return "om_1", nil
}

func TestMessenger_SendToRole(t *testing.T) {
	sender := &fakeSender{}
	m := NewMessenger(sender, map[string]string{
		"admin":     "oc_admin",
		"client_ap": "oc_ap",
		"billing":   "oc_unknown",
	}, zap.NewNop())

	err := m.SendToRole(context.Background(), workflow.RoleClientAP, "Invoice Sent", `Invoice "INV-1" is ready`)
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "chat_id", msg.receiveIDType)
	assert.Equal(t, "oc_ap", msg.receiveID)
	assert.Equal(t, "post", msg.msgType)

	var body map[string]postBody
	require.NoError(t, json.Unmarshal([]byte(msg.content), &body))
	assert.Equal(t, "Invoice Sent", body["en_us"].Title)
	assert.Equal(t, `Invoice "INV-1" is ready`, body["en_us"].Content[0][0].Text)
}

func TestMessenger_SendToRole_Errors(t *testing.T) {
	m := NewMessenger(&fakeSender{}, map[string]string{"admin": "oc_admin"}, zap.NewNop())
	err := m.SendToRole(context.Background(), workflow.RoleFieldTech, "t", "c")
	assert.ErrorIs(t, err, ErrNoChatForRole)

	failing := NewMessenger(&fakeSender{err: errors.New("code=230002")}, map[string]string{"admin": "oc_admin"}, zap.NewNop())
	err = failing.SendToRole(context.Background(), workflow.RoleAdmin, "t", "c")
	assert.ErrorContains(t, err, "code=230002")

	rejected := NewMessenger(&fakeSender{err: &APIError{Code: 230002, Msg: "bot not in chat"}}, map[string]string{"admin": "oc_admin"}, zap.NewNop())
	err = rejected.SendToRole(context.Background(), workflow.RoleAdmin, "t", "c")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 230002, apiErr.Code)
}

func TestLogMessenger(t *testing.T) {
	assert.NoError(t, NewLogMessenger(zap.NewNop()).SendToRole(context.Background(), workflow.RoleAdmin, "t", "c"))
}
