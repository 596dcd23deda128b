package vk

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/SevereCloud/vksdk/v2/api"
	"github.com/SevereCloud/vksdk/v2/api/params"
	"github.com/SevereCloud/vksdk/v2/object"

	"vkeventsbot/internal/ports/output"
)

var _ output.MessageSender = (*Sender)(nil)

// Sender delivers personal messages through the VK messages API.
type Sender struct {
	vk *api.VK
}

func NewSender(vk *api.VK) *Sender {
	return &Sender{vk: vk}
}

func (s *Sender) SendText(ctx context.Context, userID int64, text string) error {
	return s.send(ctx, userID, text, nil)
}

func (s *Sender) SendWithKeyboard(ctx context.Context, userID int64, text string, kb *object.MessagesKeyboard) error {
	return s.send(ctx, userID, text, kb)
}

func (s *Sender) send(ctx context.Context, userID int64, text string, kb *object.MessagesKeyboard) error {
	b := params.NewMessagesSendBuilder()
	b.PeerID(int(userID))
	b.Message(text)
	b.RandomID(int(rand.Int31()))
	if kb != nil {
		b.Keyboard(kb)
	}
	if _, err := s.vk.MessagesSend(b.Params); err != nil {
		return fmt.Errorf("messages.send to %d: %w", userID, err)
	}
	return nil
}
