package vk

import (
	"context"
	"fmt"
	"net/http"

	"github.com/SevereCloud/vksdk/v2/api"
	"github.com/SevereCloud/vksdk/v2/callback"
	"github.com/SevereCloud/vksdk/v2/events"

	"vkeventsbot/internal/domain/entities"
)

// Bot ties the Callback API event stream to the message handler.
type Bot struct {
	cb      *callback.Callback
	handler *MessageHandler
}

// NewBot wires the callback event handlers. confirmationToken answers the
// server confirmation challenge; secretKey, when set, is checked against the
// secret field of every incoming event.
func NewBot(confirmationToken, secretKey string, handler *MessageHandler) *Bot {
	cb := callback.NewCallback()
	cb.ConfirmationKey = confirmationToken
	cb.SecretKey = secretKey

	cb.MessageNew(func(ctx context.Context, obj events.MessageNewObject) {
		handler.HandleMessage(ctx, obj)
	})

	return &Bot{cb: cb, handler: handler}
}

// WebhookHandler is the HTTP endpoint VK posts callback events to.
func (b *Bot) WebhookHandler() http.Handler {
	return http.HandlerFunc(b.cb.HandleFunc)
}

// NewProfileFetcher loads a user's profile through the VK users API.
func NewProfileFetcher(vk *api.VK) profileFunc {
	return func(ctx context.Context, vkUserID int64) (*entities.User, error) {
		resp, err := vk.UsersGet(api.Params{
			"user_ids": vkUserID,
			"fields":   "screen_name,photo_200",
		})
		if err != nil {
			return nil, fmt.Errorf("users.get %d: %w", vkUserID, err)
		}
		if len(resp) == 0 {
			return nil, fmt.Errorf("users.get %d: empty response", vkUserID)
		}

		u := resp[0]
		return &entities.User{
			VKUserID:   vkUserID,
			FirstName:  u.FirstName,
			LastName:   u.LastName,
			ScreenName: u.ScreenName,
			PhotoURL:   u.Photo200,
			IsActive:   true,
		}, nil
	}
}
