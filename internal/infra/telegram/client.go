// internal/infra/telegram/client.go
package telegram

import (
	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the domain Messenger using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// SendMessage sends a text message to a reader's private chat.
func (tba *TelebotAdapter) SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error {
	if options == nil {
		options = &telebot.SendOptions{}
	}
	options.DisableWebPagePreview = true

	recipient := &telebot.User{ID: recipientChatID}
	_, err := tba.bot.Send(recipient, text, options)
	return err
}
