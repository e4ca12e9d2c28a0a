package telegram

import "gopkg.in/telebot.v3"

// Messenger sends chat messages to readers and admins.
// Application code depends on this port, not on *telebot.Bot.
type Messenger interface {
	SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error
}

// CheckInButtonUnique is the callback identifier of the "Mark as Read" button.
const CheckInButtonUnique = "checkin"

// CheckInMarkup builds the inline "Mark as Read" keyboard for a reading date.
func CheckInMarkup(readingDate string) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	btn := markup.Data("Mark as Read", CheckInButtonUnique, readingDate)
	markup.Inline(markup.Row(btn))
	return markup
}
