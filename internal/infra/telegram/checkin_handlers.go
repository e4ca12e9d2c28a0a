package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nt_reading_bot/internal/app"
	domainTelegram "nt_reading_bot/internal/domain/telegram"
	idb "nt_reading_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const readingDateLayout = "2006-01-02"

// RegisterCheckInHandlers wires the "Mark as Read" inline button.
func RegisterCheckInHandlers(ctx context.Context, b *telebot.Bot, readingService app.ReadingService, location *time.Location, baseLogger *logrus.Entry) {
	btn := &telebot.Btn{Unique: domainTelegram.CheckInButtonUnique}

	b.Handle(btn, func(c telebot.Context) error {
		logCtx := baseLogger.WithFields(logrus.Fields{
			"handler":   "checkin_button",
			"sender_id": c.Sender().ID,
			"payload":   c.Data(),
		})

		date, err := parseReadingDate(c.Data(), location)
		if err != nil {
			logCtx.WithError(err).Warn("Invalid check-in payload")
			return c.Respond(&telebot.CallbackResponse{Text: "This button is no longer valid."})
		}

		res, err := readingService.CheckIn(ctx, c.Sender().ID, date)
		if err != nil {
			switch {
			case errors.Is(err, idb.ErrReaderNotFound), errors.Is(err, app.ErrReaderInactive):
				return c.Respond(&telebot.CallbackResponse{Text: "Send /start to subscribe first.", ShowAlert: true})
			case errors.Is(err, app.ErrOutsidePlan):
				return c.Respond(&telebot.CallbackResponse{Text: "That day is outside the reading plan."})
			case errors.Is(err, app.ErrFutureCheckIn):
				return c.Respond(&telebot.CallbackResponse{Text: "That reading is not due yet."})
			default:
				logCtx.WithError(err).Error("Failed to record check-in")
				return c.Respond(&telebot.CallbackResponse{Text: "Something went wrong."})
			}
		}

		if err := c.Respond(&telebot.CallbackResponse{Text: checkInAnswer(res)}); err != nil {
			logCtx.WithError(err).Warn("Failed to answer callback")
		}
		return c.Send(app.RenderCheckIn(res))
	})
}

// checkInAnswer is the callback popup text for a processed check-in.
func checkInAnswer(res *app.CheckInResult) string {
	if !res.Recorded {
		return "Already marked"
	}
	return "Marked as read!"
}

func checkInMarkupFor(date time.Time) *telebot.ReplyMarkup {
	return domainTelegram.CheckInMarkup(date.Format(readingDateLayout))
}

// parseReadingDate decodes the button payload as a calendar date in location.
func parseReadingDate(payload string, location *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(readingDateLayout, payload, location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reading date %q: %w", payload, err)
	}
	return d, nil
}
