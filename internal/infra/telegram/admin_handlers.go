package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"nt_reading_bot/internal/app"
	"nt_reading_bot/internal/domain/reader"
	idb "nt_reading_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const msgUnauthorized = "Error: you are not allowed to run this command."

// RegisterAdminHandlers registers handlers for admin commands.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, adminService *app.AdminService, readingService app.ReadingService, baseLogger *logrus.Entry) {
	b.Handle("/readers", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/readers",
			"sender_id": c.Sender().ID,
		})

		listType := "active"
		if args := c.Args(); len(args) > 0 {
			listType = strings.ToLower(args[0])
		}
		if listType != "active" && listType != "all" {
			return c.Send("Invalid argument. Use 'active' or 'all', or leave it empty for active readers.")
		}
		handlerLogger = handlerLogger.WithField("list_type", listType)

		readers, err := adminService.ListReaders(ctx, c.Sender().ID, listType == "active")
		if err != nil {
			if errors.Is(err, app.ErrAdminNotAuthorized) {
				handlerLogger.Warn("Unauthorized access attempt")
				return c.Send(msgUnauthorized)
			}
			handlerLogger.WithError(err).Error("Failed to list readers")
			return c.Send(fmt.Sprintf("Failed to list readers: %s", err.Error()))
		}

		handlerLogger.WithField("readers_count", len(readers)).Info("Reader list retrieved")
		return c.Send(formatReaderList(listType, readers))
	})

	b.Handle("/deactivate", func(c telebot.Context) error {
		return handleActivation(ctx, c, baseLogger, false, adminService.DeactivateReader)
	})

	b.Handle("/activate", func(c telebot.Context) error {
		return handleActivation(ctx, c, baseLogger, true, adminService.ActivateReader)
	})

	b.Handle("/stats", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/stats",
			"sender_id": c.Sender().ID,
		})

		day := readingService.Today()
		if args := c.Args(); len(args) > 0 {
			parsed, err := time.ParseInLocation(readingDateLayout, args[0], day.Location())
			if err != nil {
				return c.Send("Use /stats or /stats YYYY-MM-DD.")
			}
			day = parsed
		}

		st, err := adminService.Stats(ctx, c.Sender().ID, day)
		if err != nil {
			if errors.Is(err, app.ErrAdminNotAuthorized) {
				handlerLogger.Warn("Unauthorized access attempt")
				return c.Send(msgUnauthorized)
			}
			handlerLogger.WithError(err).Error("Failed to build stats")
			return c.Send(fmt.Sprintf("Failed to build stats: %s", err.Error()))
		}
		return c.Send(formatStats(st))
	})
}

type activationFunc func(ctx context.Context, performingAdminID, readerTelegramID int64) (*reader.Reader, error)

func handleActivation(ctx context.Context, c telebot.Context, baseLogger *logrus.Entry, activate bool, fn activationFunc) error {
	command := "/deactivate"
	if activate {
		command = "/activate"
	}
	handlerLogger := baseLogger.WithFields(logrus.Fields{
		"handler":   command,
		"sender_id": c.Sender().ID,
	})
	handlerLogger.Info("Command received")

	args := c.Args()
	if len(args) != 1 {
		return c.Send(fmt.Sprintf("Invalid format. Use: %s <TelegramID>", command))
	}
	readerTelegramID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		handlerLogger.WithField("arg", args[0]).Warn("Invalid Telegram ID format")
		return c.Send("Error: Telegram ID must be a number.")
	}
	handlerLogger = handlerLogger.WithField("reader_telegram_id", readerTelegramID)

	target, err := fn(ctx, c.Sender().ID, readerTelegramID)
	if err != nil {
		logWithError := handlerLogger.WithError(err)
		switch {
		case errors.Is(err, app.ErrAdminNotAuthorized):
			logWithError.Warn("Unauthorized access attempt")
			return c.Send(msgUnauthorized)
		case errors.Is(err, idb.ErrReaderNotFound):
			logWithError.Warn("Reader not found")
			return c.Send(fmt.Sprintf("No reader with Telegram ID %d.", readerTelegramID))
		case errors.Is(err, app.ErrReaderAlreadyInactive):
			return c.Send(fmt.Sprintf("%s (ID: %d) is already inactive.", target.DisplayName(), target.TelegramID))
		case errors.Is(err, app.ErrReaderAlreadyActive):
			return c.Send(fmt.Sprintf("%s (ID: %d) is already active.", target.DisplayName(), target.TelegramID))
		default:
			logWithError.Error("Failed to change reader activity")
			return c.Send(fmt.Sprintf("Failed to update reader: %s", err.Error()))
		}
	}

	handlerLogger.WithField("reader_id", target.ID).Info("Reader activity changed")
	state := "deactivated"
	if activate {
		state = "activated"
	}
	return c.Send(fmt.Sprintf("%s (ID: %d) %s.", target.DisplayName(), target.TelegramID, state))
}

func formatReaderList(listType string, readers []*reader.Reader) string {
	if len(readers) == 0 {
		if listType == "active" {
			return "No active readers."
		}
		return "No readers yet."
	}

	title := "Active readers"
	if listType == "all" {
		title = "All readers"
	}
	var response strings.Builder
	response.WriteString(fmt.Sprintf("--- %s (%d) ---\n", title, len(readers)))
	for _, r := range readers {
		status := "inactive"
		if r.IsActive {
			status = "active"
		}
		username := "-"
		if r.Username.Valid {
			username = "@" + r.Username.String
		}
		response.WriteString(fmt.Sprintf("ID: %d, Telegram ID: %d, Name: %s, Username: %s, Status: %s\n",
			r.ID, r.TelegramID, r.FirstName, username, status))
	}
	return strings.TrimRight(response.String(), "\n")
}

func formatStats(st *app.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stats for %s\n", st.Date.Format(readingDateLayout))
	if st.InPlan {
		fmt.Fprintf(&b, "Cycle %d, Day %d\n", st.Info.Cycle, st.Info.DayInCycle)
	} else {
		b.WriteString("Outside the reading plan\n")
	}
	fmt.Fprintf(&b, "Active readers: %d\n", st.ActiveReaders)
	fmt.Fprintf(&b, "Check-ins: %d", st.CheckIns)
	if st.ActiveReaders > 0 {
		fmt.Fprintf(&b, " (%d%%)", st.CheckIns*100/st.ActiveReaders)
	}
	return b.String()
}
