// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"nt_reading_bot/internal/app"
	"nt_reading_bot/internal/domain/plan"
	idb "nt_reading_bot/internal/infra/database" // For ErrReaderNotFound

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const (
	monthArgLayout = "2006-01"

	msgNotRegistered = "You are not subscribed yet. Send /start to join the reading plan."
	msgInternalError = "Something went wrong. Please try again later."
)

func RegisterBotCommands(
	ctx context.Context,
	b *telebot.Bot,
	readingService app.ReadingService,
	adminService *app.AdminService,
	baseLogger *logrus.Entry,
) {
	cmdLogger := baseLogger.WithField("handler_group", "reader_commands")

	b.Handle("/start", func(c telebot.Context) error {
		sender := c.Sender()
		logCtx := cmdLogger.WithFields(logrus.Fields{"command": "/start", "sender_id": sender.ID})
		logCtx.Info("Processing /start command")

		r, created, err := readingService.Register(ctx, sender.ID, sender.FirstName, sender.Username)
		if err != nil {
			logCtx.WithError(err).Error("Failed to register reader")
			return c.Send(msgInternalError)
		}

		greeting := fmt.Sprintf("Welcome back, %s! Daily readings are on again.", r.DisplayName())
		if created {
			greeting = fmt.Sprintf("Welcome, %s! Every morning I will send you the day's New Testament reading. Tap \"Mark as Read\" when you finish it.", r.DisplayName())
		}
		if err := c.Send(greeting); err != nil {
			return err
		}

		sum, err := readingService.Summary(ctx, sender.ID, readingService.Today())
		if err != nil {
			logCtx.WithError(err).Error("Failed to build summary after /start")
			return nil
		}
		return c.Send(app.RenderSummary(sum))
	})

	b.Handle("/stop", func(c telebot.Context) error {
		logCtx := cmdLogger.WithFields(logrus.Fields{"command": "/stop", "sender_id": c.Sender().ID})
		if _, err := readingService.Unsubscribe(ctx, c.Sender().ID); err != nil {
			if errors.Is(err, idb.ErrReaderNotFound) {
				return c.Send(msgNotRegistered)
			}
			logCtx.WithError(err).Error("Failed to unsubscribe reader")
			return c.Send(msgInternalError)
		}
		logCtx.Info("Reader unsubscribed")
		return c.Send("Daily readings are paused. Your progress is kept; send /start to resume.")
	})

	b.Handle("/help", func(c telebot.Context) error {
		var helpText strings.Builder
		helpText.WriteString("NT Reading Plan bot\n\n")
		helpText.WriteString("/today - today's reading and your progress\n")
		helpText.WriteString("/progress - same as /today\n")
		helpText.WriteString("/calendar [YYYY-MM] - month calendar of your check-ins\n")
		helpText.WriteString("/plan - all 36 cycles\n")
		helpText.WriteString("/cycle <1-36> - dates and reading of one cycle\n")
		helpText.WriteString("/stop - pause daily messages\n")
		helpText.WriteString("/start - subscribe or resume\n")
		if adminService.IsAdmin(c.Sender().ID) {
			helpText.WriteString("\nAdmin:\n")
			helpText.WriteString("/readers [active|all]\n/deactivate <TelegramID>\n/activate <TelegramID>\n/stats [YYYY-MM-DD]\n")
		}
		return c.Send(helpText.String())
	})

	summaryHandler := func(c telebot.Context) error {
		logCtx := cmdLogger.WithFields(logrus.Fields{"command": c.Text(), "sender_id": c.Sender().ID})
		sum, err := readingService.Summary(ctx, c.Sender().ID, readingService.Today())
		if err != nil {
			if errors.Is(err, idb.ErrReaderNotFound) {
				return c.Send(msgNotRegistered)
			}
			logCtx.WithError(err).Error("Failed to build summary")
			return c.Send(msgInternalError)
		}
		if sum.Phase == app.PhaseInPlan && !sum.CheckedInToday {
			return c.Send(app.RenderSummary(sum), &telebot.SendOptions{ReplyMarkup: checkInMarkupFor(sum.Date)})
		}
		return c.Send(app.RenderSummary(sum))
	}
	b.Handle("/today", summaryHandler)
	b.Handle("/progress", summaryHandler)

	b.Handle("/calendar", func(c telebot.Context) error {
		logCtx := cmdLogger.WithFields(logrus.Fields{"command": "/calendar", "sender_id": c.Sender().ID})
		today := readingService.Today()
		month, err := parseMonthArg(c.Args(), today)
		if err != nil {
			return c.Send("Use /calendar or /calendar YYYY-MM, e.g. /calendar 2025-03.")
		}
		text, err := readingService.CalendarMonth(ctx, c.Sender().ID, month)
		if err != nil {
			if errors.Is(err, idb.ErrReaderNotFound) {
				return c.Send(msgNotRegistered)
			}
			logCtx.WithError(err).Error("Failed to render calendar")
			return c.Send(msgInternalError)
		}
		return c.Send("<pre>"+html.EscapeString(text)+"</pre>", &telebot.SendOptions{ParseMode: telebot.ModeHTML})
	})

	b.Handle("/plan", func(c telebot.Context) error {
		return c.Send(app.RenderPlanOverview(app.OverviewCycle(readingService.Schedule(), readingService.Today())))
	})

	b.Handle("/cycle", func(c telebot.Context) error {
		schedule := readingService.Schedule()
		cycle, err := parseCycleArg(c.Args(), schedule, readingService.Today())
		if err != nil {
			return c.Send(fmt.Sprintf("Use /cycle <1-%d>.", plan.TotalCycles))
		}
		return c.Send(app.RenderCycleDetails(schedule, cycle))
	})
}

// parseMonthArg returns the first day of the requested month, defaulting to
// the month of today.
func parseMonthArg(args []string, today time.Time) (time.Time, error) {
	if len(args) == 0 {
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()), nil
	}
	if len(args) > 1 {
		return time.Time{}, fmt.Errorf("too many arguments: %d", len(args))
	}
	m, err := time.ParseInLocation(monthArgLayout, args[0], today.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: %w", args[0], err)
	}
	return m, nil
}

// parseCycleArg reads a cycle number. Without an argument it is the cycle
// of today, or 1 outside the plan.
func parseCycleArg(args []string, schedule plan.Schedule, today time.Time) (int, error) {
	if len(args) == 0 {
		if info, ok := schedule.CycleInfoForDate(today); ok {
			return info.Cycle, nil
		}
		return 1, nil
	}
	cycle, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid cycle %q: %w", args[0], err)
	}
	return cycle, nil
}
