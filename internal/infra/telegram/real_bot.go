package telegram

import (
	"context"
	"errors"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-shop-bot/internal/config"
	"telegram-shop-bot/internal/domain/model"
	"telegram-shop-bot/internal/domain/ports/adapter"
)

// EventHandler consumes one mapped inbound event.
type EventHandler interface {
	Handle(ctx context.Context, ev *model.Event) error
}

var _ adapter.ChatTransport = (*RealBot)(nil)

// RealBot polls Telegram for updates, maps them to model events and fans
// them out to worker goroutines. It also implements the outbound
// ChatTransport port on the same connection.
type RealBot struct {
	bot     *tgbotapi.BotAPI
	handler EventHandler
	log     *zerolog.Logger

	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealBot(cfg *config.BotConfig, handler EventHandler, log *zerolog.Logger) (*RealBot, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}
	return &RealBot{
		bot:           bot,
		handler:       handler,
		log:           log,
		updateWorkers: workers,
	}, nil
}

// SetHandler wires the dispatcher after construction. The transport is a
// dependency of the machine, which is a dependency of the dispatcher, so the
// cycle is closed here during bootstrap.
func (r *RealBot) SetHandler(h EventHandler) { r.handler = h }

// StartPolling runs until ctx is canceled.
func (r *RealBot) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up, ok := <-updateChan:
					if !ok {
						return
					}
					if err := r.handleUpdate(ctx, up); err != nil {
						r.log.Error().Err(err).Int("worker", id).Msg("update handling failed")
					}
				}
			}
		}(i + 1)
	}

	for {
		select {
		case <-ctx.Done():
			r.bot.StopReceivingUpdates()
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

// StopPolling stops the polling loop gracefully.
func (r *RealBot) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

func (r *RealBot) handleUpdate(ctx context.Context, up tgbotapi.Update) error {
	ev := mapUpdate(up)
	if ev == nil {
		return nil
	}
	if up.CallbackQuery != nil {
		// Stop the client-side spinner; the press is acknowledged even when
		// the turn later fails, matching the reference behavior.
		if _, err := r.bot.Request(tgbotapi.NewCallback(up.CallbackQuery.ID, "")); err != nil {
			r.log.Warn().Err(err).Msg("answer callback query failed")
		}
	}
	// The dispatcher logs and classifies turn errors itself.
	_ = r.handler.Handle(ctx, ev)
	return nil
}

// mapUpdate converts a Telegram update into the transport-neutral event the
// core consumes. Updates that are neither text nor button presses are
// dropped.
func mapUpdate(up tgbotapi.Update) *model.Event {
	switch {
	case up.Message != nil:
		ev := &model.Event{
			Kind:      model.EventMessage,
			ChatID:    up.Message.Chat.ID,
			Text:      up.Message.Text,
			MessageID: up.Message.MessageID,
		}
		if from := up.Message.From; from != nil {
			ev.FirstName = from.FirstName
			ev.LastName = from.LastName
			ev.Username = from.UserName
		}
		return ev
	case up.CallbackQuery != nil && up.CallbackQuery.Message != nil:
		cq := up.CallbackQuery
		ev := &model.Event{
			Kind:      model.EventCallback,
			ChatID:    cq.Message.Chat.ID,
			Token:     cq.Data,
			MessageID: cq.Message.MessageID,
		}
		if from := cq.From; from != nil {
			ev.FirstName = from.FirstName
			ev.LastName = from.LastName
			ev.Username = from.UserName
		}
		return ev
	default:
		return nil
	}
}

func (r *RealBot) SendText(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if markup, ok := toMarkup(rows); ok {
		msg.ReplyMarkup = markup
	}
	_, err := r.bot.Send(msg)
	return err
}

func (r *RealBot) SendPhoto(ctx context.Context, chatID int64, imageURL, caption string, rows [][]adapter.InlineButton) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(imageURL))
	photo.Caption = caption
	if markup, ok := toMarkup(rows); ok {
		photo.ReplyMarkup = markup
	}
	_, err := r.bot.Send(photo)
	return err
}

func (r *RealBot) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	_, err := r.bot.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	return err
}

func toMarkup(rows [][]adapter.InlineButton) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(rows) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		kbRow := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonData(btn.Text, btn.Data))
		}
		kbRows = append(kbRows, kbRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(kbRows...), true
}
