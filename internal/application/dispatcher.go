package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"telegram-shop-bot/internal/domain"
	"telegram-shop-bot/internal/domain/model"
	"telegram-shop-bot/internal/domain/ports/repository"
	"telegram-shop-bot/internal/infra/logging"
	"telegram-shop-bot/internal/infra/metrics"
)

// ConversationLocker serializes turns for one conversation identity.
type ConversationLocker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

// Dispatcher is the single recovery boundary of the bot: it resolves the
// conversation's state, runs one transition and persists the result. A
// failed turn persists nothing, so resubmitting the same event is safe.
type Dispatcher struct {
	machine *Machine
	states  repository.StateRepository
	locker  ConversationLocker
	log     *zerolog.Logger

	turnTimeout time.Duration
	lockTTL     time.Duration
}

func NewDispatcher(machine *Machine, states repository.StateRepository, locker ConversationLocker, log *zerolog.Logger, turnTimeout, lockTTL time.Duration) *Dispatcher {
	if turnTimeout <= 0 {
		turnTimeout = 30 * time.Second
	}
	if lockTTL <= 0 {
		lockTTL = turnTimeout
	}
	return &Dispatcher{
		machine:     machine,
		states:      states,
		locker:      locker,
		log:         log,
		turnTimeout: turnTimeout,
		lockTTL:     lockTTL,
	}
}

// Handle processes one inbound event end to end.
func (d *Dispatcher) Handle(ctx context.Context, ev *model.Event) error {
	ctx, cancel := context.WithTimeout(ctx, d.turnTimeout)
	defer cancel()

	ctx = logging.WithTraceID(ctx, ulid.Make().String())
	ctx = logging.WithChatID(ctx, ev.ChatID)
	log := logging.With(ctx, d.log)

	lockKey := fmt.Sprintf("conv_lock:%d", ev.ChatID)
	lockToken, err := d.locker.TryLock(ctx, lockKey, d.lockTTL)
	if err != nil {
		return d.fail(log, ev, err)
	}
	// Unlock must go through even when the turn's deadline already expired.
	defer func() { _ = d.locker.Unlock(context.Background(), lockKey, lockToken) }()

	cur, err := d.resolveState(ctx, ev)
	if err != nil {
		return d.fail(log, ev, err)
	}
	metrics.CountTurn(string(cur.Tag))

	next, err := d.machine.Transition(ctx, cur.Tag, ev, cur.Session)
	if err != nil {
		return d.fail(log, ev, err)
	}
	if err := d.states.Set(ctx, ev.ChatID, &repository.ConversationState{Tag: next, Session: cur.Session}); err != nil {
		return d.fail(log, ev, err)
	}

	log.Debug().
		Str("state", string(cur.Tag)).
		Str("next_state", string(next)).
		Str("input", ev.Input()).
		Msg("turn handled")
	return nil
}

// resolveState decides which state handles the event. The restart command
// always resets to START; otherwise a chat with no persisted state is an
// error, not a silent restart.
func (d *Dispatcher) resolveState(ctx context.Context, ev *model.Event) (*repository.ConversationState, error) {
	if ev.IsRestart() {
		return d.restartState(ctx, ev)
	}
	return d.states.Get(ctx, ev.ChatID)
}

// restartState builds the START state for a restart. The backend cart and
// customer are keyed by the chat id and outlive the conversation, so those
// session fields carry over from the persisted session; only the navigation
// scratch (the opened product) resets.
func (d *Dispatcher) restartState(ctx context.Context, ev *model.Event) (*repository.ConversationState, error) {
	sess := model.NewSession(ev.ChatID)
	prev, err := d.states.Get(ctx, ev.ChatID)
	switch {
	case err == nil:
		sess.CartID = prev.Session.CartID
		sess.CustomerID = prev.Session.CustomerID
	case errors.Is(err, domain.ErrUnknownConversation):
		// first contact, nothing to carry over
	default:
		return nil, err
	}
	return &repository.ConversationState{Tag: model.StateStart, Session: sess}, nil
}

func (d *Dispatcher) fail(log *zerolog.Logger, ev *model.Event, err error) error {
	kind := errorKind(err)
	metrics.CountTurnError(kind)
	log.Error().Err(err).Str("kind", kind).Str("input", ev.Input()).Msg("turn failed")
	return err
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownState):
		return "unknown_state"
	case errors.Is(err, domain.ErrUnknownConversation):
		return "unknown_conversation"
	case errors.Is(err, domain.ErrConversationBusy):
		return "busy"
	case errors.Is(err, domain.ErrTransport):
		return "transport"
	default:
		return "upstream"
	}
}
