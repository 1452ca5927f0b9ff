package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"telegram-shop-bot/internal/domain"
	"telegram-shop-bot/internal/domain/model"
	"telegram-shop-bot/internal/domain/ports/adapter"
)

// Machine is the conversation state machine core. Transition runs the handler
// for the current state and returns the next state; all side effects go
// through the catalog client and the chat transport. Handlers never recover
// from errors themselves — the dispatcher is the only recovery boundary.
type Machine struct {
	catalog  adapter.CatalogClient
	chat     adapter.ChatTransport
	validate *validator.Validate
	log      *zerolog.Logger
}

func NewMachine(catalog adapter.CatalogClient, chat adapter.ChatTransport, log *zerolog.Logger) *Machine {
	return &Machine{
		catalog:  catalog,
		chat:     chat,
		validate: validator.New(),
		log:      log,
	}
}

// Transition maps (state, event) to the next state. The switch is total over
// the closed state set; anything else is ErrUnknownState.
func (m *Machine) Transition(ctx context.Context, tag model.StateTag, ev *model.Event, sess *model.Session) (model.StateTag, error) {
	switch tag {
	case model.StateStart:
		return m.handleStart(ctx, ev, sess)
	case model.StateHandleMenu:
		return m.handleMenu(ctx, ev, sess)
	case model.StateHandleDescription:
		return m.handleDescription(ctx, ev, sess)
	case model.StateHandleCart:
		return m.handleCart(ctx, ev, sess)
	case model.StateWaitingEmail:
		return m.handleWaitingEmail(ctx, ev, sess)
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownState, tag)
	}
}

// handleStart renders the product menu. When entered from a button press the
// message holding the old keyboard is deleted first, so the menu replaces it.
func (m *Machine) handleStart(ctx context.Context, ev *model.Event, sess *model.Session) (model.StateTag, error) {
	if ev.Kind == model.EventCallback && ev.MessageID != 0 {
		if err := m.deleteMessage(ctx, sess.ChatID, ev.MessageID); err != nil {
			return "", err
		}
	}
	products, err := m.catalog.ListProducts(ctx)
	if err != nil {
		return "", fmt.Errorf("list products: %w", err)
	}
	if err := m.sendText(ctx, sess.ChatID, menuPrompt, menuKeyboard(products)); err != nil {
		return "", err
	}
	return model.StateHandleMenu, nil
}

// handleMenu reacts to a menu button: the cart affordance or a product id.
func (m *Machine) handleMenu(ctx context.Context, ev *model.Event, sess *model.Session) (model.StateTag, error) {
	if ev.Token == tokenCart {
		if err := m.renderCart(ctx, sess); err != nil {
			return "", err
		}
		return model.StateHandleCart, nil
	}

	productID := ev.Token
	sess.ProductID = productID

	product, err := m.catalog.GetProduct(ctx, productID)
	if err != nil {
		return "", fmt.Errorf("get product %s: %w", productID, err)
	}
	imageURL, err := m.catalog.GetProductImage(ctx, productID)
	if err != nil {
		return "", fmt.Errorf("get product image %s: %w", productID, err)
	}
	stock, err := m.catalog.GetStock(ctx, productID)
	if err != nil {
		return "", fmt.Errorf("get stock %s: %w", productID, err)
	}

	if err := m.deleteMessage(ctx, sess.ChatID, ev.MessageID); err != nil {
		return "", err
	}
	if err := m.sendPhoto(ctx, sess.ChatID, imageURL, productCaption(product, stock), orderKeyboard()); err != nil {
		return "", err
	}
	return model.StateHandleDescription, nil
}

// handleDescription reacts to the product card: back, a quantity, or cart.
func (m *Machine) handleDescription(ctx context.Context, ev *model.Event, sess *model.Session) (model.StateTag, error) {
	switch {
	case ev.Token == tokenBack:
		return m.handleStart(ctx, ev, sess)
	case ev.Token == tokenCart:
		if err := m.renderCart(ctx, sess); err != nil {
			return "", err
		}
		return model.StateHandleCart, nil
	}

	qty, err := strconv.Atoi(ev.Token)
	if err != nil || qty <= 0 {
		return "", fmt.Errorf("unexpected token on product card: %q", ev.Token)
	}
	if !sess.HasCart() {
		if err := m.catalog.CreateCart(ctx, sess.CartKey()); err != nil {
			return "", fmt.Errorf("create cart: %w", err)
		}
		sess.MarkCartCreated()
	}
	if err := m.catalog.AddCartItem(ctx, sess.CartKey(), sess.ProductID, qty); err != nil {
		return "", fmt.Errorf("add cart item: %w", err)
	}
	m.log.Debug().Str("product_id", sess.ProductID).Int("quantity", qty).Msg("added to cart")
	return model.StateHandleDescription, nil
}

// handleCart reacts to the cart view: back, pay, or a removal button.
func (m *Machine) handleCart(ctx context.Context, ev *model.Event, sess *model.Session) (model.StateTag, error) {
	switch ev.Token {
	case tokenBack:
		return m.handleStart(ctx, ev, sess)
	case tokenPay:
		if err := m.sendText(ctx, sess.ChatID, emailPrompt, nil); err != nil {
			return "", err
		}
		return model.StateWaitingEmail, nil
	}

	itemID := ev.Token
	if err := m.catalog.RemoveCartItem(ctx, sess.CartKey(), itemID); err != nil {
		return "", fmt.Errorf("remove cart item %s: %w", itemID, err)
	}
	if err := m.renderCart(ctx, sess); err != nil {
		return "", err
	}
	return model.StateHandleCart, nil
}

// handleWaitingEmail records the typed email against the customer record.
// Invalid input re-prompts instead of hitting the backend.
func (m *Machine) handleWaitingEmail(ctx context.Context, ev *model.Event, sess *model.Session) (model.StateTag, error) {
	email := strings.TrimSpace(ev.Text)
	if err := m.validate.Var(email, "required,email"); err != nil {
		if err := m.sendText(ctx, sess.ChatID, emailReprompt, nil); err != nil {
			return "", err
		}
		return model.StateWaitingEmail, nil
	}

	if sess.CustomerID == "" {
		// Password is the stringified chat id, a placeholder the backend
		// requires, not a credential anyone is expected to use.
		id, err := m.catalog.CreateCustomer(ctx, ev.CustomerName(), email, sess.CartKey())
		if err != nil {
			return "", fmt.Errorf("create customer: %w", err)
		}
		sess.CustomerID = id
	} else {
		if err := m.catalog.UpdateCustomerEmail(ctx, sess.CustomerID, email); err != nil {
			return "", fmt.Errorf("update customer %s: %w", sess.CustomerID, err)
		}
	}

	if err := m.sendText(ctx, sess.ChatID, fmt.Sprintf(emailConfirmFmt, email), nil); err != nil {
		return "", err
	}
	return model.StateStart, nil
}

// renderCart is the shared cart display used from the menu, the product card
// and the cart itself. Removing the last item clears the cart marker so the
// next render shows the empty-cart message.
func (m *Machine) renderCart(ctx context.Context, sess *model.Session) error {
	if !sess.HasCart() {
		return m.sendText(ctx, sess.ChatID, emptyCartText, backToMenuKeyboard())
	}
	cart, err := m.catalog.GetCartItems(ctx, sess.CartKey())
	if err != nil {
		return fmt.Errorf("get cart items: %w", err)
	}
	if len(cart.Items) == 0 {
		sess.ClearCart()
		return m.sendText(ctx, sess.ChatID, emptyCartText, backToMenuKeyboard())
	}
	return m.sendText(ctx, sess.ChatID, cartText(cart), cartKeyboard(cart.Items))
}

// Transport helpers wrap failures with domain.ErrTransport so the dispatcher
// can tell a failed send from a failed backend call.

func (m *Machine) sendText(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	if err := m.chat.SendText(ctx, chatID, text, rows); err != nil {
		return fmt.Errorf("%w: send text: %v", domain.ErrTransport, err)
	}
	return nil
}

func (m *Machine) sendPhoto(ctx context.Context, chatID int64, imageURL, caption string, rows [][]adapter.InlineButton) error {
	if err := m.chat.SendPhoto(ctx, chatID, imageURL, caption, rows); err != nil {
		return fmt.Errorf("%w: send photo: %v", domain.ErrTransport, err)
	}
	return nil
}

func (m *Machine) deleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if err := m.chat.DeleteMessage(ctx, chatID, messageID); err != nil {
		return fmt.Errorf("%w: delete message %d: %v", domain.ErrTransport, messageID, err)
	}
	return nil
}
