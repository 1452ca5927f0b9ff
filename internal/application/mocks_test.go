package application

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"telegram-shop-bot/internal/domain"
	"telegram-shop-bot/internal/domain/model"
	"telegram-shop-bot/internal/domain/ports/adapter"
	"telegram-shop-bot/internal/domain/ports/repository"
)

// fakeCatalog is an in-memory commerce backend recording every mutating call.
type fakeCatalog struct {
	mu       sync.Mutex
	products []adapter.Product
	stock    map[string]int
	images   map[string]string
	carts    map[string][]adapter.CartItem

	createdCarts []string
	addedItems   []string          // "cartID/productID/qty"
	removedItems []string          // "cartID/itemID"
	customers    map[string]string // id -> email
	lastPassword string
	lastCustName string
	nextCustomer int

	failWith error // when set, every call fails
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		stock:     map[string]int{},
		images:    map[string]string{},
		carts:     map[string][]adapter.CartItem{},
		customers: map[string]string{},
	}
}

func (f *fakeCatalog) addProduct(p adapter.Product, available int) {
	f.products = append(f.products, p)
	f.stock[p.ID] = available
	f.images[p.ID] = "https://files.example/" + p.ID + ".jpg"
}

func (f *fakeCatalog) ListProducts(ctx context.Context) ([]adapter.Product, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.products, nil
}

func (f *fakeCatalog) GetProduct(ctx context.Context, id string) (*adapter.Product, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, p := range f.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCatalog) GetProductImage(ctx context.Context, id string) (string, error) {
	if f.failWith != nil {
		return "", f.failWith
	}
	return f.images[id], nil
}

func (f *fakeCatalog) GetStock(ctx context.Context, id string) (*adapter.Stock, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return &adapter.Stock{Available: f.stock[id]}, nil
}

func (f *fakeCatalog) CreateCart(ctx context.Context, cartID string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdCarts = append(f.createdCarts, cartID)
	if _, ok := f.carts[cartID]; !ok {
		f.carts[cartID] = nil
	}
	return nil
}

func (f *fakeCatalog) GetCartItems(ctx context.Context, cartID string) (*adapter.Cart, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	items := f.carts[cartID]
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return &adapter.Cart{
		Items:          append([]adapter.CartItem(nil), items...),
		FormattedTotal: fmt.Sprintf("$%d.00", total),
	}, nil
}

func (f *fakeCatalog) AddCartItem(ctx context.Context, cartID, productID string, qty int) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addedItems = append(f.addedItems, fmt.Sprintf("%s/%s/%d", cartID, productID, qty))
	f.carts[cartID] = append(f.carts[cartID], adapter.CartItem{
		ID:                 "item-" + productID,
		ProductID:          productID,
		Name:               productID,
		Quantity:           qty,
		FormattedUnitPrice: "$1.00",
		FormattedLineTotal: fmt.Sprintf("$%d.00", qty),
	})
	return nil
}

func (f *fakeCatalog) RemoveCartItem(ctx context.Context, cartID, itemID string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removedItems = append(f.removedItems, cartID+"/"+itemID)
	items := f.carts[cartID]
	kept := items[:0]
	for _, item := range items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	f.carts[cartID] = kept
	return nil
}

func (f *fakeCatalog) CreateCustomer(ctx context.Context, name, email, password string) (string, error) {
	if f.failWith != nil {
		return "", f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextCustomer++
	id := "cust-" + strconv.Itoa(f.nextCustomer)
	f.customers[id] = email
	f.lastCustName = name
	f.lastPassword = password
	return id, nil
}

func (f *fakeCatalog) UpdateCustomerEmail(ctx context.Context, customerID, email string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.customers[customerID]; !ok {
		return domain.ErrNotFound
	}
	f.customers[customerID] = email
	return nil
}

// sentMessage records one outbound chat action.
type sentMessage struct {
	kind     string // "text" | "photo" | "delete"
	chatID   int64
	text     string
	imageURL string
	rows     [][]adapter.InlineButton
	msgID    int
}

// fakeTransport records chat actions instead of talking to Telegram.
type fakeTransport struct {
	mu       sync.Mutex
	sent     []sentMessage
	failWith error
}

func (f *fakeTransport) SendText(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{kind: "text", chatID: chatID, text: text, rows: rows})
	return nil
}

func (f *fakeTransport) SendPhoto(ctx context.Context, chatID int64, imageURL, caption string, rows [][]adapter.InlineButton) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{kind: "photo", chatID: chatID, text: caption, imageURL: imageURL, rows: rows})
	return nil
}

func (f *fakeTransport) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{kind: "delete", chatID: chatID, msgID: messageID})
	return nil
}

func (f *fakeTransport) last() sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

// memStateRepo is an in-memory StateRepository.
type memStateRepo struct {
	mu     sync.Mutex
	states map[int64]*repository.ConversationState
	setErr error
}

func newMemStateRepo() *memStateRepo {
	return &memStateRepo{states: map[int64]*repository.ConversationState{}}
}

func (m *memStateRepo) Get(ctx context.Context, chatID int64) (*repository.ConversationState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[chatID]
	if !ok {
		return nil, fmt.Errorf("%w: chat %d", domain.ErrUnknownConversation, chatID)
	}
	cp := *st
	sessCp := *st.Session
	cp.Session = &sessCp
	return &cp, nil
}

func (m *memStateRepo) Set(ctx context.Context, chatID int64, state *repository.ConversationState) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *state
	sessCp := *state.Session
	cp.Session = &sessCp
	m.states[chatID] = &cp
	return nil
}

func (m *memStateRepo) tag(chatID int64) model.StateTag {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[chatID]
	if !ok {
		return ""
	}
	return st.Tag
}

// noopLocker satisfies ConversationLocker without a Redis.
type noopLocker struct{}

func (noopLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "token", nil
}
func (noopLocker) Unlock(ctx context.Context, key, token string) error { return nil }
