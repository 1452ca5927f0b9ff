package adapter

import "context"

// Product is one catalog entry. Prices arrive pre-formatted by the backend
// (e.g. "$12.50") and are passed through to the chat untouched.
type Product struct {
	ID             string
	Name           string
	Description    string
	FormattedPrice string
}

// Stock is the inventory record for one product.
type Stock struct {
	Available int
}

// CartItem is one line of a cart. ID is the cart-item id used for removal,
// which the backend keeps distinct from the product id.
type CartItem struct {
	ID                 string
	ProductID          string
	Name               string
	Description        string
	Quantity           int
	FormattedUnitPrice string
	FormattedLineTotal string
}

// Cart is the current cart contents plus the formatted aggregate total.
type Cart struct {
	Items          []CartItem
	FormattedTotal string
}

// CatalogClient is the narrow interface to the external commerce backend.
// The conversation core never caches what it returns; every render re-fetches.
type CatalogClient interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, productID string) (*Product, error)
	// GetProductImage resolves the product's main image to a fetchable URL.
	GetProductImage(ctx context.Context, productID string) (string, error)
	GetStock(ctx context.Context, productID string) (*Stock, error)

	CreateCart(ctx context.Context, cartID string) error
	GetCartItems(ctx context.Context, cartID string) (*Cart, error)
	AddCartItem(ctx context.Context, cartID, productID string, quantity int) error
	RemoveCartItem(ctx context.Context, cartID, itemID string) error

	CreateCustomer(ctx context.Context, name, email, password string) (string, error)
	UpdateCustomerEmail(ctx context.Context, customerID, email string) error
}
