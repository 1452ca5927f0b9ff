package moltin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"telegram-shop-bot/internal/config"
	"telegram-shop-bot/internal/domain/ports/adapter"
	"telegram-shop-bot/internal/infra/metrics"
)

var _ adapter.CatalogClient = (*Client)(nil)

// StatusError is a non-success response from the commerce backend.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("moltin %s: http %d", e.Op, e.Code)
}

// Client implements adapter.CatalogClient against the Moltin (Elastic Path)
// REST API.
type Client struct {
	baseURL string
	channel string
	client  *http.Client
	tokens  *tokenSource
}

func NewClient(cfg *config.MoltinConfig) *Client {
	httpClient := &http.Client{Timeout: 15 * time.Second}
	return &Client{
		baseURL: cfg.BaseURL,
		channel: cfg.Channel,
		client:  httpClient,
		tokens:  newTokenSource(cfg.BaseURL, cfg.ClientID, cfg.ClientSecret, httpClient),
	}
}

// do issues an authorized request and decodes the response into out (when
// out is non-nil). Non-2xx responses become *StatusError.
func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("EP-Channel", c.channel)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.ObserveUpstreamCall(op, time.Since(start), err == nil)
	if err != nil {
		return fmt.Errorf("moltin %s: %w", op, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Op: op, Code: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("moltin %s: decode: %w", op, err)
	}
	return nil
}

func (c *Client) ListProducts(ctx context.Context) ([]adapter.Product, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/pcm/products/", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("EP-Channel", c.channel)

	start := time.Now()
	resp, err := c.client.Do(req)
	metrics.ObserveUpstreamCall("list_products", time.Since(start), err == nil)
	if err != nil {
		return nil, fmt.Errorf("moltin list_products: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Op: "list_products", Code: resp.StatusCode}
	}

	var out struct {
		Data []struct {
			ID         string `json:"id"`
			Attributes struct {
				Name        string `json:"name"`
				Description string `json:"description"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("moltin list_products: decode: %w", err)
	}
	products := make([]adapter.Product, 0, len(out.Data))
	for _, p := range out.Data {
		products = append(products, adapter.Product{
			ID:          p.ID,
			Name:        p.Attributes.Name,
			Description: p.Attributes.Description,
		})
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, productID string) (*adapter.Product, error) {
	var out struct {
		Data struct {
			ID         string `json:"id"`
			Attributes struct {
				Name        string `json:"name"`
				Description string `json:"description"`
			} `json:"attributes"`
			Meta struct {
				DisplayPrice struct {
					WithoutTax struct {
						Formatted string `json:"formatted"`
					} `json:"without_tax"`
				} `json:"display_price"`
			} `json:"meta"`
		} `json:"data"`
	}
	if err := c.do(ctx, "get_product", http.MethodGet, "/catalog/products/"+productID, nil, &out); err != nil {
		return nil, err
	}
	return &adapter.Product{
		ID:             out.Data.ID,
		Name:           out.Data.Attributes.Name,
		Description:    out.Data.Attributes.Description,
		FormattedPrice: out.Data.Meta.DisplayPrice.WithoutTax.Formatted,
	}, nil
}

// GetProductImage resolves the main image relationship, then the file record,
// to the image's public URL.
func (c *Client) GetProductImage(ctx context.Context, productID string) (string, error) {
	var rel struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := c.do(ctx, "get_image_rel", http.MethodGet, "/pcm/products/"+productID+"/relationships/main_image", nil, &rel); err != nil {
		return "", err
	}
	var file struct {
		Data struct {
			Link struct {
				Href string `json:"href"`
			} `json:"link"`
		} `json:"data"`
	}
	if err := c.do(ctx, "get_file", http.MethodGet, "/v2/files/"+rel.Data.ID, nil, &file); err != nil {
		return "", err
	}
	return file.Data.Link.Href, nil
}

func (c *Client) GetStock(ctx context.Context, productID string) (*adapter.Stock, error) {
	var out struct {
		Data struct {
			Available int `json:"available"`
		} `json:"data"`
	}
	if err := c.do(ctx, "get_stock", http.MethodGet, "/v2/inventories/"+productID, nil, &out); err != nil {
		return nil, err
	}
	return &adapter.Stock{Available: out.Data.Available}, nil
}

// CreateCart materializes the cart on the backend. Fetching an unknown cart
// id creates it, so this is a plain GET.
func (c *Client) CreateCart(ctx context.Context, cartID string) error {
	return c.do(ctx, "create_cart", http.MethodGet, "/v2/carts/"+cartID, nil, nil)
}

func (c *Client) GetCartItems(ctx context.Context, cartID string) (*adapter.Cart, error) {
	var out struct {
		Data []struct {
			ID          string `json:"id"`
			ProductID   string `json:"product_id"`
			Name        string `json:"name"`
			Description string `json:"description"`
			Quantity    int    `json:"quantity"`
			Meta        struct {
				DisplayPrice struct {
					WithTax struct {
						Unit struct {
							Formatted string `json:"formatted"`
						} `json:"unit"`
						Value struct {
							Formatted string `json:"formatted"`
						} `json:"value"`
					} `json:"with_tax"`
				} `json:"display_price"`
			} `json:"meta"`
		} `json:"data"`
		Meta struct {
			DisplayPrice struct {
				WithTax struct {
					Formatted string `json:"formatted"`
				} `json:"with_tax"`
			} `json:"display_price"`
		} `json:"meta"`
	}
	if err := c.do(ctx, "get_cart_items", http.MethodGet, "/v2/carts/"+cartID+"/items", nil, &out); err != nil {
		return nil, err
	}
	cart := &adapter.Cart{FormattedTotal: out.Meta.DisplayPrice.WithTax.Formatted}
	for _, item := range out.Data {
		cart.Items = append(cart.Items, adapter.CartItem{
			ID:                 item.ID,
			ProductID:          item.ProductID,
			Name:               item.Name,
			Description:        item.Description,
			Quantity:           item.Quantity,
			FormattedUnitPrice: item.Meta.DisplayPrice.WithTax.Unit.Formatted,
			FormattedLineTotal: item.Meta.DisplayPrice.WithTax.Value.Formatted,
		})
	}
	return cart, nil
}

func (c *Client) AddCartItem(ctx context.Context, cartID, productID string, quantity int) error {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"id":       productID,
			"type":     "cart_item",
			"quantity": quantity,
		},
	}
	return c.do(ctx, "add_cart_item", http.MethodPost, "/v2/carts/"+cartID+"/items", payload, nil)
}

func (c *Client) RemoveCartItem(ctx context.Context, cartID, itemID string) error {
	return c.do(ctx, "remove_cart_item", http.MethodDelete, "/v2/carts/"+cartID+"/items/"+itemID, nil, nil)
}

func (c *Client) CreateCustomer(ctx context.Context, name, email, password string) (string, error) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"type":     "customer",
			"name":     name,
			"email":    email,
			"password": password,
		},
	}
	var out struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := c.do(ctx, "create_customer", http.MethodPost, "/v2/customers", payload, &out); err != nil {
		return "", err
	}
	return out.Data.ID, nil
}

func (c *Client) UpdateCustomerEmail(ctx context.Context, customerID, email string) error {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"type":  "customer",
			"email": email,
		},
	}
	return c.do(ctx, "update_customer", http.MethodPut, "/v2/customers/"+customerID, payload, nil)
}
