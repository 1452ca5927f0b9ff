package application

import (
	"fmt"
	"strings"

	"telegram-shop-bot/internal/domain/ports/adapter"
)

const (
	menuPrompt      = "Please choose:"
	emptyCartText   = "Your cart is empty."
	emailPrompt     = "Please send your email address."
	emailReprompt   = "That does not look like an email address. Please try again."
	emailConfirmFmt = "Thanks! We will contact you at %s."
)

// productCaption builds the photo caption for a product card.
func productCaption(p *adapter.Product, stock *adapter.Stock) string {
	return fmt.Sprintf("%s\n\n%s per unit\n%d in stock\n%s",
		p.Name, p.FormattedPrice, stock.Available, p.Description)
}

// cartText renders the cart line by line with the aggregate total.
func cartText(cart *adapter.Cart) string {
	var b strings.Builder
	for _, item := range cart.Items {
		b.WriteString(fmt.Sprintf("%s\n%s\n%s per unit\n%d pcs for %s\n\n",
			item.Name, item.Description, item.FormattedUnitPrice, item.Quantity, item.FormattedLineTotal))
	}
	b.WriteString(fmt.Sprintf("Total: %s", cart.FormattedTotal))
	return b.String()
}
