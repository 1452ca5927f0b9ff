package application

import (
	"telegram-shop-bot/internal/domain/ports/adapter"
)

// Callback tokens shared between keyboards and handlers. Everything else on
// a keyboard is a product id or a cart item id.
const (
	tokenCart = "cart"
	tokenBack = "back"
	tokenPay  = "pay"
)

// menuKeyboard lists one product per row plus the cart affordance.
func menuKeyboard(products []adapter.Product) [][]adapter.InlineButton {
	rows := make([][]adapter.InlineButton, 0, len(products)+1)
	for _, p := range products {
		rows = append(rows, []adapter.InlineButton{{Text: p.Name, Data: p.ID}})
	}
	rows = append(rows, []adapter.InlineButton{{Text: "Cart", Data: tokenCart}})
	return rows
}

// orderKeyboard offers the fixed quantity choices on a product card.
func orderKeyboard() [][]adapter.InlineButton {
	return [][]adapter.InlineButton{
		{
			{Text: "1 pc", Data: "1"},
			{Text: "5 pcs", Data: "5"},
			{Text: "10 pcs", Data: "10"},
		},
		{{Text: "Cart", Data: tokenCart}},
		{{Text: "Back", Data: tokenBack}},
	}
}

// cartKeyboard renders one removal button per item plus pay and back.
func cartKeyboard(items []adapter.CartItem) [][]adapter.InlineButton {
	rows := make([][]adapter.InlineButton, 0, len(items)+2)
	for _, item := range items {
		rows = append(rows, []adapter.InlineButton{{Text: "Remove " + item.Name, Data: item.ID}})
	}
	rows = append(rows, []adapter.InlineButton{{Text: "Pay", Data: tokenPay}})
	rows = append(rows, []adapter.InlineButton{{Text: "Back to menu", Data: tokenBack}})
	return rows
}

// backToMenuKeyboard is all an empty cart offers.
func backToMenuKeyboard() [][]adapter.InlineButton {
	return [][]adapter.InlineButton{{{Text: "Back to menu", Data: tokenBack}}}
}
