package model

import (
	"errors"
	"testing"

	"telegram-shop-bot/internal/domain"
)

func TestParseStateTag(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"START", "HANDLE_MENU", "HANDLE_DESCRIPTION", "HANDLE_CART", "WAITING_EMAIL"} {
		tag, err := ParseStateTag(s)
		if err != nil {
			t.Fatalf("ParseStateTag(%q): %v", s, err)
		}
		if string(tag) != s {
			t.Fatalf("tag mangled: %q -> %q", s, tag)
		}
	}

	for _, s := range []string{"", "start", "LIMBO", "HANDLE_MENU "} {
		if _, err := ParseStateTag(s); !errors.Is(err, domain.ErrUnknownState) {
			t.Fatalf("ParseStateTag(%q): expected ErrUnknownState, got %v", s, err)
		}
	}
}

func TestEvent_IsRestart(t *testing.T) {
	t.Parallel()

	cases := []struct {
		ev   Event
		want bool
	}{
		{Event{Kind: EventMessage, Text: "/start"}, true},
		{Event{Kind: EventMessage, Text: "  /start  "}, true},
		{Event{Kind: EventMessage, Text: "hello"}, false},
		{Event{Kind: EventCallback, Token: "/start"}, true},
		{Event{Kind: EventCallback, Token: "P1"}, false},
	}
	for _, tc := range cases {
		if got := tc.ev.IsRestart(); got != tc.want {
			t.Fatalf("IsRestart(%+v) = %v, want %v", tc.ev, got, tc.want)
		}
	}
}

func TestEvent_CustomerName(t *testing.T) {
	t.Parallel()

	full := Event{ChatID: 42, FirstName: "Ada", LastName: "Lovelace", Username: "ada"}
	if got := full.CustomerName(); got != "Ada Lovelace 42" {
		t.Fatalf("unexpected name %q", got)
	}

	onlyUsername := Event{ChatID: 42, Username: "ada"}
	if got := onlyUsername.CustomerName(); got != "ada 42" {
		t.Fatalf("unexpected name %q", got)
	}

	bare := Event{ChatID: 42}
	if got := bare.CustomerName(); got != "42" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestSession_CartLifecycle(t *testing.T) {
	t.Parallel()

	sess := NewSession(42)
	if sess.HasCart() {
		t.Fatalf("new session must not have a cart")
	}
	if sess.CartKey() != "42" {
		t.Fatalf("cart key must be the chat id, got %q", sess.CartKey())
	}

	sess.MarkCartCreated()
	if !sess.HasCart() || sess.CartID != "42" {
		t.Fatalf("expected cart marker 42, got %q", sess.CartID)
	}

	sess.ClearCart()
	if sess.HasCart() {
		t.Fatalf("expected cart marker cleared")
	}
}
