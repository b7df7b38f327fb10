/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package memory implements the server side of a matching-pairs card game.
//
// A Dealer shuffles a deck holding every symbol exactly twice and installs
// the id -> symbol mapping into a Table. The Table is the only authority on
// whether two card ids form a pair; the symbols a client claims to see are
// never consulted.
package memory

import (
	"errors"

	"github.com/google/uuid"
)

// Symbol is the face of a card. The empty Symbol never matches anything.
type Symbol string

// Card is one slot of a dealt deck.
type Card struct {
	ID    int    `json:"id"`
	Value Symbol `json:"value"`
}

// Deck is an ordered set of cards holding each symbol exactly twice.
type Deck []Card

// Round identifies a single deal.
type Round = uuid.UUID

// DefaultSymbols is the symbol set used when none is configured.
var DefaultSymbols = []Symbol{"🐱", "🐶", "🐼", "🦊", "🦁", "🐸"}

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInvalidSymbols = errors.New("invalid symbol set")
)
