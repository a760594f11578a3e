// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package deck describes the estimation cards offered as buttons.
//
// A deck is a list of button rows. The built-in layout is used unless a YAML
// file is configured:
//
//	rows:
//	  - ["1", "2", "3", "5", "8"]
//	  - ["13", "21", "❓"]
package deck

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// maxCardBytes keeps callback payloads inside Telegram's 64 byte limit.
const maxCardBytes = 16

var (
	ErrEmptyDeck   = errors.New("deck has no cards")
	ErrInvalidCard = errors.New("invalid card")
)

// Deck is a 2-D layout of card values.
type Deck struct {
	Rows [][]string `yaml:"rows"`
}

// Default returns the built-in layout.
func Default() Deck {
	return Deck{Rows: [][]string{
		{"0.5", "1", "2", "3", "4", "5"},
		{"6", "7", "8", "9", "10", "12"},
		{"18", "24", "30", "36", "❓"},
	}}
}

// Load reads a deck from a YAML file. An empty path yields Default.
func Load(path string) (Deck, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Deck{}, fmt.Errorf("failed to read deck: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates a YAML deck.
func Parse(data []byte) (Deck, error) {
	var d Deck
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Deck{}, fmt.Errorf("failed to parse deck: %w", err)
	}

	if err := d.Validate(); err != nil {
		return Deck{}, err
	}

	return d, nil
}

// Validate checks that the deck has cards and every card fits a payload.
func (d Deck) Validate() error {
	seen := make(map[string]bool)
	for _, row := range d.Rows {
		for _, card := range row {
			if card == "" || strings.TrimSpace(card) != card {
				return fmt.Errorf("%w: %q", ErrInvalidCard, card)
			}
			if len(card) > maxCardBytes {
				return fmt.Errorf("%w: %q longer than %d bytes", ErrInvalidCard, card, maxCardBytes)
			}
			if seen[card] {
				return fmt.Errorf("%w: duplicate %q", ErrInvalidCard, card)
			}
			seen[card] = true
		}
	}

	if len(seen) == 0 {
		return ErrEmptyDeck
	}

	return nil
}

// Contains reports whether value is a card in the deck.
func (d Deck) Contains(value string) bool {
	for _, row := range d.Rows {
		for _, card := range row {
			if card == value {
				return true
			}
		}
	}
	return false
}
