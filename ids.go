package matchbook

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// OrderID is a globally unique, opaque order identifier, matching the
// uuid.New().String()-keyed ids the teacher assigns to new orders in
// internal/net/messages.go.
type OrderID uuid.UUID

// NewOrderID returns a fresh, random OrderID.
func NewOrderID() OrderID {
	return OrderID(uuid.New())
}

// ParseOrderID parses a canonical UUID string into an OrderID.
func ParseOrderID(s string) (OrderID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return OrderID{}, fmt.Errorf("%w: %v", ErrInvalidOrderID, err)
	}
	return OrderID(id), nil
}

func (id OrderID) String() string { return uuid.UUID(id).String() }

// IsZero reports whether id is the zero-value identifier, used to
// distinguish "no id assigned" from a real, random UUID.
func (id OrderID) IsZero() bool { return id == OrderID{} }

// UserID identifies the owner of an order.
type UserID uuid.UUID

// NewUserID returns a fresh, random UserID.
func NewUserID() UserID {
	return UserID(uuid.New())
}

// ParseUserID parses a canonical UUID string into a UserID.
func ParseUserID(s string) (UserID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, fmt.Errorf("%w: %v", ErrInvalidOrderID, err)
	}
	return UserID(id), nil
}

func (id UserID) String() string { return uuid.UUID(id).String() }

const maxSymbolLength = 10

// Symbol is a non-empty, at-most-10-character trading symbol, normalized to
// upper case on construction.
type Symbol string

// NewSymbol validates and normalizes s into a Symbol.
func NewSymbol(s string) (Symbol, error) {
	if s == "" {
		return "", fmt.Errorf("%w: symbol must not be empty", ErrInvalidSymbol)
	}
	if len(s) > maxSymbolLength {
		return "", fmt.Errorf("%w: symbol %q exceeds %d characters", ErrInvalidSymbol, s, maxSymbolLength)
	}
	return Symbol(strings.ToUpper(s)), nil
}

func (s Symbol) String() string { return string(s) }
