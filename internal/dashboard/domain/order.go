package domain

import (
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderItem is one line of an order
type OrderItem struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Quantity float64 `json:"quantity" validate:"gte=0"`
	Price    float64 `json:"price" validate:"gte=0"`
}

// OrderNote is an entry of an order's append-only notes
type OrderNote struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// NewOrderNote creates a note authored now
func NewOrderNote(message, author string, now time.Time) OrderNote {
	author = strings.TrimSpace(author)
	if author == "" {
		author = "Admin"
	}
	return OrderNote{
		ID:        uuid.NewString(),
		Message:   strings.TrimSpace(message),
		Author:    author,
		CreatedAt: now.UTC(),
	}
}

// OrderTotal sums quantity times price over the items in exact decimal arithmetic
func OrderTotal(items []OrderItem) Amount {
	sum := new(big.Rat)
	for _, it := range items {
		sum.Add(sum, new(big.Rat).Mul(decimalRat(it.Quantity), decimalRat(it.Price)))
	}
	return formatRat(sum)
}

// decimalRat reads f through its shortest decimal form, so 0.1 is one tenth
func decimalRat(f float64) *big.Rat {
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(f, 'f', -1, 64))
	if !ok {
		return new(big.Rat)
	}
	return r
}
