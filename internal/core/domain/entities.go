package domain

import (
	"fmt"
	"math"
	"time"
)

// Role represents user role in the system
type Role string

const (
	RoleStudent   Role = "student"
	RoleMessOwner Role = "mess-owner"
	RoleProvider  Role = "provider"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleMessOwner, RoleProvider:
		return true
	}
	return false
}

// User represents the persisted `user` record
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Phone string `json:"phone,omitempty"`
}

// TransactionType is the kind of a ledger entry
type TransactionType string

const (
	TxCredit           TransactionType = "credit"
	TxDebit            TransactionType = "debit"
	TxTransferSent     TransactionType = "transfer-sent"
	TxTransferReceived TransactionType = "transfer-received"
)

// TokenTransaction is an immutable ledger entry.
// Amount is signed: credit/transfer-received > 0, debit/transfer-sent < 0.
type TokenTransaction struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Type            TransactionType `json:"type"`
	Amount          int64           `json:"amount"`
	Description     string          `json:"description"`
	RelatedUserID   string          `json:"relatedUserId,omitempty"`
	RelatedUserName string          `json:"relatedUserName,omitempty"`
	OrderID         string          `json:"orderId,omitempty"`
	Timestamp       time.Time       `json:"timestamp"`
}

// Wallet represents the persisted `wallet` record.
// Transactions are ordered most-recent-first.
type Wallet struct {
	UserID       string             `json:"userId"`
	Balance      int64              `json:"balance"`
	Transactions []TokenTransaction `json:"transactions"`
}

// Sum returns the sum of all transaction amounts
func (w *Wallet) Sum() int64 {
	var total int64
	for _, tx := range w.Transactions {
		total += tx.Amount
	}
	return total
}

// Clone returns a deep copy so callers cannot mutate cached state
func (w *Wallet) Clone() *Wallet {
	if w == nil {
		return nil
	}
	c := *w
	c.Transactions = make([]TokenTransaction, len(w.Transactions))
	copy(c.Transactions, w.Transactions)
	return &c
}

// OrderType is dine-in or packed
type OrderType string

const (
	OrderTypeNormal OrderType = "normal"
	OrderTypePacked OrderType = "packed"
)

// MealCustomization captures per-item preferences
type MealCustomization struct {
	PortionSize         string   `json:"portionSize" validate:"omitempty,oneof=small regular large"`
	AddOns              []string `json:"addOns"`
	SpecialInstructions string   `json:"specialInstructions,omitempty"`
}

// OrderItem is immutable after order creation
type OrderItem struct {
	MenuItemID    string             `json:"menuItemId"`
	Name          string             `json:"name"`
	Quantity      int                `json:"quantity"`
	TokensPerItem int64              `json:"tokensPerItem"`
	Customization *MealCustomization `json:"customization,omitempty"`
}

// Order represents one entry of the persisted `orders` list
type Order struct {
	ID                string      `json:"id"`
	UserID            string      `json:"userId"`
	MessID            string      `json:"messId"`
	MessName          string      `json:"messName"`
	Items             []OrderItem `json:"items"`
	TotalTokens       int64       `json:"totalTokens"`
	Status            OrderStatus `json:"status"`
	OrderType         OrderType   `json:"orderType"`
	DeliveryRequested bool        `json:"deliveryRequested"`
	DeliveryAddress   string      `json:"deliveryAddress,omitempty"`
	CreatedAt         time.Time   `json:"createdAt"`
	CompletedAt       *time.Time  `json:"completedAt,omitempty"`
}

// TotalOf returns Σ tokensPerItem × quantity, failing with ErrInvalidOrderItem
// when a line or the running sum leaves the int64 range.
func TotalOf(items []OrderItem) (int64, error) {
	var total int64
	for _, item := range items {
		if item.Quantity < 0 || item.TokensPerItem < 0 {
			return 0, fmt.Errorf("%w: negative quantity or price", ErrInvalidOrderItem)
		}
		if item.TokensPerItem > 0 && int64(item.Quantity) > math.MaxInt64/item.TokensPerItem {
			return 0, fmt.Errorf("%w: line total overflows", ErrInvalidOrderItem)
		}
		line := item.TokensPerItem * int64(item.Quantity)
		if total > math.MaxInt64-line {
			return 0, fmt.Errorf("%w: order total overflows", ErrInvalidOrderItem)
		}
		total += line
	}
	return total, nil
}

// DietTag labels a dish
type DietTag string

// Mess represents a campus dining vendor (read-only catalog seed)
type Mess struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Rating       float64   `json:"rating"`
	TotalRatings int       `json:"totalRatings"`
	DietTags     []DietTag `json:"dietTags"`
	Image        string    `json:"image,omitempty"`
	Location     string    `json:"location"`
	OpeningHours string    `json:"openingHours"`
	OwnerID      string    `json:"ownerId"`
	PricePerMeal int64     `json:"pricePerMeal"`
}

// MenuItem is a dish on a mess menu. Price is in tokens.
type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       int64   `json:"price"`
	DietTag     DietTag `json:"dietTag"`
	Category    string  `json:"category"`
	Available   bool    `json:"available"`
	MessID      string  `json:"messId"`
}
