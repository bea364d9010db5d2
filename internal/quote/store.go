package quote

import (
	"context"
	"errors"
	"time"
)

const StatusNew = "NEW"

var ErrDuplicateID = errors.New("duplicate request id")

type Item struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
	Qty       int    `json:"qty" validate:"min=1,max=20"`
}

// Line is an item priced at submission time.
type Line struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

type Quote struct {
	ID           string    `json:"id"`
	VisitorID    string    `json:"-"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	Message      string    `json:"message,omitempty"`
	Installation bool      `json:"installation"`
	Lines        []Line    `json:"lines"`
	Estimate     float64   `json:"estimate"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type Consultation struct {
	ID            string    `json:"id"`
	VisitorID     string    `json:"-"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	PreferredTime string    `json:"preferred_time,omitempty"`
	Topic         string    `json:"topic,omitempty"`
	Message       string    `json:"message,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type Store interface {
	Ping(ctx context.Context) error
	CreateQuote(ctx context.Context, q Quote) error
	GetQuote(ctx context.Context, id string) (Quote, bool, error)
	CreateConsultation(ctx context.Context, c Consultation) error
}
