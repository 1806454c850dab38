package models

import "time"

// Base is the metadata every stored document carries. It lives in table
// columns, never inside the JSON document body.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) Meta() *Base { return b }

type Document interface {
	Meta() *Base
}
