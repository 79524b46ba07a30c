package events

import (
	"time"
)

// Event types published by the storefront
const (
	EventTypeFlashSaleRotated = "FlashSaleRotated"
	EventTypeFlashSaleTick    = "FlashSaleTick"
)

// Envelope wraps every published event
type Envelope struct {
	EventID   string    `json:"eventId"`
	EventType string    `json:"eventType"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// FlashSaleRotatedPayload is the payload for a FlashSaleRotated event
type FlashSaleRotatedPayload struct {
	Window         int       `json:"window"`
	WindowRange    string    `json:"window_range"`
	ProductIDs     []int     `json:"product_ids"`
	RotatedAt      time.Time `json:"rotated_at"`
	NextRotationAt time.Time `json:"next_rotation_at"`
}

// FlashSaleTickPayload is the payload for a FlashSaleTick event
type FlashSaleTickPayload struct {
	Countdown      string    `json:"countdown"`
	Window         int       `json:"window"`
	NextRotationAt time.Time `json:"next_rotation_at"`
	TickedAt       time.Time `json:"ticked_at"`
}
