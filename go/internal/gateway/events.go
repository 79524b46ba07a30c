package gateway

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/storefront/go/internal/events"
	"github.com/mcdev12/storefront/go/internal/flashsale"
	"github.com/mcdev12/storefront/go/internal/models"
)

// FlashSaleEvent is the frame pushed to WebSocket clients
type FlashSaleEvent struct {
	ID        string          `json:"id"`        // Event UUID
	Type      EventType       `json:"type"`      // Event type
	Timestamp time.Time       `json:"timestamp"` // Scheduler time of the update
	Data      json.RawMessage `json:"data"`      // Event-specific payload
}

// EventType represents the type of flash sale event
type EventType string

const (
	EventTypeFlashSaleRotated EventType = events.EventTypeFlashSaleRotated
	EventTypeFlashSaleTick    EventType = events.EventTypeFlashSaleTick
)

// RotatedData carries the full selection so clients can re-render the showcase
type RotatedData struct {
	Items          []models.Product `json:"items"`
	Window         int              `json:"window"`
	WindowRange    string           `json:"window_range"`
	Countdown      string           `json:"countdown"`
	NextRotationAt time.Time        `json:"next_rotation_at"`
}

// NewFlashSaleEvent converts a scheduler update into a client frame.
// Rotations carry the selection; ticks only carry the countdown.
func NewFlashSaleEvent(u flashsale.Update) (*FlashSaleEvent, error) {
	var (
		eventType EventType
		payload   any
	)

	if u.Rotated {
		eventType = EventTypeFlashSaleRotated
		payload = RotatedData{
			Items:          u.Selection,
			Window:         int(u.Window),
			WindowRange:    u.Window.String(),
			Countdown:      u.Countdown,
			NextRotationAt: u.NextRotationAt,
		}
	} else {
		eventType = EventTypeFlashSaleTick
		payload = events.FlashSaleTickPayload{
			Countdown:      u.Countdown,
			Window:         int(u.Window),
			NextRotationAt: u.NextRotationAt,
			TickedAt:       u.At,
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &FlashSaleEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: u.At,
		Data:      data,
	}, nil
}
