package publisher

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/storefront/go/internal/events"
	"github.com/mcdev12/storefront/go/internal/flashsale"
	"github.com/rs/zerolog/log"
)

// DefaultSubject is the NATS subject rotation events are published on
const DefaultSubject = "flashsale.events.rotated"

// Conn is the subset of *nats.Conn the publisher uses
type Conn interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher announces flash sale rotations on NATS. Tick-only updates
// are not published.
type NATSPublisher struct {
	conn    Conn
	subject string
}

func NewNATSPublisher(conn Conn, subject string) *NATSPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSPublisher{
		conn:    conn,
		subject: subject,
	}
}

var _ flashsale.Listener = (*NATSPublisher)(nil)

// OnFlashSaleUpdate publishes rotation updates. Failures are logged and
// never reach the scheduler.
func (p *NATSPublisher) OnFlashSaleUpdate(u flashsale.Update) {
	if !u.Rotated {
		return
	}

	data, err := p.marshalRotation(u)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal FlashSaleRotated event")
		return
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		log.Error().Err(err).Str("subject", p.subject).Msg("failed to publish FlashSaleRotated event")
		return
	}

	log.Debug().
		Str("subject", p.subject).
		Int("size", len(data)).
		Msg("published FlashSaleRotated event")
}

func (p *NATSPublisher) marshalRotation(u flashsale.Update) ([]byte, error) {
	ids := make([]int, 0, len(u.Selection))
	for _, item := range u.Selection {
		ids = append(ids, item.ID)
	}

	envelope := events.Envelope{
		EventID:   uuid.New().String(),
		EventType: events.EventTypeFlashSaleRotated,
		Timestamp: u.At,
		Payload: events.FlashSaleRotatedPayload{
			Window:         int(u.Window),
			WindowRange:    u.Window.String(),
			ProductIDs:     ids,
			RotatedAt:      u.At,
			NextRotationAt: u.NextRotationAt,
		},
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return data, nil
}
