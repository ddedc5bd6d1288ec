// Package broadcast publishes a tick-completed event to an optional
// NATS subject so external subscribers (e.g. a live map UI) can react
// without polling the query surface (spec §6 DOMAIN STACK addendum).
package broadcast

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"terrasim/internal/metrics"
)

const tickSubject = "terrasim.tick.completed"

// tickEvent is the wire payload published on every tick.
type tickEvent struct {
	Tick uint64 `json:"tick"`
	Year int    `json:"year"`
	Day  int    `json:"day"`
	Hour int    `json:"hour"`
}

// Publisher wraps a NATS connection. A nil Publisher (or one built from
// a nil connection) is a safe no-op, so the broadcast stays entirely
// optional per spec §6.
type Publisher struct {
	nc *nats.Conn
}

// New wraps an established NATS connection. Passing nil yields a
// Publisher whose Publish calls are no-ops.
func New(nc *nats.Conn) *Publisher {
	return &Publisher{nc: nc}
}

// Status reports the underlying NATS connection's state, satisfying
// health.NATSStatus. A nil Publisher or connection reports as closed.
func (p *Publisher) Status() nats.Status {
	if p == nil || p.nc == nil {
		return nats.CLOSED
	}
	return p.nc.Status()
}

// PublishTickCompleted announces that a tick finished, carrying just
// enough of the clock to let subscribers decide whether to re-fetch.
func (p *Publisher) PublishTickCompleted(tick uint64, year, day, hour int) {
	if p == nil || p.nc == nil {
		return
	}

	payload, err := json.Marshal(tickEvent{Tick: tick, Year: year, Day: day, Hour: hour})
	if err != nil {
		log.Warn().Err(err).Msg("failed to marshal tick broadcast payload")
		return
	}

	if err := p.nc.Publish(tickSubject, payload); err != nil {
		log.Warn().Err(err).Msg("failed to publish tick broadcast")
		return
	}
	metrics.RecordTickBroadcast()
}
