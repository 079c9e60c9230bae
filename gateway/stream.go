package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// TradeTick is one public trade on the instrument.
type TradeTick struct {
	Instrument string `json:"instrument"`
	Price      string `json:"price"`
	Quantity   string `json:"quantity"`
	Timestamp  int64  `json:"timestamp"`
}

// TradeHandler receives parsed ticks from the stream.
type TradeHandler func(TradeTick)

// Stream reads the venue's public trade feed for one instrument. The bot
// prices off its own book, not this feed; the stream only feeds the
// venue-last-trade telemetry so drift is visible on dashboards.
type Stream struct {
	Endpoint   string // wss://... public stream endpoint
	Instrument string
	Dialer     *websocket.Dialer
}

func NewStream(endpoint, instrument string) *Stream {
	return &Stream{
		Endpoint:   endpoint,
		Instrument: instrument,
		Dialer:     websocket.DefaultDialer,
	}
}

// Run connects, subscribes and reads until the connection drops or ctx
// is cancelled. Callers reconnect with their own backoff.
func (s *Stream) Run(ctx context.Context, handler TradeHandler) error {
	if s.Endpoint == "" || s.Instrument == "" {
		return fmt.Errorf("stream endpoint and instrument required")
	}
	conn, _, err := s.Dialer.DialContext(ctx, s.Endpoint, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.Endpoint, err)
	}
	defer conn.Close()

	sub := map[string]any{
		"op":   "subscribe",
		"args": []string{"trades:" + s.Instrument},
	}
	if err := conn.WriteJSON(sub); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	// Unblock ReadMessage when the context ends.
	go func() {
		<-ctx.Done()
		_ = conn.SetReadDeadline(time.Now())
		_ = conn.Close()
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read: %w", err)
		}
		var tick TradeTick
		if err := json.Unmarshal(msg, &tick); err != nil || tick.Price == "" {
			// Heartbeats and subscription acks fall through here.
			continue
		}
		if handler != nil {
			handler(tick)
		}
	}
}
