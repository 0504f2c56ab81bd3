// Package status delivers the human-readable progress and result lines
// produced by the client.
package status

import (
	"context"
	"fmt"
	"time"

	"lms-engagement-client/internal/models"
)

// Sink accepts one human-readable message per notification. userID may be
// empty when no one is logged in.
type Sink interface {
	Notify(ctx context.Context, userID models.ID, message string)
}

type Line struct {
	UserID  models.ID `json:"user_id,omitempty"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// String renders the line with a wall-clock prefix, e.g. "[15:04:05] msg".
func (l Line) String() string {
	return fmt.Sprintf("[%s] %s", l.At.Local().Format("15:04:05"), l.Message)
}

// Fanout writes each notification to every sink in order.
type Fanout []Sink

func (f Fanout) Notify(ctx context.Context, userID models.ID, message string) {
	for _, s := range f {
		s.Notify(ctx, userID, message)
	}
}
