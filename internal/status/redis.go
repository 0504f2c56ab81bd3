package status

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"lms-engagement-client/internal/logger"
	"lms-engagement-client/internal/models"
)

const channelPrefix = "status_updates:"

// Channel is the pub/sub channel carrying a user's status lines.
func Channel(userID models.ID) string {
	if userID.IsZero() {
		return channelPrefix + "anonymous"
	}
	return channelPrefix + userID.String()
}

type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisPublisher publishes each line as JSON so other processes (and the
// websocket hub) can follow a user's status.
type RedisPublisher struct {
	client publisher
	log    *logger.Logger
	now    func() time.Time
}

func NewRedisPublisher(client *redis.Client, log *logger.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, log: log, now: time.Now}
}

func (p *RedisPublisher) Notify(ctx context.Context, userID models.ID, message string) {
	payload, err := json.Marshal(Line{UserID: userID, Message: message, At: p.now()})
	if err != nil {
		return
	}
	if err := p.client.Publish(ctx, Channel(userID), payload).Err(); err != nil {
		p.log.Warn("status publish failed", "channel", Channel(userID), "error", err)
	}
}
