package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	kgo "github.com/segmentio/kafka-go"
)

const (
	TypePostCreated = "post.created"
	TypePostDeleted = "post.deleted"
)

// Event is the post lifecycle message published to Kafka.
type Event struct {
	ID     string    `json:"id"`
	Type   string    `json:"type"`
	PostID uint      `json:"post_id"`
	UserID uint      `json:"user_id"`
	At     time.Time `json:"at"`
}

func NewEvent(typ string, postID, userID uint) Event {
	return Event{
		ID:     uuid.NewString(),
		Type:   typ,
		PostID: postID,
		UserID: userID,
		At:     time.Now().UTC(),
	}
}

type Writer interface {
	WriteJSON(ctx context.Context, v any) error
	Close() error
}

type kafkaWriter struct {
	w *kgo.Writer
}

func NewKafkaWriter(bootstrapServers, topic string) Writer {
	w := &kgo.Writer{
		Addr:         kgo.TCP(bootstrapServers),
		Topic:        topic,
		Balancer:     &kgo.LeastBytes{},
		RequiredAcks: kgo.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &kafkaWriter{w: w}
}

func (wr *kafkaWriter) WriteJSON(ctx context.Context, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return wr.w.WriteMessages(ctx, kgo.Message{Value: b, Time: time.Now()})
}

func (wr *kafkaWriter) Close() error { return wr.w.Close() }

// Nop is used when no broker is configured.
type Nop struct{}

func (Nop) WriteJSON(context.Context, any) error { return nil }
func (Nop) Close() error                         { return nil }
