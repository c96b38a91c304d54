package audit

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"

	"planivo-backend/internal/models"
	"planivo-backend/internal/natsbus"
	"planivo-backend/internal/storage"
)

// Consumer drains the audit stream into the audit_logs table.
type Consumer struct {
	js      nats.JetStreamContext
	storage *storage.Storage
	sub     *nats.Subscription
}

func NewConsumer(js nats.JetStreamContext, storage *storage.Storage) *Consumer {
	return &Consumer{js: js, storage: storage}
}

// Start begins consuming audit events from JetStream.
func (c *Consumer) Start(ctx context.Context) error {
	sub, err := c.js.PullSubscribe(
		natsbus.AuditSubjects,
		"audit-writer",
		nats.ManualAck(),
		nats.AckWait(30*time.Second),
		nats.MaxDeliver(3),
		nats.MaxAckPending(1000),
	)
	if err != nil {
		return err
	}
	c.sub = sub

	go c.consumeLoop(ctx)
	log.Println("INFO Audit consumer started")
	return nil
}

func (c *Consumer) consumeLoop(ctx context.Context) {
	fetchSize := 64
	minFetch := 8
	maxFetch := 512
	fullCount := 0
	emptyCount := 0

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msgs, err := c.sub.Fetch(fetchSize, nats.MaxWait(5*time.Second))
		if err != nil {
			if err != nats.ErrTimeout {
				log.Printf("WARN Audit fetch error: %v", err)
			}
			emptyCount++
			fullCount = 0
			if emptyCount >= 3 && fetchSize > minFetch {
				fetchSize /= 2
				if fetchSize < minFetch {
					fetchSize = minFetch
				}
				emptyCount = 0
			}
			continue
		}

		if len(msgs) == 0 {
			emptyCount++
			fullCount = 0
			if emptyCount >= 3 && fetchSize > minFetch {
				fetchSize /= 2
				if fetchSize < minFetch {
					fetchSize = minFetch
				}
				emptyCount = 0
			}
			continue
		}

		if len(msgs) == fetchSize {
			fullCount++
			emptyCount = 0
			if fullCount >= 3 && fetchSize < maxFetch {
				fetchSize *= 2
				if fetchSize > maxFetch {
					fetchSize = maxFetch
				}
				fullCount = 0
			}
		} else {
			fullCount = 0
			emptyCount = 0
		}

		for _, msg := range msgs {
			if err := c.processMessage(ctx, msg); err != nil {
				log.Printf("WARN Audit process error: %v", err)
				msg.NakWithDelay(5 * time.Second)
				continue
			}
			msg.Ack()
		}
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg *nats.Msg) error {
	var event models.AuditEvent
	if err := msgpack.Unmarshal(msg.Data, &event); err != nil {
		log.Printf("ERROR Audit unmarshal error (terminating): %v", err)
		msg.Term()
		return nil
	}

	entry, err := EventToLog(event)
	if err != nil {
		log.Printf("ERROR Audit event invalid (terminating): %v", err)
		msg.Term()
		return nil
	}

	return c.storage.InsertAuditLog(ctx, entry)
}

// EventToLog converts a wire event into its persisted form.
func EventToLog(event models.AuditEvent) (*models.AuditLog, error) {
	if event.OrgID == "" || event.Action == "" {
		return nil, errors.New("audit event missing org_id or action")
	}

	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return nil, err
	}

	var actorID *string
	if event.ActorID != "" {
		actorID = &event.ActorID
	}

	recordedAt := time.UnixMilli(event.TS)
	if event.TS == 0 {
		recordedAt = time.Now()
	}

	return &models.AuditLog{
		OrgID:        event.OrgID,
		ActorID:      actorID,
		Action:       event.Action,
		ResourceType: event.ResourceType,
		ResourceID:   event.ResourceID,
		Metadata:     metadata,
		RecordedAt:   recordedAt,
	}, nil
}

// Stop gracefully stops the consumer.
func (c *Consumer) Stop() error {
	if c.sub != nil {
		return c.sub.Drain()
	}
	return nil
}
