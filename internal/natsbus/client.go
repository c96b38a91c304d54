package natsbus

import (
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	AuditStream   = "PLANIVO_AUDIT"
	AuditSubjects = "planivo.*.audit.>"
	PresenceKV    = "PRESENCE"
)

type Client struct {
	nc *nats.Conn
	js nats.JetStreamContext
	kv nats.KeyValue
}

// Connect establishes the NATS connection and initializes JetStream/KV.
func Connect(url string) (*Client, error) {
	if url == "" {
		url = nats.DefaultURL
	}

	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(1 * time.Second),
		nats.ReconnectJitter(500*time.Millisecond, 2*time.Second),
		nats.ReconnectBufSize(8 * 1024 * 1024),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("WARN NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("INFO NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Println("INFO NATS connection closed")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Printf("ERROR NATS error: %v", err)
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	log.Printf("INFO Connected to NATS at %s", nc.ConnectedUrl())

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	if err := ensureInfrastructure(js); err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure infrastructure: %w", err)
	}

	kv, err := js.KeyValue(PresenceKV)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("bind KV bucket: %w", err)
	}

	return &Client{nc: nc, js: js, kv: kv}, nil
}

// Close drains and closes the NATS connection.
func (c *Client) Close() error {
	return c.nc.Drain()
}

// NC returns the underlying NATS connection (for RPC and fanout).
func (c *Client) NC() *nats.Conn {
	return c.nc
}

// JS returns the JetStream context.
func (c *Client) JS() nats.JetStreamContext {
	return c.js
}

// KV returns the PRESENCE KV bucket.
func (c *Client) KV() nats.KeyValue {
	return c.kv
}

func ensureInfrastructure(js nats.JetStreamContext) error {
	_, err := js.StreamInfo(AuditStream)
	if err == nats.ErrStreamNotFound {
		_, err = js.AddStream(&nats.StreamConfig{
			Name:       AuditStream,
			Subjects:   []string{AuditSubjects},
			Retention:  nats.LimitsPolicy,
			MaxAge:     90 * 24 * time.Hour,
			MaxBytes:   10 * 1024 * 1024 * 1024, // 10GB
			MaxMsgSize: 256 * 1024,
			Discard:    nats.DiscardOld,
			Storage:    nats.FileStorage,
		})
		if err != nil {
			return fmt.Errorf("create stream %s: %w", AuditStream, err)
		}
		log.Printf("INFO Created JetStream stream %s", AuditStream)
	} else if err != nil {
		return fmt.Errorf("get stream info: %w", err)
	}

	_, err = js.KeyValue(PresenceKV)
	if err == nats.ErrBucketNotFound {
		_, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket:       PresenceKV,
			TTL:          30 * time.Second,
			MaxValueSize: 4 * 1024,
			History:      1,
			Storage:      nats.FileStorage,
		})
		if err != nil {
			return fmt.Errorf("create KV bucket %s: %w", PresenceKV, err)
		}
		log.Printf("INFO Created KV bucket %s", PresenceKV)
	} else if err != nil {
		return fmt.Errorf("get KV bucket: %w", err)
	}

	return nil
}
