package rpc

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"

	"planivo-backend/internal/models"
)

// AvailabilitySubject is the request/reply subject for conflict checks.
const AvailabilitySubject = "planivo.rpc.availability"

var (
	ErrUnavailable = errors.New("availability service is not running")
	ErrTimeout     = errors.New("request timed out")
)

type Client struct {
	nc *nats.Conn
}

func NewClient(nc *nats.Conn) *Client {
	return &Client{nc: nc}
}

// CheckAvailability asks the availability responder whether a staff
// member is free in the given window.
func (c *Client) CheckAvailability(orgID, staffMemberID string, startsAt, endsAt time.Time) (*models.AvailabilityResponse, error) {
	req := models.AvailabilityRequest{
		RequestID:     uuid.New().String(),
		OrgID:         orgID,
		StaffMemberID: staffMemberID,
		StartsAt:      startsAt,
		EndsAt:        endsAt,
	}

	payload, err := msgpack.Marshal(&req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	msg, err := c.nc.Request(AvailabilitySubject, payload, 5*time.Second)
	if err != nil {
		if errors.Is(err, nats.ErrNoResponders) {
			return nil, ErrUnavailable
		}
		if errors.Is(err, nats.ErrTimeout) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("request: %w", err)
	}

	var resp models.AvailabilityResponse
	if err := msgpack.Unmarshal(msg.Data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if resp.Error != "" {
		return nil, errors.New(resp.Error)
	}

	return &resp, nil
}
