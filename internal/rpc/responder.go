package rpc

import (
	"context"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"

	"planivo-backend/internal/models"
	"planivo-backend/internal/storage"
)

// Responder answers availability checks over NATS request/reply so
// sibling services can validate bookings without going through HTTP.
type Responder struct {
	nc    *nats.Conn
	store *storage.Storage
	sub   *nats.Subscription
}

func NewResponder(nc *nats.Conn, store *storage.Storage) *Responder {
	return &Responder{nc: nc, store: store}
}

func (r *Responder) Start() error {
	sub, err := r.nc.QueueSubscribe(AvailabilitySubject, "availability", r.handle)
	if err != nil {
		return err
	}
	r.sub = sub

	log.Println("INFO availability responder started")
	return nil
}

func (r *Responder) handle(msg *nats.Msg) {
	var req models.AvailabilityRequest
	if err := msgpack.Unmarshal(msg.Data, &req); err != nil {
		log.Printf("ERROR availability request unmarshal: %v", err)
		return
	}

	resp := models.AvailabilityResponse{RequestID: req.RequestID}

	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Second)
	defer cancel()

	conflicts, err := r.store.CheckAvailability(ctx, req.OrgID, req.StaffMemberID, req.StartsAt, req.EndsAt)
	if err != nil {
		resp.Error = "availability check failed"
		log.Printf("ERROR availability check for %s: %v", req.StaffMemberID, err)
	} else {
		resp.Available = len(conflicts) == 0
		resp.Conflicts = conflicts
	}

	payload, err := msgpack.Marshal(&resp)
	if err != nil {
		log.Printf("ERROR availability response marshal: %v", err)
		return
	}

	if err := msg.Respond(payload); err != nil {
		log.Printf("ERROR availability respond: %v", err)
	}
}

func (r *Responder) Stop() error {
	if r.sub != nil {
		return r.sub.Drain()
	}
	return nil
}
