package audit

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"paydesk/internal/platform/db"
	"paydesk/internal/requestctx"
)

const (
	ActionEmployeeRegistered = "employee.registered"
	ActionEmployeeUpdated    = "employee.updated"
	ActionEmployeeDeleted    = "employee.deleted"
	ActionAdminLogin         = "admin.login"
	ActionAdminLoginFailed   = "admin.login_failed"

	EntityEmployee      = "employee"
	EntityAdministrator = "administrator"
)

type Event struct {
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	ActorID    string    `json:"actorId,omitempty"`
	RequestID  string    `json:"requestId,omitempty"`
	Before     any       `json:"before,omitempty"`
	After      any       `json:"after,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewEvent stamps an event with the actor and request ID carried by ctx.
func NewEvent(ctx context.Context, action, entityType, entityID string, before, after any) Event {
	return Event{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		ActorID:    requestctx.GetActorID(ctx),
		RequestID:  requestctx.GetRequestID(ctx),
		Before:     before,
		After:      after,
		OccurredAt: time.Now().UTC(),
	}
}

type Sink interface {
	Record(ctx context.Context, evt Event) error
}

// Multi delivers every event to each sink and joins their errors.
type Multi []Sink

func (m Multi) Record(ctx context.Context, evt Event) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Record(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Store struct {
	DB db.Querier
}

func NewStore(q db.Querier) *Store {
	return &Store{DB: q}
}

func (s *Store) Record(ctx context.Context, evt Event) error {
	beforeJSON, err := marshalOptional(evt.Before)
	if err != nil {
		return err
	}
	afterJSON, err := marshalOptional(evt.After)
	if err != nil {
		return err
	}

	_, err = s.DB.Exec(ctx, `
    INSERT INTO audit_events (action, entity_type, entity_id, actor_id, request_id, before_json, after_json, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
  `, evt.Action, evt.EntityType, evt.EntityID, evt.ActorID, evt.RequestID, beforeJSON, afterJSON, evt.OccurredAt)
	return err
}

func marshalOptional(value any) ([]byte, error) {
	if value == nil {
		return nil, nil
	}
	return json.Marshal(value)
}
