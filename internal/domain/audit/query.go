package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Filter narrows stored events. Empty fields match everything.
type Filter struct {
	Action     string
	EntityType string
	EntityID   string
	ActorID    string
}

// Entry is a stored event as read back from audit_events.
type Entry struct {
	ID         int64           `json:"id"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	ActorID    string          `json:"actorId,omitempty"`
	RequestID  string          `json:"requestId,omitempty"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func (f Filter) where() (string, []any) {
	var conds []string
	var args []any
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("action", f.Action)
	add("entity_type", f.EntityType)
	add("entity_id", f.EntityID)
	add("actor_id", f.ActorID)
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns matching events, newest first. A non-positive limit returns all.
func (s *Store) List(ctx context.Context, filter Filter, limit, offset int) ([]Entry, error) {
	where, args := filter.where()
	query := `
    SELECT id, action, entity_type, entity_id, actor_id, request_id, before_json, after_json, created_at
    FROM audit_events` + where + `
    ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		args = append(args, limit, offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Action, &e.EntityType, &e.EntityID, &e.ActorID, &e.RequestID, &e.Before, &e.After, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) Count(ctx context.Context, filter Filter) (int, error) {
	where, args := filter.where()
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(*) FROM audit_events"+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count audit events: %w", err)
	}
	return total, nil
}
