package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"paydesk/internal/platform/db/dbtest"
)

func TestPgRecordListCount(t *testing.T) {
	pool := dbtest.Pool(t)
	ids := dbtest.NationalIDs(t, pool, 2)
	store := NewStore(pool)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Millisecond)
	events := []Event{
		{Action: ActionEmployeeRegistered, EntityType: EntityEmployee, EntityID: ids[0], ActorID: "87654321Z", RequestID: "req-1", After: map[string]any{"category": 1}, OccurredAt: base},
		{Action: ActionEmployeeUpdated, EntityType: EntityEmployee, EntityID: ids[0], ActorID: "87654321Z", Before: map[string]any{"category": 1}, After: map[string]any{"category": 2}, OccurredAt: base.Add(time.Second)},
		{Action: ActionEmployeeDeleted, EntityType: EntityEmployee, EntityID: ids[0], Before: map[string]any{"category": 2}, OccurredAt: base.Add(2 * time.Second)},
		{Action: ActionEmployeeRegistered, EntityType: EntityEmployee, EntityID: ids[1], OccurredAt: base.Add(3 * time.Second)},
	}
	for _, evt := range events {
		if err := store.Record(ctx, evt); err != nil {
			t.Fatalf("record %s: %v", evt.Action, err)
		}
	}

	tests := []struct {
		name        string
		filter      Filter
		limit       int
		offset      int
		wantActions []string
		wantTotal   int
	}{
		{name: "entity newest first", filter: Filter{EntityID: ids[0]}, wantActions: []string{ActionEmployeeDeleted, ActionEmployeeUpdated, ActionEmployeeRegistered}, wantTotal: 3},
		{name: "paged", filter: Filter{EntityID: ids[0]}, limit: 1, offset: 1, wantActions: []string{ActionEmployeeUpdated}, wantTotal: 3},
		{name: "action and entity", filter: Filter{EntityID: ids[1], Action: ActionEmployeeRegistered}, wantActions: []string{ActionEmployeeRegistered}, wantTotal: 1},
		{name: "no match", filter: Filter{EntityID: ids[1], Action: ActionEmployeeDeleted}, wantTotal: 0},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			entries, err := store.List(ctx, tc.filter, tc.limit, tc.offset)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(entries) != len(tc.wantActions) {
				t.Fatalf("expected %d entries, got %d", len(tc.wantActions), len(entries))
			}
			for i, want := range tc.wantActions {
				if entries[i].Action != want {
					t.Fatalf("expected action %q at %d, got %q", want, i, entries[i].Action)
				}
			}
			total, err := store.Count(ctx, tc.filter)
			if err != nil {
				t.Fatalf("count: %v", err)
			}
			if total != tc.wantTotal {
				t.Fatalf("expected total %d, got %d", tc.wantTotal, total)
			}
		})
	}

	entries, err := store.List(ctx, Filter{EntityID: ids[0], Action: ActionEmployeeRegistered}, 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].ActorID != "87654321Z" || entries[0].RequestID != "req-1" {
		t.Fatalf("expected stamped registration entry, got %+v", entries)
	}
	if entries[0].Before != nil {
		t.Fatalf("expected no before snapshot, got %s", entries[0].Before)
	}
	var after map[string]float64
	if err := json.Unmarshal(entries[0].After, &after); err != nil {
		t.Fatalf("decode after snapshot: %v", err)
	}
	if after["category"] != 1 {
		t.Fatalf("expected category 1 in after snapshot, got %v", after)
	}
}
