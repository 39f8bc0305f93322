package store

import (
	"context"
	"testing"
	"time"

	"github.com/albapepper/mindsaathi/internal/mood"
)

func TestMemory_Records(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.AddRecords(
		mood.Record{UserID: "b", Date: base.Add(2 * time.Hour)},
		mood.Record{UserID: "a", Date: base},
		mood.Record{UserID: "a", CreatedAt: base.Add(3 * time.Hour)},
		mood.Record{UserID: "a", Date: base.Add(time.Hour), CreatedAt: base.Add(5 * time.Hour)},
		mood.Record{UserID: "a", Date: base.Add(time.Hour), CreatedAt: base.Add(4 * time.Hour)},
	)
	ctx := context.Background()

	ids, err := m.UserIDs(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 || ids[0] != "b" || ids[1] != "a" {
		t.Errorf("ids = %v, want [b a]", ids)
	}

	tests := []struct {
		name  string
		query mood.RecordQuery
		want  []time.Time // expected CreatedAt-or-Date of each record in order
	}{
		{
			name:  "ascending with createdAt tie-break",
			query: mood.RecordQuery{UserID: "a", Order: mood.Ascending},
			want:  []time.Time{base, base.Add(time.Hour), base.Add(time.Hour), base.Add(3 * time.Hour)},
		},
		{
			name:  "descending limited",
			query: mood.RecordQuery{UserID: "a", Order: mood.Descending, Limit: 2},
			want:  []time.Time{base.Add(3 * time.Hour), base.Add(time.Hour)},
		},
		{
			name:  "since filters on timestamp",
			query: mood.RecordQuery{Since: base.Add(90 * time.Minute), Order: mood.Ascending},
			want:  []time.Time{base.Add(2 * time.Hour), base.Add(3 * time.Hour)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := m.Records(ctx, tt.query)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(recs) != len(tt.want) {
				t.Fatalf("got %d records, want %d", len(recs), len(tt.want))
			}
			for i, r := range recs {
				if !r.Timestamp().Equal(tt.want[i]) {
					t.Errorf("record %d timestamp = %v, want %v", i, r.Timestamp(), tt.want[i])
				}
			}
		})
	}

	asc, _ := m.Records(ctx, mood.RecordQuery{UserID: "a", Order: mood.Ascending})
	if !asc[1].CreatedAt.Before(asc[2].CreatedAt) {
		t.Error("same-timestamp records should order by createdAt")
	}
}

func TestMemory_LoginsSince(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.AddLogins(
		mood.LoginEvent{UserID: "a", LoginAt: base.Add(-time.Minute)},
		mood.LoginEvent{UserID: "a", LoginAt: base},
		mood.LoginEvent{UserID: "b", LoginAt: base.Add(time.Hour)},
	)
	got, err := m.LoginsSince(context.Background(), base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d logins, want 2", len(got))
	}
}

func TestMemory_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMemory().Records(ctx, mood.RecordQuery{}); err == nil {
		t.Error("expected error from canceled context")
	}
}
