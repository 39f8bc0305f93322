package store

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/albapepper/mindsaathi/internal/mood"
)

func stage(t *testing.T, p bson.D, op string) interface{} {
	t.Helper()
	if len(p) != 1 || p[0].Key != op {
		t.Fatalf("stage = %v, want %s", p, op)
	}
	return p[0].Value
}

func TestRecordsPipeline_SinceFallsBackToCreatedAt(t *testing.T) {
	since := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	p := recordsPipeline(mood.RecordQuery{UserID: "u1", Since: since, Order: mood.Descending, Limit: 5})
	if len(p) != 5 {
		t.Fatalf("pipeline has %d stages, want 5: %v", len(p), p)
	}

	match := stage(t, p[0], "$match").(bson.M)
	if match["userId"] != "u1" {
		t.Errorf("user match = %v", match)
	}
	if _, ok := match["date"]; ok {
		t.Errorf("since must not filter on date alone: %v", match)
	}

	fields := stage(t, p[1], "$addFields").(bson.M)
	ifNull := fields[tsField].(bson.M)["$ifNull"].(bson.A)
	if ifNull[0] != "$date" || ifNull[1] != "$createdAt" {
		t.Errorf("timestamp expression = %v", ifNull)
	}

	sinceMatch := stage(t, p[2], "$match").(bson.M)
	if got := sinceMatch[tsField].(bson.M)["$gte"]; got != since {
		t.Errorf("since match = %v, want %v", got, since)
	}

	sort := stage(t, p[3], "$sort").(bson.D)
	if sort[0].Key != tsField || sort[0].Value != -1 {
		t.Errorf("sort = %v", sort)
	}
	if got := stage(t, p[4], "$limit"); got != int64(5) {
		t.Errorf("limit = %v", got)
	}
}

func TestRecordsPipeline_AllHistory(t *testing.T) {
	p := recordsPipeline(mood.RecordQuery{})
	if len(p) != 2 {
		t.Fatalf("pipeline has %d stages, want 2: %v", len(p), p)
	}
	if match := stage(t, p[0], "$match").(bson.M); len(match) != 0 {
		t.Errorf("match = %v, want empty", match)
	}
}
