package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/albapepper/mindsaathi/internal/mood"
)

// Collection names written by the mobile app.
const (
	CollectionMoods  = "mindfulnessmoods"
	CollectionLogins = "dashboardloginhistories"
)

// Mongo reads mood records and logins from MongoDB.
type Mongo struct {
	client *mongo.Client
	moods  *mongo.Collection
	logins *mongo.Collection
}

// NewMongo connects, verifies the connection and opens the collections.
func NewMongo(ctx context.Context, uri, dbName string) (*Mongo, error) {
	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(20).
		SetMinPoolSize(2).
		SetMaxConnIdleTime(30 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(dbName)
	return &Mongo{
		client: client,
		moods:  db.Collection(CollectionMoods),
		logins: db.Collection(CollectionLogins),
	}, nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// HealthCheck pings the primary.
func (m *Mongo) HealthCheck(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// UserIDs returns distinct user ids.
func (m *Mongo) UserIDs(ctx context.Context) ([]string, error) {
	values, err := m.moods.Distinct(ctx, "userId", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct userId: %w", err)
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Records returns matching records. Since, ordering and limit apply to the
// record's date, falling back to createdAt when the date is unset.
func (m *Mongo) Records(ctx context.Context, q mood.RecordQuery) ([]mood.Record, error) {
	cursor, err := m.moods.Aggregate(ctx, recordsPipeline(q))
	if err != nil {
		return nil, fmt.Errorf("find moods: %w", err)
	}
	defer cursor.Close(ctx)

	var recs []mood.Record
	for cursor.Next(ctx) {
		var doc moodDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode mood: %w", err)
		}
		recs = append(recs, doc.record())
	}
	return recs, cursor.Err()
}

// LoginsSince returns login events at or after since.
func (m *Mongo) LoginsSince(ctx context.Context, since time.Time) ([]mood.LoginEvent, error) {
	cursor, err := m.logins.Find(ctx, bson.M{"loginAt": bson.M{"$gte": since}})
	if err != nil {
		return nil, fmt.Errorf("find logins: %w", err)
	}
	defer cursor.Close(ctx)

	var events []mood.LoginEvent
	for cursor.Next(ctx) {
		var doc loginDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode login: %w", err)
		}
		loginAt, ok := rawTime(doc.LoginAt)
		if !ok {
			continue
		}
		events = append(events, mood.LoginEvent{
			UserID:  doc.UserID,
			Names:   mood.Names{UserName: doc.UserName, Email: doc.Email},
			LoginAt: loginAt,
		})
	}
	return events, cursor.Err()
}

// --------------------------------------------------------------------------
// Documents
// --------------------------------------------------------------------------

// Loosely typed fields are kept raw: the app has written numbers as int32,
// int64 and double, and occasionally non-numbers.
type moodDoc struct {
	UserID      string        `bson:"userId"`
	UserName    string        `bson:"userName,omitempty"`
	DisplayName string        `bson:"displayName,omitempty"`
	Name        string        `bson:"name,omitempty"`
	FullName    string        `bson:"fullName,omitempty"`
	FirstName   string        `bson:"firstName,omitempty"`
	LastName    string        `bson:"lastName,omitempty"`
	Email       string        `bson:"email,omitempty"`
	Date        bson.RawValue `bson:"date"`
	CreatedAt   bson.RawValue `bson:"createdAt"`
	Mood        bson.RawValue `bson:"mood"`
	Angry       bson.RawValue `bson:"angry"`
	Sad         bson.RawValue `bson:"sad"`
	Happy       bson.RawValue `bson:"happy"`
	Calm        bson.RawValue `bson:"calm"`
	Tired       bson.RawValue `bson:"tired"`
}

func (d moodDoc) record() mood.Record {
	r := mood.Record{
		UserID: d.UserID,
		Names: mood.Names{
			UserName:    d.UserName,
			DisplayName: d.DisplayName,
			Name:        d.Name,
			FullName:    d.FullName,
			FirstName:   d.FirstName,
			LastName:    d.LastName,
			Email:       d.Email,
		},
		Angry:  rawNumber(d.Angry),
		Sad:    rawNumber(d.Sad),
		Happy:  rawNumber(d.Happy),
		Calm:   rawNumber(d.Calm),
		Tired:  rawNumber(d.Tired),
	}
	r.Date, _ = rawTime(d.Date)
	r.CreatedAt, _ = rawTime(d.CreatedAt)
	if s, ok := d.Mood.StringValueOK(); ok && strings.TrimSpace(s) != "" {
		r.MoodRaw = &s
	}
	return r
}

const tsField = "_ts"

func recordsPipeline(q mood.RecordQuery) mongo.Pipeline {
	match := bson.M{}
	if q.UserID != "" {
		match["userId"] = q.UserID
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.M{tsField: bson.M{"$ifNull": bson.A{"$date", "$createdAt"}}}}},
	}
	if !q.Since.IsZero() {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{tsField: bson.M{"$gte": q.Since}}}})
	}
	switch q.Order {
	case mood.Ascending:
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.D{{Key: tsField, Value: 1}, {Key: "createdAt", Value: 1}}}})
	case mood.Descending:
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.D{{Key: tsField, Value: -1}, {Key: "createdAt", Value: -1}}}})
	}
	if q.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(q.Limit)}})
	}
	return pipeline
}

type loginDoc struct {
	UserID   string        `bson:"userId"`
	UserName string        `bson:"userName,omitempty"`
	Email    string        `bson:"email,omitempty"`
	LoginAt  bson.RawValue `bson:"loginAt"`
}

func rawNumber(v bson.RawValue) *float64 {
	var x float64
	switch v.Type {
	case bson.TypeDouble:
		x = v.Double()
	case bson.TypeInt32:
		x = float64(v.Int32())
	case bson.TypeInt64:
		x = float64(v.Int64())
	default:
		return nil
	}
	return &x
}

func rawTime(v bson.RawValue) (time.Time, bool) {
	if v.Type != bson.TypeDateTime {
		return time.Time{}, false
	}
	return v.Time().UTC(), true
}
