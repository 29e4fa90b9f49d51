// Package archive keeps every reading the sampler sends in Postgres and
// answers time and similarity queries over them.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"

	"github.com/saturnino-fabrica-de-software/moodwatch/internal/domain"
	"github.com/saturnino-fabrica-de-software/moodwatch/internal/sampler"
)

const (
	DefaultLimit = 50
	MaxLimit     = 1000
)

// DB is satisfied by *pgxpool.Pool and pgxmock pools.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Record is an archived reading.
type Record struct {
	ID        int64          `json:"id"`
	SessionID string         `json:"session_id"`
	Reading   domain.Reading `json:"reading"`
}

// Match is a record with its cosine similarity to a query mapping.
type Match struct {
	Record
	Similarity float64 `json:"similarity"`
}

type Store struct {
	db DB
}

func New(db DB) *Store {
	return &Store{db: db}
}

func (s *Store) Name() string {
	return "archive"
}

// Send archives every buffered reading of the payload, falling back to the
// recent readings when the payload carries no buffer. Consecutive payloads
// overlap, so readings already stored for the session are skipped.
func (s *Store) Send(ctx context.Context, payload *sampler.Payload) error {
	readings := payload.Readings
	if len(readings) == 0 {
		readings = payload.RecentEmotions
	}
	_, err := s.Insert(ctx, payload.SessionID, readings)
	return err
}

// Insert stores readings in one transaction and returns how many were new.
func (s *Store) Insert(ctx context.Context, sessionID string, readings []domain.Reading) (int64, error) {
	if len(readings) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO readings (session_id, captured_at, dominant_emotion, confidence, emotions, emotion_vector)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (session_id, captured_at) DO NOTHING
	`

	var inserted int64
	for _, r := range readings {
		emotions, err := json.Marshal(r.Emotions)
		if err != nil {
			return 0, fmt.Errorf("marshal emotions: %w", err)
		}

		tag, err := tx.Exec(ctx, query,
			sessionID,
			r.Time(),
			r.DominantEmotion,
			r.Confidence,
			emotions,
			pgvector.NewVector(r.Emotions.Vector()),
		)
		if err != nil {
			return 0, fmt.Errorf("insert reading: %w", err)
		}
		inserted += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// Recent returns the newest readings across sessions, newest first. An
// empty sessionID matches every session.
func (s *Store) Recent(ctx context.Context, sessionID string, limit int) ([]Record, error) {
	query := `
		SELECT id, session_id, captured_at, dominant_emotion, confidence, emotions
		FROM readings
		WHERE ($1::text = '' OR session_id = $1)
		ORDER BY captured_at DESC
		LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, sessionID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query recent readings: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate readings: %w", err)
	}
	return records, nil
}

// Similar returns the readings whose emotion vectors are closest to
// emotions by cosine distance, most similar first.
func (s *Store) Similar(ctx context.Context, emotions domain.Emotions, limit int) ([]Match, error) {
	query := `
		SELECT id, session_id, captured_at, dominant_emotion, confidence, emotions,
		       1 - (emotion_vector <=> $1) AS similarity
		FROM readings
		ORDER BY emotion_vector <=> $1
		LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, pgvector.NewVector(emotions.Vector()), clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query similar readings: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		var capturedAt time.Time
		var raw []byte
		if err := rows.Scan(
			&m.ID,
			&m.SessionID,
			&capturedAt,
			&m.Reading.DominantEmotion,
			&m.Reading.Confidence,
			&raw,
			&m.Similarity,
		); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		if err := fillReading(&m.Reading, capturedAt, raw); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return matches, nil
}

// CountByEmotion tallies archived dominant emotions since the given time.
func (s *Store) CountByEmotion(ctx context.Context, since time.Time) (map[string]int, error) {
	query := `
		SELECT dominant_emotion, COUNT(*)
		FROM readings
		WHERE captured_at >= $1
		GROUP BY dominant_emotion
	`

	rows, err := s.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("count readings: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[label] = n
	}
	return counts, rows.Err()
}

func scanRecord(rows pgx.Rows) (Record, error) {
	var rec Record
	var capturedAt time.Time
	var raw []byte
	if err := rows.Scan(
		&rec.ID,
		&rec.SessionID,
		&capturedAt,
		&rec.Reading.DominantEmotion,
		&rec.Reading.Confidence,
		&raw,
	); err != nil {
		return Record{}, fmt.Errorf("scan reading: %w", err)
	}
	if err := fillReading(&rec.Reading, capturedAt, raw); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func fillReading(r *domain.Reading, capturedAt time.Time, raw []byte) error {
	r.Timestamp = capturedAt.UnixMilli()
	if err := json.Unmarshal(raw, &r.Emotions); err != nil {
		return fmt.Errorf("decode emotions: %w", err)
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

var _ sampler.Sink = (*Store)(nil)
