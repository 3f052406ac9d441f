package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Collaborne/task-scheduler/internal/models"
)

// Event repository errors.
var (
	ErrEventNotFound = errors.New("event not found")
	ErrInvalidEvent  = errors.New("invalid event")
)

// Timestamps are stored fixed-width so string comparison orders them.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

const eventColumns = `id, timestamp, type, entity_type, entity_id, payload_json, metadata_json`

// EventRepository journals timeline events.
type EventRepository struct {
	db *DB
}

type execer interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// NewEventRepository creates an EventRepository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// EventQuery filters a journal query. Nil fields match everything.
type EventQuery struct {
	Type       *models.EventType
	EntityType *models.EntityType
	EntityID   *string
	Since      *time.Time // inclusive
	Until      *time.Time // exclusive
	Cursor     string     // id of the last event of the previous page
	Limit      int
}

// EventPage is one page of query results in journal order.
type EventPage struct {
	Events     []*models.Event
	NextCursor string
}

// Append journals event, requiring type and entity fields.
func (r *EventRepository) Append(ctx context.Context, event *models.Event) error {
	if event == nil || event.Type == "" || event.EntityType == "" || event.EntityID == "" {
		return ErrInvalidEvent
	}
	return r.Create(ctx, event)
}

// Create journals event, assigning an id and timestamp when missing.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.insert(ctx, r.db, event)
}

// CreateWithTx journals event inside tx.
func (r *EventRepository) CreateWithTx(ctx context.Context, tx *sql.Tx, event *models.Event) error {
	if tx == nil {
		return errors.New("transaction is required")
	}
	return r.insert(ctx, tx, event)
}

func (r *EventRepository) insert(ctx context.Context, exec execer, event *models.Event) error {
	if event == nil {
		return ErrInvalidEvent
	}
	if event.Type == "" {
		return fmt.Errorf("%w: type is required", ErrInvalidEvent)
	}
	if event.EntityType == "" {
		return fmt.Errorf("%w: entity type is required", ErrInvalidEvent)
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	} else {
		event.Timestamp = event.Timestamp.UTC()
	}

	var payload, metadata sql.NullString
	if len(event.Payload) > 0 {
		payload = sql.NullString{String: string(event.Payload), Valid: true}
	}
	if event.Metadata != nil {
		data, err := json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadata = sql.NullString{String: string(data), Valid: true}
	}

	_, err := exec.ExecContext(ctx, `
		INSERT INTO events (`+eventColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		event.ID,
		event.Timestamp.Format(timestampLayout),
		string(event.Type),
		string(event.EntityType),
		event.EntityID,
		payload,
		metadata,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// Get returns the event with id.
func (r *EventRepository) Get(ctx context.Context, id string) (*models.Event, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	event, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	return event, err
}

// Query returns events matching q in journal order, one page at a time.
func (r *EventRepository) Query(ctx context.Context, q EventQuery) (*EventPage, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT ` + eventColumns + ` FROM events WHERE 1=1`
	var args []any
	if q.Type != nil {
		query += ` AND type = ?`
		args = append(args, string(*q.Type))
	}
	if q.EntityType != nil {
		query += ` AND entity_type = ?`
		args = append(args, string(*q.EntityType))
	}
	if q.EntityID != nil {
		query += ` AND entity_id = ?`
		args = append(args, *q.EntityID)
	}
	if q.Since != nil {
		query += ` AND timestamp >= ?`
		args = append(args, q.Since.UTC().Format(timestampLayout))
	}
	if q.Until != nil {
		query += ` AND timestamp < ?`
		args = append(args, q.Until.UTC().Format(timestampLayout))
	}
	if q.Cursor != "" {
		query += ` AND seq > (SELECT seq FROM events WHERE id = ?)`
		args = append(args, q.Cursor)
	}
	query += ` ORDER BY seq LIMIT ?`
	args = append(args, limit+1)

	events, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	page := &EventPage{Events: events}
	if len(events) > limit {
		page.Events = events[:limit]
		page.NextCursor = events[limit-1].ID
	}
	return page, nil
}

// ListByEntity returns up to limit events for one entity in journal order.
func (r *EventRepository) ListByEntity(ctx context.Context, entityType models.EntityType, entityID string, limit int) ([]*models.Event, error) {
	if limit <= 0 {
		limit = 100
	}
	return r.list(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE entity_type = ? AND entity_id = ?
		ORDER BY seq
		LIMIT ?
	`, string(entityType), entityID, limit)
}

// ListRecent returns the newest limit events, newest first.
func (r *EventRepository) ListRecent(ctx context.Context, limit int) ([]*models.Event, error) {
	if limit <= 0 {
		limit = 20
	}
	return r.list(ctx, `SELECT `+eventColumns+` FROM events ORDER BY seq DESC LIMIT ?`, limit)
}

// Count returns the number of journaled events.
func (r *EventRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

// DeleteExcess trims the oldest events so at most maxCount remain and
// returns how many were removed. maxCount <= 0 disables trimming.
func (r *EventRepository) DeleteExcess(ctx context.Context, maxCount int) (int64, error) {
	if maxCount <= 0 {
		return 0, nil
	}
	total, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}
	excess := total - int64(maxCount)
	if excess <= 0 {
		return 0, nil
	}

	result, err := r.db.ExecContext(ctx, `
		DELETE FROM events WHERE seq IN (
			SELECT seq FROM events ORDER BY seq LIMIT ?
		)
	`, excess)
	if err != nil {
		return 0, fmt.Errorf("failed to delete excess events: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get deleted count: %w", err)
	}
	return n, nil
}

func (r *EventRepository) list(ctx context.Context, query string, args ...any) ([]*models.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}
	return events, nil
}

func (r *EventRepository) scan(row rowScanner) (*models.Event, error) {
	var (
		event                 models.Event
		timestamp             string
		eventType, entityType string
		payload, metadata     sql.NullString
	)
	if err := row.Scan(&event.ID, &timestamp, &eventType, &entityType, &event.EntityID, &payload, &metadata); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}

	event.Type = models.EventType(eventType)
	event.EntityType = models.EntityType(entityType)
	if t, err := time.Parse(timestampLayout, timestamp); err == nil {
		event.Timestamp = t
	} else {
		r.db.logger.Warn().Err(err).Str("event_id", event.ID).Msg("failed to parse event timestamp")
	}
	if payload.Valid {
		event.Payload = json.RawMessage(payload.String)
	}
	if metadata.Valid {
		if err := json.Unmarshal([]byte(metadata.String), &event.Metadata); err != nil {
			r.db.logger.Warn().Err(err).Str("event_id", event.ID).Msg("failed to parse event metadata")
		}
	}
	return &event, nil
}
