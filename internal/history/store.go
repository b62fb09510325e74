// Package history persists collected sample batches to SQLite so the
// JSON API can serve past readings. The store is an optional sink: the
// exporter runs fine without it and the collection loop never depends
// on a write succeeding.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"printwatch-v0/internal/registry"
)

const schemaDDL = `
create table if not exists samples (
	id     integer primary key autoincrement,
	ts     timestamp not null,
	name   text not null,
	type   text not null,
	value  real not null,
	labels text not null default '{}'
);
create index if not exists samples_ts on samples (ts);
create index if not exists samples_name_ts on samples (name, ts);
`

// Row is one persisted sample.
type Row struct {
	ID        int64             `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Name      string            `json:"name"`
	Type      string            `json:"type"`
	Value     float64           `json:"value"`
	Labels    map[string]string `json:"labels"`
}

// Filters contains optional filters for querying samples.
type Filters struct {
	Name   *string
	Type   *string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// Store is a SQLite-backed sample history.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=500", path))
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	// SQLite allows a single writer; more connections just contend.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Emit inserts a whole sample batch in one transaction. Implements
// collector.Sink.
func (s *Store) Emit(ctx context.Context, at time.Time, batch []registry.Sample) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `insert into samples (ts, name, type, value, labels) values (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, sample := range batch {
		labels, err := json.Marshal(sample.Labels)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, at, sample.Name, string(sample.Kind), sample.Value, string(labels)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListSamples queries persisted samples, newest first.
func (s *Store) ListSamples(ctx context.Context, filters Filters) ([]Row, error) {
	limit := int64(100)
	if filters.Limit > 0 {
		limit = int64(filters.Limit)
	}
	offset := int64(filters.Offset)

	var name, metricType sql.NullString
	if filters.Name != nil {
		name = sql.NullString{String: *filters.Name, Valid: true}
	}
	if filters.Type != nil {
		metricType = sql.NullString{String: *filters.Type, Valid: true}
	}

	var from, to sql.NullTime
	if filters.From != nil {
		from = sql.NullTime{Time: *filters.From, Valid: true}
	}
	if filters.To != nil {
		to = sql.NullTime{Time: *filters.To, Valid: true}
	}

	query := `select id, ts, name, type, value, labels
from samples
where (name = ?1 or ?1 is null)
  and (type = ?2 or ?2 is null)
  and (ts >= ?3 or ?3 is null)
  and (ts <= ?4 or ?4 is null)
order by ts desc, id desc
limit ?5 offset ?6`

	rows, err := s.db.QueryContext(ctx, query, name, metricType, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]Row, 0)
	for rows.Next() {
		var row Row
		var rawLabels string
		if err := rows.Scan(&row.ID, &row.Timestamp, &row.Name, &row.Type, &row.Value, &rawLabels); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(rawLabels), &row.Labels); err != nil {
			return nil, fmt.Errorf("decode labels for sample %d: %w", row.ID, err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
