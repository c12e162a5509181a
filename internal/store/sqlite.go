package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/amishk599/jobintake/internal/model"
)

// SQLiteStore persists normalized records per tenant and tracks processed
// message IDs for inbox deduplication.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS seen_messages (
		message_id TEXT PRIMARY KEY,
		first_seen INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS intake_records (
		id               TEXT PRIMARY KEY,
		tenant_id        TEXT NOT NULL,
		client_name      TEXT NOT NULL,
		category         TEXT NOT NULL,
		description      TEXT NOT NULL,
		price            INTEGER NOT NULL,
		address          TEXT,
		schedule_iso     TEXT,
		schedule_display TEXT,
		all_day          INTEGER NOT NULL DEFAULT 0,
		phone            TEXT,
		email            TEXT,
		created_at       INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_intake_records_tenant ON intake_records (tenant_id, created_at)`,
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// its tables exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// SaveRecord stores rec under tenantID and returns the id assigned to it.
func (s *SQLiteStore) SaveRecord(ctx context.Context, tenantID string, rec model.NormalizedJobRecord) (string, error) {
	if tenantID == "" {
		return "", errors.New("saving record: tenant id is required")
	}

	id := uuid.NewString()
	var iso, display sql.NullString
	allDay := false
	if rec.Schedule != nil {
		iso = sql.NullString{String: rec.Schedule.ISO, Valid: true}
		display = sql.NullString{String: rec.Schedule.Display, Valid: true}
		allDay = rec.Schedule.AllDay
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO intake_records
		(id, tenant_id, client_name, category, description, price, address,
		 schedule_iso, schedule_display, all_day, phone, email, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, tenantID, rec.ClientName, rec.Category, rec.Description, rec.Price,
		nullString(rec.Address), iso, display, allDay,
		nullString(rec.Phone), nullString(rec.Email), s.now().UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("saving record for tenant %s: %w", tenantID, err)
	}
	return id, nil
}

// ListRecords returns up to limit records for tenantID, newest first. An empty
// tenantID lists every tenant. A limit of zero or less means no limit.
func (s *SQLiteStore) ListRecords(ctx context.Context, tenantID string, limit int) ([]model.SavedRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT
		id, tenant_id, client_name, category, description, price, address,
		schedule_iso, schedule_display, all_day, phone, email, created_at
		FROM intake_records
		WHERE (? = '' OR tenant_id = ?)
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, tenantID, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var out []model.SavedRecord
	for rows.Next() {
		var (
			sr                    model.SavedRecord
			address, phone, email sql.NullString
			iso, display          sql.NullString
			allDay                bool
			createdAt             int64
		)
		if err := rows.Scan(
			&sr.ID, &sr.TenantID, &sr.Record.ClientName, &sr.Record.Category,
			&sr.Record.Description, &sr.Record.Price, &address,
			&iso, &display, &allDay, &phone, &email, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		sr.Record.Address = stringPtr(address)
		sr.Record.Phone = stringPtr(phone)
		sr.Record.Email = stringPtr(email)
		if iso.Valid {
			sr.Record.Schedule = &model.ScheduleResolution{ISO: iso.String, Display: display.String, AllDay: allDay}
		}
		sr.CreatedAt = time.Unix(0, createdAt)
		out = append(out, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return out, nil
}

// CountRecords returns the number of stored records per tenant.
func (s *SQLiteStore) CountRecords(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT tenant_id, COUNT(*) FROM intake_records GROUP BY tenant_id")
	if err != nil {
		return nil, fmt.Errorf("counting records: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			tenant string
			n      int
		)
		if err := rows.Scan(&tenant, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[tenant] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating counts: %w", err)
	}
	return counts, nil
}

// HasSeen returns true if the given message ID has already been recorded.
func (s *SQLiteStore) HasSeen(messageID string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM seen_messages WHERE message_id = ?", messageID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking seen status for %s: %w", messageID, err)
	}
	return true, nil
}

// MarkSeen records a message ID as seen. If it already exists the call is a no-op.
func (s *SQLiteStore) MarkSeen(messageID string) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO seen_messages (message_id, first_seen) VALUES (?, ?)",
		messageID, s.now().Unix())
	if err != nil {
		return fmt.Errorf("marking message %s as seen: %w", messageID, err)
	}
	return nil
}

// Cleanup deletes seen-message entries older than the given duration.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) error {
	cutoff := s.now().Add(-olderThan).Unix()
	_, err := s.db.Exec("DELETE FROM seen_messages WHERE first_seen < ?", cutoff)
	if err != nil {
		return fmt.Errorf("cleaning up seen messages older than %v: %w", olderThan, err)
	}
	return nil
}

// IsEmpty returns true if no message has been marked seen yet.
func (s *SQLiteStore) IsEmpty() (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM seen_messages").Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking if store is empty: %w", err)
	}
	return count == 0, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
