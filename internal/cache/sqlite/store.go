// Package sqlite хранит снимки кэша во встроенной базе SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Freeeeeet/tutor_connect/internal/cache"
	"github.com/Freeeeeet/tutor_connect/internal/model"
	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

var _ cache.Store = (*Store)(nil)

// New открывает (и при необходимости создаёт) файл базы
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping cache db: %w", err)
	}
	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}
	return &Store{db: db}, nil
}

// Поля строк допускают NULL: битая строка не мешает записи остальных
func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		owner     TEXT PRIMARY KEY,
		is_tutor  INTEGER NOT NULL DEFAULT 0,
		saved_at  INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cached_student_bookings (
		owner      TEXT NOT NULL,
		subject    TEXT,
		slot_time  INTEGER,
		tutor_id   TEXT,
		tutor_name TEXT
	);

	CREATE TABLE IF NOT EXISTS cached_tutor_bookings (
		owner         TEXT NOT NULL,
		subject       TEXT,
		student_email TEXT,
		slot_time     INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_cached_student_owner ON cached_student_bookings(owner);
	CREATE INDEX IF NOT EXISTS idx_cached_tutor_owner   ON cached_tutor_bookings(owner);
	`
	_, err := db.Exec(schema)
	return err
}

func (s *Store) Close() error { return s.db.Close() }

// Save заменяет снимок владельца целиком
func (s *Store) Save(ctx context.Context, owner string, snapshot cache.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache save: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"snapshots", "cached_student_bookings", "cached_tutor_bookings"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE owner = ?`, owner); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	savedAt := snapshot.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (owner, is_tutor, saved_at) VALUES (?, ?, ?)`,
		owner, snapshot.IsTutor, savedAt.Unix(),
	); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	for _, b := range snapshot.StudentBookings {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cached_student_bookings (owner, subject, slot_time, tutor_id, tutor_name) VALUES (?, ?, ?, ?, ?)`,
			owner, nullString(b.Subject), nullTime(b.Time), nullString(b.TutorID), nullString(b.TutorName),
		); err != nil {
			return fmt.Errorf("insert student booking: %w", err)
		}
	}

	for _, b := range snapshot.TutorBookings {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cached_tutor_bookings (owner, subject, student_email, slot_time) VALUES (?, ?, ?, ?)`,
			owner, nullString(b.Subject), nullString(b.StudentEmail), nullTime(b.Time),
		); err != nil {
			return fmt.Errorf("insert tutor booking: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache save: %w", err)
	}
	return nil
}

// Load читает снимок владельца
func (s *Store) Load(ctx context.Context, owner string) (*cache.Snapshot, error) {
	var (
		isTutor bool
		savedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT is_tutor, saved_at FROM snapshots WHERE owner = ?`, owner,
	).Scan(&isTutor, &savedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	snapshot := &cache.Snapshot{
		IsTutor: isTutor,
		SavedAt: time.Unix(savedAt, 0).UTC(),
	}

	if snapshot.StudentBookings, err = s.loadStudent(ctx, owner); err != nil {
		return nil, err
	}
	if snapshot.TutorBookings, err = s.loadTutor(ctx, owner); err != nil {
		return nil, err
	}

	return snapshot, nil
}

func (s *Store) loadStudent(ctx context.Context, owner string) ([]model.StudentBooking, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT subject, slot_time, tutor_id, tutor_name FROM cached_student_bookings WHERE owner = ? ORDER BY rowid`, owner)
	if err != nil {
		return nil, fmt.Errorf("load student bookings: %w", err)
	}
	defer rows.Close()

	var out []model.StudentBooking
	for rows.Next() {
		var (
			subject, tutorID, tutorName sql.NullString
			slotTime                    sql.NullInt64
		)
		if err := rows.Scan(&subject, &slotTime, &tutorID, &tutorName); err != nil {
			return nil, fmt.Errorf("scan student booking: %w", err)
		}
		out = append(out, model.StudentBooking{
			Subject:   subject.String,
			Time:      fromUnix(slotTime),
			TutorID:   tutorID.String,
			TutorName: tutorName.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate student bookings: %w", err)
	}

	return cache.FilterStudent(out), nil
}

func (s *Store) loadTutor(ctx context.Context, owner string) ([]model.TutorBooking, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT subject, student_email, slot_time FROM cached_tutor_bookings WHERE owner = ? ORDER BY rowid`, owner)
	if err != nil {
		return nil, fmt.Errorf("load tutor bookings: %w", err)
	}
	defer rows.Close()

	var out []model.TutorBooking
	for rows.Next() {
		var (
			subject, email sql.NullString
			slotTime       sql.NullInt64
		)
		if err := rows.Scan(&subject, &email, &slotTime); err != nil {
			return nil, fmt.Errorf("scan tutor booking: %w", err)
		}
		out = append(out, model.TutorBooking{
			Subject:      subject.String,
			StudentEmail: email.String,
			Time:         fromUnix(slotTime),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tutor bookings: %w", err)
	}

	return cache.FilterTutor(out), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullInt64 {
	return sql.NullInt64{Int64: t.Unix(), Valid: !t.IsZero()}
}

func fromUnix(v sql.NullInt64) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return time.Unix(v.Int64, 0).UTC()
}
