// Package redis хранит снимки кэша в Redis. Снимок владельца занимает три
// ключа: хэш с метаданными и по списку JSON-строк на каждую сторону записей.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Freeeeeet/tutor_connect/internal/cache"
	"github.com/Freeeeeet/tutor_connect/internal/model"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "bookings_cache"

// Connection параметры подключения
type Connection struct {
	Addr     string
	Password string
	DB       int
}

type Store struct {
	Db *redis.Client
}

var _ cache.Store = (*Store)(nil)

// New подключается и проверяет соединение
func New(ctx context.Context, cfg Connection) (*Store, error) {
	const op = "cache.redis.New"
	db := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{Db: db}, nil
}

func (s *Store) Close() error { return s.Db.Close() }

func metaKey(owner string) string    { return keyPrefix + ":" + owner + ":meta" }
func studentKey(owner string) string { return keyPrefix + ":" + owner + ":student" }
func tutorKey(owner string) string   { return keyPrefix + ":" + owner + ":tutor" }

// Save заменяет снимок в одной MULTI/EXEC транзакции
func (s *Store) Save(ctx context.Context, owner string, snapshot cache.Snapshot) error {
	const op = "cache.redis.Save"

	students := make([]interface{}, 0, len(snapshot.StudentBookings))
	for _, b := range snapshot.StudentBookings {
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		students = append(students, data)
	}
	tutors := make([]interface{}, 0, len(snapshot.TutorBookings))
	for _, b := range snapshot.TutorBookings {
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		tutors = append(tutors, data)
	}

	savedAt := snapshot.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}

	_, err := s.Db.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, metaKey(owner), studentKey(owner), tutorKey(owner))
		pipe.HSet(ctx, metaKey(owner),
			"is_tutor", strconv.FormatBool(snapshot.IsTutor),
			"saved_at", savedAt.Unix(),
		)
		if len(students) > 0 {
			pipe.RPush(ctx, studentKey(owner), students...)
		}
		if len(tutors) > 0 {
			pipe.RPush(ctx, tutorKey(owner), tutors...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Load читает снимок. Строки, которые не разбираются или неполны, пропускаются
func (s *Store) Load(ctx context.Context, owner string) (*cache.Snapshot, error) {
	const op = "cache.redis.Load"

	meta, err := s.Db.HGetAll(ctx, metaKey(owner)).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(meta) == 0 {
		return nil, nil
	}

	snapshot := &cache.Snapshot{}
	snapshot.IsTutor, _ = strconv.ParseBool(meta["is_tutor"])
	if unix, err := strconv.ParseInt(meta["saved_at"], 10, 64); err == nil {
		snapshot.SavedAt = time.Unix(unix, 0).UTC()
	}

	studentRows, err := s.Db.LRange(ctx, studentKey(owner), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	students := make([]model.StudentBooking, 0, len(studentRows))
	for _, row := range studentRows {
		var b model.StudentBooking
		if json.Unmarshal([]byte(row), &b) != nil {
			continue
		}
		students = append(students, b)
	}
	snapshot.StudentBookings = cache.FilterStudent(students)

	tutorRows, err := s.Db.LRange(ctx, tutorKey(owner), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	tutors := make([]model.TutorBooking, 0, len(tutorRows))
	for _, row := range tutorRows {
		var b model.TutorBooking
		if json.Unmarshal([]byte(row), &b) != nil {
			continue
		}
		tutors = append(tutors, b)
	}
	snapshot.TutorBookings = cache.FilterTutor(tutors)

	return snapshot, nil
}
