package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

type SlotRepository struct {
	q querier
}

func NewSlotRepository(q querier) *SlotRepository {
	return &SlotRepository{q: q}
}

// Add добавляет слот. Повторное добавление ничего не меняет
func (r *SlotRepository) Add(ctx context.Context, tutorUID, subject string, t time.Time) error {
	query := `
		INSERT INTO available_slots (tutor_uid, subject, slot_time)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`

	if _, err := r.q.Exec(ctx, query, tutorUID, subject, t); err != nil {
		return fmt.Errorf("add slot: %w", err)
	}

	return nil
}

// Remove удаляет слот и возвращает число удалённых строк
func (r *SlotRepository) Remove(ctx context.Context, tutorUID, subject string, t time.Time) (int64, error) {
	query := `
		DELETE FROM available_slots
		WHERE tutor_uid = $1 AND subject = $2 AND slot_time = $3
	`

	result, err := r.q.Exec(ctx, query, tutorUID, subject, t)
	if err != nil {
		return 0, fmt.Errorf("remove slot: %w", err)
	}

	return result.RowsAffected(), nil
}

// GetByTutorIDs получает слоты списка репетиторов: uid -> предмет -> времена
func (r *SlotRepository) GetByTutorIDs(ctx context.Context, tutorUIDs []string) (map[string]map[string][]time.Time, error) {
	result := make(map[string]map[string][]time.Time, len(tutorUIDs))
	if len(tutorUIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT tutor_uid, subject, slot_time
		FROM available_slots
		WHERE tutor_uid = ANY($1)
		ORDER BY tutor_uid, subject, slot_time
	`

	rows, err := r.q.Query(ctx, query, tutorUIDs)
	if err != nil {
		return nil, fmt.Errorf("get slots by tutors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			uid, subject string
			slotTime     time.Time
		)
		if err := rows.Scan(&uid, &subject, &slotTime); err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		if result[uid] == nil {
			result[uid] = make(map[string][]time.Time)
		}
		result[uid][subject] = append(result[uid][subject], slotTime.UTC())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}

	return result, nil
}

// ReplaceAll перезаписывает все слоты репетитора
func (r *SlotRepository) ReplaceAll(ctx context.Context, tutorUID string, slots map[string][]time.Time) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM available_slots WHERE tutor_uid = $1`, tutorUID); err != nil {
		return fmt.Errorf("clear slots: %w", err)
	}

	batch := &pgx.Batch{}
	for subject, times := range slots {
		for _, t := range times {
			batch.Queue(`
				INSERT INTO available_slots (tutor_uid, subject, slot_time)
				VALUES ($1, $2, $3)
				ON CONFLICT DO NOTHING
			`, tutorUID, subject, t)
		}
	}
	if batch.Len() == 0 {
		return nil
	}

	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert slots: %w", err)
	}

	return nil
}
