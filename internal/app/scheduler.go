package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SlotPruner убирает прошедшие слоты
type SlotPruner interface {
	PruneExpired(ctx context.Context, now time.Time) (int, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	pruner   SlotPruner
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	done     chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(pruner SlotPruner, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		pruner:   pruner,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("prune_interval", s.interval))

	go s.runPruneTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
	<-s.done
}

// runPruneTask периодически убирает прошедшие слоты из расписаний
func (s *Scheduler) runPruneTask(ctx context.Context) {
	defer close(s.done)

	// Первый запуск сразу при старте
	s.pruneSlots(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.pruneSlots(ctx)
		case <-s.stopChan:
			s.logger.Info("Slot prune task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Slot prune task cancelled")
			return
		}
	}
}

func (s *Scheduler) pruneSlots(ctx context.Context) {
	removed, err := s.pruner.PruneExpired(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("Failed to prune expired slots",
			zap.Int("removed", removed),
			zap.Error(err))
		return
	}

	if removed > 0 {
		s.logger.Info("Expired slots pruned", zap.Int("removed", removed))
	}
}
