package handlers

import (
	"context"

	"github.com/Freeeeeet/tutor_connect/internal/controller/formatting"
)

func (h *Handlers) handleSubjects(ctx context.Context, b Sender, chatID int64) {
	c, ok := h.requireClient(ctx, b, chatID)
	if !ok {
		return
	}
	c.subjects.Load(ctx)
}

func (h *Handlers) handleAddSubject(ctx context.Context, b Sender, chatID int64, name string) {
	if name == "" {
		h.sendError(ctx, b, chatID, "❌ Укажите название: /addsubject Математика")
		return
	}
	c, ok := h.requireClient(ctx, b, chatID)
	if !ok {
		return
	}
	c.subjects.AddSubject(ctx, name)
}

func (h *Handlers) handleDeleteSubject(ctx context.Context, b Sender, chatID int64, name string) {
	if name == "" {
		h.sendError(ctx, b, chatID, "❌ Укажите название: /delsubject Математика")
		return
	}
	c, ok := h.requireClient(ctx, b, chatID)
	if !ok {
		return
	}
	c.subjects.DeleteSubject(ctx, name)
}

// handleSlotChange добавляет или удаляет слот: "Предмет; 01.07.2025 10:00"
func (h *Handlers) handleSlotChange(ctx context.Context, b Sender, chatID int64, args string, add bool) {
	usage := "❌ Формат: /addslot Предмет; 01.07.2025 10:00"
	if !add {
		usage = "❌ Формат: /delslot Предмет; 01.07.2025 10:00"
	}

	subject, when, ok := splitSlotArgs(args)
	if !ok {
		h.sendError(ctx, b, chatID, usage)
		return
	}
	t, err := formatting.ParseSlot(when, h.location)
	if err != nil {
		h.sendError(ctx, b, chatID, usage)
		return
	}

	c, ok := h.requireClient(ctx, b, chatID)
	if !ok {
		return
	}
	if add {
		c.subjects.AddSlot(ctx, subject, t)
		return
	}
	c.subjects.DeleteSlot(ctx, subject, t)
}
