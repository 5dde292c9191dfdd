package handlers

import (
	"context"
	"sync"

	"github.com/Freeeeeet/tutor_connect/internal/dispatch"
	"github.com/Freeeeeet/tutor_connect/internal/presenter"
	"github.com/Freeeeeet/tutor_connect/internal/session"
	"go.uber.org/zap"
)

const queueBuffer = 64

// client экраны одного чата вошедшего пользователя. Все презентеры чата
// работают в одной очереди
type client struct {
	queue     *dispatch.Queue
	bookings  *presenter.BookingsPresenter
	tutor     *presenter.TutorDetailPresenter
	tutorView *tutorView
	subjects  *presenter.SubjectsEditorPresenter
}

// newClient собирает презентеры для сессии. ctx используется для отправки
// сообщений из очереди и живёт дольше отдельного update
func (h *Handlers) newClient(ctx context.Context, b Sender, chatID int64, sess *session.Session) *client {
	queue := dispatch.NewQueue(queueBuffer)
	logger := h.logger.With(zap.Int64("chat_id", chatID))

	tv := &tutorView{chatView: newChatView(ctx, b, chatID, h.location, logger)}

	return &client{
		queue: queue,
		bookings: presenter.NewBookingsPresenter(
			queue,
			h.bookingService,
			h.cache,
			&bookingsView{chatView: newChatView(ctx, b, chatID, h.location, logger)},
			logger,
			sess.UID,
		),
		tutor: presenter.NewTutorDetailPresenter(
			queue,
			h.userService,
			h.bookingService,
			tv,
			logger,
			sess,
		),
		tutorView: tv,
		subjects: presenter.NewSubjectsEditorPresenter(
			queue,
			h.slotService,
			&subjectsView{chatView: newChatView(ctx, b, chatID, h.location, logger)},
			logger,
			sess,
		),
	}
}

func (c *client) close() {
	c.queue.Close()
}

// clientRegistry клиенты по чатам
type clientRegistry struct {
	mu      sync.Mutex
	clients map[int64]*client
}

func newClientRegistry() *clientRegistry {
	return &clientRegistry{clients: make(map[int64]*client)}
}

// open регистрирует клиента чата, прежний клиент останавливается
func (r *clientRegistry) open(chatID int64, c *client) {
	r.mu.Lock()
	prev := r.clients[chatID]
	r.clients[chatID] = c
	r.mu.Unlock()

	if prev != nil {
		prev.close()
	}
}

func (r *clientRegistry) get(chatID int64) *client {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.clients[chatID]
}

// remove останавливает и убирает клиента чата
func (r *clientRegistry) remove(chatID int64) {
	r.mu.Lock()
	c := r.clients[chatID]
	delete(r.clients, chatID)
	r.mu.Unlock()

	if c != nil {
		c.close()
	}
}

func (r *clientRegistry) closeAll() {
	r.mu.Lock()
	clients := r.clients
	r.clients = make(map[int64]*client)
	r.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}
