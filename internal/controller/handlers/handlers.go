package handlers

import (
	"time"

	"github.com/Freeeeeet/tutor_connect/internal/cache"
	"github.com/Freeeeeet/tutor_connect/internal/controller/state"
	"github.com/Freeeeeet/tutor_connect/internal/service"
	"github.com/Freeeeeet/tutor_connect/internal/session"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд и нажатий
type Handlers struct {
	authService    *service.AuthService
	userService    *service.UserService
	slotService    *service.SlotService
	bookingService *service.BookingService
	cache          cache.Store
	sessions       *session.Manager
	stateManager   *state.Manager
	clients        *clientRegistry
	location       *time.Location
	logger         *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	authService *service.AuthService,
	userService *service.UserService,
	slotService *service.SlotService,
	bookingService *service.BookingService,
	cacheStore cache.Store,
	sessions *session.Manager,
	location *time.Location,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		authService:    authService,
		userService:    userService,
		slotService:    slotService,
		bookingService: bookingService,
		cache:          cacheStore,
		sessions:       sessions,
		stateManager:   state.NewManager(),
		clients:        newClientRegistry(),
		location:       location,
		logger:         logger,
	}
}

// Close останавливает очереди всех чатов
func (h *Handlers) Close() {
	h.clients.closeAll()
}
