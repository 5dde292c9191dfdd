package handlers

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/tutor_connect/internal/controller/formatting"
	"github.com/Freeeeeet/tutor_connect/internal/controller/keyboard"
	"github.com/Freeeeeet/tutor_connect/internal/model"
	"github.com/Freeeeeet/tutor_connect/internal/presenter"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// chatView общая часть отображений: отправка в один чат
type chatView struct {
	ctx      context.Context
	sender   Sender
	chatID   int64
	location *time.Location
	logger   *zap.Logger
}

func newChatView(ctx context.Context, sender Sender, chatID int64, location *time.Location, logger *zap.Logger) chatView {
	return chatView{
		ctx:      ctx,
		sender:   sender,
		chatID:   chatID,
		location: location,
		logger:   logger,
	}
}

func (v chatView) send(text string, kb *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID: v.chatID,
		Text:   text,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}
	if _, err := v.sender.SendMessage(v.ctx, params); err != nil {
		v.logger.Error("Failed to send view message", zap.Error(err))
	}
}

func (v chatView) ShowError(err error) {
	v.send(ErrorMessage(err), nil)
}

// bookingsView экран "Мои записи"
type bookingsView struct {
	chatView
}

func (v *bookingsView) ShowLoading() {
	v.send("⏳ Загружаю записи...", nil)
}

func (v *bookingsView) ShowBookings(state presenter.BookingsState) {
	text, kb := renderBookings(state, v.location)
	v.send(text, kb)
}

// renderBookings текст экрана записей и переключатель режима для репетитора
func renderBookings(state presenter.BookingsState, loc *time.Location) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder

	if state.State == presenter.StateDisplayingCached {
		sb.WriteString("📴 Нет связи с сервером, показаны сохранённые записи\n\n")
	}

	if state.Mode == presenter.ModeTutor {
		n := len(state.TutorBookings)
		sb.WriteString(fmt.Sprintf("👨‍🏫 Ко мне записались: %d %s\n\n", n, formatting.PluralizeBookings(n)))
		if len(state.TutorBookings) == 0 {
			sb.WriteString("Пока никто не записался")
		}
		for _, b := range state.TutorBookings {
			sb.WriteString(fmt.Sprintf("• %s, %s\n  %s\n", b.Subject, formatting.FormatSlot(b.Time, loc), b.StudentEmail))
		}
	} else {
		n := len(state.StudentBookings)
		sb.WriteString(fmt.Sprintf("📅 Мои записи: %d %s\n\n", n, formatting.PluralizeBookings(n)))
		if len(state.StudentBookings) == 0 {
			sb.WriteString("У вас пока нет записей. Найдите репетитора: /tutors")
		}
		for _, b := range state.StudentBookings {
			sb.WriteString(fmt.Sprintf("• %s, %s\n  %s\n", b.Subject, formatting.FormatSlot(b.Time, loc), b.TutorName))
		}
	}

	if !state.IsTutor {
		return strings.TrimRight(sb.String(), "\n"), nil
	}

	studentLabel, tutorLabel := "Я ученик", "Я репетитор"
	if state.Mode == presenter.ModeTutor {
		tutorLabel = "✅ " + tutorLabel
	} else {
		studentLabel = "✅ " + studentLabel
	}
	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button(studentLabel, CallbackMode+modeStudent),
			keyboard.Button(tutorLabel, CallbackMode+modeTutor),
		).
		Build()

	return strings.TrimRight(sb.String(), "\n"), kb
}

// tutorView карточка репетитора. Каждая показанная карточка получает номер,
// кнопка слота несёт номер карточки и индекс предмета. Принимаются только
// кнопки последней карточки
type tutorView struct {
	chatView

	mu       sync.Mutex
	card     int
	tutorID  string
	subjects []string
}

func (v *tutorView) ShowTutor(tutor *model.User, groups []model.SubjectSlotGroup) {
	v.mu.Lock()
	v.card++
	card := v.card
	v.tutorID = tutor.UID
	v.subjects = v.subjects[:0]
	for _, g := range groups {
		v.subjects = append(v.subjects, g.Name)
	}
	v.mu.Unlock()

	text, kb := renderTutor(card, tutor, groups, v.location)
	v.send(text, kb)
}

func (v *tutorView) ShowBooked(tutorName, subject string, t time.Time) {
	v.send(fmt.Sprintf("✅ Вы записаны!\n\n%s, %s\nРепетитор: %s\n\nВсе записи: /mybookings",
		subject, formatting.FormatSlot(t, v.location), tutorName), nil)
}

// lookup возвращает репетитора и предмет кнопки, если она с последней карточки
func (v *tutorView) lookup(card, index int) (tutorID, subject string, ok bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if card != v.card || index < 0 || index >= len(v.subjects) {
		return "", "", false
	}
	return v.tutorID, v.subjects[index], true
}

// renderTutor текст карточки и кнопки свободных слотов
func renderTutor(card int, tutor *model.User, groups []model.SubjectSlotGroup, loc *time.Location) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👨‍🏫 %s\n", tutor.Name))
	sb.WriteString(fmt.Sprintf("💰 %s\n", formatting.FormatPricePerHour(tutor.PricePerHour)))
	if tutor.About != "" {
		sb.WriteString(fmt.Sprintf("\n%s\n", tutor.About))
	}

	b := keyboard.NewBuilder()
	total := 0
	for i, g := range groups {
		sb.WriteString(fmt.Sprintf("\n📚 %s: %d %s", g.Name, len(g.Slots), formatting.PluralizeSlots(len(g.Slots))))

		b.Row(keyboard.Button("📚 "+g.Name, CallbackNoop))
		chips := make([]models.InlineKeyboardButton, 0, len(g.Slots))
		for _, slot := range g.Slots {
			chips = append(chips, keyboard.Button(
				formatting.FormatSlotShort(slot, loc),
				bookData(card, i, slot),
			))
		}
		b.Wrap(slotsPerRow, chips...)
		total += len(g.Slots)
	}

	if total == 0 {
		sb.WriteString("\n\nСвободных слотов нет")
		return sb.String(), nil
	}
	sb.WriteString("\n\nВыберите время, чтобы записаться:")
	return sb.String(), b.Build()
}

// bookData данные кнопки слота: "book:<карточка>:<предмет>:<unix>"
func bookData(card, subject int, slot time.Time) string {
	return fmt.Sprintf("%s%d:%d:%d", CallbackBook, card, subject, slot.Unix())
}

// subjectsView редактор предметов репетитора
type subjectsView struct {
	chatView
}

func (v *subjectsView) ShowSubjects(groups []model.SubjectSlotGroup) {
	v.send(renderSubjects(groups, v.location), nil)
}

func renderSubjects(groups []model.SubjectSlotGroup, loc *time.Location) string {
	if len(groups) == 0 {
		return "📚 У вас пока нет предметов\n\nДобавить: /addsubject Название"
	}

	var sb strings.Builder
	sb.WriteString("📚 Мои предметы\n")
	for _, g := range groups {
		sb.WriteString(fmt.Sprintf("\n%s (%d %s)\n", g.Name, len(g.Slots), formatting.PluralizeSlots(len(g.Slots))))
		for _, slot := range g.Slots {
			sb.WriteString(fmt.Sprintf("  • %s\n", formatting.FormatSlot(slot, loc)))
		}
	}
	sb.WriteString("\nСлот: /addslot Предмет; 01.07.2025 10:00\nУдалить: /delslot, /delsubject")
	return sb.String()
}
