// Package weekimage рисует недельную сетку слотов в PNG.
package weekimage

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// LessonDuration длительность занятия на сетке. Слот хранит только начало
const LessonDuration = time.Hour

// Slot одно занятие на сетке
type Slot struct {
	Start   time.Time
	Subject string
	Booked  bool
	Label   string // ученик или репетитор для занятых слотов
}

// FontStyle стиль шрифта
type FontStyle string

const (
	FontStyleRegular FontStyle = ""
	FontStyleMedium  FontStyle = "medium"
	FontStyleBold    FontStyle = "bold"
)

// Размеры и отступы
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 120
	dayPaddingX      = 8
	minSlotHeight    = 8.0
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
	daysInWeek       = 7
	hourPaddingTop   = 2
	hourPaddingBot   = 2
	defaultMinHour   = 8
	defaultMaxHour   = 20
	maxLabelRunes    = 18
)

// Размеры шрифтов
const (
	titleFontSize      = 25.0
	dayFontSize        = 27.0
	hourLabelFontSize  = 18.0
	slotTimeFontSize   = 17.0
	legendItemFontSize = 12.0
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 125}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{220, 220, 220, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}

	slotFreeColor       = color.RGBA{133, 193, 85, 220}
	slotBookedColor     = color.RGBA{255, 182, 193, 255}
	slotTextColor       = color.RGBA{20, 24, 28, 230}
	slotBookedTextColor = color.RGBA{120, 40, 50, 255}
	slotShadowColor     = color.RGBA{0, 0, 0, 20}

	legendItemColor = color.RGBA{70, 74, 78, 220}
)

// Week границы отображаемой недели, Пн 00:00 - Вс 23:59 в часовом поясе loc
type Week struct {
	Start time.Time
	End   time.Time
}

// WeekOf возвращает неделю, в которую попадает t
func WeekOf(t time.Time, loc *time.Location) Week {
	local := t.In(loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	sinceMonday := int(day.Weekday()) - 1
	if day.Weekday() == time.Sunday {
		sinceMonday = 6
	}

	start := day.AddDate(0, 0, -sinceMonday)
	return Week{Start: start, End: start.AddDate(0, 0, daysInWeek)}
}

// Contains проверяет, что время попадает в неделю
func (w Week) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

type hourRange struct {
	start int
	end   int
	total int
}

var (
	fontsMu     sync.Mutex
	cachedFonts = make(map[FontStyle]*opentype.Font)
)

// setFont выбирает шрифт Go (в нём есть кириллица), при ошибке basicfont
func setFont(dc *gg.Context, size float64, style FontStyle) {
	data := goregular.TTF
	switch style {
	case FontStyleMedium:
		data = gomedium.TTF
	case FontStyleBold:
		data = gobold.TTF
	}

	fontsMu.Lock()
	parsed, ok := cachedFonts[style]
	if !ok {
		var err error
		parsed, err = opentype.Parse(data)
		if err != nil {
			fontsMu.Unlock()
			dc.SetFontFace(basicfont.Face7x13)
			return
		}
		cachedFonts[style] = parsed
	}
	fontsMu.Unlock()

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		dc.SetFontFace(basicfont.Face7x13)
		return
	}
	dc.SetFontFace(face)
}

// Render рисует неделю week со слотами. now подсвечивает текущий день
func Render(week Week, slots []Slot, now time.Time) ([]byte, error) {
	loc := week.Start.Location()
	byDay := groupByDay(week, slots)
	hours := hourRangeOf(week, slots)

	today := now.In(loc)
	highlightToday := week.Contains(today)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()

	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / daysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, week)
	drawHourLabels(dc, hours, cellHeight)

	date := week.Start
	for i := 0; i < daysInWeek; i++ {
		x := float64(leftLabelsWidth + i*dayWidth)
		y := float64(headerHeight)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, i, highlightToday && sameDay(date, today))
		drawDayHeader(dc, date, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		for _, slot := range byDay[i] {
			drawSlot(dc, slot.Start.In(loc), slot, x, y, dayWidth, hours, cellHeight)
		}
		date = date.AddDate(0, 0, 1)
	}

	if highlightToday {
		drawCurrentTimeLine(dc, today, hours, cellHeight, dayWidth)
	}
	drawLegend(dc, dayWidth)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// groupByDay раскладывает слоты недели по индексу дня, 0 = понедельник
func groupByDay(week Week, slots []Slot) map[int][]Slot {
	byDay := make(map[int][]Slot)
	for _, slot := range slots {
		if !week.Contains(slot.Start) {
			continue
		}
		local := slot.Start.In(week.Start.Location())
		day := int(local.Weekday()) - 1
		if local.Weekday() == time.Sunday {
			day = 6
		}
		byDay[day] = append(byDay[day], slot)
	}
	return byDay
}

// hourRangeOf часы, которые покрывают все слоты недели, с запасом
func hourRangeOf(week Week, slots []Slot) hourRange {
	minHour, maxHour := 24, 0
	for _, slot := range slots {
		if !week.Contains(slot.Start) {
			continue
		}
		start := slot.Start.In(week.Start.Location())
		end := start.Add(LessonDuration)

		endHour := end.Hour()
		if end.Minute() > 0 {
			endHour++
		}
		if end.Day() != start.Day() {
			endHour = 24
		}
		if start.Hour() < minHour {
			minHour = start.Hour()
		}
		if endHour > maxHour {
			maxHour = endHour
		}
	}

	if minHour == 24 {
		minHour, maxHour = defaultMinHour, defaultMaxHour
	}

	start := max(minHour-hourPaddingTop, 0)
	end := min(maxHour+hourPaddingBot, 23)

	return hourRange{start: start, end: end, total: end - start + 1}
}

func drawHeader(dc *gg.Context, week Week) {
	last := week.End.AddDate(0, 0, -1)

	title := monthNames[week.Start.Month()]
	if week.Start.Month() != last.Month() {
		title += " - " + monthNames[last.Month()]
	}

	setFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	w, h := dc.MeasureString(title)
	dc.DrawStringAnchored(title, w/2, float64(headerHeight)/8+h/2, 0, 0)
}

func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	setFont(dc, hourLabelFontSize, FontStyleMedium)
	dc.SetColor(hourLabelColor)

	for i := 0; i < hours.total; i++ {
		y := float64(headerHeight) + float64(i)*cellHeight
		dc.DrawStringAnchored(fmt.Sprintf("%02d:00", hours.start+i), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday bool) {
	switch {
	case isToday:
		dc.SetColor(todayBgColor)
	case dayIndex%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

func drawDayHeader(dc *gg.Context, date time.Time, x, y float64, dayWidth int) {
	setFont(dc, dayFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(date.Format("02.01"), x+float64(dayWidth)/2, y, 0.5, -1)
	dc.DrawStringAnchored(weekdayNames[date.Weekday()], x+float64(dayWidth)/2, y, 0.5, -0.2)
}

func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for i := 0; i <= hours.total; i++ {
		hy := y + float64(i)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

func drawSlot(dc *gg.Context, start time.Time, slot Slot, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	startHour := float64(start.Hour()) + float64(start.Minute())/60.0
	endHour := startHour + LessonDuration.Hours()

	slotY := y + (startHour-float64(hours.start))*cellHeight
	slotHeight := max((endHour-startHour)*cellHeight, minSlotHeight)
	slotWidth := float64(dayWidth) - float64(dayPaddingX*2)

	fill, text := slotFreeColor, slotTextColor
	if slot.Booked {
		fill, text = slotBookedColor, slotBookedTextColor
	}

	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, slotY+2+shadowOffset, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+dayPaddingX, slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(darken(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+dayPaddingX, slotY+2, slotWidth, slotHeight-4, slotBorderRadius)
	dc.Stroke()

	setFont(dc, slotTimeFontSize, FontStyleMedium)
	dc.SetColor(text)
	txtX := x + dayPaddingX + 8
	txtY := slotY + 18
	dc.DrawStringAnchored(start.Format("15:04")+" "+truncate(slot.Subject), txtX, txtY, 0, 0)

	if slot.Label != "" && slotHeight > 25 {
		setFont(dc, slotTimeFontSize-2, FontStyleRegular)
		dc.DrawStringAnchored(truncate(slot.Label), txtX, txtY+16, 0, 0)
	}
}

// truncate обрезает подпись по рунам, чтобы не резать кириллицу посередине
func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxLabelRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLabelRunes-1]) + "…"
}

func darken(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

func drawCurrentTimeLine(dc *gg.Context, now time.Time, hours hourRange, cellHeight float64, dayWidth int) {
	current := float64(now.Hour()) + float64(now.Minute())/60.0
	if current < float64(hours.start) || current > float64(hours.end) {
		return
	}

	y := float64(headerHeight) + (current-float64(hours.start))*cellHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2.0)
	dc.DrawLine(float64(leftLabelsWidth), y, float64(leftLabelsWidth+daysInWeek*dayWidth), y)
	dc.Stroke()
}

func drawLegend(dc *gg.Context, dayWidth int) {
	items := []struct {
		label string
		clr   color.Color
	}{
		{"Свободно", slotFreeColor},
		{"Занято", slotBookedColor},
	}

	const boxW, boxH = 20.0, 14.0
	x := float64(leftLabelsWidth + daysInWeek*dayWidth + 10)
	y := float64(imageHeight) - 78.0

	for _, item := range items {
		dc.SetColor(item.clr)
		dc.DrawRoundedRectangle(x, y, boxW, boxH, 3)
		dc.Fill()

		setFont(dc, legendItemFontSize, FontStyleRegular)
		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.label, x+boxW+8, y+boxH/2+1, 0, 0.2)
		y += boxH + 14
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "Пн",
	time.Tuesday:   "Вт",
	time.Wednesday: "Ср",
	time.Thursday:  "Чт",
	time.Friday:    "Пт",
	time.Saturday:  "Сб",
	time.Sunday:    "Вс",
}

var monthNames = map[time.Month]string{
	time.January:   "Январь",
	time.February:  "Февраль",
	time.March:     "Март",
	time.April:     "Апрель",
	time.May:       "Май",
	time.June:      "Июнь",
	time.July:      "Июль",
	time.August:    "Август",
	time.September: "Сентябрь",
	time.October:   "Октябрь",
	time.November:  "Ноябрь",
	time.December:  "Декабрь",
}
