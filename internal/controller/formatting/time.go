package formatting

import (
	"fmt"
	"strings"
	"time"
)

// Месяцы в родительном падеже: "1 июля"
var monthsGenitive = map[time.Month]string{
	time.January:   "января",
	time.February:  "февраля",
	time.March:     "марта",
	time.April:     "апреля",
	time.May:       "мая",
	time.June:      "июня",
	time.July:      "июля",
	time.August:    "августа",
	time.September: "сентября",
	time.October:   "октября",
	time.November:  "ноября",
	time.December:  "декабря",
}

// Форматы, в которых пользователь вводит время слота
var slotLayouts = []string{
	"02.01.2006 15:04",
	"2.1.2006 15:04",
	"2006-01-02 15:04",
}

// FormatSlot форматирует слот как "1 июля: 10:00" в часовом поясе loc
func FormatSlot(t time.Time, loc *time.Location) string {
	local := t.In(loc)
	return fmt.Sprintf("%d %s: %s", local.Day(), monthsGenitive[local.Month()], local.Format("15:04"))
}

// FormatSlotShort форматирует слот для кнопки: "01.07 10:00"
func FormatSlotShort(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("02.01 15:04")
}

// ParseSlot разбирает введённое время слота в часовом поясе loc
func ParseSlot(value string, loc *time.Location) (time.Time, error) {
	value = strings.Join(strings.Fields(value), " ")
	for _, layout := range slotLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported slot time %q", value)
}
