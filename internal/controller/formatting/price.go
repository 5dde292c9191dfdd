package formatting

import "fmt"

// FormatPricePerHour форматирует почасовую ставку в рублях
func FormatPricePerHour(rub int) string {
	if rub <= 0 {
		return "цена не указана"
	}
	return fmt.Sprintf("%d ₽/час", rub)
}
