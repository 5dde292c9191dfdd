package formatting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSlot(t *testing.T) {
	slot := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "1 июля: 10:00", FormatSlot(slot, time.UTC))
	assert.Equal(t, "01.07 10:00", FormatSlotShort(slot, time.UTC))

	moscow := time.FixedZone("MSK", 3*60*60)
	assert.Equal(t, "1 июля: 13:00", FormatSlot(slot, moscow))
}

func TestParseSlot(t *testing.T) {
	moscow := time.FixedZone("MSK", 3*60*60)

	for _, input := range []string{"01.07.2025 13:00", "1.7.2025  13:00", "2025-07-01 13:00"} {
		got, err := ParseSlot(input, moscow)
		require.NoError(t, err, input)
		assert.True(t, got.Equal(time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)), input)
	}

	_, err := ParseSlot("завтра в десять", moscow)
	assert.Error(t, err)
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "запись", PluralizeBookings(1))
	assert.Equal(t, "записи", PluralizeBookings(3))
	assert.Equal(t, "записей", PluralizeBookings(11))
	assert.Equal(t, "слота", PluralizeSlots(22))
	assert.Equal(t, "репетиторов", PluralizeTutors(5))
}

func TestFormatPricePerHour(t *testing.T) {
	assert.Equal(t, "1500 ₽/час", FormatPricePerHour(1500))
	assert.Equal(t, "цена не указана", FormatPricePerHour(0))
}
