package model

import (
	"sort"
	"time"
)

// SubjectSlotGroup предмет репетитора вместе со свободными слотами
type SubjectSlotGroup struct {
	Name  string      `json:"name"`
	Slots []time.Time `json:"slots"`
}

// NormalizeSlot приводит время слота к UTC с точностью до минуты.
// Все хранилища получают только нормализованные значения, поэтому
// добавление и удаление слота сравнивают одинаковые значения
func NormalizeSlot(t time.Time) time.Time {
	return t.UTC().Truncate(time.Minute)
}

// SameSlot сравнивает два времени с точностью до минуты
func SameSlot(a, b time.Time) bool {
	return NormalizeSlot(a).Equal(NormalizeSlot(b))
}

// GroupSlots превращает карту слотов в группы, отсортированные по имени предмета.
// Слоты внутри группы идут по возрастанию времени
func GroupSlots(slots map[string][]time.Time) []SubjectSlotGroup {
	groups := make([]SubjectSlotGroup, 0, len(slots))
	for name, times := range slots {
		sorted := append([]time.Time{}, times...)
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].Before(sorted[j])
		})
		groups = append(groups, SubjectSlotGroup{
			Name:  name,
			Slots: sorted,
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Name < groups[j].Name
	})
	return groups
}

// CloneSlots копирует карту слотов вместе со срезами
func CloneSlots(slots map[string][]time.Time) map[string][]time.Time {
	if slots == nil {
		return nil
	}
	c := make(map[string][]time.Time, len(slots))
	for name, times := range slots {
		c[name] = append([]time.Time{}, times...)
	}
	return c
}

// UnionSlot добавляет время в список, если его там ещё нет
func UnionSlot(times []time.Time, t time.Time) []time.Time {
	for _, existing := range times {
		if SameSlot(existing, t) {
			return times
		}
	}
	return append(times, t)
}

// RemoveSlot убирает из списка все вхождения времени
func RemoveSlot(times []time.Time, t time.Time) []time.Time {
	out := times[:0:0]
	for _, existing := range times {
		if !SameSlot(existing, t) {
			out = append(out, existing)
		}
	}
	return out
}
