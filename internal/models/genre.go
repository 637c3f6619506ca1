package models

import (
	"slices"

	"github.com/desertthunder/kedoo/internal/shared"
)

// Genres is the fixed list a release genre must come from, in display order.
var Genres = []string{
	"Поп", "Рок", "Хип-хоп", "Рэп", "Электронная", "Джаз", "Классика",
	"R&B", "Регги", "Кантри", "Блюз", "Фолк", "Метал", "Панк", "Инди",
}

// ParseGenre normalizes s and returns the matching entry of [Genres].
func ParseGenre(s string) (string, bool) {
	g := shared.NormalizeText(s)
	if slices.Contains(Genres, g) {
		return g, true
	}
	return "", false
}
