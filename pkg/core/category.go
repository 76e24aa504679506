package core

import (
	"image/color"
	"strings"
)

// Category groups notes. The zero value is not valid; use CategoryNone.
type Category string

const (
	CategoryNone     Category = "None"
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryReminder Category = "Reminder"
	CategoryIdea     Category = "Idea"
	CategoryTodo     Category = "Todo"
)

// AllCategories lists every category in display order.
var AllCategories = []Category{
	CategoryNone,
	CategoryWork,
	CategoryPersonal,
	CategoryReminder,
	CategoryIdea,
	CategoryTodo,
}

type categoryInfo struct {
	color color.RGBA
	icon  string
}

var categoryTable = map[Category]categoryInfo{
	CategoryNone:     {color: color.RGBA{142, 142, 147, 255}, icon: "note.text"},
	CategoryWork:     {color: color.RGBA{0, 122, 255, 255}, icon: "briefcase.fill"},
	CategoryPersonal: {color: color.RGBA{52, 199, 89, 255}, icon: "person.fill"},
	CategoryReminder: {color: color.RGBA{255, 149, 0, 255}, icon: "bell.fill"},
	CategoryIdea:     {color: color.RGBA{175, 82, 222, 255}, icon: "lightbulb.fill"},
	CategoryTodo:     {color: color.RGBA{255, 59, 48, 255}, icon: "checklist"},
}

// ParseCategory maps a stored or user supplied name to a Category.
// Matching is case-insensitive and unknown names fall back to CategoryNone.
func ParseCategory(s string) Category {
	for _, c := range AllCategories {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c
		}
	}
	return CategoryNone
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	_, ok := categoryTable[c]
	return ok
}

// Color is the display color of the category.
func (c Category) Color() color.RGBA {
	return categoryTable[c.orNone()].color
}

// Icon is the symbol name shown next to the category.
func (c Category) Icon() string {
	return categoryTable[c.orNone()].icon
}

func (c Category) orNone() Category {
	if c.Valid() {
		return c
	}
	return CategoryNone
}
