package domain

import "strings"

// CategoryAny is the provider's wildcard category.
const CategoryAny = 0

// providerCategoryIDs maps category names to the provider's numeric IDs.
var providerCategoryIDs = map[string]int{
	"GENERAL_KNOWLEDGE": 9,
	"BOOKS": 10,
	"FILM": 11,
	"MUSIC": 12,
	"MUSICALS_THEATRES": 13,
	"TELEVISION": 14,
	"VIDEO_GAMES": 15,
	"BOARD_GAMES": 16,
	"NATURE": 17,
	"COMPUTERS": 18,
	"MATHEMATICS": 19,
	"MYTHOLOGY": 20,
	"SPORTS": 21,
	"GEOGRAPHY": 22,
	"HISTORY": 23,
	"POLITICS": 24,
	"ART": 25,
	"CELEBRITIES": 26,
	"ANIMALS": 27,
	"VEHICLES": 28,
	"COMICS": 29,
	"GADGETS": 30,
	"ANIME_MANGA": 31,
	"CARTOONS_ANIMATIONS": 32,
}

// ProviderCategoryID resolves a category name to the provider's numeric ID.
// Unknown names resolve to CategoryAny rather than failing.
func ProviderCategoryID(category string) int {
	if id, ok := providerCategoryIDs[strings.ToUpper(strings.TrimSpace(category))]; ok {
		return id
	}
	return CategoryAny
}
