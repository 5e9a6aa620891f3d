package matchmaking

import (
	"strings"

	"github.com/vkotliar/matchmaker/internal/db"
)

// Free-text gender and preference input is folded into a closed enumeration
// exactly once, at registration/edit time. The store and the candidate query
// never see raw variants. The accepted spellings cover the Latin and
// Cyrillic forms the legacy front end produced.

// NormalizeGender maps raw gender input to male/female/other.
// Anything unrecognized is "other".
func NormalizeGender(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male", "man", "m", "мужчина", "мужчин", "парень", "м":
		return db.GenderMale
	case "female", "woman", "f", "женщина", "женщин", "девушка", "ж":
		return db.GenderFemale
	default:
		return db.GenderOther
	}
}

// NormalizePreference maps raw looking-for input to male/female/any.
// Anything unrecognized means the preference is unconstrained.
func NormalizePreference(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male", "man", "m", "мужчина", "мужчин", "парень", "м":
		return db.LookingForMale
	case "female", "woman", "f", "женщина", "женщин", "девушка", "ж":
		return db.LookingForFemale
	default:
		return db.LookingForAny
	}
}
