// Package models defines the interest-card domain types held on the device
// and the transient view values produced for the UI and the backend.
package models

// Category is the closed set of search-target kinds a card may register.
type Category string

const (
	CategoryPhone        Category = "phone"
	CategoryEmail        Category = "email"
	CategorySocialHandle Category = "social_handle"
	CategoryBirthdate    Category = "birthdate"
	CategoryWorkplace    Category = "workplace"
	CategorySchool       Category = "school"
	CategoryNickname     Category = "nickname"
	CategoryLocation     Category = "location"
	CategoryPartTimeJob  Category = "part_time_job"
	CategoryPlatformID   Category = "platform_id"
	CategoryGameID       Category = "game_id"
	CategoryGroup        Category = "group"
)

var allCategories = []Category{
	CategoryPhone,
	CategoryEmail,
	CategorySocialHandle,
	CategoryBirthdate,
	CategoryWorkplace,
	CategorySchool,
	CategoryNickname,
	CategoryLocation,
	CategoryPartTimeJob,
	CategoryPlatformID,
	CategoryGameID,
	CategoryGroup,
}

// Categories returns all valid categories in display order.
func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range allCategories {
		if c == known {
			return true
		}
	}
	return false
}
