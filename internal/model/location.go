package model

import "time"

type ColorTheme string

const (
	ThemeDarlingHill     ColorTheme = "darling-hill"
	ThemeLitchfieldHills ColorTheme = "litchfield-hills"
)

type Location struct {
	ID         string     `gorm:"primaryKey;size:64" json:"id"`
	Name       string     `gorm:"size:128;not null" json:"name"`
	Slug       string     `gorm:"uniqueIndex;size:64;not null" json:"slug"`
	Address    string     `gorm:"size:255" json:"address,omitempty"`
	City       string     `gorm:"size:64;not null" json:"city"`
	State      string     `gorm:"size:32;not null" json:"state"`
	Timezone   string     `gorm:"size:64;not null" json:"timezone"`
	ImageURL   string     `gorm:"size:512" json:"image_url,omitempty"`
	ColorTheme ColorTheme `gorm:"size:32" json:"color_theme,omitempty"`
	CreatedAt  time.Time  `json:"-"`
}

// MemberLocation 成员与场馆的多对多关系，每个成员最多一条 is_primary=true
type MemberLocation struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	ProfileID  string    `gorm:"size:64;not null;uniqueIndex:uk_profile_location" json:"profile_id"`
	LocationID string    `gorm:"size:64;not null;uniqueIndex:uk_profile_location;index" json:"location_id"`
	IsPrimary  bool      `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt  time.Time `json:"-"`
}
