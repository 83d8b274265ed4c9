package model

type ChannelCategory string

const (
	CategoryRides         ChannelCategory = "rides"
	CategoryRuns          ChannelCategory = "runs"
	CategoryYogaWellness  ChannelCategory = "yoga-wellness"
	CategoryAnnouncements ChannelCategory = "announcements"
	CategorySocial        ChannelCategory = "social"
	CategoryGeneral       ChannelCategory = "general"
)

type CategoryMeta struct {
	Label       string `json:"label"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

var ChannelMeta = map[ChannelCategory]CategoryMeta{
	CategoryRides:         {Label: "Rides", Icon: "Bike", Description: "Road rides, gravel, MTB outings"},
	CategoryRuns:          {Label: "Runs", Icon: "Footprints", Description: "Club runs, trail runs, track sessions"},
	CategoryYogaWellness:  {Label: "Yoga & Wellness", Icon: "Heart", Description: "Yoga, Pilates, sauna, recovery"},
	CategoryAnnouncements: {Label: "Announcements", Icon: "Megaphone", Description: "Important updates from the team"},
	CategorySocial:        {Label: "Social", Icon: "PartyPopper", Description: "Events, gatherings, community fun"},
	CategoryGeneral:       {Label: "General", Icon: "MessageSquare", Description: "Everything else"},
}

type Channel struct {
	ID          string          `gorm:"primaryKey;size:64" json:"id"`
	LocationID  string          `gorm:"size:64;not null;index:idx_location_sort,priority:1" json:"location_id"`
	Category    ChannelCategory `gorm:"size:32;not null" json:"category"`
	Name        string          `gorm:"size:128;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	SortOrder   int             `gorm:"not null;default:0;index:idx_location_sort,priority:2" json:"sort_order"`
}
