package model

import "time"

type Post struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	ChannelID  string    `gorm:"size:64;not null;index:idx_channel_pin_time,priority:1" json:"channel_id"`
	AuthorID   string    `gorm:"size:64;not null;index" json:"author_id"`
	Title      string    `gorm:"size:200" json:"title,omitempty"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	ImageURL   string    `gorm:"size:512" json:"image_url,omitempty"`
	BookingURL string    `gorm:"size:512" json:"booking_url,omitempty"`
	IsPinned   bool      `gorm:"not null;default:false;index:idx_channel_pin_time,priority:2" json:"is_pinned"`
	CreatedAt  time.Time `gorm:"index:idx_channel_pin_time,priority:3" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// 关联字段，只读，不落库
	Author       *Profile `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Channel      *Channel `gorm:"foreignKey:ChannelID" json:"channel,omitempty"`
	CommentCount int64    `gorm:"->;-:migration" json:"comment_count"`
}

// StripJoined clears the fields that are computed by joins.
func (p *Post) StripJoined() {
	p.Author = nil
	p.Channel = nil
	p.CommentCount = 0
}

type Comment struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	PostID    string    `gorm:"size:64;not null;index:idx_post_time,priority:1" json:"post_id"`
	AuthorID  string    `gorm:"size:64;not null;index" json:"author_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"index:idx_post_time,priority:2" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author *Profile `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (c *Comment) StripJoined() {
	c.Author = nil
}
