package model

import "time"

// Conversation 两人私信会话，participant_one < participant_two
type Conversation struct {
	ID             string    `gorm:"primaryKey;size:64" json:"id"`
	ParticipantOne string    `gorm:"size:64;not null;uniqueIndex:uk_conversation_pair,priority:1" json:"participant_one"`
	ParticipantTwo string    `gorm:"size:64;not null;uniqueIndex:uk_conversation_pair,priority:2;index" json:"participant_two"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `gorm:"index" json:"updated_at"`

	OtherParticipant *Profile       `gorm:"-" json:"other_participant,omitempty"`
	LastMessage      *DirectMessage `gorm:"-" json:"last_message,omitempty"`
}

// HasParticipant reports whether userID is one of the two participants.
func (c *Conversation) HasParticipant(userID string) bool {
	return c.ParticipantOne == userID || c.ParticipantTwo == userID
}

// OtherOf returns the participant that is not userID.
func (c *Conversation) OtherOf(userID string) string {
	if c.ParticipantOne == userID {
		return c.ParticipantTwo
	}
	return c.ParticipantOne
}

// CanonicalPair orders two participant ids so that a pair has one storage key.
func CanonicalPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

type DirectMessage struct {
	ID             string     `gorm:"primaryKey;size:64" json:"id"`
	ConversationID string     `gorm:"size:64;not null;index:idx_conversation_time,priority:1" json:"conversation_id"`
	SenderID       string     `gorm:"size:64;not null;index" json:"sender_id"`
	Body           string     `gorm:"type:text;not null" json:"body"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `gorm:"index:idx_conversation_time,priority:2" json:"created_at"`

	Sender *Profile `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

func (m *DirectMessage) StripJoined() {
	m.Sender = nil
}
