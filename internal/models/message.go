package models

import "time"

type Message struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SenderID    uint  `gorm:"index:idx_messages_pair;not null" json:"sender_id"`
	RecipientID uint  `gorm:"index:idx_messages_pair;not null" json:"recipient_id"`
	BookingID   *uint `json:"booking_id"`

	Body   string     `gorm:"type:text;not null" json:"body"`
	ReadAt *time.Time `json:"read_at"`

	CreatedAt time.Time `json:"created_at"`
}
