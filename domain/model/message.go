package model

import "time"

// Message is an immutable chat entry. Each room keeps only the latest
// MaxMessagesPerRoom entries; older ones are trimmed, never mutated.
type Message struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// MaxMessagesPerRoom caps the stored message list per room.
const MaxMessagesPerRoom = 100
