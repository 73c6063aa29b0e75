package model

import "time"

// Room is a named chat channel. UserCount mirrors the size of the room's
// membership set and is recomputed whenever a user joins or leaves.
type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UserCount int       `json:"userCount"`
}
