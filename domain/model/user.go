package model

import "time"

// User is a chat identity. Users are created once via an atomic
// create-if-absent write; LastActive is refreshed on message send and room join.
type User struct {
	Username   string    `json:"username"`
	LastActive time.Time `json:"lastActive"`
}
