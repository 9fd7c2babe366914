package models

import "time"

// UserData is the one synced document of a user, stored verbatim.
type UserData struct {
	UserID    string
	Data      []byte
	UpdatedAt time.Time
}
