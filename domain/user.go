package domain

import "time"

// User represents an authenticated identity owning a calendar.
// DayStartMin/DayEndMin override the server-wide day window when non-zero.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	Timezone    string    `json:"timezone,omitempty"`
	Status      string    `json:"status"`
	DayStartMin int       `json:"day_start_min,omitempty"`
	DayEndMin   int       `json:"day_end_min,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (u *User) IsActive() bool {
	return u != nil && u.Status == "active"
}

// Location resolves the user's timezone, defaulting to UTC.
func (u *User) Location() *time.Location {
	if u == nil || u.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
