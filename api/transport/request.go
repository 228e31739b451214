package transport

// TaskRequest is the wire form of a task mutation. Times are RFC3339.
type TaskRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Color       string `json:"color"`
	Reminder    *bool  `json:"reminder"`
}

// InterpretRequest carries an utterance for the assistant endpoint.
// ReferenceDate is the day currently in view, RFC3339; empty means now.
type InterpretRequest struct {
	Utterance     string `json:"utterance"`
	ReferenceDate string `json:"reference_date"`
}

// ProfileUpdateRequest updates account settings. The day-window minutes are
// pointers: an absent field keeps the stored preference, an explicit zero
// resets it to the server default.
type ProfileUpdateRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Timezone    string `json:"timezone"`
	DayStartMin *int   `json:"day_start_min"`
	DayEndMin   *int   `json:"day_end_min"`
}

type AuthLoginRequest struct {
	UserID string `json:"user_id"`
	TTL    int    `json:"ttl_seconds"`
}

type RefreshRequest struct {
	SessionID string `json:"session_id"`
	TTL       int    `json:"ttl_seconds"`
}
