package httpapi

import "github.com/notexe/nevermiss/internal/reminder"

type parseRequest struct {
	Input string `json:"input"`
}

// ParseResponse carries the draft together with the text it came from, so
// a client can post both back to create the reminder.
type ParseResponse struct {
	RawInput      string         `json:"raw_input"`
	Draft         reminder.Draft `json:"draft"`
	LowConfidence bool           `json:"low_confidence"`
}

type createRequest struct {
	RawInput string         `json:"raw_input"`
	Draft    reminder.Draft `json:"draft"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type ListResponse struct {
	Reminders []reminder.Row `json:"reminders"`
	Total     int            `json:"total"`
	// Notice is set while parsing is unavailable.
	Notice string `json:"notice,omitempty"`
}
