package reminder

// Categories a reminder can be filed under.
const (
	CategoryAppointment = "appointment"
	CategoryTask        = "task"
	CategoryOpportunity = "opportunity"
	CategoryFollowUp    = "follow-up"
)

// Priority levels for reminders.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Status values for reminders.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Layouts used for the date, time and created_at columns.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Categories lists every accepted category, in display order.
var Categories = []string{CategoryAppointment, CategoryTask, CategoryOpportunity, CategoryFollowUp}

// Priorities lists every accepted priority, in display order.
var Priorities = []string{PriorityHigh, PriorityMedium, PriorityLow}

// Statuses lists every accepted status.
var Statuses = []string{StatusPending, StatusCompleted}

// Reminder is one row of the backing file.
//
// Date and Time are nil when absent. Only Status changes after creation.
type Reminder struct {
	ID        int64   `json:"reminder_id"`
	RawInput  string  `json:"raw_input"`
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	Date      *string `json:"date"`
	Time      *string `json:"time"`
	Priority  string  `json:"priority"`
	Notes     string  `json:"notes"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

// IsCompleted reports whether the reminder has been marked done.
func (r Reminder) IsCompleted() bool {
	return r.Status == StatusCompleted
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of Statuses.
func ValidStatus(s string) bool {
	return contains(Statuses, s)
}
