package models

// Priority ranks how urgent a work request is.
type Priority string

const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
)

// Priorities lists every priority from most to least urgent.
var Priorities = []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}

// Rank orders priorities: Critical=4 > High=3 > Medium=2 > Low=1. Unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool { return p.Rank() > 0 }

// Status is the persisted lifecycle state of a work request.
type Status string

const (
	StatusNewRequest Status = "New Request"
	StatusInProgress Status = "In Progress"
	StatusOnHold     Status = "On Hold"
	StatusCompleted  Status = "Completed"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusNewRequest, StatusInProgress, StatusOnHold, StatusCompleted}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusNewRequest, StatusInProgress, StatusOnHold, StatusCompleted:
		return true
	default:
		return false
	}
}

// Rank is the hotlist tie-break order: InProgress=2 > NewRequest=1 > OnHold=Completed=0.
func (s Status) Rank() int {
	switch s {
	case StatusInProgress:
		return 2
	case StatusNewRequest:
		return 1
	default:
		return 0
	}
}

// IsOpen reports whether the status counts as open work.
func (s Status) IsOpen() bool { return s != StatusCompleted }

// WorkRequest is a maintenance or task ticket.
type WorkRequest struct {
	ID            int64    `db:"id" json:"id"`
	Description   string   `db:"description" json:"description"`
	RequestorName string   `db:"requestor_name" json:"requestorName"`
	SubmittedDate Date     `db:"submitted_date" json:"submittedDate"`
	Priority      Priority `db:"priority" json:"priority"`
	Status        Status   `db:"status" json:"status"`
	SchoolID      *int64   `db:"school_id" json:"schoolId"`
	ProgramID     *int64   `db:"program_id" json:"programId"`
	Classroom     *string  `db:"classroom" json:"classroom"`
	DueDate       *Date    `db:"due_date" json:"dueDate"`
}

// IsOpen reports whether the request is not completed.
func (w WorkRequest) IsOpen() bool { return w.Status.IsOpen() }

// BelongsToProgram reports whether the request references programID.
func (w WorkRequest) BelongsToProgram(programID int64) bool {
	return w.ProgramID != nil && *w.ProgramID == programID
}

// BelongsToSchool reports whether the request references schoolID.
func (w WorkRequest) BelongsToSchool(schoolID int64) bool {
	return w.SchoolID != nil && *w.SchoolID == schoolID
}

// SortDirection selects ascending or descending order.
type SortDirection string

const (
	SortAscending  SortDirection = "ascending"
	SortDescending SortDirection = "descending"
)

// WorkRequestFilter scopes the list view. Nil filters mean "All".
type WorkRequestFilter struct {
	Status    *Status
	Priority  *Priority
	SchoolID  *int64
	SortBy    string
	SortOrder SortDirection
}

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 { return &v }

// StringPtr returns a pointer to v.
func StringPtr(v string) *string { return &v }

// DatePtr returns a pointer to d.
func DatePtr(d Date) *Date { return &d }
