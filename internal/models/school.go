package models

// PlaceholderValue fills school address/contact when they are not provided.
const PlaceholderValue = "N/A"

// School belongs to exactly one program.
type School struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Address   string `db:"address" json:"address"`
	Contact   string `db:"contact" json:"contact"`
	ProgramID int64  `db:"program_id" json:"programId"`
}

// Classroom belongs to exactly one school.
type Classroom struct {
	ID       int64  `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	SchoolID int64  `db:"school_id" json:"schoolId"`
}
