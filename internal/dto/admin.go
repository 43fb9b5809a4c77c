package dto

import (
	"github.com/noah-isme/program-workboard-api/internal/board"
	"github.com/noah-isme/program-workboard-api/internal/models"
)

// ProgramRequest captures POST/PUT /programs payloads.
type ProgramRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// CreateSchoolRequest captures POST /schools payload.
type CreateSchoolRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	ProgramID int64  `json:"programId" validate:"required,gt=0"`
	Address   string `json:"address" validate:"max=300"`
	Contact   string `json:"contact" validate:"max=200"`
}

// UpdateSchoolRequest captures PUT /schools/:id payload. Only the name is persisted.
type UpdateSchoolRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// CreateClassroomRequest captures POST /classrooms payload.
type CreateClassroomRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	SchoolID int64  `json:"schoolId" validate:"required,gt=0"`
}

// UpdateClassroomRequest captures PUT /classrooms/:id payload.
type UpdateClassroomRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// CreatedResponse returns the identifier of a new record.
type CreatedResponse struct {
	ID int64 `json:"id"`
}

// ProgramDetailResponse is the program page payload.
type ProgramDetailResponse struct {
	Summary board.ProgramSummary `json:"summary"`
	Schools []models.School      `json:"schools"`
}
