package store

import (
	"time"

	"github.com/noah-isme/program-workboard-api/internal/models"
)

// Snapshot is an immutable view of every collection as returned by one full reload.
// Callers must not modify the slices.
type Snapshot struct {
	Programs     []models.Program
	Schools      []models.School
	Classrooms   []models.Classroom
	WorkRequests []models.WorkRequest
	Version      uint64
	LoadedAt     time.Time
}

func emptySnapshot() *Snapshot {
	return &Snapshot{
		Programs:     []models.Program{},
		Schools:      []models.School{},
		Classrooms:   []models.Classroom{},
		WorkRequests: []models.WorkRequest{},
	}
}

// ProgramByID returns the program with the given id.
func (s *Snapshot) ProgramByID(id int64) (models.Program, bool) {
	for _, p := range s.Programs {
		if p.ID == id {
			return p, true
		}
	}
	return models.Program{}, false
}

// ProgramBySlug finds the program whose name slugs to slug.
func (s *Snapshot) ProgramBySlug(slug string) (models.Program, bool) {
	return models.FindProgramBySlug(s.Programs, slug)
}

// SchoolByID returns the school with the given id.
func (s *Snapshot) SchoolByID(id int64) (models.School, bool) {
	for _, school := range s.Schools {
		if school.ID == id {
			return school, true
		}
	}
	return models.School{}, false
}

// SchoolsByProgramID returns the schools that belong to a program.
func (s *Snapshot) SchoolsByProgramID(programID int64) []models.School {
	result := make([]models.School, 0)
	for _, school := range s.Schools {
		if school.ProgramID == programID {
			result = append(result, school)
		}
	}
	return result
}

// ClassroomByID returns the classroom with the given id.
func (s *Snapshot) ClassroomByID(id int64) (models.Classroom, bool) {
	for _, c := range s.Classrooms {
		if c.ID == id {
			return c, true
		}
	}
	return models.Classroom{}, false
}

// ClassroomsBySchoolID returns the classrooms of a school, empty when none match.
func (s *Snapshot) ClassroomsBySchoolID(schoolID int64) []models.Classroom {
	result := make([]models.Classroom, 0)
	for _, c := range s.Classrooms {
		if c.SchoolID == schoolID {
			result = append(result, c)
		}
	}
	return result
}

// WorkRequestByID returns the work request with the given id.
func (s *Snapshot) WorkRequestByID(id int64) (models.WorkRequest, bool) {
	for _, w := range s.WorkRequests {
		if w.ID == id {
			return w, true
		}
	}
	return models.WorkRequest{}, false
}

// WorkRequestsByProgramID returns the requests that reference a program.
func (s *Snapshot) WorkRequestsByProgramID(programID int64) []models.WorkRequest {
	result := make([]models.WorkRequest, 0)
	for _, w := range s.WorkRequests {
		if w.BelongsToProgram(programID) {
			result = append(result, w)
		}
	}
	return result
}
