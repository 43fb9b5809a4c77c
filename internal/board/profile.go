package board

import (
	"github.com/noah-isme/program-workboard-api/internal/models"
	"github.com/noah-isme/program-workboard-api/internal/store"
)

// SchoolProfile gathers everything shown on a school page.
type SchoolProfile struct {
	School            models.School        `json:"school"`
	Program           *models.Program      `json:"program"`
	Classrooms        []models.Classroom   `json:"classrooms"`
	OpenRequests      []models.WorkRequest `json:"openRequests"`
	CompletedRequests []models.WorkRequest `json:"completedRequests"`
}

// BuildSchoolProfile returns the profile of a school, false when the school is unknown.
func BuildSchoolProfile(snap *store.Snapshot, schoolID int64) (SchoolProfile, bool) {
	school, ok := snap.SchoolByID(schoolID)
	if !ok {
		return SchoolProfile{}, false
	}
	profile := SchoolProfile{
		School:            school,
		Classrooms:        snap.ClassroomsBySchoolID(schoolID),
		OpenRequests:      []models.WorkRequest{},
		CompletedRequests: []models.WorkRequest{},
	}
	if program, ok := snap.ProgramByID(school.ProgramID); ok {
		profile.Program = &program
	}
	for _, r := range snap.WorkRequests {
		if !r.BelongsToSchool(schoolID) {
			continue
		}
		if r.IsOpen() {
			profile.OpenRequests = append(profile.OpenRequests, r)
		} else {
			profile.CompletedRequests = append(profile.CompletedRequests, r)
		}
	}
	return profile, true
}
