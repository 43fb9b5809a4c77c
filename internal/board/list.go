package board

import (
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/program-workboard-api/internal/models"
)

// List sort keys. programName and schoolName resolve through the Directory.
const (
	SortKeyID            = "id"
	SortKeyDescription   = "description"
	SortKeyRequestorName = "requestorName"
	SortKeySubmittedDate = "submittedDate"
	SortKeyPriority      = "priority"
	SortKeyStatus        = "status"
	SortKeySchoolID      = "schoolId"
	SortKeyProgramID     = "programId"
	SortKeyClassroom     = "classroom"
	SortKeyDueDate       = "dueDate"
	SortKeyProgramName   = "programName"
	SortKeySchoolName    = "schoolName"
)

var sortKeys = map[string]bool{
	SortKeyID: true, SortKeyDescription: true, SortKeyRequestorName: true, SortKeySubmittedDate: true,
	SortKeyPriority: true, SortKeyStatus: true, SortKeySchoolID: true, SortKeyProgramID: true,
	SortKeyClassroom: true, SortKeyDueDate: true, SortKeyProgramName: true, SortKeySchoolName: true,
}

// NormalizeFilter applies the default sort (submittedDate descending) and validates the key.
func NormalizeFilter(filter models.WorkRequestFilter) (models.WorkRequestFilter, error) {
	if filter.SortBy == "" {
		filter.SortBy = SortKeySubmittedDate
		if filter.SortOrder == "" {
			filter.SortOrder = models.SortDescending
		}
	}
	if !sortKeys[filter.SortBy] {
		return filter, fmt.Errorf("unknown sort key %q", filter.SortBy)
	}
	switch strings.ToLower(string(filter.SortOrder)) {
	case "", "asc", string(models.SortAscending):
		filter.SortOrder = models.SortAscending
	case "desc", string(models.SortDescending):
		filter.SortOrder = models.SortDescending
	default:
		return filter, fmt.Errorf("unknown sort direction %q", filter.SortOrder)
	}
	return filter, nil
}

// FilterList keeps requests matching every set filter. Unset filters match all.
func FilterList(requests []models.WorkRequest, filter models.WorkRequestFilter) []models.WorkRequest {
	out := make([]models.WorkRequest, 0, len(requests))
	for _, r := range requests {
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && r.Priority != *filter.Priority {
			continue
		}
		if filter.SchoolID != nil && !r.BelongsToSchool(*filter.SchoolID) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SortList orders requests in place by a single key. Strings and enums compare lexically,
// ids numerically, and missing values as empty or zero. Ties keep their input order.
func SortList(requests []models.WorkRequest, dir *Directory, key string, order models.SortDirection) {
	if dir == nil {
		dir = NewDirectory(nil, nil)
	}
	sort.SliceStable(requests, func(i, j int) bool {
		c := compareByKey(requests[i], requests[j], dir, key)
		if order == models.SortDescending {
			return c > 0
		}
		return c < 0
	})
}

// ListView filters then sorts a copy of requests.
func ListView(requests []models.WorkRequest, dir *Directory, filter models.WorkRequestFilter) ([]models.WorkRequest, error) {
	normalized, err := NormalizeFilter(filter)
	if err != nil {
		return nil, err
	}
	out := FilterList(requests, normalized)
	SortList(out, dir, normalized.SortBy, normalized.SortOrder)
	return out, nil
}

func compareByKey(a, b models.WorkRequest, dir *Directory, key string) int {
	switch key {
	case SortKeyID:
		return compareInt64(a.ID, b.ID)
	case SortKeyDescription:
		return strings.Compare(a.Description, b.Description)
	case SortKeyRequestorName:
		return strings.Compare(a.RequestorName, b.RequestorName)
	case SortKeySubmittedDate:
		return strings.Compare(a.SubmittedDate.String(), b.SubmittedDate.String())
	case SortKeyPriority:
		return strings.Compare(string(a.Priority), string(b.Priority))
	case SortKeyStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	case SortKeySchoolID:
		return compareInt64(derefID(a.SchoolID), derefID(b.SchoolID))
	case SortKeyProgramID:
		return compareInt64(derefID(a.ProgramID), derefID(b.ProgramID))
	case SortKeyClassroom:
		return strings.Compare(derefString(a.Classroom), derefString(b.Classroom))
	case SortKeyDueDate:
		return strings.Compare(dateString(a.DueDate), dateString(b.DueDate))
	case SortKeyProgramName:
		return strings.Compare(dir.ProgramName(a.ProgramID), dir.ProgramName(b.ProgramID))
	case SortKeySchoolName:
		return strings.Compare(dir.SchoolName(a.SchoolID), dir.SchoolName(b.SchoolID))
	default:
		return 0
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func derefID(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func dateString(v *models.Date) string {
	if v == nil {
		return ""
	}
	return v.String()
}
