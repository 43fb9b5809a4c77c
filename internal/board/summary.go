package board

import (
	"sort"

	"github.com/noah-isme/program-workboard-api/internal/models"
	"github.com/noah-isme/program-workboard-api/internal/store"
)

// DefaultProgramTopN is the number of top requests shown on a program card.
const DefaultProgramTopN = 3

// ProgramSummary is the dashboard card for one program.
type ProgramSummary struct {
	Program        models.Program       `json:"program"`
	Slug           string               `json:"slug"`
	SchoolCount    int                  `json:"schoolCount"`
	ClassroomCount int                  `json:"classroomCount"`
	OpenCount      int                  `json:"openCount"`
	OnHoldCount    int                  `json:"onHoldCount"`
	TopRequests    []models.WorkRequest `json:"topRequests"`
}

// ProgramSummaries builds one card per program in snapshot order.
func ProgramSummaries(snap *store.Snapshot, topN int) []ProgramSummary {
	if topN <= 0 {
		topN = DefaultProgramTopN
	}

	schoolProgram := make(map[int64]int64, len(snap.Schools))
	schoolCounts := make(map[int64]int)
	for _, s := range snap.Schools {
		schoolProgram[s.ID] = s.ProgramID
		schoolCounts[s.ProgramID]++
	}
	classroomCounts := make(map[int64]int)
	for _, c := range snap.Classrooms {
		if programID, ok := schoolProgram[c.SchoolID]; ok {
			classroomCounts[programID]++
		}
	}

	open := make(map[int64][]models.WorkRequest)
	onHold := make(map[int64]int)
	for _, r := range snap.WorkRequests {
		if r.ProgramID == nil || !r.IsOpen() {
			continue
		}
		open[*r.ProgramID] = append(open[*r.ProgramID], r)
		if r.Status == models.StatusOnHold {
			onHold[*r.ProgramID]++
		}
	}

	summaries := make([]ProgramSummary, 0, len(snap.Programs))
	for _, p := range snap.Programs {
		requests := append([]models.WorkRequest(nil), open[p.ID]...)
		sort.SliceStable(requests, func(i, j int) bool {
			return urgencyLess(requests[i], requests[j], false)
		})
		top := requests
		if len(top) > topN {
			top = top[:topN]
		}
		if top == nil {
			top = []models.WorkRequest{}
		}
		summaries = append(summaries, ProgramSummary{
			Program:        p,
			Slug:           p.Slug(),
			SchoolCount:    schoolCounts[p.ID],
			ClassroomCount: classroomCounts[p.ID],
			OpenCount:      len(requests),
			OnHoldCount:    onHold[p.ID],
			TopRequests:    top,
		})
	}
	return summaries
}

// ScopeToProgram narrows requests to the program addressed by slug. An empty slug returns
// every request; an unknown slug returns none.
func ScopeToProgram(snap *store.Snapshot, slug string) ([]models.WorkRequest, bool) {
	if slug == "" {
		return snap.WorkRequests, true
	}
	program, ok := snap.ProgramBySlug(slug)
	if !ok {
		return []models.WorkRequest{}, false
	}
	return snap.WorkRequestsByProgramID(program.ID), true
}
