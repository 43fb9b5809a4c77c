package dto

import (
	"time"

	"github.com/noah-isme/program-workboard-api/internal/analytics"
	"github.com/noah-isme/program-workboard-api/internal/board"
	"github.com/noah-isme/program-workboard-api/internal/models"
)

// DashboardResponse aggregates the dashboard widgets.
type DashboardResponse struct {
	Analytics       analytics.Summary      `json:"analytics"`
	Programs        []board.ProgramSummary `json:"programs"`
	Hotlist         []models.WorkRequest   `json:"hotlist"`
	Today           models.Date            `json:"today"`
	SnapshotVersion uint64                 `json:"snapshotVersion"`
	GeneratedAt     time.Time              `json:"generatedAt"`
}

// KanbanQuery is the board query string.
type KanbanQuery struct {
	Program string `form:"program"`
	Sort    string `form:"sort"`
}

// KanbanResponse is the six-column board.
type KanbanResponse struct {
	Mode    board.SortMode       `json:"mode"`
	Today   models.Date          `json:"today"`
	Columns []board.KanbanColumn `json:"columns"`
}

// HotlistResponse is the ranked daily list.
type HotlistResponse struct {
	Limit    int                  `json:"limit"`
	Requests []models.WorkRequest `json:"requests"`
}
