package board

import (
	"fmt"
	"sort"

	"github.com/noah-isme/program-workboard-api/internal/models"
)

// SortMode selects the ordering within a kanban column.
type SortMode string

const (
	SortByPriority SortMode = "priority"
	SortByRecent   SortMode = "recent"
)

// ParseSortMode defaults to priority ordering.
func ParseSortMode(raw string) (SortMode, error) {
	switch SortMode(raw) {
	case "", SortByPriority:
		return SortByPriority, nil
	case SortByRecent:
		return SortByRecent, nil
	default:
		return "", fmt.Errorf("unknown sort mode %q", raw)
	}
}

// KanbanColumn is one column of the board.
type KanbanColumn struct {
	Column   Column               `json:"column"`
	Key      string               `json:"key"`
	Status   models.Status        `json:"status"`
	Virtual  bool                 `json:"virtual"`
	Count    int                  `json:"count"`
	Requests []models.WorkRequest `json:"requests"`
}

// Kanban groups requests into the six board columns in display order.
func Kanban(requests []models.WorkRequest, today models.Date, mode SortMode) []KanbanColumn {
	grouped := make(map[Column][]models.WorkRequest, len(Columns))
	for _, r := range requests {
		c := BucketFor(r, today)
		grouped[c] = append(grouped[c], r)
	}

	board := make([]KanbanColumn, 0, len(Columns))
	for _, c := range Columns {
		items := grouped[c]
		if items == nil {
			items = []models.WorkRequest{}
		}
		sortColumn(items, mode)
		board = append(board, KanbanColumn{
			Column:   c,
			Key:      c.Key(),
			Status:   RealStatusFor(c),
			Virtual:  c.Virtual(),
			Count:    len(items),
			Requests: items,
		})
	}
	return board
}

func sortColumn(items []models.WorkRequest, mode SortMode) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if mode != SortByRecent {
			if c := compareInt(a.Priority.Rank(), b.Priority.Rank()); c != 0 {
				return c > 0
			}
		}
		return a.SubmittedDate.After(b.SubmittedDate)
	})
}
