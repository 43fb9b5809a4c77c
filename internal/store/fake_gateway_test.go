package store

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/noah-isme/program-workboard-api/internal/models"
	"github.com/noah-isme/program-workboard-api/internal/repository"
)

// memoryDB backs all four fake gateways.
type memoryDB struct {
	mu         sync.Mutex
	nextID     int64
	programs   map[int64]models.Program
	schools    map[int64]models.School
	classrooms map[int64]models.Classroom
	requests   map[int64]models.WorkRequest

	listErr   error
	writeErr  error
	onListAll func(call int)
	listCalls int
	writes    int
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		programs:   map[int64]models.Program{},
		schools:    map[int64]models.School{},
		classrooms: map[int64]models.Classroom{},
		requests:   map[int64]models.WorkRequest{},
	}
}

func (m *memoryDB) gateways() Gateways {
	return Gateways{
		Programs:     programGateway{m},
		Schools:      schoolGateway{m},
		Classrooms:   classroomGateway{m},
		WorkRequests: workRequestGateway{m},
	}
}

func (m *memoryDB) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memoryDB) beforeWrite() error {
	m.writes++
	return m.writeErr
}

type programGateway struct{ m *memoryDB }

func (g programGateway) ListAll(ctx context.Context) ([]models.Program, error) {
	g.m.mu.Lock()
	g.m.listCalls++
	call, hook, err := g.m.listCalls, g.m.onListAll, g.m.listErr
	g.m.mu.Unlock()
	if hook != nil {
		hook(call)
	}
	if err != nil {
		return nil, err
	}
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	out := make([]models.Program, 0, len(g.m.programs))
	for _, p := range g.m.programs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (g programGateway) Insert(ctx context.Context, p models.Program) (int64, error) {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	if err := g.m.beforeWrite(); err != nil {
		return 0, err
	}
	p.ID = g.m.id()
	g.m.programs[p.ID] = p
	return p.ID, nil
}

func (g programGateway) Update(ctx context.Context, id int64, fields repository.Fields) error {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	if err := g.m.beforeWrite(); err != nil {
		return err
	}
	p, ok := g.m.programs[id]
	if !ok {
		return sql.ErrNoRows
	}
	if name, ok := fields["name"].(string); ok {
		p.Name = name
	}
	g.m.programs[id] = p
	return nil
}

type schoolGateway struct{ m *memoryDB }

func (g schoolGateway) ListAll(ctx context.Context) ([]models.School, error) {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	out := make([]models.School, 0, len(g.m.schools))
	for _, s := range g.m.schools {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (g schoolGateway) Insert(ctx context.Context, s models.School) (int64, error) {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	if err := g.m.beforeWrite(); err != nil {
		return 0, err
	}
	s.ID = g.m.id()
	if s.Address == "" {
		s.Address = models.PlaceholderValue
	}
	if s.Contact == "" {
		s.Contact = models.PlaceholderValue
	}
	g.m.schools[s.ID] = s
	return s.ID, nil
}

func (g schoolGateway) Update(ctx context.Context, id int64, fields repository.Fields) error {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	if err := g.m.beforeWrite(); err != nil {
		return err
	}
	s, ok := g.m.schools[id]
	if !ok {
		return sql.ErrNoRows
	}
	if name, ok := fields["name"].(string); ok {
		s.Name = name
	}
	g.m.schools[id] = s
	return nil
}

func (g schoolGateway) Delete(ctx context.Context, id int64) error {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	if err := g.m.beforeWrite(); err != nil {
		return err
	}
	if _, ok := g.m.schools[id]; !ok {
		return sql.ErrNoRows
	}
	delete(g.m.schools, id)
	return nil
}

func (g schoolGateway) CountReferences(ctx context.Context, id int64) (int, int, error) {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	classrooms, requests := 0, 0
	for _, c := range g.m.classrooms {
		if c.SchoolID == id {
			classrooms++
		}
	}
	for _, r := range g.m.requests {
		if r.BelongsToSchool(id) {
			requests++
		}
	}
	return classrooms, requests, nil
}

type classroomGateway struct{ m *memoryDB }

func (g classroomGateway) ListAll(ctx context.Context) ([]models.Classroom, error) {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	out := make([]models.Classroom, 0, len(g.m.classrooms))
	for _, c := range g.m.classrooms {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (g classroomGateway) Insert(ctx context.Context, c models.Classroom) (int64, error) {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	if err := g.m.beforeWrite(); err != nil {
		return 0, err
	}
	c.ID = g.m.id()
	g.m.classrooms[c.ID] = c
	return c.ID, nil
}

func (g classroomGateway) Update(ctx context.Context, id int64, fields repository.Fields) error {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	if err := g.m.beforeWrite(); err != nil {
		return err
	}
	c, ok := g.m.classrooms[id]
	if !ok {
		return sql.ErrNoRows
	}
	if name, ok := fields["name"].(string); ok {
		c.Name = name
	}
	g.m.classrooms[id] = c
	return nil
}

func (g classroomGateway) Delete(ctx context.Context, id int64) error {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	if err := g.m.beforeWrite(); err != nil {
		return err
	}
	if _, ok := g.m.classrooms[id]; !ok {
		return sql.ErrNoRows
	}
	delete(g.m.classrooms, id)
	return nil
}

type workRequestGateway struct{ m *memoryDB }

func (g workRequestGateway) ListAll(ctx context.Context) ([]models.WorkRequest, error) {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	out := make([]models.WorkRequest, 0, len(g.m.requests))
	for _, r := range g.m.requests {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].SubmittedDate.Compare(out[j].SubmittedDate); c != 0 {
			return c > 0
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (g workRequestGateway) Insert(ctx context.Context, r models.WorkRequest) (int64, error) {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	if err := g.m.beforeWrite(); err != nil {
		return 0, err
	}
	r.ID = g.m.id()
	g.m.requests[r.ID] = r
	return r.ID, nil
}

func (g workRequestGateway) Update(ctx context.Context, id int64, fields repository.Fields) error {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	if err := g.m.beforeWrite(); err != nil {
		return err
	}
	r, ok := g.m.requests[id]
	if !ok {
		return sql.ErrNoRows
	}
	for key, value := range fields {
		switch key {
		case "description":
			r.Description = value.(string)
		case "requestor_name":
			r.RequestorName = value.(string)
		case "priority":
			r.Priority = models.Priority(value.(string))
		case "status":
			r.Status = models.Status(value.(string))
		case "school_id":
			r.SchoolID = value.(*int64)
		case "program_id":
			r.ProgramID = value.(*int64)
		case "classroom":
			r.Classroom = value.(*string)
		case "due_date":
			r.DueDate = value.(*models.Date)
		default:
			return &repository.ErrUnknownColumn{Table: "work_requests", Column: key}
		}
	}
	g.m.requests[id] = r
	return nil
}

func (g workRequestGateway) Delete(ctx context.Context, id int64) error {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	if err := g.m.beforeWrite(); err != nil {
		return err
	}
	if _, ok := g.m.requests[id]; !ok {
		return sql.ErrNoRows
	}
	delete(g.m.requests, id)
	return nil
}
