package board

import "github.com/noah-isme/program-workboard-api/internal/models"

// Directory indexes programs and schools by id for one derivation pass.
type Directory struct {
	programs map[int64]models.Program
	schools  map[int64]models.School
}

// NewDirectory builds the id indexes.
func NewDirectory(programs []models.Program, schools []models.School) *Directory {
	d := &Directory{
		programs: make(map[int64]models.Program, len(programs)),
		schools:  make(map[int64]models.School, len(schools)),
	}
	for _, p := range programs {
		d.programs[p.ID] = p
	}
	for _, s := range schools {
		d.schools[s.ID] = s
	}
	return d
}

// Program looks up a program by optional id.
func (d *Directory) Program(id *int64) (models.Program, bool) {
	if id == nil {
		return models.Program{}, false
	}
	p, ok := d.programs[*id]
	return p, ok
}

// School looks up a school by optional id.
func (d *Directory) School(id *int64) (models.School, bool) {
	if id == nil {
		return models.School{}, false
	}
	s, ok := d.schools[*id]
	return s, ok
}

// ProgramName resolves a program name, empty when unknown.
func (d *Directory) ProgramName(id *int64) string {
	p, _ := d.Program(id)
	return p.Name
}

// SchoolName resolves a school name, empty when unknown.
func (d *Directory) SchoolName(id *int64) string {
	s, _ := d.School(id)
	return s.Name
}
