package models

import (
	"regexp"
	"strings"
)

// Program is the top-level grouping for schools and work requests.
type Program struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// ProgramSlug lowercases name and replaces whitespace runs with a hyphen.
func ProgramSlug(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
}

// Slug returns the URL path segment addressing the program.
func (p Program) Slug() string {
	return ProgramSlug(p.Name)
}

// FindProgramBySlug returns the first program whose slug equals slug.
func FindProgramBySlug(programs []Program, slug string) (Program, bool) {
	for _, program := range programs {
		if program.Slug() == slug {
			return program, true
		}
	}
	return Program{}, false
}
