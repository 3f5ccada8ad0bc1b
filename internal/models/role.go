package models

import (
	"fmt"
	"regexp"
)

type Permission uint8

const (
	PermissionRead Permission = 1 << iota
	PermissionWrite
	PermissionDelete
)

// DataPermission grants access over a field/property subset selected by
// regular expressions. Patterns are compiled once at role registration.
type DataPermission struct {
	Fields             []string            `json:"fields"`
	DataProperties     map[string][]string `json:"dataProperties,omitempty"`
	IncludeUnversioned bool                `json:"includeUnVersioned"`
	Permission         Permission          `json:"permission"`

	fieldRes map[string]*regexp.Regexp
	propRes  map[string][]*regexp.Regexp
}

// Compile pre-compiles all patterns. Invalid patterns are rejected here so
// the filter hot path never sees them.
func (p *DataPermission) Compile() error {
	p.fieldRes = make(map[string]*regexp.Regexp, len(p.Fields))
	for _, pattern := range p.Fields {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("invalid field pattern %q: %w", pattern, err)
		}
		p.fieldRes[pattern] = re
	}
	p.propRes = make(map[string][]*regexp.Regexp, len(p.DataProperties))
	for name, patterns := range p.DataProperties {
		res := make([]*regexp.Regexp, 0, len(patterns))
		for _, pattern := range patterns {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return fmt.Errorf("invalid property pattern %q for %s: %w", pattern, name, err)
			}
			res = append(res, re)
		}
		p.propRes[name] = res
	}
	return nil
}

func (p *DataPermission) Allows(perm Permission) bool {
	return p.Permission&perm != 0
}

// MatchesField reports whether any field pattern matches the field id.
func (p *DataPermission) MatchesField(fieldID string) bool {
	for _, re := range p.fieldRes {
		if re.MatchString(fieldID) {
			return true
		}
	}
	return false
}

// MatchesProperties reports whether every constrained property value
// matches one of its patterns. Properties with no configured patterns are
// implicitly allowed.
func (p *DataPermission) MatchesProperties(props map[string]string) bool {
	for name, res := range p.propRes {
		if len(res) == 0 {
			continue
		}
		value, ok := props[name]
		if !ok {
			return false
		}
		matched := false
		for _, re := range res {
			if re.MatchString(value) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

type Role struct {
	ID              string            `json:"id"`
	StudyID         string            `json:"studyId"`
	Name            string            `json:"name"`
	DataPermissions []*DataPermission `json:"dataPermissions"`
}

// Requester is resolved by the out-of-scope identity layer; the core only
// authorizes against the roles it carries.
type Requester struct {
	ID    string
	Roles []*Role
}
