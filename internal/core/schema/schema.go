// Package schema holds the dictionary set: the catalogue of entity types and
// the relation types allowed between them.
package schema

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// Any matches every entity type in a relation's subject or object list.
const Any = "any"

//go:embed default.toml
var defaultTOML []byte

type EntityType struct {
	Description string   `toml:"description"`
	Examples    []string `toml:"examples"`
}

type RelationType struct {
	Description  string   `toml:"description"`
	SubjectTypes []string `toml:"subject_types"`
	ObjectTypes  []string `toml:"object_types"`
}

type Schema struct {
	EntityTypes   map[string]EntityType   `toml:"entity_types"`
	RelationTypes map[string]RelationType `toml:"relation_types"`
}

// Default returns the built-in biomedical dictionary set.
func Default() *Schema {
	s, err := Parse(defaultTOML)
	if err != nil {
		panic(fmt.Sprintf("built-in schema is invalid: %v", err))
	}
	return s
}

// Load reads a dictionary set from a TOML file.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	for name, rt := range s.RelationTypes {
		if len(rt.SubjectTypes) == 0 || len(rt.ObjectTypes) == 0 {
			return nil, fmt.Errorf("relation type %s must list subject_types and object_types", name)
		}
	}
	return &s, nil
}

func (s *Schema) EntityTypeNames() []string {
	return sortedKeys(s.EntityTypes)
}

func (s *Schema) RelationTypeNames() []string {
	return sortedKeys(s.RelationTypes)
}

func (s *Schema) HasEntityType(t string) bool {
	_, ok := s.EntityTypes[t]
	return ok
}

// IsValidRelation reports whether predicate may connect a subject of
// subjectType to an object of objectType.
func (s *Schema) IsValidRelation(subjectType, predicate, objectType string) bool {
	rt, ok := s.RelationTypes[predicate]
	if !ok {
		return false
	}
	return allows(rt.SubjectTypes, subjectType) && allows(rt.ObjectTypes, objectType)
}

func allows(types []string, t string) bool {
	for _, candidate := range types {
		if candidate == Any || candidate == t {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
