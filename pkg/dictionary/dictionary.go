// Package dictionary provides entity and relationship extraction from text.
// Extraction is intentionally literal: a fixed ordered list of entity names
// matched case-insensitively as substrings, and a fixed keyword table that
// licenses at most one relationship per chunk.
package dictionary

import "strings"

// Entity is a named entity the dictionary knows how to recognize.
type Entity struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Trigger maps a keyword substring to the relation label it licenses.
type Trigger struct {
	Keyword  string `json:"keyword"`
	Relation string `json:"relation"`
}

// DefaultType is assigned to entities constructed from bare names.
const DefaultType = "Concept"

// DefaultTriggers is the built-in trigger table. Table order decides which
// trigger wins when a chunk contains several keywords.
var DefaultTriggers = []Trigger{
	{Keyword: "orbit", Relation: "orbits"},
	{Keyword: "consists of", Relation: "consists of"},
}

// DefaultEntities is the demo solar-system dictionary.
var DefaultEntities = []Entity{
	{Name: "Solar System", Type: "System"},
	{Name: "Sun", Type: "Star"},
	{Name: "Mercury", Type: "Planet"},
	{Name: "Venus", Type: "Planet"},
	{Name: "Earth", Type: "Planet"},
	{Name: "Mars", Type: "Planet"},
	{Name: "Jupiter", Type: "Planet"},
	{Name: "Saturn", Type: "Planet"},
	{Name: "Uranus", Type: "Planet"},
	{Name: "Neptune", Type: "Planet"},
	{Name: "Moon", Type: "Moon"},
	{Name: "Asteroid Belt", Type: "Region"},
}

// Dictionary is a fixed, ordered set of known entities plus a trigger table.
// It is built once at session construction and never mutated afterwards.
type Dictionary struct {
	entities []Entity
	folded   []string // case-folded names, parallel to entities
	triggers []Trigger
	foldedKw []string // case-folded keywords, parallel to triggers
}

// New creates a dictionary from the given entities and triggers.
// Entities with an empty Type get DefaultType. A nil trigger slice selects
// DefaultTriggers; an explicitly empty slice disables relation inference.
func New(entities []Entity, triggers []Trigger) *Dictionary {
	if triggers == nil {
		triggers = DefaultTriggers
	}
	d := &Dictionary{
		entities: make([]Entity, 0, len(entities)),
		folded:   make([]string, 0, len(entities)),
		triggers: make([]Trigger, 0, len(triggers)),
		foldedKw: make([]string, 0, len(triggers)),
	}
	for _, e := range entities {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		typ := e.Type
		if typ == "" {
			typ = DefaultType
		}
		d.entities = append(d.entities, Entity{Name: name, Type: typ})
		d.folded = append(d.folded, strings.ToLower(name))
	}
	for _, t := range triggers {
		kw := strings.TrimSpace(t.Keyword)
		if kw == "" {
			continue
		}
		d.triggers = append(d.triggers, Trigger{Keyword: kw, Relation: t.Relation})
		d.foldedKw = append(d.foldedKw, strings.ToLower(kw))
	}
	return d
}

// NewFromNames creates a dictionary from bare entity names with DefaultType
// and the default trigger table.
func NewFromNames(names []string) *Dictionary {
	entities := make([]Entity, 0, len(names))
	for _, n := range names {
		entities = append(entities, Entity{Name: n})
	}
	return New(entities, nil)
}

// Match returns the entities mentioned in text, in dictionary order (not
// text-occurrence order). Matching is case-insensitive substring containment.
func (d *Dictionary) Match(text string) []Entity {
	folded := strings.ToLower(text)
	var mentioned []Entity
	for i, name := range d.folded {
		if strings.Contains(folded, name) {
			mentioned = append(mentioned, d.entities[i])
		}
	}
	return mentioned
}

// MatchTrigger returns the first trigger (in table order) whose keyword
// appears in text, case-insensitively. At most one trigger fires per chunk.
func (d *Dictionary) MatchTrigger(text string) (Trigger, bool) {
	folded := strings.ToLower(text)
	for i, kw := range d.foldedKw {
		if strings.Contains(folded, kw) {
			return d.triggers[i], true
		}
	}
	return Trigger{}, false
}

// Len returns the number of entities in the dictionary.
func (d *Dictionary) Len() int {
	return len(d.entities)
}

// Entities returns a copy of the dictionary's entity list.
func (d *Dictionary) Entities() []Entity {
	out := make([]Entity, len(d.entities))
	copy(out, d.entities)
	return out
}
