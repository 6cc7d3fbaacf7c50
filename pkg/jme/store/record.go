package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/jme/pkg/jme"
	"github.com/randalmurphal/jme/pkg/jme/variables"
)

// Format is the current record format version.
// Increment when making breaking changes to Record.
const Format = 1

// Record is the stored form of a definition: the YAML document plus the
// metadata of the run that saved it.
type Record struct {
	Format int       `json:"format"`
	Kind   Kind      `json:"kind"`
	Name   string    `json:"name"`
	RunID  string    `json:"run_id,omitempty"`
	Saved  time.Time `json:"saved"`
	Body   string    `json:"body"`
}

// Marshal serializes a record to JSON.
func (r *Record) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// Unmarshal deserializes a record from JSON.
func Unmarshal(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	if r.Format > Format {
		return nil, fmt.Errorf("record format %d is newer than supported %d", r.Format, Format)
	}
	return &r, nil
}

// NewRecord builds a record around a YAML body.
func NewRecord(kind Kind, name, runID string, body []byte) *Record {
	return &Record{
		Format: Format,
		Kind:   kind,
		Name:   name,
		RunID:  runID,
		Saved:  time.Now().UTC(),
		Body:   string(body),
	}
}

func put(st Store, r *Record) (int, error) {
	data, err := r.Marshal()
	if err != nil {
		return 0, fmt.Errorf("marshal %s %s: %w", r.Kind, r.Name, err)
	}
	return st.Put(r.Kind, r.Name, data)
}

func get(st Store, kind Kind, name string) (*Record, error) {
	data, err := st.Get(kind, name)
	if err != nil {
		return nil, err
	}
	r, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", kind, name, err)
	}
	return r, nil
}

// PutRuleset saves a ruleset document under its lowercased name.
func PutRuleset(st Store, doc jme.RulesetDoc, runID string) (int, error) {
	name := strings.ToLower(doc.Name)
	if name == "" {
		return 0, ErrInvalidName
	}
	body, err := yaml.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("marshal ruleset %s: %w", name, err)
	}
	return put(st, NewRecord(KindRuleset, name, runID, body))
}

// GetRuleset loads a ruleset document.
func GetRuleset(st Store, name string) (jme.RulesetDoc, error) {
	r, err := get(st, KindRuleset, strings.ToLower(name))
	if err != nil {
		return jme.RulesetDoc{}, err
	}
	var doc jme.RulesetDoc
	if err := yaml.Unmarshal([]byte(r.Body), &doc); err != nil {
		return jme.RulesetDoc{}, fmt.Errorf("ruleset %s: %w", name, err)
	}
	return doc, nil
}

// Rulesets loads every stored ruleset document, ordered by name. A
// document that fails to load is reported in the joined error; the others
// are still returned.
func Rulesets(st Store) ([]jme.RulesetDoc, error) {
	infos, err := st.List(KindRuleset)
	if err != nil {
		return nil, err
	}
	docs := make([]jme.RulesetDoc, 0, len(infos))
	var errs []error
	for _, info := range infos {
		doc, err := GetRuleset(st, info.Name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, errors.Join(errs...)
}

// PutVariables saves a variable set under name.
func PutVariables(st Store, name string, doc variables.Document, runID string) (int, error) {
	body, err := doc.Marshal()
	if err != nil {
		return 0, fmt.Errorf("marshal variables %s: %w", name, err)
	}
	return put(st, NewRecord(KindVariables, name, runID, body))
}

// GetVariables loads a variable set.
func GetVariables(st Store, name string) (variables.Document, error) {
	r, err := get(st, KindVariables, name)
	if err != nil {
		return variables.Document{}, err
	}
	doc, err := variables.ParseDocument([]byte(r.Body))
	if err != nil {
		return variables.Document{}, fmt.Errorf("variables %s: %w", name, err)
	}
	return doc, nil
}
