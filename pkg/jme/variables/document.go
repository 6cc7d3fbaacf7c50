package variables

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is the serialized form of a variable set.
//
//	variables:
//	  a: random(2..9)
//	  b: a^2
//	condition: b > 10
//	functions:
//	  - name: double
//	    parameters: [{name: x, type: number}]
//	    type: number
//	    definition: 2x
type Document struct {
	Variables map[string]string `yaml:"variables" json:"variables"`
	Condition string            `yaml:"condition,omitempty" json:"condition,omitempty"`
	Functions []FunctionSource  `yaml:"functions,omitempty" json:"functions,omitempty"`
}

// FunctionSource is a custom function written in JME.
type FunctionSource struct {
	Name       string        `yaml:"name" json:"name"`
	Parameters []ParamSource `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	// Type is the kind of the result; empty means any.
	Type       string `yaml:"type,omitempty" json:"type,omitempty"`
	Definition string `yaml:"definition" json:"definition"`
}

// ParamSource is one named, typed parameter of a custom function. An
// empty type accepts anything.
type ParamSource struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type,omitempty" json:"type,omitempty"`
}

// ParseDocument decodes a YAML variable set.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("parse variables: %w", err)
	}
	return doc, nil
}

// Marshal encodes the document as YAML.
func (d Document) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}
