package pipeline

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/yursur/FEDOT/core/operation"
	"github.com/yursur/FEDOT/pkg/errors"
)

// TemplateNode declares one pipeline node in a template file.
type TemplateNode struct {
	// Name identifies the node within the template.
	Name string `yaml:"name"`

	// Operation is the registered operation tag; defaults to Name.
	Operation string `yaml:"operation"`

	// Params are passed to the operation factory.
	Params map[string]interface{} `yaml:"params"`

	// Parents lists upstream node names in order.
	Parents []string `yaml:"parents"`
}

// Template is a declarative pipeline description. Nodes must be listed with
// parents before children.
type Template struct {
	Nodes []TemplateNode `yaml:"nodes"`
}

// LoadTemplate parses a YAML pipeline template.
func LoadTemplate(r io.Reader) (*Template, error) {
	var t Template
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil {
		return nil, errors.Wrap(err, "decode pipeline template")
	}
	if len(t.Nodes) == 0 {
		return nil, errors.NewValidationError("nodes", "template declares no nodes", nil)
	}
	return &t, nil
}

// Build constructs a pipeline from the template using the operation
// registry. Unknown operation tags and unknown or forward parent references
// fail fast.
func (t *Template) Build(logger zerolog.Logger) (*Pipeline, error) {
	p := New(logger)
	byName := make(map[string]*Node, len(t.Nodes))

	for _, tn := range t.Nodes {
		if tn.Name == "" {
			return nil, errors.NewValidationError("name", "template node has no name", tn)
		}
		if _, dup := byName[tn.Name]; dup {
			return nil, errors.NewValidationError("name", "duplicate template node name", tn.Name)
		}

		opName := tn.Operation
		if opName == "" {
			opName = tn.Name
		}
		op, err := operation.New(opName, tn.Params)
		if err != nil {
			return nil, err
		}

		parents := make([]*Node, len(tn.Parents))
		for i, parentName := range tn.Parents {
			parent, ok := byName[parentName]
			if !ok {
				return nil, errors.NewValidationError("parents",
					"unknown parent '"+parentName+"' (parents must be declared first)", tn.Name)
			}
			parents[i] = parent
		}

		node, err := p.AddNode(op, parents...)
		if err != nil {
			return nil, err
		}
		byName[tn.Name] = node
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// FromFile loads a template file and builds the pipeline.
func FromFile(path string, logger zerolog.Logger) (*Pipeline, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open pipeline template")
	}
	defer file.Close()

	t, err := LoadTemplate(file)
	if err != nil {
		return nil, err
	}
	return t.Build(logger)
}
