package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/recordcompare/internal/doc"
)

// Scenario is one scripted session.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Database is reported as the connected database. Defaults to "test".
	Database string `yaml:"database,omitempty"`

	// Token is the disambiguator used for every comparison run.
	Token string `yaml:"token,omitempty"`

	// PreviewLimit bounds find previews. Zero uses the default.
	PreviewLimit int64 `yaml:"preview_limit,omitempty"`

	// Collections seeds the store. Each entry is a list of documents in
	// insertion order.
	Collections map[string][]yaml.Node `yaml:"collections"`

	// Input is fed to the console one line at a time.
	Input []string `yaml:"input"`

	// Expect holds the checks evaluated after the session ends.
	Expect Expect `yaml:"expect"`
}

// Expect describes the observable outcome of a session.
type Expect struct {
	// Launches is the expected number of diff tool invocations.
	Launches *int `yaml:"launches,omitempty"`

	// Files lists the snapshot file names left in the snapshot directory,
	// in any order.
	Files []string `yaml:"files,omitempty"`

	// Runs is the expected number of journaled comparison runs.
	Runs *int `yaml:"runs,omitempty"`

	// OutputContains lists substrings the transcript must contain.
	OutputContains []string `yaml:"output_contains,omitempty"`

	// OutputExcludes lists substrings the transcript must not contain.
	OutputExcludes []string `yaml:"output_excludes,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadDir loads every *.yaml scenario in dir whose file name matches
// pattern (a filepath.Match glob; empty matches all), sorted by file name.
func LoadDir(dir, pattern string) ([]*Scenario, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(files)

	var out []*Scenario
	for _, f := range files {
		if pattern != "" {
			ok, err := filepath.Match(pattern, filepath.Base(f))
			if err != nil {
				return nil, fmt.Errorf("invalid filter %q: %w", pattern, err)
			}
			if !ok {
				continue
			}
		}
		s, err := LoadScenario(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(f), err)
		}
		out = append(out, s)
	}
	return out, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Input) == 0 {
		return fmt.Errorf("input list is required and must be non-empty")
	}
	if s.Expect.Launches != nil && *s.Expect.Launches < 0 {
		return fmt.Errorf("expect.launches must not be negative")
	}
	for name, docs := range s.Collections {
		for i := range docs {
			if _, err := nodeToDocument(&docs[i]); err != nil {
				return fmt.Errorf("collections.%s[%d]: %w", name, i, err)
			}
		}
	}
	return nil
}

// Documents returns the seeded documents of collection in file order.
func (s *Scenario) Documents(collection string) ([]doc.Document, error) {
	nodes := s.Collections[collection]
	out := make([]doc.Document, 0, len(nodes))
	for i := range nodes {
		d, err := nodeToDocument(&nodes[i])
		if err != nil {
			return nil, fmt.Errorf("collections.%s[%d]: %w", collection, i, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func nodeToDocument(n *yaml.Node) (doc.Document, error) {
	v, err := nodeToValue(n)
	if err != nil {
		return nil, err
	}
	d, ok := v.(doc.Document)
	if !ok {
		return nil, fmt.Errorf("line %d: document must be a mapping", n.Line)
	}
	return d, nil
}

// nodeToValue converts a YAML node into a doc value, keeping mapping
// order.
func nodeToValue(n *yaml.Node) (doc.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return doc.Null{}, nil
		}
		return nodeToValue(n.Content[0])
	case yaml.AliasNode:
		return nodeToValue(n.Alias)
	case yaml.MappingNode:
		d := make(doc.Document, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			v, err := nodeToValue(n.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			d = append(d, doc.Field{Key: key, Value: v})
		}
		return d, nil
	case yaml.SequenceNode:
		arr := make(doc.Array, 0, len(n.Content))
		for i, c := range n.Content {
			v, err := nodeToValue(c)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		if n.ShortTag() == "!!timestamp" {
			var t time.Time
			if err := n.Decode(&t); err != nil {
				return nil, fmt.Errorf("line %d: %w", n.Line, err)
			}
			return doc.NewTime(t), nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return doc.FromAny(v)
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
	}
}
