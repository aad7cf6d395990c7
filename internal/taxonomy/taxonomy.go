// Package taxonomy holds the static tables that map unit names to their
// governing commission, the tracked target units and the display order of
// commissions. Tables are immutable once loaded.
package taxonomy

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	apperr "electwatch/internal/errors"
	"electwatch/internal/util"
)

//go:embed default.yaml
var defaultYAML []byte

// File is the YAML layout of a taxonomy definition.
type File struct {
	Fallback    string        `yaml:"fallback"`
	Order       []string      `yaml:"order"`
	Commissions []Entry       `yaml:"commissions"`
	Targets     []TargetEntry `yaml:"targets"`
}

type Entry struct {
	Keyword    string `yaml:"keyword"`
	Commission string `yaml:"commission"`
}

type TargetEntry struct {
	Name  string `yaml:"name"`
	Match string `yaml:"match"`
}

type Taxonomy struct {
	Table   *Table
	Targets *Targets
	Order   *Order
}

// Default returns the embedded taxonomy.
func Default() *Taxonomy {
	t, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded taxonomy: %v", err))
	}
	return t
}

// Load reads a taxonomy YAML file; an empty path yields the embedded default.
func Load(path string) (*Taxonomy, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Config(err, fmt.Sprintf("read taxonomy %s", path))
	}
	t, err := Parse(data)
	if err != nil {
		return nil, apperr.Config(err, fmt.Sprintf("parse taxonomy %s", path))
	}
	return t, nil
}

func Parse(data []byte) (*Taxonomy, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if strings.TrimSpace(f.Fallback) == "" {
		return nil, fmt.Errorf("missing fallback commission")
	}

	entries := make([]Entry, 0, len(f.Commissions))
	seen := map[string]string{}
	for i, e := range f.Commissions {
		keyword := util.NormalizeSpaces(util.CleanText(e.Keyword))
		commission := util.NormalizeSpaces(util.CleanText(e.Commission))
		if keyword == "" || commission == "" {
			return nil, fmt.Errorf("commissions[%d]: keyword and commission are required", i)
		}
		if prev, ok := seen[keyword]; ok && prev != commission {
			return nil, fmt.Errorf("commissions[%d]: keyword %q mapped to both %q and %q", i, keyword, prev, commission)
		}
		seen[keyword] = commission
		entries = append(entries, Entry{Keyword: keyword, Commission: commission})
	}

	targets, err := NewTargets(f.Targets)
	if err != nil {
		return nil, err
	}

	order := make([]string, 0, len(f.Order))
	for _, name := range f.Order {
		order = append(order, util.NormalizeSpaces(util.CleanText(name)))
	}

	return &Taxonomy{
		Table:   NewTable(entries, f.Fallback),
		Targets: targets,
		Order:   NewOrder(order),
	}, nil
}
