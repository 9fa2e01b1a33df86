package questionbank

import (
	"fmt"
	"os"

	"github.com/foxseedlab/mensetsukan/internal/question"
	"gopkg.in/yaml.v3"
)

type entry struct {
	ID       string   `yaml:"id"`
	Text     string   `yaml:"text"`
	Keywords []string `yaml:"keywords"`
}

type document struct {
	Questions []entry `yaml:"questions"`
}

// LoadFile reads a question bank from YAML. A plain JSON array of
// {"id","text","keywords"} objects is accepted as well.
func LoadFile(path string) (*question.Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading question bank: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*question.Bank, error) {
	entries, err := decodeEntries(data)
	if err != nil {
		return nil, fmt.Errorf("parsing question bank: %w", err)
	}
	qs := make([]question.Question, 0, len(entries))
	for _, e := range entries {
		qs = append(qs, question.Question{ID: e.ID, Text: e.Text, Keywords: e.Keywords})
	}
	return question.NewBank(qs)
}

func decodeEntries(data []byte) ([]entry, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}
	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var list []entry
		if err := root.Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	case yaml.MappingNode:
		var doc document
		if err := root.Decode(&doc); err != nil {
			return nil, err
		}
		return doc.Questions, nil
	default:
		return nil, fmt.Errorf("unexpected top-level yaml node kind %d", root.Kind)
	}
}
