package mapping

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// NameList is a list of schema names, written in YAML either as one name or
// as a sequence: `subtypes: poBoxType` and `subtypes: [poBoxType]` are equal.
type NameList []string

func (l *NameList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string
		if err := node.Decode(&name); err != nil {
			return err
		}

		*l = NameList{}
		if name != "" {
			*l = NameList{name}
		}

		return nil
	case yaml.SequenceNode:
		var names []string
		if err := node.Decode(&names); err != nil {
			return err
		}

		*l = names

		return nil
	default:
		return fmt.Errorf("line %d: expected a name or a list of names", node.Line)
	}
}

// MarshalYAML writes a single name as a scalar.
func (l NameList) MarshalYAML() (any, error) {
	if len(l) == 1 {
		return l[0], nil
	}

	return []string(l), nil
}

func (l NameList) IsEmpty() bool {
	return len(l) == 0
}
