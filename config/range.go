package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Range is a closed interval written in YAML as a two-element sequence: [min, max].
type Range struct {
	Min, Max float64
}

// Within reports whether the range is ordered and lies inside [lo, hi].
func (r Range) Within(lo, hi float64) bool {
	return r.Min <= r.Max && r.Min >= lo && r.Max <= hi
}

// Lerp maps t in [0, 1] onto the range.
func (r Range) Lerp(t float64) float64 {
	return r.Min + t*(r.Max-r.Min)
}

// String formats the range as [min, max].
func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}

// UnmarshalYAML accepts [min, max] or a single scalar for a degenerate range.
func (r *Range) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var v float64
		if err := value.Decode(&v); err != nil {
			return err
		}
		r.Min, r.Max = v, v
		return nil
	case yaml.SequenceNode:
		var vs []float64
		if err := value.Decode(&vs); err != nil {
			return err
		}
		if len(vs) != 2 {
			return fmt.Errorf("line %d: range needs exactly 2 values, got %d", value.Line, len(vs))
		}
		r.Min, r.Max = vs[0], vs[1]
		return nil
	default:
		return fmt.Errorf("line %d: range must be a scalar or [min, max]", value.Line)
	}
}

// MarshalYAML writes the range as a flow sequence.
func (r Range) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range []float64{r.Min, r.Max} {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Value: fmt.Sprintf("%g", v),
		})
	}
	return node, nil
}
