package value

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MarshalYAML writes the payload of v without its tag.
func (v Value) MarshalYAML() (interface{}, error) {
	switch v.Kind {
	case KindAbsent:
		return nil, nil
	case KindNumber:
		return v.Num, nil
	case KindColor, KindText, KindPathRef:
		return v.Str, nil
	case KindGradient:
		return v.Grad, nil
	case KindPoints:
		return v.Pts, nil
	case KindCrossfade:
		return map[string]interface{}{"crossfade": v.Crossfade}, nil
	}
	return nil, fmt.Errorf("value: cannot marshal kind %s", v.Kind)
}

// UnmarshalYAML decodes a value by shape alone: numbers, strings (as text),
// mappings with stops (gradients), sequences (path points) and null. Callers
// that know the property retag strings with Retag.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			*v = Absent()
			return nil
		}
		if tag := node.ShortTag(); tag == "!!int" || tag == "!!float" {
			var f float64
			if err := node.Decode(&f); err != nil {
				return fmt.Errorf("value: line %d: %w", node.Line, err)
			}
			*v = Number(f)
			return nil
		}
		*v = Text(node.Value)
		return nil

	case yaml.MappingNode:
		var probe struct {
			Stops     []Stop     `yaml:"stops"`
			Crossfade *Crossfade `yaml:"crossfade"`
		}
		if err := node.Decode(&probe); err != nil {
			return fmt.Errorf("value: line %d: %w", node.Line, err)
		}
		if probe.Crossfade != nil {
			*v = Value{Kind: KindCrossfade, Crossfade: probe.Crossfade}
			return nil
		}
		if !hasKey(node, "stops") {
			return fmt.Errorf("value: line %d: mapping is neither a gradient (stops) nor a crossfade", node.Line)
		}
		var g Gradient
		if err := node.Decode(&g); err != nil {
			return fmt.Errorf("value: line %d: %w", node.Line, err)
		}
		if g.Kind == "" {
			g.Kind = Linear
		}
		if g.Kind != Linear && g.Kind != Radial {
			return fmt.Errorf("value: line %d: unknown gradient kind %q", node.Line, g.Kind)
		}
		*v = Value{Kind: KindGradient, Grad: &g}
		return nil

	case yaml.SequenceNode:
		var pts []PathPoint
		if err := node.Decode(&pts); err != nil {
			return fmt.Errorf("value: line %d: %w", node.Line, err)
		}
		*v = Points(pts)
		return nil

	case yaml.AliasNode:
		return v.UnmarshalYAML(node.Alias)
	}
	return fmt.Errorf("value: line %d: unsupported yaml node", node.Line)
}

func hasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}

// Retag converts shape-decoded scalars into the variant the property
// actually holds. Unquoted numbers on string properties become their
// shortest decimal spelling, so a text counter like `value: 10` steps
// instead of blending.
func Retag(v Value, kind Kind) Value {
	var s string
	switch v.Kind {
	case KindText:
		s = v.Str
	case KindNumber:
		s = strconv.FormatFloat(v.Num, 'g', -1, 64)
	default:
		return v
	}
	switch kind {
	case KindColor:
		return Color(s)
	case KindPathRef:
		return PathRef(s)
	case KindText:
		return Text(s)
	}
	return v
}
