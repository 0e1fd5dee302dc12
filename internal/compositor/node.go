// Package compositor merges evaluated tracks, motion paths and stroke
// draw ranges into the render state of every node at one point in time.
package compositor

import (
	"gopkg.in/yaml.v3"

	"github.com/ivlev/animtimeline/internal/motionpath"
	"github.com/ivlev/animtimeline/internal/value"
)

// MotionPathBinding attaches a node to the outline of another node.
type MotionPathBinding struct {
	SourceNodeID  string  `yaml:"source"`
	StartU        float64 `yaml:"startU"`
	EndU          float64 `yaml:"endU"`
	OffsetX       float64 `yaml:"offsetX,omitempty"`
	OffsetY       float64 `yaml:"offsetY,omitempty"`
	AlignRotation bool    `yaml:"alignRotation,omitempty"`
}

// UnmarshalYAML defaults EndU to 1 so a binding without bounds spans the
// whole outline.
func (b *MotionPathBinding) UnmarshalYAML(node *yaml.Node) error {
	type plain MotionPathBinding
	raw := plain{EndU: 1}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*b = MotionPathBinding(raw)
	return nil
}

// Node is a scene element with its static property values.
type Node struct {
	ID         string                 `yaml:"id"`
	Type       string                 `yaml:"type"`
	Props      map[string]value.Value `yaml:"props,omitempty"`
	MotionPath *MotionPathBinding     `yaml:"motionPath,omitempty"`
}

// PreviewOverride substitutes a live fill or stroke value for one node.
type PreviewOverride struct {
	NodeID   string
	Property string
	Value    value.Value
}

// Dash is a stroke dash pattern revealing part of an outline.
type Dash struct {
	Array  [2]float64 `yaml:"array,flow"`
	Offset float64    `yaml:"offset"`
}

// RenderState is a node with every property resolved for one frame.
type RenderState struct {
	Node `yaml:",inline"`
	Dash *Dash `yaml:"dash,omitempty"`
}

// Prop returns the resolved number for name or def.
func (s RenderState) Prop(name string, def float64) float64 {
	return s.Props[name].FloatOr(def)
}

// rectLike nodes are positioned by their center when following a path.
func rectLike(shape string) bool {
	switch shape {
	case motionpath.ShapeRect, motionpath.ShapeText, motionpath.ShapeImage, motionpath.ShapeGroup:
		return true
	}
	return false
}

// GradientID is the stable resource id of the gradient painted into
// property of a node.
func GradientID(nodeID, property string) string {
	return "grad-" + nodeID + "-" + property
}

func cloneProps(props map[string]value.Value) map[string]value.Value {
	cp := make(map[string]value.Value, len(props))
	for k, v := range props {
		cp[k] = v
	}
	return cp
}

func staticState(n Node) RenderState {
	n.Props = cloneProps(n.Props)
	return RenderState{Node: n}
}
