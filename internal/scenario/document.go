// Package scenario reads and writes animation documents.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/animtimeline/internal/compositor"
	"github.com/ivlev/animtimeline/internal/easing"
	"github.com/ivlev/animtimeline/internal/timeline"
	"github.com/ivlev/animtimeline/internal/value"
)

// CurrentVersion is written into new documents.
const CurrentVersion = "1.0"

// Document is a complete animation: the scene nodes and their tracks
type Document struct {
	Version  string            `yaml:"version"`
	Name     string            `yaml:"name,omitempty"`
	Duration float64           `yaml:"duration,omitempty"` // Total duration in seconds, 0 = last keyframe
	Nodes    []compositor.Node `yaml:"nodes"`
	Tracks   []timeline.Track  `yaml:"tracks"`
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid document")

// TotalDuration returns Duration or, when unset, the latest keyframe time.
func (d *Document) TotalDuration() float64 {
	if d.Duration > 0 {
		return d.Duration
	}
	return timeline.Duration(d.Tracks)
}

// Decode parses a YAML document, types string values by the property they
// belong to and validates the result.
func Decode(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("scenario: decode: %w", err)
	}

	retag(&doc)
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func retag(doc *Document) {
	for i := range doc.Nodes {
		for prop, v := range doc.Nodes[i].Props {
			doc.Nodes[i].Props[prop] = value.Retag(v, timeline.ValueKind(prop))
		}
	}
	for i := range doc.Tracks {
		kind := timeline.ValueKind(doc.Tracks[i].Property)
		for k := range doc.Tracks[i].Keyframes {
			kf := &doc.Tracks[i].Keyframes[k]
			kf.Value = value.Retag(kf.Value, kind)
		}
	}
}

// Validate checks the invariants the engine relies on.
func (d *Document) Validate() error {
	ids := make(map[string]bool, len(d.Nodes))
	for i, n := range d.Nodes {
		if n.ID == "" {
			return fmt.Errorf("scenario: node %d: empty id: %w", i, ErrInvalid)
		}
		if ids[n.ID] {
			return fmt.Errorf("scenario: node %q: duplicate id: %w", n.ID, ErrInvalid)
		}
		ids[n.ID] = true
	}

	for _, n := range d.Nodes {
		if n.MotionPath == nil {
			continue
		}
		if !ids[n.MotionPath.SourceNodeID] {
			return fmt.Errorf("scenario: node %q: unknown motion path source %q: %w", n.ID, n.MotionPath.SourceNodeID, ErrInvalid)
		}
	}

	for _, tr := range d.Tracks {
		if !ids[tr.NodeID] {
			return fmt.Errorf("scenario: track %s.%s: unknown node: %w", tr.NodeID, tr.Property, ErrInvalid)
		}
		for _, kf := range tr.Keyframes {
			if math.IsNaN(kf.Time) || math.IsInf(kf.Time, 0) {
				return fmt.Errorf("scenario: track %s.%s: keyframe time %v is not finite: %w", tr.NodeID, tr.Property, kf.Time, ErrInvalid)
			}
			if kf.Time < 0 {
				return fmt.Errorf("scenario: track %s.%s: negative keyframe time %v: %w", tr.NodeID, tr.Property, kf.Time, ErrInvalid)
			}
		}
	}

	if math.IsNaN(d.Duration) || math.IsInf(d.Duration, 0) {
		return fmt.Errorf("scenario: duration %v is not finite: %w", d.Duration, ErrInvalid)
	}
	if d.Duration < 0 {
		return fmt.Errorf("scenario: negative duration %v: %w", d.Duration, ErrInvalid)
	}
	return nil
}

// UnknownEasings returns the distinct easing ids no curve answers to, in
// document order. They play back as linear.
func (d *Document) UnknownEasings() []string {
	var ids []string
	seen := make(map[string]bool)
	for _, tr := range d.Tracks {
		for _, kf := range tr.Keyframes {
			if kf.Easing == "" || seen[kf.Easing] || easing.Known(kf.Easing) {
				continue
			}
			seen[kf.Easing] = true
			ids = append(ids, kf.Easing)
		}
	}
	return ids
}

// Normalize rewrites easing aliases ("easeInOutCubic") to their canonical
// ids and sorts every track's keyframes by time. It reports whether
// anything changed.
func (d *Document) Normalize() bool {
	changed := false
	for i := range d.Tracks {
		kfs := d.Tracks[i].Keyframes
		for k := range kfs {
			if kfs[k].Easing == "" {
				continue
			}
			if c := easing.Canonical(kfs[k].Easing); c != kfs[k].Easing {
				kfs[k].Easing = c
				changed = true
			}
		}
		less := func(a, b int) bool { return kfs[a].Time < kfs[b].Time }
		if !sort.SliceIsSorted(kfs, less) {
			sort.SliceStable(kfs, less)
			changed = true
		}
	}
	if d.Version == "" {
		d.Version = CurrentVersion
		changed = true
	}
	return changed
}

// WriteDocument writes a document to a YAML file
func WriteDocument(doc *Document, path string) error {
	if doc.Version == "" {
		doc.Version = CurrentVersion
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadDocument reads a document from a YAML file
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return doc, nil
}
