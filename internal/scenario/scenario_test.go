package scenario

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/animtimeline/internal/compositor"
	"github.com/ivlev/animtimeline/internal/timeline"
	"github.com/ivlev/animtimeline/internal/value"
)

func TestReadDocumentTypesValuesByProperty(t *testing.T) {
	doc, err := ReadDocument(filepath.Join("testdata", "orbit.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "orbit demo", doc.Name)
	assert.Equal(t, 4.0, doc.TotalDuration())
	require.Len(t, doc.Nodes, 2)
	require.Len(t, doc.Tracks, 4)

	orbit := doc.Nodes[0]
	assert.Equal(t, value.Number(120), orbit.Props["width"])
	assert.Equal(t, value.Color("#333333"), orbit.Props["stroke"])

	dot := doc.Nodes[1]
	assert.Equal(t, value.Color("tomato"), dot.Props["fill"])
	assert.Equal(t, value.Text("hello"), dot.Props["label"])
	require.NotNil(t, dot.MotionPath)
	assert.Equal(t, compositor.MotionPathBinding{SourceNodeID: "orbit", EndU: 1, AlignRotation: true}, *dot.MotionPath)

	fill := doc.Tracks[0]
	assert.Equal(t, value.Color("red"), fill.Keyframes[0].Value)
	assert.True(t, fill.Keyframes[0].Freeze)
	grad := fill.Keyframes[1].Value
	require.Equal(t, value.KindGradient, grad.Kind)
	assert.Equal(t, value.Radial, grad.Grad.Kind)
	assert.Equal(t, "50%", grad.Grad.CX)
	assert.Len(t, grad.Grad.Stops, 2)

	motion := doc.Tracks[1]
	assert.Equal(t, value.PathRef("orbit"), motion.Keyframes[0].Value)
	assert.Equal(t, "ease-in-out-sine", motion.Keyframes[1].Easing)

	// The same string is text outside paint properties.
	assert.Equal(t, value.Text("red"), doc.Tracks[2].Keyframes[0].Value)

	pts := doc.Tracks[3].Keyframes[0].Value
	require.Equal(t, value.KindPoints, pts.Kind)
	require.Len(t, pts.Pts, 2)
	require.NotNil(t, pts.Pts[1].In)
	assert.Equal(t, -2.0, pts.Pts[1].In.X)
}

func TestDecodeNumbersOnTextPropertiesStep(t *testing.T) {
	doc, err := Decode([]byte(`
nodes:
  - id: counter
    type: text
    props: {text: 0, width: 40}
tracks:
  - node: counter
    property: text
    keyframes:
      - {time: 0, value: 1}
      - {time: 2, value: 10}
`))
	require.NoError(t, err)

	assert.Equal(t, value.Text("0"), doc.Nodes[0].Props["text"])
	assert.Equal(t, value.Number(40), doc.Nodes[0].Props["width"])

	track := doc.Tracks[0]
	assert.Equal(t, value.Text("1"), timeline.Evaluate(track, 1, value.Absent()))
	assert.Equal(t, value.Text("10"), timeline.Evaluate(track, 2, value.Absent()))
}

func TestDecodeValidation(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty id", "version: '1'\nnodes:\n  - type: rect\n"},
		{"duplicate id", "nodes:\n  - {id: a, type: rect}\n  - {id: a, type: rect}\n"},
		{"unknown source", "nodes:\n  - id: a\n    type: rect\n    motionPath: {source: b}\n"},
		{"unknown track node", "nodes:\n  - {id: a, type: rect}\ntracks:\n  - {node: b, property: x, keyframes: []}\n"},
		{"negative time", "nodes:\n  - {id: a, type: rect}\ntracks:\n  - node: a\n    property: x\n    keyframes: [{time: -1, value: 0}]\n"},
		{"negative duration", "duration: -2\nnodes: []\n"},
		{"nan time", "nodes:\n  - {id: a, type: rect}\ntracks:\n  - node: a\n    property: x\n    keyframes: [{time: 0, value: 0}, {time: .nan, value: 10}]\n"},
		{"infinite time", "nodes:\n  - {id: a, type: rect}\ntracks:\n  - node: a\n    property: x\n    keyframes: [{time: .inf, value: 10}]\n"},
		{"nan duration", "duration: .nan\nnodes: []\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestDecodeRejectsMalformedYAML(t *testing.T) {
	_, err := Decode([]byte("nodes: [\n"))
	assert.Error(t, err)

	_, err = Decode([]byte("nodes: []\nunexpected: 1\n"))
	assert.Error(t, err)

	_, err = Decode([]byte("nodes:\n  - id: a\n    type: rect\n    props:\n      fill: {kind: conic, stops: []}\n"))
	assert.Error(t, err)

	_, err = Decode([]byte("nodes:\n  - id: a\n    type: rect\n    props:\n      fill: {x: 1}\n"))
	assert.Error(t, err)
}

func TestWriteThenReadDocument(t *testing.T) {
	doc := &Document{
		Name: "bounce",
		Nodes: []compositor.Node{
			{ID: "ball", Type: "ellipse", Props: map[string]value.Value{"fill": value.Color("#ff0000"), "width": value.Number(20)}},
		},
		Tracks: []timeline.Track{{NodeID: "ball", Property: timeline.PropY, Keyframes: []timeline.Keyframe{
			{Time: 0, Value: value.Number(0)},
			{Time: 1.5, Value: value.Number(80), Easing: "ease-out-bounce"},
		}}},
	}

	path := filepath.Join(t.TempDir(), "bounce.yaml")
	require.NoError(t, WriteDocument(doc, path))
	assert.Equal(t, CurrentVersion, doc.Version)

	got, err := ReadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
	assert.Equal(t, 1.5, got.TotalDuration())
}

func TestReadDocumentMissingFile(t *testing.T) {
	_, err := ReadDocument(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGeneratePath(t *testing.T) {
	path := GeneratePath("out", "my scene")
	assert.Equal(t, "out", filepath.Dir(path))
	assert.Contains(t, filepath.Base(path), "my_scene_")
	assert.True(t, IsDocumentFile(path))

	assert.Contains(t, GeneratePath("out", ""), "scenario_")
}

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()
	files := []string{"a.yaml", "b.yml", "c.yaml", "notes.txt"}
	base := time.Now().Add(-time.Hour)
	for i, f := range files {
		path := filepath.Join(dir, f)
		require.NoError(t, os.WriteFile(path, []byte("nodes: []\n"), 0644))
		modTime := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(path, modTime, modTime))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "z.yaml"), 0755))

	latest, err := FindLatest(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "c.yaml"), latest)

	_, err = FindLatest(t.TempDir())
	assert.Error(t, err)
	_, err = FindLatest(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestWatcherReportsDocumentChanges(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(doc, []byte("nodes: []\n"), 0644))

	w, err := NewWatcher(10*time.Millisecond, doc)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(doc, []byte("nodes: []\nname: v2\n"), 0644))

	select {
	case name := <-w.Events:
		assert.Equal(t, filepath.Clean(doc), name)
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no change event")
	}
}

func TestWatcherClose(t *testing.T) {
	w, err := NewWatcher(0, t.TempDir())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, ok := <-w.Events
	assert.False(t, ok)
}

func TestUnknownEasingsAndNormalize(t *testing.T) {
	doc, err := Decode([]byte(`
nodes:
  - {id: a, type: rect}
tracks:
  - node: a
    property: x
    keyframes:
      - {time: 2, value: 10, easing: wobble}
      - {time: 0, value: 0, easing: easeInOutCubic}
  - node: a
    property: y
    keyframes:
      - {time: 0, value: 0, easing: wobble}
      - {time: 1, value: 5, easing: "cubic-bezier(0.1, 0.2, 0.3, 0.4)"}
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"wobble"}, doc.UnknownEasings())

	require.True(t, doc.Normalize())
	kfs := doc.Tracks[0].Keyframes
	assert.Equal(t, 0.0, kfs[0].Time)
	assert.Equal(t, "ease-in-out-cubic", kfs[0].Easing)
	assert.Equal(t, "wobble", kfs[1].Easing)
	assert.Equal(t, CurrentVersion, doc.Version)
	assert.False(t, doc.Normalize())

	path := filepath.Join(t.TempDir(), "normalized.yaml")
	require.NoError(t, WriteDocument(doc, path))
	again, err := ReadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, doc, again)
}
