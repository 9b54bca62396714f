package persist

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodeflow/internal/graph"
)

func shaderGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	in := graph.NewNode("Color Input", graph.WithPosition(100, 100), graph.WithSize(220, 180),
		graph.WithOutput("Color", graph.TypeColor),
		graph.WithProperty("Red", graph.Number(1)),
		graph.WithProperty("Tint", graph.ColorValue(graph.Color{R: 1, G: 0.5, A: 1})),
	)
	mix := graph.NewNode("Mix Shader", graph.WithPosition(500, 200), graph.WithDescription("blends two colors"),
		graph.WithInput("Color A", graph.TypeColor),
		graph.WithInput("Color B", graph.TypeColor),
		graph.WithInput("Factor", graph.TypeNumber),
		graph.WithOutput("Result", graph.TypeColor),
		graph.WithProperty("Label", graph.String("mix")),
	)
	out := graph.NewNode("Output", graph.WithPosition(900, 150),
		graph.WithInput("Final Color", graph.TypeColor),
		graph.WithProperty("Preview", graph.Bool(true)),
	)
	for _, n := range []*graph.Node{in, mix, out} {
		require.NoError(t, g.AddNode(n))
	}
	for _, pair := range [][2]*graph.Port{
		{in.Output("Color"), mix.Input("Color A")},
		{in.Output("Color"), mix.Input("Color B")},
		{mix.Output("Result"), out.Input("Final Color")},
	} {
		_, err := g.Connect(pair[0], pair[1])
		require.NoError(t, err)
	}
	return g
}

type link struct{ src, dst string }

func links(g *graph.Graph) []link {
	var out []link
	for _, c := range g.Connections() {
		out = append(out, link{c.Source().String(), c.Target().String()})
	}
	return out
}

func TestRoundTripPreservesStructure(t *testing.T) {
	g := shaderGraph(t)

	data, err := Serialize(g)
	require.NoError(t, err)
	back, report, err := Deserialize(data)
	require.NoError(t, err)
	require.True(t, report.OK(), report.String())

	assert.Equal(t, g.NodeCount(), back.NodeCount())
	assert.Equal(t, g.ConnectionCount(), back.ConnectionCount())
	assert.Equal(t, links(g), links(back))
	require.NoError(t, back.Verify())

	mix := back.Find("Mix Shader")
	require.NotNil(t, mix)
	assert.Equal(t, "blends two colors", mix.Description)
	assert.Equal(t, graph.String("mix"), mix.Property("Label").Value())
	w, h := back.Find("Color Input").Size()
	assert.Equal(t, []float64{220, 180}, []float64{w, h})
	assert.Equal(t, graph.ColorValue(graph.Color{R: 1, G: 0.5, A: 1}), back.Find("Color Input").Property("Tint").Value())
	assert.Equal(t, graph.Bool(true), back.Find("Output").Property("Preview").Value())
	assert.Equal(t, 2, back.Find("Output").Z())
}

func TestRoundTripSharesPortIdentity(t *testing.T) {
	data, err := Serialize(shaderGraph(t))
	require.NoError(t, err)
	back, _, err := Deserialize(data)
	require.NoError(t, err)

	colorOut := back.Find("Color Input").Output("Color")
	conns := back.Connections()
	assert.Same(t, colorOut, conns[0].Source())
	assert.Same(t, colorOut, conns[1].Source(), "fan-out links share one port object")
	assert.Same(t, back.Find("Mix Shader").Input("Color A"), conns[0].Target())
	assert.Len(t, colorOut.Connections(), 2)
}

func TestDocumentShape(t *testing.T) {
	data, err := Serialize(shaderGraph(t))
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, FormatVersion, doc.Version)
	require.Len(t, doc.Nodes, 3)
	assert.Equal(t, "color", doc.Nodes[1].Inputs[0].Type)
	assert.Equal(t, "input", doc.Nodes[1].Inputs[0].Direction)
	assert.Equal(t, "output", doc.Nodes[1].Outputs[0].Direction)
	assert.JSONEq(t, `{"r":1,"g":0.5,"b":0,"a":1}`, string(doc.Nodes[0].Properties[1].Value))
	assert.Equal(t, doc.Nodes[0].Outputs[0].ID, doc.Connections[0].Source)
	assert.Equal(t, doc.Nodes[1].Inputs[1].ID, doc.Connections[1].Target)
}

func TestCodecKeepsIDsStable(t *testing.T) {
	g := shaderGraph(t)
	c := NewCodec()

	first, err := c.Encode(g)
	require.NoError(t, err)
	second, err := c.Encode(g)
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))

	loaded, _, err := c.Decode(first)
	require.NoError(t, err)
	third, err := c.Encode(loaded)
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(third), "ids read from a file are written back")
}

const brokenDoc = `{
  "version": 1,
  "nodes": [
    {"id": "n1", "title": "Source", "x": 0, "y": 0, "width": 200, "height": 120,
     "properties": [
       {"name": "Gain", "type": "System.Numerics.Matrix4x4", "value": {"m11": 1}},
       {"name": "Level", "type": "number", "value": "loud"}
     ],
     "outputs": [{"id": "p1", "name": "Out", "type": "number"},
                 {"id": "p2", "name": "Mat", "type": "matrix"}]},
    {"id": "n2", "title": "Sink", "x": 300, "y": 0, "width": 200, "height": 120,
     "inputs": [{"id": "p3", "name": "In", "type": "number"},
                {"id": "p1", "name": "Dup", "type": "number"}]},
    {"id": "", "title": "No id"}
  ],
  "connections": [
    {"source": "p1", "target": "p3"},
    {"source": "p1", "target": "missing"},
    {"source": "p2", "target": "p3"},
    {"source": "p3", "target": "p1"},
    {"source": "", "target": "p3"}
  ]
}`

func TestDeserializeRecoversFromBadEntities(t *testing.T) {
	g, report, err := Deserialize([]byte(brokenDoc))
	require.NoError(t, err)
	require.NotNil(t, g)

	assert.Equal(t, 2, g.NodeCount(), "node without an id is skipped")
	assert.Equal(t, 1, g.ConnectionCount())
	require.NoError(t, g.Verify())

	assert.Equal(t, 2, report.Count(ErrUnknownTypeTag))
	assert.Equal(t, 1, report.Count(ErrDanglingReference))
	assert.Equal(t, 1, report.Count(ErrDuplicateReference))
	assert.Equal(t, 2, report.Count(ErrInvalidConnection))
	assert.Equal(t, 3, report.Count(ErrMalformedEntity))
	assert.False(t, report.OK())
	assert.ErrorIs(t, report.Err(), ErrDanglingReference)

	src := g.Find("Source")
	gain := src.Property("Gain")
	assert.Equal(t, graph.TypeUnknown, gain.Type)
	assert.Equal(t, graph.TypeUnknown, gain.Value().Tag())
	assert.Equal(t, graph.Number(0), src.Property("Level").Value())
	assert.Equal(t, graph.TypeUnknown, src.Output("Mat").Type)
	assert.Same(t, src.Output("Out"), g.Connections()[0].Source())
}

func TestUnknownTagsSurviveResave(t *testing.T) {
	c := NewCodec()
	g, _, err := c.Decode([]byte(brokenDoc))
	require.NoError(t, err)

	data, err := c.Encode(g)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	gain := doc.Nodes[0].Properties[0]
	assert.Equal(t, "System.Numerics.Matrix4x4", gain.Type)
	assert.JSONEq(t, `{"m11": 1}`, string(gain.Value))
	assert.Equal(t, "matrix", doc.Nodes[0].Outputs[1].Type)
}

func TestDeserializeFatalErrors(t *testing.T) {
	_, _, err := Deserialize([]byte(`{"nodes": [`))
	assert.ErrorIs(t, err, ErrInvalidDocument)

	_, _, err = Deserialize([]byte(`{"version": 7, "nodes": []}`))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	_, _, err = Deserialize([]byte(`{"nodes": []}`))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestEmptyGraphRoundTrip(t *testing.T) {
	data, err := Serialize(graph.New())
	require.NoError(t, err)
	g, report, err := Deserialize(data)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Zero(t, g.NodeCount())
}

func TestSerializeRejectsUnencodableOpaque(t *testing.T) {
	g := graph.New()
	require.NoError(t, g.AddNode(graph.NewNode("Bad", graph.WithProperty("Fn", graph.Opaque(func() {})))))

	_, err := Serialize(g)
	assert.Error(t, err)
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.json")
	g := shaderGraph(t)

	require.NoError(t, SaveFile(path, g))
	back, report, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.Equal(t, links(g), links(back))

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".project.json.*"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temporary file is cleaned up")

	_, _, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
