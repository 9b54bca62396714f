package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodeflow/internal/geom"
)

func TestNewNodeDefaults(t *testing.T) {
	n := NewNode("Mix")
	w, h := n.Size()
	assert.Equal(t, float64(DefaultNodeWidth), w)
	assert.Equal(t, float64(DefaultNodeHeight), h)
	assert.Empty(t, n.Ports())

	tiny := NewNode("Tiny", WithSize(1, 1))
	w, h = tiny.Size()
	assert.Equal(t, float64(MinNodeWidth), w)
	assert.Equal(t, float64(MinNodeHeight), h)
}

func TestNodePortsKeepOrderAndOwner(t *testing.T) {
	n := NewNode("Mix Shader",
		WithInput("Color A", TypeColor),
		WithInput("Color B", TypeColor),
		WithInput("Factor", TypeNumber),
		WithOutput("Result", TypeColor),
	)

	var names []string
	for _, p := range n.Ports() {
		names = append(names, p.Name)
		assert.Same(t, n, p.Node())
		assert.True(t, n.Owns(p))
	}
	assert.Equal(t, []string{"Color A", "Color B", "Factor", "Result"}, names)
	assert.True(t, n.Input("Factor").IsInput())
	assert.True(t, n.Output("Result").IsOutput())
	assert.Nil(t, n.Input("Result"))
	assert.False(t, NewNode("Other").Owns(n.Input("Factor")))
}

func TestNodeEvents(t *testing.T) {
	g := New()
	n := NewNode("A", WithOutput("Out", TypeAny), WithProperty("Gain", Number(1)))

	var got []EventKind
	g.Events().Subscribe(func(e Event) {
		got = append(got, e.Kind)
		if e.Node != nil {
			assert.Same(t, n, e.Node)
		}
	})

	n.MoveTo(5, 5) // detached: nothing published
	require.NoError(t, g.AddNode(n))
	n.MoveBy(10, 0)
	n.MoveBy(0, 0)
	n.Resize(300, 200)
	n.SetZ(7)
	n.SetSelected(true)
	n.Output("Out").SetPosition(geom.Pt(1, 2))
	n.Output("Out").SetPosition(geom.Pt(1, 2))
	require.NoError(t, n.Property("Gain").Set(Number(2)))

	assert.Equal(t, []EventKind{
		NodeAdded, NodeMoved, NodeResized, ZOrderChanged,
		SelectionChanged, PortMoved, PropertyChanged,
	}, got)
	assert.Equal(t, geom.Pt(15, 5), n.Position())
	assert.Equal(t, geom.Rect{X: 15, Y: 5, W: 300, H: 200}, n.Bounds())
}

func TestBusUnsubscribe(t *testing.T) {
	var b Bus
	var first, second int
	cancel := b.Subscribe(func(Event) { first++ })
	b.Subscribe(func(Event) { second++ })

	b.Publish(Event{})
	cancel()
	cancel()
	b.Publish(Event{})

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestBusSubscribeDuringPublish(t *testing.T) {
	var b Bus
	var late int
	b.Subscribe(func(Event) {
		b.Subscribe(func(Event) { late++ })
	})
	b.Publish(Event{})
	assert.Zero(t, late, "subscribers added mid-publish wait for the next event")
}
