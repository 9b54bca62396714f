package zorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nodeflow/internal/geom"
	"nodeflow/internal/graph"
)

func threeNodes(t *testing.T) (*graph.Graph, []*graph.Node) {
	t.Helper()
	g := graph.New()
	var nodes []*graph.Node
	for _, title := range []string{"A", "B", "C"} {
		n := graph.NewNode(title, graph.WithPosition(0, 0), graph.WithSize(100, 100))
		require.NoError(t, g.AddNode(n))
		nodes = append(nodes, n)
	}
	return g, nodes
}

func zs(nodes []*graph.Node) []int {
	out := make([]int, len(nodes))
	for i, n := range nodes {
		out[i] = n.Z()
	}
	return out
}

func TestBringToFrontExactIndices(t *testing.T) {
	g, nodes := threeNodes(t)
	require.Equal(t, []int{0, 1, 2}, zs(nodes))

	New(g).BringToFront(nodes[0])

	assert.Equal(t, []int{2, 0, 1}, zs(nodes))
}

func TestBringToFrontNeverGoesNegative(t *testing.T) {
	g, nodes := threeNodes(t)
	m := New(g)

	m.BringToFront(nodes[1]) // [-1,2,1] before renumbering
	assert.Equal(t, []int{0, 2, 1}, zs(nodes))

	for i := 0; i < 50; i++ {
		m.BringToFront(nodes[2])
	}
	assert.Equal(t, []int{0, 1, 2}, zs(nodes))
	assert.Equal(t, []*graph.Node{nodes[0], nodes[1], nodes[2]}, m.Ordered())
}

func TestBringToFrontOfFrontmostKeepsOrder(t *testing.T) {
	g, nodes := threeNodes(t)
	m := New(g)

	m.BringToFront(nodes[2])

	assert.Same(t, nodes[2], m.Ordered()[2])
	assert.Equal(t, []int{0, 1, 2}, zs(nodes))
}

func TestBringToFrontIgnoresForeignNode(t *testing.T) {
	g, nodes := threeNodes(t)
	New(g).BringToFront(graph.NewNode("stray"))
	assert.Equal(t, []int{0, 1, 2}, zs(nodes))
}

func TestSendToBack(t *testing.T) {
	g, nodes := threeNodes(t)
	m := New(g)

	m.SendToBack(nodes[2])

	assert.Equal(t, []int{1, 2, 0}, zs(nodes))
	assert.Equal(t, []*graph.Node{nodes[2], nodes[0], nodes[1]}, m.Ordered())
}

func TestTopAt(t *testing.T) {
	g, nodes := threeNodes(t)
	nodes[2].MoveTo(500, 500)
	m := New(g)

	assert.Same(t, nodes[1], m.TopAt(geom.Pt(50, 50)))
	m.BringToFront(nodes[0])
	assert.Same(t, nodes[0], m.TopAt(geom.Pt(50, 50)))
	assert.Same(t, nodes[2], m.TopAt(geom.Pt(550, 550)))
	assert.Nil(t, m.TopAt(geom.Pt(300, 300)))
}

func TestZOrderEvents(t *testing.T) {
	g, nodes := threeNodes(t)
	var changed []*graph.Node
	g.Events().Subscribe(func(e graph.Event) {
		if e.Kind == graph.ZOrderChanged {
			changed = append(changed, e.Node)
		}
	})

	New(g).BringToFront(nodes[0])

	assert.ElementsMatch(t, nodes, changed)
}

func TestBringToFrontAfterRemoval(t *testing.T) {
	g, nodes := threeNodes(t)
	m := New(g)
	require.True(t, g.RemoveNode(nodes[0]))

	m.BringToFront(nodes[1])

	assert.Equal(t, []int{1, 0}, zs(nodes[1:]))
	assert.Equal(t, []*graph.Node{nodes[2], nodes[1]}, m.Ordered())
}

func TestBringToFrontWithSparseIndices(t *testing.T) {
	g := graph.New()
	a, b := graph.NewNode("A"), graph.NewNode("B")
	require.NoError(t, g.AddNode(a))
	require.NoError(t, g.AddNode(b))
	a.SetZ(10)
	b.SetZ(20)

	New(g).BringToFront(a)

	assert.Equal(t, []int{1, 0}, zs([]*graph.Node{a, b}))
}

func TestBringToFrontBreaksTies(t *testing.T) {
	g, nodes := threeNodes(t)
	for _, n := range nodes {
		n.SetZ(0)
	}

	New(g).BringToFront(nodes[0])

	assert.Equal(t, []int{2, 0, 1}, zs(nodes))
}
