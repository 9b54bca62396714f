package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoNodes(t *testing.T) (*Graph, *Node, *Node) {
	t.Helper()
	g := New()
	a := NewNode("A", WithPosition(100, 100), WithOutput("Out", TypeNumber))
	b := NewNode("B", WithPosition(400, 100), WithInput("In", TypeNumber), WithInput("Factor", TypeNumber))
	require.NoError(t, g.AddNode(a))
	require.NoError(t, g.AddNode(b))
	return g, a, b
}

func assertRegistered(t *testing.T, g *Graph, c *Connection) {
	t.Helper()
	assert.Contains(t, g.Connections(), c)
	assert.Contains(t, c.Source().Connections(), c)
	assert.Contains(t, c.Target().Connections(), c)
}

func assertGone(t *testing.T, g *Graph, c *Connection) {
	t.Helper()
	assert.NotContains(t, g.Connections(), c)
	assert.NotContains(t, c.Source().Connections(), c)
	assert.NotContains(t, c.Target().Connections(), c)
}

func TestAddNodeAssignsFrontmostZ(t *testing.T) {
	g := New()
	for i, title := range []string{"A", "B", "C"} {
		n := NewNode(title)
		require.NoError(t, g.AddNode(n))
		assert.Equal(t, i, n.Z())
		assert.Same(t, g, n.Graph())
	}
	assert.Equal(t, 3, g.NodeCount())
}

func TestAddNodeTwice(t *testing.T) {
	g := New()
	n := NewNode("A")
	require.NoError(t, g.AddNode(n))
	assert.ErrorIs(t, g.AddNode(n), ErrNodeAttached)
	assert.ErrorIs(t, New().AddNode(n), ErrNodeAttached)
}

func TestConnect(t *testing.T) {
	g, a, b := twoNodes(t)

	c, err := g.Connect(a.Output("Out"), b.Input("In"))
	require.NoError(t, err)

	assert.Same(t, a.Output("Out"), c.Source())
	assert.Same(t, b.Input("In"), c.Target())
	assertRegistered(t, g, c)
	assert.NoError(t, g.Verify())
}

func TestConnectFanOut(t *testing.T) {
	g, a, b := twoNodes(t)
	out := a.Output("Out")

	_, err := g.Connect(out, b.Input("In"))
	require.NoError(t, err)
	_, err = g.Connect(out, b.Input("Factor"))
	require.NoError(t, err)

	assert.Len(t, out.Connections(), 2)
	assert.Equal(t, 2, g.ConnectionCount())
	assert.NoError(t, g.Verify())
}

func TestConnectRejects(t *testing.T) {
	g, a, b := twoNodes(t)
	self := NewNode("Self", WithInput("I", TypeAny), WithOutput("O", TypeAny))
	require.NoError(t, g.AddNode(self))
	stray := NewNode("Stray", WithInput("I", TypeAny))

	_, err := g.Connect(a.Output("Out"), b.Input("In"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		src, dst *Port
		want     error
	}{
		{"input to output", b.Input("Factor"), a.Output("Out"), ErrInvalidDirection},
		{"input to input", b.Input("Factor"), self.Input("I"), ErrInvalidDirection},
		{"same node", self.Output("O"), self.Input("I"), ErrSelfLoop},
		{"occupied target", self.Output("O"), b.Input("In"), ErrInputOccupied},
		{"detached node", a.Output("Out"), stray.Input("I"), ErrPortNotInGraph},
		{"nil port", nil, b.Input("Factor"), ErrPortNotInGraph},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := g.ConnectionCount()
			c, err := g.Connect(tt.src, tt.dst)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, c)
			assert.Equal(t, before, g.ConnectionCount())
			assert.NoError(t, g.Verify())
		})
	}
}

func TestDisconnect(t *testing.T) {
	g, a, b := twoNodes(t)
	c, err := g.Connect(a.Output("Out"), b.Input("In"))
	require.NoError(t, err)

	assert.True(t, g.Disconnect(c))
	assertGone(t, g, c)
	assert.False(t, b.Input("In").Occupied())

	assert.False(t, g.Disconnect(c), "second disconnect is a no-op")
	assert.False(t, g.Disconnect(nil))
	assert.NoError(t, g.Verify())
}

func TestRemoveNodeLeavesNoDanglingConnections(t *testing.T) {
	g, a, b := twoNodes(t)
	c := NewNode("C", WithInput("In", TypeNumber), WithOutput("Out", TypeNumber))
	require.NoError(t, g.AddNode(c))

	ab, err := g.Connect(a.Output("Out"), b.Input("In"))
	require.NoError(t, err)
	bc, err := g.Connect(c.Output("Out"), b.Input("Factor"))
	require.NoError(t, err)
	ac, err := g.Connect(a.Output("Out"), c.Input("In"))
	require.NoError(t, err)

	require.True(t, g.RemoveNode(b))

	assertGone(t, g, ab)
	assertGone(t, g, bc)
	assertRegistered(t, g, ac)
	for _, conn := range g.Connections() {
		for _, p := range b.Ports() {
			assert.NotSame(t, p, conn.Source())
			assert.NotSame(t, p, conn.Target())
		}
	}
	assert.Nil(t, b.Graph())
	assert.Equal(t, []*Node{a, c}, g.Nodes())
	assert.False(t, g.RemoveNode(b))
	assert.NoError(t, g.Verify())
}

func TestClear(t *testing.T) {
	g, a, b := twoNodes(t)
	_, err := g.Connect(a.Output("Out"), b.Input("In"))
	require.NoError(t, err)

	var kinds []EventKind
	g.Events().Subscribe(func(e Event) { kinds = append(kinds, e.Kind) })
	g.Clear()

	assert.Zero(t, g.NodeCount())
	assert.Zero(t, g.ConnectionCount())
	assert.False(t, a.Output("Out").Occupied())
	assert.Equal(t, []EventKind{GraphReset}, kinds)
}

func TestVerifyReportsBrokenSymmetry(t *testing.T) {
	g, a, b := twoNodes(t)
	c, err := g.Connect(a.Output("Out"), b.Input("In"))
	require.NoError(t, err)

	// Break the bookkeeping behind the model's back.
	b.Input("In").detach(c)

	err = g.Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing from its target port")
}

func TestFindAndIndex(t *testing.T) {
	g, a, b := twoNodes(t)
	assert.Same(t, b, g.Find("B"))
	assert.Nil(t, g.Find("nope"))
	assert.Equal(t, 0, g.IndexOf(a))
	assert.Equal(t, 1, g.IndexOf(b))
	assert.Equal(t, "A.Out", a.Output("Out").String())
	assert.Equal(t, "A.Out -> B.In", mustConnect(t, g, a.Output("Out"), b.Input("In")).String())
}

func mustConnect(t *testing.T, g *Graph, src, dst *Port) *Connection {
	t.Helper()
	c, err := g.Connect(src, dst)
	require.NoError(t, err)
	return c
}
