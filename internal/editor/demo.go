package editor

import "nodeflow/internal/graph"

// DemoGraph builds the three-node shader graph used by --demo.
func DemoGraph() *graph.Graph {
	g := graph.New()

	colorIn := graph.NewNode("Color Input",
		graph.WithPosition(100, 100),
		graph.WithSize(220, 180),
		graph.WithOutput("Color", graph.TypeColor),
		graph.WithProperty("Red", graph.Number(1)),
		graph.WithProperty("Green", graph.Number(0.5)),
		graph.WithProperty("Blue", graph.Number(0)),
		graph.WithProperty("Alpha", graph.Number(1)),
	)
	mix := graph.NewNode("Mix Shader",
		graph.WithPosition(500, 200),
		graph.WithSize(240, graph.DefaultNodeHeight),
		graph.WithInput("Color A", graph.TypeColor),
		graph.WithInput("Color B", graph.TypeColor),
		graph.WithInput("Factor", graph.TypeNumber),
		graph.WithOutput("Result", graph.TypeColor),
		graph.WithProperty("Mix Factor", graph.Number(0.5)),
	)
	out := graph.NewNode("Output",
		graph.WithPosition(900, 150),
		graph.WithInput("Final Color", graph.TypeColor),
		graph.WithProperty("Preview", graph.Bool(true)),
	)

	for _, n := range []*graph.Node{colorIn, mix, out} {
		// Fresh nodes on a fresh graph cannot fail.
		_ = g.AddNode(n)
	}
	_, _ = g.Connect(colorIn.Output("Color"), mix.Input("Color A"))
	return g
}

// Seed replaces the current graph with the demo graph.
func (e *Editor) Seed() {
	e.Replace(DemoGraph())
}
