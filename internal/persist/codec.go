// Package persist converts graphs to and from JSON documents and files.
//
// Loading is forgiving: an entity that cannot be understood is reported in
// the returned Report and skipped or replaced by a placeholder, and the rest
// of the document still loads. Only undecodable input or a foreign format
// version fails the whole load.
package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"nodeflow/internal/graph"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Codec remembers the ids it has read or written, so saving the same
// session repeatedly keeps node and port ids stable.
type Codec struct {
	nodeIDs map[*graph.Node]string
	portIDs map[*graph.Port]string
	rawTags map[*graph.Port]string
}

func NewCodec() *Codec {
	return &Codec{
		nodeIDs: make(map[*graph.Node]string),
		portIDs: make(map[*graph.Port]string),
		rawTags: make(map[*graph.Port]string),
	}
}

// Serialize encodes g with fresh ids.
func Serialize(g *graph.Graph) ([]byte, error) {
	return NewCodec().Encode(g)
}

// Deserialize decodes a document into a new graph.
func Deserialize(data []byte) (*graph.Graph, *Report, error) {
	return NewCodec().Decode(data)
}

func (c *Codec) nodeID(n *graph.Node) string {
	id, ok := c.nodeIDs[n]
	if !ok {
		id = uuid.NewString()
		c.nodeIDs[n] = id
	}
	return id
}

func (c *Codec) portID(p *graph.Port) string {
	id, ok := c.portIDs[p]
	if !ok {
		id = uuid.NewString()
		c.portIDs[p] = id
	}
	return id
}

// Document builds the persisted form of g.
func (c *Codec) Document(g *graph.Graph) (*Document, error) {
	doc := &Document{
		Version:     FormatVersion,
		Nodes:       make([]NodeDoc, 0, g.NodeCount()),
		Connections: make([]ConnectionDoc, 0, g.ConnectionCount()),
	}
	for _, n := range g.Nodes() {
		w, h := n.Size()
		nd := NodeDoc{
			ID:          c.nodeID(n),
			Title:       n.Title,
			Description: n.Description,
			X:           n.Position().X,
			Y:           n.Position().Y,
			Width:       w,
			Height:      h,
			Z:           n.Z(),
		}
		for _, p := range n.Properties() {
			pd, err := encodeProperty(p)
			if err != nil {
				return nil, fmt.Errorf("node %q: %w", n.Title, err)
			}
			nd.Properties = append(nd.Properties, pd)
		}
		for _, p := range n.Inputs() {
			nd.Inputs = append(nd.Inputs, c.portDoc(p))
		}
		for _, p := range n.Outputs() {
			nd.Outputs = append(nd.Outputs, c.portDoc(p))
		}
		doc.Nodes = append(doc.Nodes, nd)
	}
	for _, conn := range g.Connections() {
		doc.Connections = append(doc.Connections, ConnectionDoc{
			Source: c.portID(conn.Source()),
			Target: c.portID(conn.Target()),
		})
	}
	return doc, nil
}

func (c *Codec) portDoc(p *graph.Port) PortDoc {
	tag := p.Type.String()
	if raw, ok := c.rawTags[p]; ok && p.Type == graph.TypeUnknown {
		tag = raw
	}
	return PortDoc{ID: c.portID(p), Name: p.Name, Type: tag, Direction: p.Direction().String()}
}

// Encode serializes g as indented JSON.
func (c *Codec) Encode(g *graph.Graph) ([]byte, error) {
	doc, err := c.Document(g)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Decode parses data into a new graph. The error is non-nil only when the
// whole document is unusable; per-entity problems land in the Report.
func (c *Codec) Decode(data []byte) (*graph.Graph, *Report, error) {
	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.Version != FormatVersion {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	*c = *NewCodec()
	g, report := c.build(&doc)
	return g, report, nil
}

func (c *Codec) build(doc *Document) (*graph.Graph, *Report) {
	report := &Report{}
	g := graph.New()
	ports := make(map[string]*graph.Port)

	for i, nd := range doc.Nodes {
		if err := validate.Struct(nd); err != nil {
			report.addf(ErrMalformedEntity, "node %d (%q) skipped: %v", i, nd.Title, err)
			continue
		}
		n := c.buildNode(nd, report)
		if err := g.AddNode(n); err != nil {
			report.addf(ErrMalformedEntity, "node %q: %v", nd.Title, err)
			continue
		}
		n.SetZ(nd.Z)

		register := func(docs []PortDoc, built []*graph.Port) {
			for j, pd := range docs {
				p := built[j]
				if _, dup := ports[pd.ID]; dup {
					report.addf(ErrDuplicateReference, "%s uses id %s again", p, pd.ID)
					continue
				}
				ports[pd.ID] = p
				c.portIDs[p] = pd.ID
			}
		}
		register(nd.Inputs, n.Inputs())
		register(nd.Outputs, n.Outputs())
		c.nodeIDs[n] = nd.ID
	}

	for i, cd := range doc.Connections {
		if err := validate.Struct(cd); err != nil {
			report.addf(ErrMalformedEntity, "connection %d skipped: %v", i, err)
			continue
		}
		src, okSrc := ports[cd.Source]
		dst, okDst := ports[cd.Target]
		if !okSrc || !okDst {
			missing := cd.Source
			if okSrc {
				missing = cd.Target
			}
			report.addf(ErrDanglingReference, "connection %d refers to unknown port %s", i, missing)
			continue
		}
		if _, err := g.Connect(src, dst); err != nil {
			report.addf(ErrInvalidConnection, "connection %d dropped: %v", i, err)
		}
	}
	return g, report
}

func (c *Codec) buildNode(nd NodeDoc, report *Report) *graph.Node {
	opts := []graph.NodeOption{
		graph.WithPosition(nd.X, nd.Y),
		graph.WithDescription(nd.Description),
	}
	if nd.Width > 0 && nd.Height > 0 {
		opts = append(opts, graph.WithSize(nd.Width, nd.Height))
	}
	for _, pd := range nd.Properties {
		opts = append(opts, decodeProperty(nd.Title, pd, report))
	}

	portTag := func(pd PortDoc) graph.TypeTag {
		tag, err := graph.ParseTypeTag(pd.Type)
		if err != nil {
			report.addf(ErrUnknownTypeTag, "port %s.%s: %q", nd.Title, pd.Name, pd.Type)
		}
		return tag
	}
	for _, pd := range nd.Inputs {
		if pd.Direction == "output" {
			report.addf(ErrMalformedEntity, "port %s.%s listed as input but marked output", nd.Title, pd.Name)
		}
		opts = append(opts, graph.WithInput(pd.Name, portTag(pd)))
	}
	for _, pd := range nd.Outputs {
		if pd.Direction == "input" {
			report.addf(ErrMalformedEntity, "port %s.%s listed as output but marked input", nd.Title, pd.Name)
		}
		opts = append(opts, graph.WithOutput(pd.Name, portTag(pd)))
	}

	n := graph.NewNode(nd.Title, opts...)

	// Ports() lists inputs then outputs, the same order as the documents.
	docs := append(slices.Clone(nd.Inputs), nd.Outputs...)
	for i, p := range n.Ports() {
		if p.Type == graph.TypeUnknown {
			c.rawTags[p] = docs[i].Type
		}
	}
	return n
}

func encodeProperty(p *graph.Property) (PropertyDoc, error) {
	v := p.Value()
	pd := PropertyDoc{Name: p.Name, Type: p.Type.String()}

	var payload any
	switch v.Tag() {
	case graph.TypeColor:
		col, _ := v.AsColor()
		payload = colorDoc{R: col.R, G: col.G, B: col.B, A: col.A}
	case graph.TypeUnknown:
		if u, ok := v.Interface().(unresolved); ok {
			pd.Type = u.Tag
			pd.Value = u.Raw
			return pd, nil
		}
		payload = v.Interface()
	default:
		payload = v.Interface()
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return PropertyDoc{}, fmt.Errorf("property %q: %w", p.Name, err)
	}
	pd.Value = raw
	return pd, nil
}

func decodeProperty(owner string, pd PropertyDoc, report *Report) graph.NodeOption {
	tag, err := graph.ParseTypeTag(pd.Type)
	if err != nil {
		report.addf(ErrUnknownTypeTag, "property %s.%s: %q", owner, pd.Name, pd.Type)
		return graph.WithTypedProperty(pd.Name, graph.TypeUnknown,
			graph.Unknown(unresolved{Tag: pd.Type, Raw: pd.Value}))
	}

	v, err := decodeValue(tag, pd.Value)
	if err != nil {
		report.addf(ErrMalformedEntity, "property %s.%s reset to default: %v", owner, pd.Name, err)
		v = graph.Zero(tag)
	}
	return graph.WithTypedProperty(pd.Name, tag, v)
}

func decodeValue(tag graph.TypeTag, raw json.RawMessage) (graph.Value, error) {
	if len(raw) == 0 {
		return graph.Zero(tag), nil
	}
	switch tag {
	case graph.TypeNumber:
		var f float64
		err := json.Unmarshal(raw, &f)
		return graph.Number(f), err
	case graph.TypeBool:
		var b bool
		err := json.Unmarshal(raw, &b)
		return graph.Bool(b), err
	case graph.TypeString:
		var s string
		err := json.Unmarshal(raw, &s)
		return graph.String(s), err
	case graph.TypeColor:
		var cd colorDoc
		err := json.Unmarshal(raw, &cd)
		return graph.ColorValue(graph.Color{R: cd.R, G: cd.G, B: cd.B, A: cd.A}), err
	default:
		var x any
		err := json.Unmarshal(raw, &x)
		return graph.Opaque(x), err
	}
}
