package graph

// EventKind identifies what changed.
type EventKind int

const (
	NodeAdded EventKind = iota
	NodeRemoved
	NodeMoved
	NodeResized
	ZOrderChanged
	SelectionChanged
	PortMoved
	ConnectionAdded
	ConnectionRemoved
	PropertyChanged
	GraphReset
)

var eventNames = [...]string{
	NodeAdded:         "node-added",
	NodeRemoved:       "node-removed",
	NodeMoved:         "node-moved",
	NodeResized:       "node-resized",
	ZOrderChanged:     "zorder-changed",
	SelectionChanged:  "selection-changed",
	PortMoved:         "port-moved",
	ConnectionAdded:   "connection-added",
	ConnectionRemoved: "connection-removed",
	PropertyChanged:   "property-changed",
	GraphReset:        "graph-reset",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// Event describes a single change. Only the fields relevant to Kind are set.
type Event struct {
	Kind       EventKind
	Node       *Node
	Port       *Port
	Connection *Connection
	Property   *Property
}

type subscriber struct {
	id int
	fn func(Event)
}

// Bus delivers change notifications synchronously, in subscription order, on
// the goroutine that made the change. It is not safe for concurrent use; the
// graph it belongs to is owned by a single event loop.
type Bus struct {
	subs   []subscriber
	nextID int
}

// Subscribe registers fn and returns a function that removes it again.
func (b *Bus) Subscribe(fn func(Event)) (cancel func()) {
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Publish calls every subscriber registered at the time of the call.
func (b *Bus) Publish(e Event) {
	if b == nil || len(b.subs) == 0 {
		return
	}
	subs := append([]subscriber(nil), b.subs...)
	for _, s := range subs {
		s.fn(e)
	}
}
