package graph

import "fmt"

// Property is a named, typed value edited through the properties panel.
type Property struct {
	Name  string
	Type  TypeTag
	value Value
	node  *Node
}

// NewProperty declares a property whose type is the tag of its initial value.
func NewProperty(name string, v Value) *Property {
	return &Property{Name: name, Type: v.Tag(), value: v}
}

func (p *Property) Value() Value { return p.value }

func (p *Property) Node() *Node { return p.node }

// Set replaces the value. The value's tag must match the declared type;
// TypeAny properties accept anything.
func (p *Property) Set(v Value) error {
	if p.Type != TypeAny && v.Tag() != p.Type {
		return fmt.Errorf("property %q: %w: want %s, got %s", p.Name, ErrTypeMismatch, p.Type, v.Tag())
	}
	p.value = v
	if p.node != nil {
		p.node.publish(Event{Kind: PropertyChanged, Node: p.node, Property: p})
	}
	return nil
}
