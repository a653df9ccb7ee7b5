package describe

import (
	"strings"

	"github.com/hazyhaar/elinspect/dom"
)

// ComponentNamer labels an element with the name of the UI component that
// rendered it. Implementations never fail; "" means no label.
type ComponentNamer interface {
	ComponentName(el *dom.Element) string
}

// None never labels anything.
var None ComponentNamer = noneNamer{}

type noneNamer struct{}

func (noneNamer) ComponentName(*dom.Element) string { return "" }

// TypeKind classifies a fiber's component type.
type TypeKind int

const (
	// Host components are plain tags (div, span); they carry no name.
	Host TypeKind = iota
	// Function covers function and class components.
	Function
	// Object covers memo, forwardRef and context wrappers.
	Object
)

// ComponentType is the type a fiber was created from.
type ComponentType struct {
	Kind        TypeKind `json:"kind"`
	Name        string   `json:"name,omitempty"`
	DisplayName string   `json:"displayName,omitempty"`
}

// Fiber is one node of a rendering framework's component tree, linked to
// its parent through Return.
type Fiber struct {
	Type   *ComponentType `json:"type,omitempty"`
	Return *Fiber         `json:"return,omitempty"`
}

// Instrumentation key prefixes a React renderer attaches to host nodes.
var fiberKeys = []string{"__reactFiber$", "__reactInternalInstance$"}

// anonymous is the name bundlers give to unnamed function components.
const anonymous = "Anonymous"

// maxFiberDepth bounds the walk up the component tree.
const maxFiberDepth = 1000

// FrameworkIntrospector reads React fiber instrumentation attached to an
// element and walks up the component chain until a readable name appears.
type FrameworkIntrospector struct{}

// ComponentName implements ComponentNamer.
func (FrameworkIntrospector) ComponentName(el *dom.Element) string {
	if el == nil {
		return ""
	}
	fiber := findFiber(el.Props())
	seen := make(map[*Fiber]bool)
	for depth := 0; fiber != nil && depth < maxFiberDepth; depth++ {
		if seen[fiber] {
			return ""
		}
		seen[fiber] = true
		if t := fiber.Type; t != nil {
			switch t.Kind {
			case Function:
				name := t.DisplayName
				if name == "" {
					name = t.Name
				}
				if name != "" && name != anonymous {
					return name
				}
			case Object:
				if t.DisplayName != "" {
					return t.DisplayName
				}
			}
		}
		fiber = fiber.Return
	}
	return ""
}

func findFiber(props []dom.Prop) *Fiber {
	for _, p := range props {
		for _, prefix := range fiberKeys {
			if !strings.HasPrefix(p.Key, prefix) {
				continue
			}
			if f, ok := p.Value.(*Fiber); ok {
				return f
			}
		}
	}
	return nil
}
