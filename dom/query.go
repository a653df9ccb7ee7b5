package dom

import (
	"fmt"

	"github.com/andybalholm/cascadia"
	lru "github.com/hashicorp/golang-lru/v2"
)

// compiled caches parsed selectors. Resolved paths are re-evaluated often
// (round-trip checks, one-shot describes) and parsing dominates the cost.
var compiled *lru.Cache[string, cascadia.Matcher]

func init() {
	c, err := lru.New[string, cascadia.Matcher](512)
	if err != nil {
		panic("dom: selector cache: " + err.Error())
	}
	compiled = c
}

func compile(selector string) (cascadia.Matcher, error) {
	if sel, ok := compiled.Get(selector); ok {
		return sel, nil
	}
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, fmt.Errorf("dom: selector %q: %w", selector, err)
	}
	compiled.Add(selector, sel)
	return sel, nil
}

// Query returns the first element in document order matching a CSS
// selector, the same answer document.querySelector gives.
func (d *Document) Query(selector string) (*Element, error) {
	sel, err := compile(selector)
	if err != nil {
		return nil, err
	}
	n := cascadia.Query(d.root, sel)
	if n == nil {
		return nil, fmt.Errorf("dom: %q: %w", selector, ErrNotFound)
	}
	return d.Wrap(n), nil
}

// QueryAll returns every element matching selector in document order.
func (d *Document) QueryAll(selector string) ([]*Element, error) {
	sel, err := compile(selector)
	if err != nil {
		return nil, err
	}
	nodes := cascadia.QueryAll(d.root, sel)
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.Wrap(n))
	}
	return out, nil
}
