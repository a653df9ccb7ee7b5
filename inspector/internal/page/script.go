// Package page drives the inspector inside a live Chrome tab. A small
// script is installed into the page on first use; the Go side calls its
// methods through Runtime.evaluate and receives input events through a
// Runtime binding.
package page

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/go-rod/rod"
)

//go:embed page.js
var pageJS string

// BindingName is the Runtime binding the page script reports events to.
const BindingName = "__element_inspector_binding"

var callJS = sync.OnceValue(func() string {
	return "(m, a) => { (" + strings.TrimSpace(pageJS) + ")(); return window.__elementInspector[m](a); }"
})

// Script calls into the page-side inspector. Every call reinstalls the
// script if the document was replaced.
type Script struct {
	page *rod.Page
}

// NewScript binds a Script to page.
func NewScript(page *rod.Page) *Script {
	return &Script{page: page}
}

// Page returns the underlying rod page.
func (s *Script) Page() *rod.Page { return s.page }

// call invokes method with arg and decodes the result into out when out is
// not nil. Promises are awaited.
func (s *Script) call(ctx context.Context, method string, arg, out any) error {
	res, err := s.page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:           callJS(),
		JSArgs:       []interface{}{method, arg},
		ByValue:      true,
		AwaitPromise: true,
	})
	if err != nil {
		return fmt.Errorf("page: %s: %w", method, err)
	}
	if out == nil {
		return nil
	}
	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return fmt.Errorf("page: %s: encode result: %w", method, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("page: %s: decode result: %w", method, err)
	}
	return nil
}
