package page

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/hazyhaar/elinspect/describe"
	"github.com/hazyhaar/elinspect/dom"
	"github.com/hazyhaar/elinspect/inspect"
	"github.com/hazyhaar/elinspect/selector"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		ref     string
		want    []int
		wantErr bool
	}{
		{"/", []int{}, false},
		{"/1/0/2", []int{1, 0, 2}, false},
		{"/1/", []int{1}, false},
		{"", nil, true},
		{"1/0", nil, true},
		{"/1/x", nil, true},
		{"/-1", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseRef(tt.ref)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRef(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseRef(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestFormatRef(t *testing.T) {
	if got := FormatRef([]int{1, 0, 2}); got != "/1/0/2" {
		t.Errorf("got %q", got)
	}
	if got := FormatRef(nil); got != "/" {
		t.Errorf("got %q", got)
	}
}

func TestPayloadEvent(t *testing.T) {
	ev, ok := payload{Kind: "click", Ref: "/1/0", Tag: "button", ID: "go", Cls: "btn primary"}.event()
	if !ok || ev.Kind != inspect.Click {
		t.Fatalf("click: %+v %v", ev, ok)
	}
	if ev.Target != (inspect.Target{Ref: "/1/0", Tag: "button", ID: "go", Class: "btn primary"}) {
		t.Errorf("target: %+v", ev.Target)
	}
	if ev, ok := (payload{Kind: "key", Key: "Escape"}).event(); !ok || ev.Kind != inspect.KeyDown || ev.Key != "Escape" {
		t.Errorf("key: %+v %v", ev, ok)
	}
	if ev, ok := (payload{Kind: "move"}).event(); !ok || ev.Kind != inspect.PointerMove {
		t.Errorf("move: %+v %v", ev, ok)
	}
	if _, ok := (payload{Kind: "scroll"}).event(); ok {
		t.Error("unknown kind accepted")
	}
}

func TestScriptConstants(t *testing.T) {
	if !strings.Contains(pageJS, "'"+selector.OwnPrefix+"'") {
		t.Errorf("page script does not use prefix %q", selector.OwnPrefix)
	}
	for _, m := range []string{"install", "detach", "createOverlay", "place", "removeOverlay", "measure", "toast", "copy", "fallbackCopy", "locate", "snapshot"} {
		if !strings.Contains(pageJS, "const "+m+" = ") {
			t.Errorf("page script lacks %s", m)
		}
	}
	if !strings.HasPrefix(callJS(), "(m, a) => { (() => {") {
		t.Errorf("callJS: %.40q", callJS())
	}
}

const snapshotJSON = `{
  "found": true,
  "tree": {"tag": "html", "attrs": [], "children": [
    {"tag": "head", "attrs": [], "children": []},
    {"tag": "body", "attrs": [], "children": [
      {"text": "\n"},
      {"tag": "div", "attrs": [{"name": "id", "value": "app"}], "children": [
        {"tag": "p", "attrs": [], "children": [{"text": "intro"}]},
        {"tag": "button", "attrs": [{"name": "class", "value": "btn primary"}, {"name": "type", "value": "submit"}],
         "children": [{"text": "Send"}]}
      ]}
    ]}
  ]},
  "target": {
    "rect": {"top": 10, "left": 20, "width": 80, "height": 24},
    "scroll": {"x": 0, "y": 100},
    "style": {"color": "rgb(255, 255, 255)", "background-color": "rgb(0, 0, 255)", "font-size": "14px",
              "font-family": "Arial", "display": "inline-block", "position": "static"},
    "fiber": {"key": "__reactFiber$abc", "chain": [
      {"kind": 0},
      {"kind": 1, "name": "Anonymous"},
      {"kind": 1, "name": "SubmitButton"}
    ]}
  }
}`

func TestSnapshotElement(t *testing.T) {
	var snap snapshot
	if err := json.Unmarshal([]byte(snapshotJSON), &snap); err != nil {
		t.Fatal(err)
	}
	el, err := snap.element([]int{1, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	if el.Tag() != "button" || el.ClassName() != "btn primary" {
		t.Fatalf("element: %s %q", el.Tag(), el.ClassName())
	}
	if got := el.TextContent(); got != "Send" {
		t.Errorf("text: %q", got)
	}
	if got := el.Rect(); got != (dom.Rect{Top: 10, Left: 20, Width: 80, Height: 24}) {
		t.Errorf("rect: %+v", got)
	}
	if got := el.ComputedStyle("font-family"); got != "Arial" {
		t.Errorf("font-family: %q", got)
	}
	if got := (describe.FrameworkIntrospector{}).ComponentName(el); got != "SubmitButton" {
		t.Errorf("component: %q", got)
	}
	if got := selector.Resolve(el).Selector; got != "#app > button.btn.primary" {
		t.Errorf("selector: %q", got)
	}
}

// bodySnapshotJSON captures the body while the overlay and a toast are
// mounted. The tree omits them; html is the host's own-free outerHTML.
const bodySnapshotJSON = `{
  "found": true,
  "tree": {"tag": "html", "attrs": [], "children": [
    {"tag": "head", "attrs": [], "children": []},
    {"tag": "body", "attrs": [], "children": [
      {"tag": "p", "attrs": [{"name": "title", "value": "it's"}], "children": [{"text": "Don't say \"hi\"\u00a0x"}]}
    ]}
  ]},
  "target": {
    "rect": {"top": 0, "left": 0, "width": 800, "height": 600},
    "style": {"display": "block"},
    "html": "<body><p title=\"it's\">Don't say \"hi\"&nbsp;x</p><!-- app --></body>"
  }
}`

func TestSnapshotMarkupFromHost(t *testing.T) {
	var snap snapshot
	if err := json.Unmarshal([]byte(bodySnapshotJSON), &snap); err != nil {
		t.Fatal(err)
	}
	el, err := snap.element([]int{1})
	if err != nil {
		t.Fatal(err)
	}
	want := `<body><p title="it's">Don't say "hi"&nbsp;x</p><!-- app --></body>`
	if got := describe.Describe(el, describe.Options{}).OuterHTML; got != want {
		t.Errorf("OuterHTML:\ngot  %s\nwant %s", got, want)
	}
	if got := describe.Describe(el, describe.Options{}).OuterHTML; strings.Contains(got, selector.OwnPrefix) {
		t.Errorf("own element in markup: %s", got)
	}

	// Without host markup the rebuilt tree serialises the same way.
	snap.Target.HTML = ""
	el, err = snap.element([]int{1})
	if err != nil {
		t.Fatal(err)
	}
	want = `<body><p title="it's">Don't say "hi"&nbsp;x</p></body>`
	if got := el.OuterHTML(); got != want {
		t.Errorf("rebuilt OuterHTML:\ngot  %s\nwant %s", got, want)
	}
}

func TestScriptStripsOwnMarkup(t *testing.T) {
	for _, frag := range []string{"const markupOf = ", "cloneNode(true)", "filter(isOwn)", "html: markupOf(el)"} {
		if !strings.Contains(pageJS, frag) {
			t.Errorf("page script lacks %q", frag)
		}
	}
}

func TestSnapshotNotFound(t *testing.T) {
	var snap snapshot
	if err := json.Unmarshal([]byte(snapshotJSON), &snap); err != nil {
		t.Fatal(err)
	}
	if _, err := snap.element([]int{1, 5}); !errors.Is(err, dom.ErrNotFound) {
		t.Errorf("bad path: %v", err)
	}
	snap.Found = false
	if _, err := snap.element([]int{1, 0, 1}); !errors.Is(err, dom.ErrNotFound) {
		t.Errorf("not found: %v", err)
	}
}

func TestLinkFibers(t *testing.T) {
	f := linkFibers([]fiberEntry{{Kind: describe.Host}, {Kind: describe.Object, DisplayName: "Memo"}})
	if f.Type != nil || f.Return == nil || f.Return.Type.DisplayName != "Memo" || f.Return.Return != nil {
		t.Fatalf("chain: %+v", f)
	}
}

func TestOriginOf(t *testing.T) {
	got, err := originOf("https://example.com:8443/a/b?c=1")
	if err != nil || got != "https://example.com:8443" {
		t.Fatalf("got %q, %v", got, err)
	}
	if _, err := originOf("about:blank"); err == nil {
		t.Fatal("about:blank has no origin")
	}
}
