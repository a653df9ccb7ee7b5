// Package format renders a describe.Description as text for pasting into
// prompts and tickets.
//
// One Formatter serves three layouts selected by Kind:
//
//	CompactPrompt  backslash-wrapped block of labelled lines
//	Verbose        Markdown sections
//	KeyValueBlock  headed sections with one value per line
//
// Output is deterministic for a given Description and contains no control
// characters other than newline.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/hazyhaar/elinspect/describe"
)

// Kind selects the output layout.
type Kind int

const (
	CompactPrompt Kind = iota
	Verbose
	KeyValueBlock
)

var kindNames = map[Kind]string{
	CompactPrompt: "compact",
	Verbose:       "verbose",
	KeyValueBlock: "keyvalue",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind maps a configuration name to a Kind. Matching ignores case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "compact", "compactprompt", "prompt":
		return CompactPrompt, nil
	case "verbose", "markdown":
		return Verbose, nil
	case "keyvalue", "keyvalueblock", "kv":
		return KeyValueBlock, nil
	}
	return 0, fmt.Errorf("format: unknown kind %q", s)
}

// Limits applied by the compact layout.
const (
	maxSynopsisText = 30
	maxClassLen     = 8
	classKeep       = 5
	ellipsis        = "…"
	wrapper         = `\`
)

// Options configures a Formatter.
type Options struct {
	Kind Kind
	// Synopsis replaces full markup with a one-line stand-in (CompactPrompt).
	Synopsis bool
	// Markdown appends a Markdown rendering of the markup (Verbose).
	Markdown bool
}

// Formatter renders descriptions. It is safe for concurrent use.
type Formatter struct {
	opts Options
	md   *converter.Converter
}

// New creates a Formatter.
func New(opts Options) *Formatter {
	f := &Formatter{opts: opts}
	if opts.Markdown {
		f.md = converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		)
	}
	return f
}

// Kind returns the configured layout.
func (f *Formatter) Kind() Kind { return f.opts.Kind }

// Format renders d.
func (f *Formatter) Format(d describe.Description) string {
	var out string
	switch f.opts.Kind {
	case Verbose:
		out = f.verbose(d)
	case KeyValueBlock:
		out = keyValue(d)
	default:
		out = f.compact(d)
	}
	return Sanitize(out)
}

// round matches JavaScript Math.round: halves go toward positive infinity.
func round(v float64) int64 { return int64(math.Floor(v + 0.5)) }

// px renders a rounded pixel value.
func px(v float64) string { return strconv.FormatInt(round(v), 10) + "px" }

// rawPx renders a pixel value in shortest form without rounding.
func rawPx(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) + "px" }

// truncate keeps at most n code points of s, marking the cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + ellipsis
}

// abbreviateClass shortens class names longer than maxClassLen.
func abbreviateClass(c string) string {
	r := []rune(c)
	if len(r) <= maxClassLen {
		return c
	}
	return string(r[:classKeep]) + ellipsis
}
