package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// voidElements have no end tag and no children when serialised.
var voidElements = map[string]bool{
	"area": true, "base": true, "basefont": true, "bgsound": true, "br": true,
	"col": true, "embed": true, "frame": true, "hr": true, "img": true,
	"input": true, "keygen": true, "link": true, "meta": true, "param": true,
	"source": true, "track": true, "wbr": true,
}

// rawTextElements have their text children written unescaped.
var rawTextElements = map[string]bool{
	"style": true, "script": true, "xmp": true, "iframe": true,
	"noembed": true, "noframes": true, "plaintext": true, "noscript": true,
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "\u00a0", "&nbsp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "\u00a0", "&nbsp;", `"`, "&quot;")
)

// IsVoid reports whether tag is serialised without an end tag.
func IsVoid(tag string) bool { return voidElements[strings.ToLower(tag)] }

// EscapeAttr escapes an attribute value the way a browser's outerHTML does.
func EscapeAttr(v string) string { return attrEscaper.Replace(v) }

// writeNode serialises n following the HTML fragment serialisation
// algorithm used by outerHTML.
func writeNode(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.ElementNode:
		writeOpenTag(sb, n)
		if voidElements[n.Data] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode && rawTextElements[n.Data] {
				sb.WriteString(c.Data)
				continue
			}
			writeNode(sb, c)
		}
		sb.WriteString("</" + n.Data + ">")
	case html.TextNode:
		sb.WriteString(textEscaper.Replace(n.Data))
	case html.CommentNode:
		sb.WriteString("<!--" + n.Data + "-->")
	case html.DoctypeNode:
		sb.WriteString("<!DOCTYPE " + n.Data + ">")
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeNode(sb, c)
		}
	}
}

func writeOpenTag(sb *strings.Builder, n *html.Node) {
	sb.WriteString("<" + n.Data)
	for _, a := range n.Attr {
		sb.WriteString(" " + attrName(a) + `="` + attrEscaper.Replace(a.Val) + `"`)
	}
	sb.WriteByte('>')
}
