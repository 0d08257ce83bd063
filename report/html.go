package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/s4cindia/pdfa11y/structure"
)

// HTML renders the audit report as a standalone HTML document. The output
// practices what the audit preaches: headings carry anchor ids and the
// document declares its language.
func HTML(doc *structure.DocumentStructure) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(doc)), &buf); err != nil {
		return "", fmt.Errorf("report: render markdown: %w", err)
	}

	lang := "en"
	if doc.Language.HasPrimary {
		lang = doc.Language.Primary
	}
	root, err := html.Parse(&buf)
	if err != nil {
		return "", fmt.Errorf("report: parse rendered html: %w", err)
	}
	decorate(root, lang)

	var out bytes.Buffer
	if err := html.Render(&out, root); err != nil {
		return "", fmt.Errorf("report: serialize html: %w", err)
	}
	return out.String(), nil
}

// decorate sets the document language and gives every heading an anchor id.
func decorate(n *html.Node, lang string) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Html:
			setAttr(n, "lang", lang)
		case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
			if id := slugify(extractText(n)); id != "" {
				setAttr(n, "id", id)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		decorate(c, lang)
	}
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(extractText(c))
	}
	return b.String()
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
