package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var sourceWhitespaceReplacer = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\f", " ")

var hiddenContentAtoms = map[atom.Atom]struct{}{
	atom.Script:   {},
	atom.Style:    {},
	atom.Noscript: {},
	atom.Template: {},
	atom.Head:     {},
}

var lineBreakingAtoms = map[atom.Atom]struct{}{
	atom.Address: {}, atom.Article: {}, atom.Aside: {}, atom.Blockquote: {},
	atom.Br: {}, atom.Dd: {}, atom.Div: {}, atom.Dl: {}, atom.Dt: {},
	atom.Fieldset: {}, atom.Figcaption: {}, atom.Figure: {}, atom.Footer: {},
	atom.Form: {}, atom.H1: {}, atom.H2: {}, atom.H3: {}, atom.H4: {},
	atom.H5: {}, atom.H6: {}, atom.Header: {}, atom.Hr: {}, atom.Li: {},
	atom.Main: {}, atom.Nav: {}, atom.Ol: {}, atom.P: {}, atom.Pre: {},
	atom.Section: {}, atom.Table: {}, atom.Tr: {}, atom.Ul: {},
}

const (
	hiddenAttributeConstant     = "hidden"
	ariaHiddenAttributeConstant = "aria-hidden"
	styleAttributeConstant      = "style"
	ariaHiddenTrueValueConstant = "true"
)

var hiddenStyleDeclarations = []string{"display:none", "visibility:hidden"}

// isHidden reports whether the node never contributes visible text: non-rendered
// elements and elements hidden by the hidden attribute, aria-hidden or an inline style.
func isHidden(node *html.Node) bool {
	if node.Type != html.ElementNode {
		return false
	}
	if _, hidden := hiddenContentAtoms[node.DataAtom]; hidden {
		return true
	}
	for _, attribute := range node.Attr {
		switch strings.ToLower(attribute.Key) {
		case hiddenAttributeConstant:
			return true
		case ariaHiddenAttributeConstant:
			if strings.EqualFold(strings.TrimSpace(attribute.Val), ariaHiddenTrueValueConstant) {
				return true
			}
		case styleAttributeConstant:
			if hasHiddenStyle(attribute.Val) {
				return true
			}
		}
	}
	return false
}

func hasHiddenStyle(styleValue string) bool {
	compactStyle := strings.ToLower(strings.Join(strings.Fields(styleValue), ""))
	for _, declaration := range hiddenStyleDeclarations {
		if strings.Contains(compactStyle, declaration) {
			return true
		}
	}
	return false
}

// hasHiddenAncestor reports whether the node sits inside a hidden element.
func hasHiddenAncestor(node *html.Node) bool {
	for ancestor := node.Parent; ancestor != nil; ancestor = ancestor.Parent {
		if isHidden(ancestor) {
			return true
		}
	}
	return false
}

// visibleText approximates the rendered text of the selection: whitespace is
// collapsed, block elements start new lines, and blank lines are dropped.
func visibleText(selection *goquery.Selection) string {
	var builder strings.Builder
	for _, node := range selection.Nodes {
		if isHidden(node) {
			continue
		}
		collectText(node, &builder)
		builder.WriteByte('\n')
	}
	return normalizeLines(builder.String())
}

func collectText(node *html.Node, builder *strings.Builder) {
	switch node.Type {
	case html.TextNode:
		builder.WriteString(sourceWhitespaceReplacer.Replace(node.Data))
		return
	case html.ElementNode:
		if isHidden(node) {
			return
		}
	}

	_, breaksLine := lineBreakingAtoms[node.DataAtom]
	if node.Type == html.ElementNode && breaksLine {
		builder.WriteByte('\n')
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, builder)
	}
	if node.Type == html.ElementNode && breaksLine {
		builder.WriteByte('\n')
	}
}

func normalizeLines(rawText string) string {
	rawLines := strings.Split(rawText, "\n")
	lines := make([]string, 0, len(rawLines))
	for _, rawLine := range rawLines {
		collapsedLine := strings.Join(strings.Fields(rawLine), " ")
		if len(collapsedLine) == 0 {
			continue
		}
		lines = append(lines, collapsedLine)
	}
	return strings.Join(lines, "\n")
}

// firstOwnText returns the data of the element's first direct text child, or false when it has none.
func firstOwnText(node *html.Node) (string, bool) {
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			return child.Data, true
		}
	}
	return "", false
}
