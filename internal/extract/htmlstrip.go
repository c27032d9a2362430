package extract

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/jaytaylor/html2text"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"github.com/dbower44022/CRMExtender-sub003/internal/patterns"
)

// StructuralStripper removes quote, signature, and footer regions from a
// markup body and serializes what remains to plain text. Removal is modeled
// as a mark-then-detach pass over the parsed tree, so sibling chains are
// never mutated while being walked.
type StructuralStripper struct {
	partitioner ReplyPartitioner
	logger      *logrus.Logger
}

// NewStructuralStripper creates a structural stripper
func NewStructuralStripper(partitioner ReplyPartitioner, logger *logrus.Logger) *StructuralStripper {
	if partitioner == nil {
		partitioner = NewMarkerPartitioner()
	}
	return &StructuralStripper{
		partitioner: partitioner,
		logger:      logger,
	}
}

// Strip runs the markup track. It never fails: a parse problem degrades to
// a regex tag strip of the input.
func (s *StructuralStripper) Strip(markup string, table *patterns.Table) string {
	if authored, err := s.partitioner.Partition(markup); err == nil {
		markup = authored
	} else {
		s.logger.WithError(err).Debug("Reply partition skipped")
	}

	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		s.logger.WithError(err).Debug("Markup parse failed, falling back to tag strip")
		return tagStrip(markup)
	}

	drops := make(map[*html.Node]bool)
	markQuoteContainers(doc, table, drops)

	// Signature containers get a resilience check: some producers wrap the
	// entire message body inside a signature-styled container, and removing
	// it would destroy the message. Attempt with signature removal first;
	// if the document text goes empty, keep the containers and leave
	// signature handling to the text-level heuristics.
	sigDrops := make(map[*html.Node]bool)
	markSignatureContainers(doc, table, sigDrops)
	withSigs := merge(drops, sigDrops)
	if strings.TrimSpace(extractText(doc, withSigs)) != "" {
		drops = withSigs
	} else {
		s.logger.WithField("containers", len(sigDrops)).Debug("Signature removal emptied document, keeping containers")
	}

	markCutoffMarkers(doc, table, drops)
	markStyleSeparators(doc, drops)
	markNamedFooters(doc, table, drops)
	markUnsubscribeFooter(doc, table, drops)

	detach(drops)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		s.logger.WithError(err).Debug("Markup render failed, extracting text directly")
		return extractText(doc, nil)
	}
	text, err := html2text.FromString(buf.String(), html2text.Options{TextOnly: true})
	if err != nil {
		s.logger.WithError(err).Debug("Text serialization failed, extracting text directly")
		return extractText(doc, nil)
	}
	return text
}

// walk visits n and its subtree in document order. The visitor returns
// false to skip a node's children.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func markQuoteContainers(doc *html.Node, table *patterns.Table, drops map[*html.Node]bool) {
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		if n.Data == "blockquote" && strings.EqualFold(attr(n, "type"), "cite") {
			drops[n] = true
			return false
		}
		if hasToken(n, table.QuoteContainers) {
			drops[n] = true
			return false
		}
		return true
	})
}

func markSignatureContainers(doc *html.Node, table *patterns.Table, drops map[*html.Node]bool) {
	walk(doc, func(n *html.Node) bool {
		if n.Type == html.ElementNode && hasToken(n, table.SignatureContainers) {
			drops[n] = true
			return false
		}
		return true
	})
}

// markCutoffMarkers removes hard reply/forward boundary elements and every
// following sibling: the marker separates composed content from everything
// after it in document order.
func markCutoffMarkers(doc *html.Node, table *patterns.Table, drops map[*html.Node]bool) {
	walk(doc, func(n *html.Node) bool {
		if drops[n] {
			return false
		}
		if n.Type == html.ElementNode && hasToken(n, table.CutoffMarkers) {
			markWithFollowing(n, drops)
			return false
		}
		return true
	})
}

// separatorColors are the inline border colors mail clients use for the
// horizontal rule that precedes a quoted reply.
var separatorColors = []string{
	"#b5c4df", "rgb(181,196,223)", "rgb(181, 196, 223)",
	"#e1e1e1", "rgb(225,225,225)", "rgb(225, 225, 225)",
}

func markStyleSeparators(doc *html.Node, drops map[*html.Node]bool) {
	walk(doc, func(n *html.Node) bool {
		if drops[n] {
			return false
		}
		if n.Type != html.ElementNode {
			return true
		}
		style := strings.ToLower(attr(n, "style"))
		if style == "" || !strings.Contains(style, "border-top") {
			return true
		}
		for _, color := range separatorColors {
			if strings.Contains(style, color) {
				markWithFollowing(n, drops)
				return false
			}
		}
		return true
	})
}

func markNamedFooters(doc *html.Node, table *patterns.Table, drops map[*html.Node]bool) {
	walk(doc, func(n *html.Node) bool {
		if drops[n] {
			return false
		}
		if n.Type != html.ElementNode {
			return true
		}
		id := strings.ToLower(attr(n, "id"))
		if id == "" {
			return true
		}
		for _, name := range table.FooterNames {
			if strings.Contains(id, name) {
				markWithFollowing(n, drops)
				return false
			}
		}
		return true
	})
}

// markUnsubscribeFooter handles footers with no naming convention: the
// first text node carrying an unsubscribe-type marker word selects its
// nearest block-level ancestor (up to 5 levels) for removal together with
// the ancestor's following siblings. The removal is skipped when the walk
// reaches the document root, so a marker word inside body text cannot
// destroy the whole message.
func markUnsubscribeFooter(doc *html.Node, table *patterns.Table, drops map[*html.Node]bool) {
	var match *html.Node
	walk(doc, func(n *html.Node) bool {
		if match != nil || drops[n] {
			return false
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return false
		}
		if n.Type == html.TextNode {
			lowered := strings.ToLower(n.Data)
			for _, word := range table.UnsubscribeWords {
				if strings.Contains(lowered, word) {
					match = n
					return false
				}
			}
		}
		return true
	})
	if match == nil {
		return
	}

	container := match.Parent
	for level := 0; container != nil && level < 5; level++ {
		if isDocumentRoot(container) {
			return
		}
		if isBlockElement(container) {
			markWithFollowing(container, drops)
			return
		}
		container = container.Parent
	}
}

// markWithFollowing marks a node's subtree plus every following sibling
func markWithFollowing(n *html.Node, drops map[*html.Node]bool) {
	for sib := n; sib != nil; sib = sib.NextSibling {
		drops[sib] = true
	}
}

// detach removes marked nodes from the tree. Nodes inside an already
// marked subtree are skipped so every removal operates on an attached node.
func detach(drops map[*html.Node]bool) {
	var roots []*html.Node
	for n := range drops {
		if !hasMarkedAncestor(n, drops) {
			roots = append(roots, n)
		}
	}
	for _, n := range roots {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

func hasMarkedAncestor(n *html.Node, drops map[*html.Node]bool) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if drops[p] {
			return true
		}
	}
	return false
}

// extractText serializes the visible text of the tree, skipping dropped
// subtrees and joining block boundaries with line breaks. Used for the
// resilience emptiness check and as the last-resort serializer.
func extractText(n *html.Node, drops map[*html.Node]bool) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if drops != nil && drops[n] {
			return
		}
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "head", "title":
				return
			case "br":
				sb.WriteString("\n")
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
		if n.Type == html.ElementNode && isBlockName(n.Data) {
			sb.WriteString("\n")
		}
	}
	visit(n)
	return sb.String()
}

var blockNames = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"header": true, "footer": true, "table": true, "tr": true,
	"ul": true, "ol": true, "li": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"pre": true, "hr": true, "center": true, "td": true,
}

func isBlockName(name string) bool { return blockNames[name] }

func isBlockElement(n *html.Node) bool {
	return n.Type == html.ElementNode && isBlockName(n.Data)
}

func isDocumentRoot(n *html.Node) bool {
	if n.Type == html.DocumentNode {
		return true
	}
	return n.Type == html.ElementNode && (n.Data == "html" || n.Data == "body")
}

// attr returns an attribute value, or "" when absent
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// hasToken reports whether any class token or the id of the element
// matches one of the selectors
func hasToken(n *html.Node, selectors []string) bool {
	if len(selectors) == 0 {
		return false
	}
	if id := strings.ToLower(attr(n, "id")); id != "" {
		for _, sel := range selectors {
			if id == sel {
				return true
			}
		}
	}
	for _, token := range strings.Fields(strings.ToLower(attr(n, "class"))) {
		for _, sel := range selectors {
			if token == sel {
				return true
			}
		}
	}
	return false
}

func merge(a, b map[*html.Node]bool) map[*html.Node]bool {
	out := make(map[*html.Node]bool, len(a)+len(b))
	for n := range a {
		out[n] = true
	}
	for n := range b {
		out[n] = true
	}
	return out
}

var (
	tagBreakRe = regexp.MustCompile(`(?i)</(p|div|tr|li|h[1-6]|blockquote)>|<br\s*/?>`)
	tagRe      = regexp.MustCompile(`<[^>]*>`)
	entityRepl = strings.NewReplacer(
		"&amp;", "&", "&lt;", "<", "&gt;", ">",
		"&quot;", `"`, "&#39;", "'", "&nbsp;", " ",
	)
)

// tagStrip is the malformed-markup fallback: break on block-closing tags,
// drop the rest of the tags, and decode the common entities.
func tagStrip(markup string) string {
	text := tagBreakRe.ReplaceAllString(markup, "\n")
	text = tagRe.ReplaceAllString(text, " ")
	return entityRepl.Replace(text)
}
