package pricepage

import (
	"bytes"
	"errors"
	"regexp"
	"strings"

	"github.com/fundwatch/fundwatch"
	"golang.org/x/net/html"
)

// ErrNoTitle reports a page with no extractable title. Without a title the
// holding cannot be joined to the ledger, so the parse is a hard failure;
// missing price tokens are not.
var ErrNoTitle = errors.New("page has no extractable title")

// priceToken matches one monetary token: optional currency symbol, digits
// with optional thousands separators, exactly two decimals, optional pence
// marker.
const priceToken = `([$£]?[0-9,]+\.\d{2}p?)`

var (
	sellRe   = regexp.MustCompile(`Sell:\s*` + priceToken)
	buyRe    = regexp.MustCompile(`Buy:\s*` + priceToken)
	changeRe = regexp.MustCompile(`Change:\s*([+\-]?\d+(?:\.\d+)?p?)\s*\(([-+]?[\d.]+%)\)`)
)

// Parse extracts the scraped price record from raw page markup. Sell, Buy
// and Change are searched in the page's visible text; any of them may be
// absent without failing the parse. The title resolution order is the
// og:title meta tag, then the first h1 heading, then the document title.
func Parse(markup []byte) (fundwatch.ScrapedPrice, error) {
	doc, err := html.Parse(bytes.NewReader(markup))
	if err != nil {
		return fundwatch.ScrapedPrice{}, err
	}

	sp := fundwatch.ScrapedPrice{Title: pageTitle(doc)}
	if sp.Title == "" {
		return sp, ErrNoTitle
	}

	text := visibleText(doc)
	if m := sellRe.FindStringSubmatch(text); m != nil {
		sp.Sell = m[1]
	}
	if m := buyRe.FindStringSubmatch(text); m != nil {
		sp.Buy = m[1]
	}
	if m := changeRe.FindStringSubmatch(text); m != nil {
		sp.Change, sp.ChangePct = m[1], m[2]
	}
	return sp, nil
}

// visibleText renders the document's text content, markup stripped, text
// nodes joined by single spaces. Script and style bodies are not visible.
func visibleText(doc *html.Node) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(parts, " ")
}

// pageTitle resolves the display title: og:title meta, first h1, then the
// title element. Returns "" when none is present.
func pageTitle(doc *html.Node) string {
	if t := strings.TrimSpace(ogTitle(doc)); t != "" {
		return t
	}
	if h1 := findElement(doc, "h1"); h1 != nil {
		if t := strings.TrimSpace(elementText(h1)); t != "" {
			return t
		}
	}
	if title := findElement(doc, "title"); title != nil {
		return strings.TrimSpace(elementText(title))
	}
	return ""
}

// ogTitle returns the content of a <meta property="og:title"> tag.
func ogTitle(doc *html.Node) string {
	meta := findFunc(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "meta" {
			return false
		}
		return attr(n, "property") == "og:title"
	})
	if meta == nil {
		return ""
	}
	return attr(meta, "content")
}

// findElement returns the first element with the given tag name, in
// document order.
func findElement(doc *html.Node, name string) *html.Node {
	return findFunc(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == name
	})
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func findFunc(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFunc(c, match); found != nil {
			return found
		}
	}
	return nil
}

// elementText concatenates the text nodes under n.
func elementText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
