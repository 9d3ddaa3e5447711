package htmlutil

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText concatenates every text node under `node`, including `node` itself.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// DirectTextNodes returns the text nodes that are immediate children of `node`,
// text nested inside child elements is not included.
func DirectTextNodes(node *html.Node) []string {
	if node == nil {
		return nil
	}
	var out []string
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			out = append(out, child.Data)
		}
	}
	return out
}

// FirstDirectTextWithPrefix returns the first non-empty trimmed direct child text node
// of `sel` that begins with `prefix`.
func FirstDirectTextWithPrefix(sel *goquery.Selection, prefix string) (string, bool) {
	for _, node := range sel.Nodes {
		for _, text := range DirectTextNodes(node) {
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			if strings.HasPrefix(text, prefix) {
				return text, true
			}
		}
	}
	return "", false
}

// TrimmedText is the trimmed text content of `sel`.
func TrimmedText(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}
