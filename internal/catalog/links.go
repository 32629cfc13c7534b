package catalog

import (
	"strings"

	"github.com/msiegy/meraki-eol-manager/internal/model"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// nodeText returns the text content of the node with blanks collapsed.
func nodeText(n *html.Node) string {
	var b strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)

	return strings.Join(strings.Fields(b.String()), " ")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}

	return ""
}

// anchors returns the links within the node in document order.
//
// Anchors without a href are skipped, anchors without text are labeled by their href.
func anchors(n *html.Node) []model.UpgradeLink {
	links := []model.UpgradeLink{}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			if href := attr(n, "href"); href != "" {
				label := nodeText(n)
				if label == "" {
					label = href
				}

				links = append(links, model.UpgradeLink{Label: label, URL: href})
			}

			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)

	return links
}

// cellLinks returns the links in a CSV cell,
// the cell may hold anchor markup or a bare URL which is labeled by the column name.
func cellLinks(column, cell string) []model.UpgradeLink {
	cell = strings.TrimSpace(cell)

	switch {
	case strings.Contains(cell, "<a"):
		body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

		nodes, err := html.ParseFragment(strings.NewReader(cell), body)
		if err != nil {
			return nil
		}

		links := []model.UpgradeLink{}
		for _, n := range nodes {
			links = append(links, anchors(n)...)
		}

		return links
	case strings.HasPrefix(cell, "http://"), strings.HasPrefix(cell, "https://"):
		links := []model.UpgradeLink{}
		for _, field := range strings.Fields(cell) {
			if strings.HasPrefix(field, "http://") || strings.HasPrefix(field, "https://") {
				links = append(links, model.UpgradeLink{Label: column, URL: field})
			}
		}

		return links
	default:
		return nil
	}
}

// cellText returns the cell text with any markup removed.
func cellText(cell string) string {
	if !strings.Contains(cell, "<") {
		return strings.TrimSpace(cell)
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

	nodes, err := html.ParseFragment(strings.NewReader(cell), body)
	if err != nil {
		return strings.TrimSpace(cell)
	}

	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if t := nodeText(n); t != "" {
			parts = append(parts, t)
		}
	}

	return strings.Join(parts, " ")
}
