package catalog

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseHTML returns the raw catalog from the first table in the published EOL page.
//
// The header is read from the first row, each following row is read along with the anchors it contains,
// rows that do not match the header are skipped and returned as diagnostics.
func ParseHTML(r io.Reader) (*RawCatalog, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(ErrCatalogParse, "HTML: "+err.Error())
	}

	table := findFirst(doc, atom.Table)
	if table == nil {
		return nil, errors.Wrap(ErrCatalogParse, "no table found in HTML document")
	}

	raw := &RawCatalog{}

	for line, tr := range tableRows(table) {
		cells := rowCells(tr)
		if len(cells) == 0 {
			continue
		}

		if raw.Columns == nil {
			for _, cell := range cells {
				raw.Columns = append(raw.Columns, nodeText(cell))
			}

			continue
		}

		if len(cells) != len(raw.Columns) {
			raw.Diagnostics = append(raw.Diagnostics, Diagnostic{
				Line:   line + 1,
				Reason: fmt.Sprintf("expected %d cells, got %d", len(raw.Columns), len(cells)),
			})

			continue
		}

		row := RawRow{Line: line + 1, Cells: make(map[string]string, len(cells)), Links: anchors(tr)}
		for i, cell := range cells {
			row.Cells[raw.Columns[i]] = nodeText(cell)
		}

		raw.Rows = append(raw.Rows, row)
	}

	if raw.Columns == nil {
		return nil, errors.Wrap(ErrCatalogParse, "table has no rows")
	}

	return raw, nil
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}

	return nil
}

// tableRows returns the rows of the table, excluding the rows of any nested table.
func tableRows(table *html.Node) []*html.Node {
	rows := []*html.Node{}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}

			switch c.DataAtom {
			case atom.Tr:
				rows = append(rows, c)
			case atom.Table:
				continue
			default:
				walk(c)
			}
		}
	}

	walk(table)

	return rows
}

func rowCells(tr *html.Node) []*html.Node {
	cells := []*html.Node{}

	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
			cells = append(cells, c)
		}
	}

	return cells
}
