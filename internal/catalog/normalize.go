package catalog

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/msiegy/meraki-eol-manager/internal/model"
	"github.com/pkg/errors"
)

var (
	// ErrCatalogParse is returned when the catalog table cannot be used at all.
	ErrCatalogParse = errors.New("error parsing EOL catalog")
)

// RawRow is a catalog table row as published.
type RawRow struct {
	// Line is the row position in the source, used in diagnostics.
	Line int
	// Cells maps the column name to the cell text.
	Cells map[string]string
	// Links are the anchors found in this row, in document order.
	Links []model.UpgradeLink
}

// cell returns the text of the named column, a column not present in the header reads as empty.
func (r RawRow) cell(column string) string {
	if column == "" {
		return ""
	}

	return r.Cells[column]
}

// RawCatalog is the catalog table as parsed from its source, before normalization.
type RawCatalog struct {
	// BaseURL is used to resolve relative links.
	BaseURL string
	Columns []string
	Rows    []RawRow
	// Diagnostics holds the rows skipped by the parser.
	Diagnostics []Diagnostic
}

// Diagnostic describes a catalog row skipped during parsing or normalization.
type Diagnostic struct {
	Line   int
	Reason string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("row %d: %s", d.Line, d.Reason)
}

// column aliases, matched against the header with case, blanks and punctuation removed.
var (
	productColumns      = []string{"product", "productname", "model", "sku"}
	announcementColumns = []string{"announcement", "announcementdate", "eolannouncement", "eolannouncementdate", "endoflifeannouncement"}
	endOfSaleColumns    = []string{"endofsale", "endofsaledate", "eos", "eosdate", "lastdayofsale", "lastdateofsale"}
	endOfSupportColumns = []string{"endofsupport", "endofsupportdate", "eost", "eostdate", "lastdayofsupport", "lastdateofsupport"}
)

type columns struct {
	product, announcement, endOfSale, endOfSupport string
}

func columnKey(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}

		return -1
	}, s)
}

func resolveColumns(header []string) columns {
	find := func(aliases []string) string {
		for _, alias := range aliases {
			for _, h := range header {
				if columnKey(h) == alias {
					return h
				}
			}
		}

		return ""
	}

	return columns{
		product:      find(productColumns),
		announcement: find(announcementColumns),
		endOfSale:    find(endOfSaleColumns),
		endOfSupport: find(endOfSupportColumns),
	}
}

// Normalize returns the EOL catalog records for the raw catalog table in their published order.
//
// Rows are never reordered or deduplicated, rows without a product identifier are skipped
// and returned as diagnostics. An error is returned when the table has no product column or no usable rows.
func Normalize(raw *RawCatalog) (*model.Catalog, []Diagnostic, error) {
	if raw == nil || len(raw.Columns) == 0 {
		return nil, nil, errors.Wrap(ErrCatalogParse, "table has no header")
	}

	cols := resolveColumns(raw.Columns)
	if cols.product == "" {
		return nil, nil, errors.Wrap(ErrCatalogParse, fmt.Sprintf("no product column in header: %q", raw.Columns))
	}

	var base *url.URL
	if raw.BaseURL != "" {
		// an unparsable base leaves relative links as is.
		base, _ = url.Parse(raw.BaseURL)
	}

	diagnostics := append([]Diagnostic{}, raw.Diagnostics...)
	records := make([]model.EOLRecord, 0, len(raw.Rows))

	for _, row := range raw.Rows {
		product := strings.TrimSpace(row.cell(cols.product))
		if product == "" {
			diagnostics = append(diagnostics, Diagnostic{Line: row.Line, Reason: "missing product identifier"})
			continue
		}

		records = append(records, model.EOLRecord{
			Product:          product,
			AnnouncementDate: model.ParseDate(row.cell(cols.announcement)),
			EndOfSaleDate:    model.ParseDate(row.cell(cols.endOfSale)),
			EndOfSupportDate: model.ParseDate(row.cell(cols.endOfSupport)),
			UpgradePath:      resolveLinks(base, row.Links),
		})
	}

	if len(records) == 0 {
		return nil, diagnostics, errors.Wrap(ErrCatalogParse, "no usable rows")
	}

	return &model.Catalog{Records: records}, diagnostics, nil
}

func resolveLinks(base *url.URL, links []model.UpgradeLink) []model.UpgradeLink {
	resolved := make([]model.UpgradeLink, 0, len(links))

	for _, link := range links {
		if base != nil {
			if ref, err := url.Parse(link.URL); err == nil {
				link.URL = base.ResolveReference(ref).String()
			}
		}

		resolved = append(resolved, link)
	}

	return resolved
}
