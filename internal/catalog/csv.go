package catalog

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/msiegy/meraki-eol-manager/internal/model"
	"github.com/pkg/errors"
)

const utf8BOM = "\ufeff"

// ParseCSV returns the raw catalog from the published CSV summary.
//
// Rows with an unexpected number of fields are skipped and returned as diagnostics,
// links are collected from the cells of each row in column order.
func ParseCSV(r io.Reader) (*RawCatalog, error) {
	reader := gocsv.LazyCSVReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(ErrCatalogParse, "CSV header: "+err.Error())
	}

	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], utf8BOM))
	}

	raw := &RawCatalog{Columns: header}

	// the header is line 1
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			if errors.Is(err, csv.ErrFieldCount) {
				raw.Diagnostics = append(raw.Diagnostics, Diagnostic{Line: line, Reason: err.Error()})
				continue
			}

			return nil, errors.Wrap(ErrCatalogParse, "CSV: "+err.Error())
		}

		if blankRecord(record) {
			continue
		}

		row := RawRow{Line: line, Cells: make(map[string]string, len(header)), Links: []model.UpgradeLink{}}

		for i, column := range header {
			row.Cells[column] = cellText(record[i])
			row.Links = append(row.Links, cellLinks(column, record[i])...)
		}

		raw.Rows = append(raw.Rows, row)
	}

	return raw, nil
}

func blankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}

	return true
}
