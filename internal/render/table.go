package render

import (
	"io"
	"strconv"

	"github.com/msiegy/meraki-eol-manager/internal/model"
	"github.com/olekukonko/tablewriter"
)

func defaultTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	return table
}

// Table writes a terminal summary of the organization reports.
func Table(w io.Writer, reports []model.OrganizationReport) {
	table := defaultTable(w)
	table.SetHeader([]string{"Organization", "Product", "End-of-Sale", "End-of-Support", "Units"})
	table.SetAutoMergeCells(true)
	table.SetRowLine(true)

	for _, report := range reports {
		for _, row := range report.Rows {
			table.Append([]string{
				report.Key,
				row.Record.Product,
				row.Record.EndOfSaleDate.String(),
				row.Record.EndOfSupportDate.String(),
				strconv.Itoa(row.TotalUnits),
			})
		}
	}

	table.Render()
}

// FailuresTable writes the organizations that could not be reported.
func FailuresTable(w io.Writer, failures []model.OrganizationFailure) {
	table := defaultTable(w)
	table.SetHeader([]string{"Organization", "Reason"})

	for _, f := range failures {
		table.Append([]string{f.Organization.Key(), f.Reason})
	}

	table.Render()
}

// CatalogTable writes the EOL catalog records in catalog order.
func CatalogTable(w io.Writer, catalog *model.Catalog) {
	table := defaultTable(w)
	table.SetHeader([]string{"Product", "Announcement", "End-of-Sale", "End-of-Support", "Links"})

	if catalog != nil {
		for _, r := range catalog.Records {
			table.Append([]string{
				r.Product,
				r.AnnouncementDate.String(),
				r.EndOfSaleDate.String(),
				r.EndOfSupportDate.String(),
				strconv.Itoa(len(r.UpgradePath)),
			})
		}
	}

	table.Render()
}

// OrganizationsTable writes the organizations with their 1-based selection index.
func OrganizationsTable(w io.Writer, orgs []model.Organization) {
	table := defaultTable(w)
	table.SetHeader([]string{"#", "Name", "ID"})

	for idx, org := range orgs {
		table.Append([]string{strconv.Itoa(idx + 1), org.Name, org.ID})
	}

	table.Render()
}
