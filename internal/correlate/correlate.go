// Package correlate joins the deployed device inventory against the EOL catalog
// and assembles the per organization reports.
//
// The functions here hold no state and only read the catalog, a catalog may be shared across goroutines.
package correlate

import (
	"sort"

	"github.com/msiegy/meraki-eol-manager/internal/inventory"
	"github.com/msiegy/meraki-eol-manager/internal/metrics"
	"github.com/msiegy/meraki-eol-manager/internal/model"
	"github.com/prometheus/client_golang/prometheus"
)

// ProductCount is a catalog record with the count of deployed units of that product.
type ProductCount = model.ReportRow

// Count returns each catalog record, in catalog order, with the number of devices whose model equals the record product.
//
// Matching is exact and case sensitive, devices with an empty model never match
// and models not listed in the catalog are ignored.
func Count(assigned []model.InventoryRecord, catalog *model.Catalog) []ProductCount {
	if catalog == nil {
		return []ProductCount{}
	}

	units := make(map[string]int, len(assigned))
	for idx := range assigned {
		if assigned[idx].Model == "" {
			continue
		}

		units[assigned[idx].Model]++
	}

	counts := make([]ProductCount, 0, len(catalog.Records))
	for _, record := range catalog.Records {
		counts = append(counts, ProductCount{Record: record, TotalUnits: units[record.Product]})
	}

	return counts
}

// Assemble returns the report for the organization from the product counts.
//
// Only products with one or more units are included, ordered by units descending with ties kept in catalog order.
// false is returned when no product has any units.
func Assemble(org model.Organization, counts []ProductCount) (*model.OrganizationReport, bool) {
	rows := make([]model.ReportRow, 0, len(counts))

	for _, c := range counts {
		if c.TotalUnits <= 0 {
			continue
		}

		rows = append(rows, model.ReportRow{Record: cloneRecord(c.Record), TotalUnits: c.TotalUnits})
	}

	if len(rows) == 0 {
		return nil, false
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalUnits > rows[j].TotalUnits
	})

	return &model.OrganizationReport{
		Key:          org.Key(),
		Organization: org,
		Rows:         rows,
	}, true
}

// Build returns the run result for the collected organization inventories.
//
// Reports are in the order of the results. An organization whose inventory could not be collected is listed as a failure,
// one without assigned devices or without EOL products deployed is listed as skipped.
func Build(catalog *model.Catalog, results []inventory.Result) *model.RunResult {
	run := model.NewRunResult()

	if catalog != nil {
		run.CatalogSource = catalog.Source
		run.CatalogRecords = catalog.Len()
	}

	for idx := range results {
		result := &results[idx]

		if result.Err != nil || result.Partition == nil {
			run.Failures = append(run.Failures, failure(result))
			metrics.OrganizationsCounter.With(prometheus.Labels{"state": "failed"}).Inc()

			continue
		}

		report, ok := Assemble(result.Organization, Count(result.Partition.Assigned, catalog))
		if !ok {
			run.Skipped = append(run.Skipped, result.Organization)
			metrics.OrganizationsCounter.With(prometheus.Labels{"state": "skipped"}).Inc()

			continue
		}

		report.DevicesAssigned = len(result.Partition.Assigned)
		report.DevicesUnassigned = len(result.Partition.Unassigned)

		for _, row := range report.Rows {
			metrics.ReportRowsCounter.With(prometheus.Labels{"product": row.Record.Product}).Add(float64(row.TotalUnits))
		}

		run.Reports = append(run.Reports, *report)
		metrics.OrganizationsCounter.With(prometheus.Labels{"state": "reported"}).Inc()
	}

	return run
}

func failure(result *inventory.Result) model.OrganizationFailure {
	if result.Err == nil {
		return model.OrganizationFailure{Organization: result.Organization, Reason: "no inventory collected"}
	}

	return model.OrganizationFailure{
		Organization: result.Organization,
		Reason:       result.Err.Error(),
		Err:          result.Err,
	}
}

// cloneRecord returns a copy of the record which does not share the upgrade path with the catalog.
func cloneRecord(r model.EOLRecord) model.EOLRecord {
	r.UpgradePath = append([]model.UpgradeLink{}, r.UpgradePath...)

	return r
}
