package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// ReportRow is a catalog record along with the number of matching deployed units.
type ReportRow struct {
	Record     EOLRecord `json:"record"`
	TotalUnits int       `json:"total_units"`
}

// OrganizationReport lists the EOL products deployed in an organization.
//
// Rows only include products with one or more units, ordered by TotalUnits descending,
// products with equal counts retain their catalog order.
type OrganizationReport struct {
	Key          string       `json:"key"`
	Organization Organization `json:"organization"`
	Rows         []ReportRow  `json:"rows"`

	// device counts for the report summary line.
	DevicesAssigned   int `json:"devices_assigned"`
	DevicesUnassigned int `json:"devices_unassigned"`
}

// TotalUnits returns the sum of units over all rows.
func (r *OrganizationReport) TotalUnits() int {
	var total int
	for _, row := range r.Rows {
		total += row.TotalUnits
	}

	return total
}

// OrganizationFailure records an organization whose inventory could not be retrieved.
type OrganizationFailure struct {
	Organization Organization `json:"organization"`
	Reason       string       `json:"reason"`
	Err          error        `json:"-"`
}

// RunResult is the outcome of a report run.
//
// nolint:govet // fieldalignment struct is easier to read in the current format
type RunResult struct {
	ID          uuid.UUID `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`

	CatalogSource  string `json:"catalog_source"`
	CatalogRecords int    `json:"catalog_records"`

	Reports  []OrganizationReport  `json:"reports"`
	Failures []OrganizationFailure `json:"failures"`

	// Skipped lists organizations which had no assigned devices or no EOL products deployed.
	Skipped []Organization `json:"skipped"`
}

// NewRunResult returns a RunResult with a fresh identifier.
func NewRunResult() *RunResult {
	return &RunResult{
		ID:          uuid.New(),
		GeneratedAt: time.Now().UTC(),
		Reports:     []OrganizationReport{},
		Failures:    []OrganizationFailure{},
		Skipped:     []Organization{},
	}
}

// Err returns the organization failures as a single error, nil when every organization succeeded.
func (r *RunResult) Err() error {
	var merr *multierror.Error

	for _, f := range r.Failures {
		err := f.Err
		if err == nil {
			err = errors.New(f.Reason)
		}

		merr = multierror.Append(merr, errors.Wrap(err, f.Organization.Key()))
	}

	return merr.ErrorOrNil()
}
