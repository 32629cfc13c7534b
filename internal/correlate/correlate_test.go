package correlate

import (
	"testing"

	"github.com/msiegy/meraki-eol-manager/internal/fixtures"
	"github.com/msiegy/meraki-eol-manager/internal/inventory"
	"github.com/msiegy/meraki-eol-manager/internal/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acmePartition() *inventory.Partition {
	return inventory.Normalize(fixtures.OrgAcme, fixtures.NewAcmeNetworks(), fixtures.NewAcmeDevices())
}

func records(models ...string) []model.InventoryRecord {
	r := []model.InventoryRecord{}
	for _, m := range models {
		r = append(r, model.InventoryRecord{Model: m, NetworkID: "N_1"})
	}

	return r
}

func unitsByProduct(rows []model.ReportRow) map[string]int {
	got := map[string]int{}
	for _, r := range rows {
		got[r.Record.Product] = r.TotalUnits
	}

	return got
}

func TestCount(t *testing.T) {
	catalog := fixtures.NewCatalog()

	counts := Count(acmePartition().Assigned, catalog)

	// one entry per catalog record, in catalog order
	require.Len(t, counts, len(catalog.Records))

	for idx, c := range counts {
		assert.Equal(t, catalog.Records[idx].Product, c.Record.Product)
	}

	// MR42 is not in the catalog, MR33 is not assigned to a network
	assert.Equal(t, map[string]int{"MX64": 2, "MS220-8P": 1, "MR33": 0, "MX65": 0}, unitsByProduct(counts))
}

func TestCountMatching(t *testing.T) {
	testcases := []struct {
		name     string
		assigned []model.InventoryRecord
		want     map[string]int
	}{
		{
			"case sensitive",
			records("mx64", "MX64 ", "MX64"),
			map[string]int{"MX64": 1, "MS220-8P": 0, "MR33": 0, "MX65": 0},
		},
		{
			"empty model",
			records("", "", "MR33"),
			map[string]int{"MX64": 0, "MS220-8P": 0, "MR33": 1, "MX65": 0},
		},
		{
			"no devices",
			nil,
			map[string]int{"MX64": 0, "MS220-8P": 0, "MR33": 0, "MX65": 0},
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, unitsByProduct(Count(tc.assigned, fixtures.NewCatalog())))
		})
	}
}

func TestCountUnitsSum(t *testing.T) {
	catalog := fixtures.NewCatalog()
	assigned := records("MX64", "MX64", "MR33", "MR42", "MX65", "", "MS220-8P", "MX64")

	listed := map[string]bool{}
	for _, r := range catalog.Records {
		listed[r.Product] = true
	}

	var want int
	for _, r := range assigned {
		if listed[r.Model] {
			want++
		}
	}

	report, ok := Assemble(fixtures.OrgAcme, Count(assigned, catalog))
	require.True(t, ok)

	assert.Equal(t, want, report.TotalUnits())
}

func TestAssemble(t *testing.T) {
	report, ok := Assemble(fixtures.OrgAcme, Count(acmePartition().Assigned, fixtures.NewCatalog()))
	require.True(t, ok)

	assert.Equal(t, "Acme - 1", report.Key)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, "MX64", report.Rows[0].Record.Product)
	assert.Equal(t, 2, report.Rows[0].TotalUnits)
	assert.Equal(t, "MS220-8P", report.Rows[1].Record.Product)
	assert.Equal(t, 1, report.Rows[1].TotalUnits)
	assert.Len(t, report.Rows[1].Record.UpgradePath, 2)
}

func TestAssembleStableOrder(t *testing.T) {
	// MS220-8P, MR33 and MX65 tie and keep their catalog order
	counts := Count(records("MX65", "MR33", "MS220-8P", "MX64", "MX64"), fixtures.NewCatalog())

	report, ok := Assemble(fixtures.OrgAcme, counts)
	require.True(t, ok)

	products := []string{}
	for _, r := range report.Rows {
		products = append(products, r.Record.Product)
	}

	assert.Equal(t, []string{"MX64", "MS220-8P", "MR33", "MX65"}, products)
}

func TestAssembleNoUnits(t *testing.T) {
	report, ok := Assemble(fixtures.OrgEmptyCo, Count(nil, fixtures.NewCatalog()))
	assert.False(t, ok)
	assert.Nil(t, report)

	report, ok = Assemble(fixtures.OrgEmptyCo, nil)
	assert.False(t, ok)
	assert.Nil(t, report)
}

func TestAssembleDoesNotShareCatalog(t *testing.T) {
	catalog := fixtures.NewCatalog()

	report, ok := Assemble(fixtures.OrgAcme, Count(acmePartition().Assigned, catalog))
	require.True(t, ok)

	report.Rows[0].Record.UpgradePath[0].Label = "changed"

	assert.Equal(t, "MX64 EoS Notice", catalog.Records[0].UpgradePath[0].Label)
}

func TestBuild(t *testing.T) {
	catalog := fixtures.NewCatalog()
	errFetch := errors.New("503 Service Unavailable")

	results := []inventory.Result{
		{Organization: fixtures.OrgGlobex, Err: errFetch},
		{Organization: fixtures.OrgAcme, Partition: acmePartition()},
		{Organization: fixtures.OrgEmptyCo, Partition: inventory.Normalize(fixtures.OrgEmptyCo, nil, nil)},
		{
			Organization: model.Organization{ID: "4", Name: "Initech"},
			Partition:    inventory.Normalize(model.Organization{ID: "4", Name: "Initech"}, nil, []model.Device{{Model: "MR42", NetworkID: "N_1"}}),
		},
		{
			Organization: model.Organization{ID: "5", Name: "Umbrella"},
			Partition:    inventory.Normalize(model.Organization{ID: "5", Name: "Umbrella"}, nil, []model.Device{{Model: "MR33", NetworkID: "N_1"}}),
		},
	}

	run := Build(catalog, results)

	assert.Equal(t, "fixture", run.CatalogSource)
	assert.Equal(t, 4, run.CatalogRecords)

	keys := []string{}
	for _, r := range run.Reports {
		keys = append(keys, r.Key)
	}

	assert.Equal(t, []string{"Acme - 1", "Umbrella - 5"}, keys)
	assert.Equal(t, 4, run.Reports[0].DevicesAssigned)
	assert.Equal(t, 1, run.Reports[0].DevicesUnassigned)

	require.Len(t, run.Failures, 1)
	assert.Equal(t, fixtures.OrgGlobex, run.Failures[0].Organization)
	assert.Equal(t, "503 Service Unavailable", run.Failures[0].Reason)

	assert.Equal(t, []model.Organization{fixtures.OrgEmptyCo, {ID: "4", Name: "Initech"}}, run.Skipped)

	assert.ErrorIs(t, run.Err(), errFetch)
}

func TestBuildAllSucceeded(t *testing.T) {
	run := Build(fixtures.NewCatalog(), []inventory.Result{{Organization: fixtures.OrgAcme, Partition: acmePartition()}})

	assert.Empty(t, run.Failures)
	assert.Nil(t, run.Err())
	assert.Len(t, run.Reports, 1)
}
