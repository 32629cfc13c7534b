package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	testcases := []struct {
		name      string
		raw       string
		wantKnown bool
		want      string
	}{
		{"short month", "Jan 6, 2017", true, "2017-01-06"},
		{"long month", "October 24, 2022", true, "2022-10-24"},
		{"iso", "2024-07-01", true, "2024-07-01"},
		{"us numeric", "7/29/2016", true, "2016-07-29"},
		{"padded with blanks", "  Jul 29, 2016 ", true, "2016-07-29"},
		{"month only", "March 2025", true, "2025-03-01"},
		{"unparsable keeps raw text", "TBD", false, "TBD"},
		{"empty", "", false, ""},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseDate(tc.raw)
			assert.Equal(t, tc.wantKnown, got.Known())
			assert.Equal(t, tc.want, got.String())
		})
	}
}

func TestDateTimeIsUTC(t *testing.T) {
	got := ParseDate("Jan 6, 2017")
	assert.Equal(t, time.UTC, got.Time.Location())
}

func TestDateJSON(t *testing.T) {
	testcases := []struct {
		name string
		date Date
		want string
	}{
		{"known", ParseDate("Jul 26, 2022"), `{"time":"2022-07-26T00:00:00Z","raw":"Jul 26, 2022"}`},
		{"unknown keeps raw text only", ParseDate("TBD"), `{"raw":"TBD"}`},
		{"empty", ParseDate(""), `{}`},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := json.Marshal(tc.date)
			require.Nil(t, err)
			assert.JSONEq(t, tc.want, string(b))

			got := Date{}
			require.Nil(t, json.Unmarshal(b, &got))
			assert.Equal(t, tc.date.String(), got.String())
			assert.Equal(t, tc.date.Known(), got.Known())
		})
	}
}

func TestOrganizationKey(t *testing.T) {
	org := Organization{ID: "549236", Name: "Acme"}
	assert.Equal(t, "Acme - 549236", org.Key())
}

func TestInventoryRecordAssigned(t *testing.T) {
	assert.True(t, (&InventoryRecord{NetworkID: "N_1"}).Assigned())
	assert.False(t, (&InventoryRecord{}).Assigned())
}

func TestOrganizationReportTotalUnits(t *testing.T) {
	r := &OrganizationReport{
		Rows: []ReportRow{
			{Record: EOLRecord{Product: "MX64"}, TotalUnits: 2},
			{Record: EOLRecord{Product: "MS220-8P"}, TotalUnits: 1},
		},
	}

	assert.Equal(t, 3, r.TotalUnits())
}

func TestRunResultErr(t *testing.T) {
	r := NewRunResult()
	assert.Nil(t, r.Err())

	errFetch := errors.New("pound sand")
	r.Failures = append(r.Failures,
		OrganizationFailure{Organization: Organization{ID: "1", Name: "Acme"}, Err: errFetch, Reason: errFetch.Error()},
		OrganizationFailure{Organization: Organization{ID: "2", Name: "Globex"}, Reason: "timeout"},
	)

	err := r.Err()
	assert.ErrorIs(t, err, errFetch)
	assert.Contains(t, err.Error(), "Acme - 1")
	assert.Contains(t, err.Error(), "Globex - 2: timeout")
}
