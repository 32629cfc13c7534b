package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/msiegy/meraki-eol-manager/internal/fixtures"
	"github.com/msiegy/meraki-eol-manager/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelection(t *testing.T) {
	testcases := []struct {
		name    string
		input   string
		n       int
		want    []int
		wantErr string
	}{
		{name: "single", input: "2", n: 3, want: []int{1}},
		{name: "list with blanks", input: " 3, 1 ,\n", n: 3, want: []int{2, 0}},
		{name: "duplicates", input: "2,2,1,2", n: 3, want: []int{1, 0}},
		{name: "all", input: "ALL", n: 3, want: []int{0, 1, 2}},
		{name: "trailing comma", input: "1,", n: 1, want: []int{0}},
		{name: "empty", input: "  ", n: 3, wantErr: "no organization numbers given"},
		{name: "only commas", input: ",,", n: 3, wantErr: "no organization numbers given"},
		{name: "not a number", input: "1,two", n: 3, wantErr: `"two" is not a number`},
		{name: "zero", input: "0", n: 3, wantErr: "0 is not between 1 and 3"},
		{name: "out of range", input: "4", n: 3, wantErr: "4 is not between 1 and 3"},
		{name: "negative", input: "-1", n: 3, wantErr: "-1 is not between 1 and 3"},
		{name: "no organizations", input: "1", n: 0, wantErr: "no organizations to select from"},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseSelection(tc.input, tc.n)
			if tc.wantErr != "" {
				assert.ErrorIs(t, err, ErrSelection)
				assert.ErrorContains(t, err, tc.wantErr)

				return
			}

			require.Nil(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

var orgs = []model.Organization{fixtures.OrgAcme, fixtures.OrgEmptyCo, fixtures.OrgGlobex}

func TestSelectOrganizations(t *testing.T) {
	var out bytes.Buffer

	p := New(strings.NewReader("3,1\n"), &out)

	selected, err := p.SelectOrganizations(orgs)
	require.Nil(t, err)

	assert.Equal(t, []model.Organization{fixtures.OrgGlobex, fixtures.OrgAcme}, selected)
	assert.Contains(t, out.String(), "  2. Empty Co (2)")
}

func TestSelectOrganizationsRetries(t *testing.T) {
	var out bytes.Buffer

	p := New(strings.NewReader("7\nx\n2"), &out)

	selected, err := p.SelectOrganizations(orgs)
	require.Nil(t, err)

	assert.Equal(t, []model.Organization{fixtures.OrgEmptyCo}, selected)
	assert.Contains(t, out.String(), "ERROR: 7 is not between 1 and 3")
	assert.Contains(t, out.String(), `ERROR: "x" is not a number`)
}

func TestSelectOrganizationsGivesUp(t *testing.T) {
	var out bytes.Buffer

	p := New(strings.NewReader("0\n0\n0\n1\n"), &out)

	_, err := p.SelectOrganizations(orgs)
	assert.ErrorIs(t, err, ErrSelection)
	assert.Equal(t, 3, strings.Count(out.String(), "ERROR:"))
}

func TestSelectOrganizationsInvalidLastLine(t *testing.T) {
	var out bytes.Buffer

	p := New(strings.NewReader("9"), &out)

	_, err := p.SelectOrganizations(orgs)
	assert.ErrorIs(t, err, ErrSelection)
	assert.NotErrorIs(t, err, ErrNoInput)
	assert.Contains(t, err.Error(), "9 is not between 1 and 3")
}

func TestSelectOrganizationsNoInput(t *testing.T) {
	p := New(strings.NewReader(""), &bytes.Buffer{})

	_, err := p.SelectOrganizations(orgs)
	assert.ErrorIs(t, err, ErrNoInput)
}
