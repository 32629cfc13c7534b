package fixtures

import (
	"github.com/jinzhu/copier"
	"github.com/msiegy/meraki-eol-manager/internal/model"
)

var (
	OrgAcme    = model.Organization{ID: "1", Name: "Acme"}
	OrgEmptyCo = model.Organization{ID: "2", Name: "Empty Co"}
	OrgGlobex  = model.Organization{ID: "3", Name: "Globex"}

	AcmeNetworks = []model.Network{
		{ID: "N_1", OrganizationID: "1", Name: "HQ", ProductTypes: []string{"appliance", "switch", "wireless"}},
		{ID: "N_2", OrganizationID: "1", Name: "Branch", ProductTypes: []string{"appliance"}},
	}

	AcmeDevices = []model.Device{
		{Name: "hq-mx", Serial: "Q2AA-0001-0001", Mac: "e0:55:3d:00:00:01", Model: "MX64", NetworkID: "N_1", ProductType: "appliance"},
		{Name: "branch-mx", Serial: "Q2AA-0001-0002", Mac: "e0:55:3d:00:00:02", Model: "MX64", NetworkID: "N_2", ProductType: "appliance"},
		{Name: "hq-sw", Serial: "Q2BB-0001-0001", Mac: "e0:55:3d:00:00:03", Model: "MS220-8P", NetworkID: "N_1", ProductType: "switch"},
		{Name: "hq-ap", Serial: "Q2CC-0001-0001", Mac: "e0:55:3d:00:00:04", Model: "MR42", NetworkID: "N_1", ProductType: "wireless"},
		// in the organization inventory, not claimed into a network.
		{Serial: "Q2CC-0001-0002", Mac: "e0:55:3d:00:00:05", Model: "MR33", ProductType: "wireless"},
	}
)

// NewAcmeNetworks returns a copy of the Acme network fixtures which the caller may modify.
func NewAcmeNetworks() []model.Network {
	dst := []model.Network{}

	if err := copier.CopyWithOption(&dst, &AcmeNetworks, copier.Option{DeepCopy: true}); err != nil {
		panic(err)
	}

	return dst
}

// NewAcmeDevices returns a copy of the Acme device fixtures which the caller may modify.
func NewAcmeDevices() []model.Device {
	dst := []model.Device{}

	if err := copier.CopyWithOption(&dst, &AcmeDevices, copier.Option{DeepCopy: true}); err != nil {
		panic(err)
	}

	return dst
}
