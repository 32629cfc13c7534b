package fixtures

import (
	"github.com/msiegy/meraki-eol-manager/internal/model"
)

// catalogRecords returns a new set of the catalog fixture records.
func catalogRecords() []model.EOLRecord {
	return []model.EOLRecord{
		{
			Product:          "MX64",
			AnnouncementDate: model.ParseDate("Jan 26, 2022"),
			EndOfSaleDate:    model.ParseDate("Jul 26, 2022"),
			EndOfSupportDate: model.ParseDate("Jul 26, 2027"),
			UpgradePath: []model.UpgradeLink{
				{Label: "MX64 EoS Notice", URL: "https://documentation.meraki.com/@api/deki/files/1001/MX64_EOS.pdf"},
			},
		},
		{
			Product:          "MS220-8P",
			AnnouncementDate: model.ParseDate("Jan 29, 2016"),
			EndOfSaleDate:    model.ParseDate("Jul 29, 2016"),
			EndOfSupportDate: model.ParseDate("Jul 29, 2023"),
			UpgradePath: []model.UpgradeLink{
				{Label: "EoL Notice", URL: "https://documentation.meraki.com/MS220_EOS.pdf"},
				{Label: "MS120-8 upgrade", URL: "https://meraki.cisco.com/products/switches/ms120-8"},
			},
		},
		{
			Product:          "MR33",
			AnnouncementDate: model.ParseDate("Jan 6, 2021"),
			EndOfSaleDate:    model.ParseDate("Jul 14, 2022"),
			EndOfSupportDate: model.ParseDate("TBD"),
			UpgradePath:      []model.UpgradeLink{},
		},
		{
			Product:          "MX65",
			AnnouncementDate: model.ParseDate("Jan 26, 2022"),
			EndOfSaleDate:    model.ParseDate("Jul 26, 2022"),
			EndOfSupportDate: model.ParseDate("Jul 26, 2027"),
			UpgradePath:      []model.UpgradeLink{},
		},
	}
}

// NewCatalog returns a copy of the catalog fixture which the caller may modify.
func NewCatalog() *model.Catalog {
	return &model.Catalog{Source: "fixture", Records: catalogRecords()}
}
