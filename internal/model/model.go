package model

const (
	AppName = "eolmgr"

	// InventorySourceDashboard reads organizations, networks and devices from the Meraki Dashboard API.
	InventorySourceDashboard = "dashboard"
	// InventorySourceNone is set by commands which do not read the device inventory.
	InventorySourceNone = "none"

	// CatalogSourceAuto fetches the published CSV summary and falls back to the HTML page.
	CatalogSourceAuto = "auto"
	CatalogSourceCSV  = "csv"
	CatalogSourceHTML = "html"

	LogLevelInfo  = 0
	LogLevelDebug = 1
	LogLevelTrace = 2
)

// CatalogSourceKinds returns the supported remote EOL catalog sources.
func CatalogSourceKinds() []string {
	return []string{CatalogSourceAuto, CatalogSourceCSV, CatalogSourceHTML}
}
