package model

import "fmt"

// UnassignedNetworkName is set as the network name of devices not bound to a known network.
const UnassignedNetworkName = "Unassigned"

// Organization is a Dashboard organization.
type Organization struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Key returns the label identifying the organization in reports.
func (o Organization) Key() string {
	return fmt.Sprintf("%s - %s", o.Name, o.ID)
}

// Network is a Dashboard network within an organization.
type Network struct {
	ID             string   `json:"id" yaml:"id"`
	OrganizationID string   `json:"organizationId" yaml:"organizationId"`
	Name           string   `json:"name" yaml:"name"`
	ProductTypes   []string `json:"productTypes,omitempty" yaml:"productTypes,omitempty"`
}

// Device is a Dashboard organization device as listed by the API.
//
// NetworkID is empty when the device is in the organization inventory but not claimed into a network.
type Device struct {
	Name        string `json:"name" yaml:"name"`
	Serial      string `json:"serial" yaml:"serial"`
	Mac         string `json:"mac" yaml:"mac"`
	Model       string `json:"model" yaml:"model"`
	NetworkID   string `json:"networkId" yaml:"networkId"`
	ProductType string `json:"productType" yaml:"productType"`
	Firmware    string `json:"firmware" yaml:"firmware"`
}

// InventoryRecord is a device annotated with its organization and resolved network name.
//
// nolint:govet // fieldalignment struct is easier to read in the current format
type InventoryRecord struct {
	OrganizationID   string `json:"organization_id"`
	OrganizationName string `json:"organization_name"`

	NetworkID   string `json:"network_id,omitempty"`
	NetworkName string `json:"network_name"`

	Model       string `json:"model"`
	Serial      string `json:"serial"`
	Name        string `json:"name,omitempty"`
	Mac         string `json:"mac,omitempty"`
	ProductType string `json:"product_type,omitempty"`
	Firmware    string `json:"firmware,omitempty"`
}

// Assigned returns true when the device is bound to a network.
func (r *InventoryRecord) Assigned() bool {
	return r.NetworkID != ""
}
