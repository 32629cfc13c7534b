package inventory

import (
	"strings"

	"github.com/msiegy/meraki-eol-manager/internal/model"
)

// Partition is the inventory of an organization split by network assignment.
type Partition struct {
	Organization model.Organization

	// Assigned holds the devices bound to a network.
	Assigned []model.InventoryRecord
	// Unassigned holds the devices in the organization inventory without a network.
	Unassigned []model.InventoryRecord

	// Networks is the count of networks listed for the organization.
	Networks int
}

// Devices returns the count of devices in the partition.
func (p *Partition) Devices() int {
	return len(p.Assigned) + len(p.Unassigned)
}

// Normalize annotates each device with its organization and network name and partitions them by network assignment.
//
// Devices referencing a network not in the given list keep their network ID and are named Unassigned,
// devices without a network ID end up in the Unassigned partition. Device order is retained in each partition.
func Normalize(org model.Organization, networks []model.Network, devices []model.Device) *Partition {
	names := make(map[string]string, len(networks))
	for _, n := range networks {
		names[n.ID] = n.Name
	}

	partition := &Partition{
		Organization: org,
		Assigned:     []model.InventoryRecord{},
		Unassigned:   []model.InventoryRecord{},
		Networks:     len(networks),
	}

	for _, d := range devices {
		record := model.InventoryRecord{
			OrganizationID:   org.ID,
			OrganizationName: org.Name,
			NetworkID:        strings.TrimSpace(d.NetworkID),
			NetworkName:      model.UnassignedNetworkName,
			Model:            strings.TrimSpace(d.Model),
			Serial:           d.Serial,
			Name:             d.Name,
			Mac:              d.Mac,
			ProductType:      d.ProductType,
			Firmware:         d.Firmware,
		}

		if !record.Assigned() {
			partition.Unassigned = append(partition.Unassigned, record)
			continue
		}

		if name, exists := names[record.NetworkID]; exists {
			record.NetworkName = name
		}

		partition.Assigned = append(partition.Assigned, record)
	}

	return partition
}
