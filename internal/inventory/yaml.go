package inventory

import (
	"context"
	"os"

	"github.com/msiegy/meraki-eol-manager/internal/model"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type yamlOrganization struct {
	model.Organization `yaml:",inline"`

	// Error is returned for the networks and devices of the organization, for rehearsing failures.
	Error    string          `yaml:"error,omitempty"`
	Networks []model.Network `yaml:"networks"`
	Devices  []model.Device  `yaml:"devices"`
}

type yamlInventory struct {
	Organizations []yamlOrganization `yaml:"organizations"`
}

// YAMLSource is an inventory Source read from a YAML file, for offline runs.
type YAMLSource struct {
	file string
	orgs []yamlOrganization
}

// NewYAMLSource returns a YAMLSource with the inventory loaded from the given file.
func NewYAMLSource(file string) (*YAMLSource, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(ErrInventorySource, err.Error())
	}

	inv := &yamlInventory{}
	if err := yaml.Unmarshal(b, inv); err != nil {
		return nil, errors.Wrap(ErrInventorySource, file+": "+err.Error())
	}

	for i := range inv.Organizations {
		if inv.Organizations[i].ID == "" {
			return nil, errors.Wrap(ErrInventorySource, file+": organization without an id")
		}

		for j := range inv.Organizations[i].Networks {
			if inv.Organizations[i].Networks[j].OrganizationID == "" {
				inv.Organizations[i].Networks[j].OrganizationID = inv.Organizations[i].ID
			}
		}
	}

	return &YAMLSource{file: file, orgs: inv.Organizations}, nil
}

// Organizations returns the organizations in the file order.
func (y *YAMLSource) Organizations(_ context.Context) ([]model.Organization, error) {
	orgs := make([]model.Organization, 0, len(y.orgs))
	for _, o := range y.orgs {
		orgs = append(orgs, o.Organization)
	}

	return orgs, nil
}

func (y *YAMLSource) Networks(_ context.Context, orgID string) ([]model.Network, error) {
	org, err := y.organization(orgID)
	if err != nil {
		return nil, err
	}

	return append([]model.Network{}, org.Networks...), nil
}

func (y *YAMLSource) Devices(_ context.Context, orgID string) ([]model.Device, error) {
	org, err := y.organization(orgID)
	if err != nil {
		return nil, err
	}

	return append([]model.Device{}, org.Devices...), nil
}

func (y *YAMLSource) organization(orgID string) (*yamlOrganization, error) {
	for i := range y.orgs {
		if y.orgs[i].ID != orgID {
			continue
		}

		if y.orgs[i].Error != "" {
			return nil, errors.Wrap(ErrInventorySource, y.orgs[i].Error)
		}

		return &y.orgs[i], nil
	}

	return nil, errors.Wrap(ErrInventorySource, "unknown organization: "+orgID)
}
