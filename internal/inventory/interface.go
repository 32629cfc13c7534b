package inventory

import (
	"context"

	"github.com/msiegy/meraki-eol-manager/internal/model"
	"github.com/pkg/errors"
)

//go:generate mockgen -source interface.go -destination=../fixtures/mock_source.go -package fixtures

var (
	ErrInventorySource = errors.New("error in inventory source")
)

// Source is the device inventory of the organizations accessible to the operator.
type Source interface {
	// Organizations returns the organizations accessible with the configured credentials.
	Organizations(ctx context.Context) ([]model.Organization, error)

	// Networks returns the networks of the organization.
	Networks(ctx context.Context, orgID string) ([]model.Network, error)

	// Devices returns every device in the organization inventory,
	// including devices not claimed into a network.
	Devices(ctx context.Context, orgID string) ([]model.Device, error)
}
