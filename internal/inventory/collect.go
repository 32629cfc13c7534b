package inventory

import (
	"context"
	"time"

	"github.com/msiegy/meraki-eol-manager/internal/metrics"
	"github.com/msiegy/meraki-eol-manager/internal/model"
	"github.com/msiegy/meraki-eol-manager/internal/worker"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	pkgName = "internal/inventory"
)

// Result is the outcome of collecting the inventory of one organization,
// either Partition or Err is set.
type Result struct {
	Organization model.Organization
	Partition    *Partition
	Err          error
}

// Collect fetches and normalizes the inventory of each organization,
// running up to concurrency organizations at a time.
//
// A failure to fetch an organization inventory is recorded in its Result and does not affect the other organizations.
// The results are returned in the order of the given organizations.
func Collect(ctx context.Context, src Source, orgs []model.Organization, concurrency int, logger *logrus.Logger) []Result {
	ctx, span := otel.Tracer(pkgName).Start(ctx, "Collect")
	defer span.End()

	span.SetAttributes(attribute.Int("organizations", len(orgs)))

	defer metrics.ObserveStage("collect", time.Now())

	results := make([]Result, len(orgs))
	limiter := worker.NewLimiter(concurrency)

	for idx, org := range orgs {
		results[idx].Organization = org

		// each routine writes only to its own index
		idx, org := idx, org

		err := limiter.DispatchWait(ctx, func() {
			results[idx].Partition, results[idx].Err = collectOrganization(ctx, src, org, logger)
		})

		if err != nil {
			results[idx].Err = errors.Wrap(err, "inventory collection aborted")
		}
	}

	limiter.StopWait()

	return results
}

func collectOrganization(ctx context.Context, src Source, org model.Organization, logger *logrus.Logger) (*Partition, error) {
	ctx, span := otel.Tracer(pkgName).Start(ctx, "collectOrganization")
	defer span.End()

	span.SetAttributes(attribute.String("orgID", org.ID))

	le := logger.WithFields(logrus.Fields{"organization": org.Name, "orgID": org.ID})

	networks, err := src.Networks(ctx, org.ID)
	if err != nil {
		le.WithError(err).Warn("error listing organization networks")
		return nil, errors.Wrap(err, "listing networks")
	}

	le.WithField("networks", len(networks)).Debug("networks found")

	devices, err := src.Devices(ctx, org.ID)
	if err != nil {
		le.WithError(err).Warn("error listing organization devices")
		return nil, errors.Wrap(err, "listing devices")
	}

	le.WithField("devices", len(devices)).Debug("devices found")

	partition := Normalize(org, networks, devices)

	metrics.DevicesCounter.With(prometheus.Labels{"assignment": "assigned"}).Add(float64(len(partition.Assigned)))
	metrics.DevicesCounter.With(prometheus.Labels{"assignment": "unassigned"}).Add(float64(len(partition.Unassigned)))

	le.WithFields(logrus.Fields{
		"networks":   partition.Networks,
		"devices":    partition.Devices(),
		"assigned":   len(partition.Assigned),
		"unassigned": len(partition.Unassigned),
	}).Info("organization inventory collected")

	return partition, nil
}
