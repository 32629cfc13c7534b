package runner

import (
	"context"
	"time"

	"github.com/msiegy/meraki-eol-manager/internal/catalog"
	"github.com/msiegy/meraki-eol-manager/internal/correlate"
	"github.com/msiegy/meraki-eol-manager/internal/inventory"
	"github.com/msiegy/meraki-eol-manager/internal/metrics"
	"github.com/msiegy/meraki-eol-manager/internal/model"
	"github.com/msiegy/meraki-eol-manager/internal/render"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

const (
	pkgName = "internal/runner"
)

var (
	ErrNoOrganizations = errors.New("no organizations accessible")
	ErrOrganizations   = errors.New("error listing organizations")
)

// CatalogLoader loads the normalized EOL catalog.
type CatalogLoader interface {
	Load(ctx context.Context) (*model.Catalog, []catalog.Diagnostic, error)
}

// ReportWriter persists the report artifacts for a run.
type ReportWriter interface {
	Write(ctx context.Context, run *model.RunResult) (*render.Artifacts, error)
}

// Selector returns the organizations to report on out of the accessible organizations.
type Selector func(orgs []model.Organization) ([]model.Organization, error)

// A Runner runs a single report, from loading the EOL catalog through to writing the report artifacts.
type Runner struct {
	catalog     CatalogLoader
	source      inventory.Source
	writer      ReportWriter
	concurrency int
	logger      *logrus.Logger
}

func New(loader CatalogLoader, source inventory.Source, writer ReportWriter, concurrency int, logger *logrus.Logger) *Runner {
	return &Runner{
		catalog:     loader,
		source:      source,
		writer:      writer,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Run runs the report for the organizations returned by the selector.
//
// An error is returned when the catalog, the organization list or the selection is not available,
// or when the report could not be written. Organizations whose inventory could not be retrieved
// are listed as failures in the run result.
func (r *Runner) Run(ctx context.Context, selector Selector) (*model.RunResult, *render.Artifacts, error) {
	ctx, span := otel.Tracer(pkgName).Start(ctx, "Runner.Run")
	defer span.End()

	eolCatalog, orgs, err := r.prepare(ctx)
	if err != nil {
		return nil, nil, err
	}

	selected, err := selector(orgs)
	if err != nil {
		return nil, nil, err
	}

	r.logger.WithField("organizations", len(selected)).Info("collecting organization inventory")

	results := inventory.Collect(ctx, r.source, selected, r.concurrency, r.logger)

	startTS := time.Now()
	run := correlate.Build(eolCatalog, results)
	metrics.ObserveStage("correlate", startTS)

	le := r.logger.WithFields(logrus.Fields{
		"runID":    run.ID.String(),
		"reports":  len(run.Reports),
		"failures": len(run.Failures),
		"skipped":  len(run.Skipped),
	})

	if err := run.Err(); err != nil {
		le.WithError(err).Warn("organizations not reported")
	}

	artifacts, err := r.writer.Write(ctx, run)
	if err != nil {
		return run, artifacts, err
	}

	le.Info("report run complete")

	return run, artifacts, nil
}

// prepare loads the EOL catalog and lists the organizations concurrently.
func (r *Runner) prepare(ctx context.Context) (*model.Catalog, []model.Organization, error) {
	var (
		eolCatalog *model.Catalog
		orgs       []model.Organization
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer metrics.ObserveStage("catalog", time.Now())

		var err error

		eolCatalog, _, err = r.catalog.Load(gctx)

		return err
	})

	g.Go(func() error {
		defer metrics.ObserveStage("organizations", time.Now())

		var err error

		orgs, err = r.source.Organizations(gctx)
		if err != nil {
			return errors.Wrap(ErrOrganizations, err.Error())
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if len(orgs) == 0 {
		return nil, nil, ErrNoOrganizations
	}

	return eolCatalog, orgs, nil
}
