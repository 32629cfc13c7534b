package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/equinix-labs/otel-init-go/otelinit"
	"github.com/msiegy/meraki-eol-manager/internal/app"
	"github.com/msiegy/meraki-eol-manager/internal/catalog"
	"github.com/msiegy/meraki-eol-manager/internal/dashboard"
	"github.com/msiegy/meraki-eol-manager/internal/inventory"
	"github.com/msiegy/meraki-eol-manager/internal/metrics"
	"github.com/msiegy/meraki-eol-manager/internal/model"
	"github.com/msiegy/meraki-eol-manager/internal/prompt"
	"github.com/msiegy/meraki-eol-manager/internal/render"
	"github.com/msiegy/meraki-eol-manager/internal/runner"
	"github.com/msiegy/meraki-eol-manager/internal/version"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type reportFlags struct {
	inventorySource string
	catalogSource   string
	orgs            string
	all             bool
	outputDir       string
	json            bool
	noPDF           bool
}

var (
	reportFlagSet = &reportFlags{}
)

var cmdReport = &cobra.Command{
	Use:   "report",
	Short: "Generate the EOL lifecycle report for the selected organizations",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runReport(cmd.Context()); err != nil {
			log.Fatal(err)
		}
	},
}

func runReport(ctx context.Context) error {
	eolmgr, err := app.New(cfgFile, reportFlagSet.inventorySource, logLevel())
	if err != nil {
		return err
	}

	reportFlagSet.apply(eolmgr.Config)

	version.ExportBuildInfoMetric()

	ctx, otelShutdown := otelinit.InitOpenTelemetry(ctx, model.AppName)
	defer otelShutdown(ctx)

	// Setup cancel context with cancel func.
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	// routine listens for termination signal and cancels the context
	go func() {
		<-eolmgr.TermCh
		eolmgr.Logger.Info("got TERM signal, exiting...")
		cancelFunc()
	}()

	source, err := initInventorySource(eolmgr)
	if err != nil {
		return err
	}

	var printer render.Printer
	if eolmgr.Config.ReportOptions.PDFCommand != render.PrinterNone {
		printer, err = render.NewPrinter(eolmgr.Config.ReportOptions.PDFCommand)
		if err != nil {
			eolmgr.Logger.WithError(err).Warn("PDF output disabled")
		}
	}

	r := runner.New(
		catalog.NewLoader(eolmgr.Config.CatalogOptions, eolmgr.Logger),
		source,
		render.NewWriter(eolmgr.Config.ReportOptions, printer, eolmgr.Logger),
		eolmgr.Config.Concurrency,
		eolmgr.Logger,
	)

	run, artifacts, err := r.Run(ctx, reportFlagSet.selector())
	if err != nil {
		return err
	}

	render.Table(os.Stdout, run.Reports)

	if len(run.Failures) > 0 {
		fmt.Println("\nOrganizations not reported:")
		render.FailuresTable(os.Stdout, run.Failures)
	}

	fmt.Printf("\nHTML report: %s\n", artifacts.HTML)

	if artifacts.JSON != "" {
		fmt.Printf("JSON report: %s\n", artifacts.JSON)
	}

	if artifacts.PDF != "" {
		fmt.Printf("PDF report: %s\n", artifacts.PDF)
	}

	if url := eolmgr.Config.MetricsOptions.PushgatewayURL; url != "" {
		if err := metrics.Push(ctx, url); err != nil {
			eolmgr.Logger.WithError(err).Warn("error pushing metrics")
		}
	}

	return nil
}

// apply sets the configuration values given on the command line.
func (f *reportFlags) apply(config *app.Configuration) {
	if f.catalogSource != "" {
		config.CatalogOptions.Source = f.catalogSource
	}

	if f.outputDir != "" {
		config.ReportOptions.OutputDir = f.outputDir
	}

	if f.json {
		config.ReportOptions.WriteJSON = true
	}

	if f.noPDF {
		config.ReportOptions.PDFCommand = render.PrinterNone
	}
}

// selector returns the organization selection from the flags, prompting the operator when none was given.
func (f *reportFlags) selector() runner.Selector {
	return func(orgs []model.Organization) ([]model.Organization, error) {
		switch {
		case f.all:
			return orgs, nil
		case f.orgs != "":
			indices, err := prompt.ParseSelection(f.orgs, len(orgs))
			if err != nil {
				return nil, err
			}

			return prompt.Select(orgs, indices), nil
		case !prompt.Interactive(os.Stdin):
			return nil, errors.Wrap(prompt.ErrSelection, "not a terminal, select organizations with --orgs or --all")
		default:
			return prompt.New(os.Stdin, os.Stdout).SelectOrganizations(orgs)
		}
	}
}

// initInventorySource returns the configured inventory source, the Dashboard API or a YAML file.
func initInventorySource(a *app.App) (inventory.Source, error) {
	source := a.Config.InventorySource

	switch {
	case strings.HasSuffix(source, ".yml"), strings.HasSuffix(source, ".yaml"):
		return inventory.NewYAMLSource(source)
	case source == model.InventorySourceDashboard:
		return dashboard.New(a.Config.DashboardOptions, a.Logger)
	}

	return nil, errors.Wrap(inventory.ErrInventorySource, "expected 'dashboard' or an inventory file with a .yml/.yaml extension, got: "+source)
}

// catalogSourceUsage is the --catalog-source flag help.
var catalogSourceUsage = "EOL catalog source - one of " + strings.Join(model.CatalogSourceKinds(), ", ") + " or a local .csv/.html file"

func init() {
	cmdReport.PersistentFlags().StringVar(&reportFlagSet.inventorySource, "inventory-source", "", "Inventory source - 'dashboard' or an inventory file with a .yml/.yaml extension")
	cmdReport.PersistentFlags().StringVar(&reportFlagSet.catalogSource, "catalog-source", "", catalogSourceUsage)
	cmdReport.PersistentFlags().StringVar(&reportFlagSet.orgs, "orgs", "", "Comma separated organization numbers as listed by the orgs command, skips the prompt")
	cmdReport.PersistentFlags().BoolVarP(&reportFlagSet.all, "all", "", false, "Report on all accessible organizations, skips the prompt")
	cmdReport.PersistentFlags().StringVar(&reportFlagSet.outputDir, "output-dir", "", "Directory the report files are written to")
	cmdReport.PersistentFlags().BoolVarP(&reportFlagSet.json, "json", "", false, "Write the report as JSON next to the HTML report")
	cmdReport.PersistentFlags().BoolVarP(&reportFlagSet.noPDF, "no-pdf", "", false, "Skip printing the HTML report to PDF")

	cmdReport.MarkFlagsMutuallyExclusive("orgs", "all")

	rootCmd.AddCommand(cmdReport)
}
