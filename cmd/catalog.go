package cmd

import (
	"context"
	"log"
	"os"

	"github.com/msiegy/meraki-eol-manager/internal/app"
	"github.com/msiegy/meraki-eol-manager/internal/catalog"
	"github.com/msiegy/meraki-eol-manager/internal/model"
	"github.com/msiegy/meraki-eol-manager/internal/render"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var catalogSource string

var cmdCatalog = &cobra.Command{
	Use:   "catalog",
	Short: "Print the normalized EOL catalog",
	Run: func(cmd *cobra.Command, args []string) {
		if err := printCatalog(cmd.Context()); err != nil {
			log.Fatal(err)
		}
	},
}

func printCatalog(ctx context.Context) error {
	eolmgr, err := app.New(cfgFile, model.InventorySourceNone, logLevel())
	if err != nil {
		return err
	}

	if catalogSource != "" {
		eolmgr.Config.CatalogOptions.Source = catalogSource
	}

	eolCatalog, diagnostics, err := catalog.NewLoader(eolmgr.Config.CatalogOptions, eolmgr.Logger).Load(ctx)
	if err != nil {
		return err
	}

	render.CatalogTable(os.Stdout, eolCatalog)

	eolmgr.Logger.WithFields(logrus.Fields{
		"source":  eolCatalog.Source,
		"records": eolCatalog.Len(),
		"skipped": len(diagnostics),
	}).Info("EOL catalog listed")

	return nil
}

func init() {
	cmdCatalog.PersistentFlags().StringVar(&catalogSource, "catalog-source", "", catalogSourceUsage)

	rootCmd.AddCommand(cmdCatalog)
}
