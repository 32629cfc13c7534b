package cmd

import (
	"context"
	"log"
	"os"

	"github.com/msiegy/meraki-eol-manager/internal/app"
	"github.com/msiegy/meraki-eol-manager/internal/render"
	"github.com/spf13/cobra"
)

var orgsInventorySource string

var cmdOrgs = &cobra.Command{
	Use:   "orgs",
	Short: "List the accessible organizations with the numbers used to select them",
	Run: func(cmd *cobra.Command, args []string) {
		if err := listOrganizations(cmd.Context()); err != nil {
			log.Fatal(err)
		}
	},
}

func listOrganizations(ctx context.Context) error {
	eolmgr, err := app.New(cfgFile, orgsInventorySource, logLevel())
	if err != nil {
		return err
	}

	source, err := initInventorySource(eolmgr)
	if err != nil {
		return err
	}

	orgs, err := source.Organizations(ctx)
	if err != nil {
		return err
	}

	render.OrganizationsTable(os.Stdout, orgs)

	return nil
}

func init() {
	cmdOrgs.PersistentFlags().StringVar(&orgsInventorySource, "inventory-source", "", "Inventory source - 'dashboard' or an inventory file with a .yml/.yaml extension")

	rootCmd.AddCommand(cmdOrgs)
}
