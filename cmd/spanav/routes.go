package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackielii/spanav"
)

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route table in matching order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			table, err := buildTable(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), spanav.PrintRoutes(table))
			return nil
		},
	}
}
