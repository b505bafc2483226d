package main

import (
	"fmt"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/nikosa/p2pflow/pkg/platform"
)

var dumpDescriptors bool

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List the supported platforms",
	RunE: func(cmd *cobra.Command, _ []string) error {
		registry := platform.NewRegistry()
		if overrides, err := cmd.Flags().GetString("descriptor_overrides"); err == nil && overrides != "" {
			if err := registry.LoadOverrides(overrides); err != nil {
				return err
			}
		}

		for _, name := range registry.Names() {
			desc, err := registry.Get(name)
			if err != nil {
				return err
			}
			if dumpDescriptors {
				pp.Println(desc)
				continue
			}
			fmt.Printf("%-12s %s (%s, headless: %v)\n",
				name, desc.StatementURL, desc.Format, desc.SupportsHeadless)
		}
		return nil
	},
}

func init() {
	platformsCmd.Flags().BoolVar(&dumpDescriptors, "dump", false, "dump full descriptors")
	platformsCmd.Flags().String("descriptor_overrides", "", "YAML file with platform descriptor overrides")
}
