package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// sourcesCmd represents the sources command
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the available portals and whether each is enabled",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		enabled := make(map[string]bool, len(cfg.Sources.Enabled))
		for _, name := range cfg.Sources.Enabled {
			enabled[name] = true
		}

		for _, s := range []struct{ name, desc string }{
			{"etenders", "eTenders.gov.za public opportunity list"},
			{"easytenders", "easytenders.co.za keyword search"},
			{"transnet", "Transnet eTenders advertised list"},
		} {
			state := "disabled"
			if enabled[s.name] {
				state = "enabled"
			}
			fmt.Printf("%-13s %-9s %s\n", s.name, state, s.desc)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
