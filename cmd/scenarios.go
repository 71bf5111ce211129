package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/i4mm/linesim/sim/workload"
)

// scenariosCmd lists the built-in presets
var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List built-in scenario presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		for _, name := range workload.PresetNames() {
			spec, err := workload.Preset(name)
			if err != nil {
				return err
			}
			headerColor.Fprintf(w, "%s\n", spec.Name)
			fmt.Fprintf(w, "  %s\n", spec.Description)
			fmt.Fprintf(w, "  mean interarrival %.1f min\n", 1/spec.Rate())
			for _, st := range spec.Stages {
				fmt.Fprintf(w, "    %-12s MTTF %6.0f  MTTR %4.0f  processing %s %v\n",
					st.Machine, st.MTTF, st.MTTR, st.Processing.Type, st.Processing.Params)
			}
		}
		return nil
	},
}
