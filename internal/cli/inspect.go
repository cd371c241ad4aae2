package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"target-platform/internal/app"
)

type inspectOptions struct {
	OutputDir string
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect resolved outputs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.OutputDir, "output", "out", "Output directory")
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	return cmd
}

func runInspect(cmd *cobra.Command, opts inspectOptions) error {
	service := newAppService()
	result, err := service.Inspect(app.InspectRequest{
		OutputDir: resolveString(cmd, opts.OutputDir, "output", "output"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("resolution: %s (%s)\n", result.ResolutionID, result.ResolvedAt)
	fmt.Printf("target: %s\n", result.TargetName)
	if result.ExecutionEnvironment != "" {
		fmt.Printf("execution environment: %s\n", result.ExecutionEnvironment)
	}
	fmt.Printf("units: %d (units.lock entries: %d)\n", result.UnitCount, result.LockCount)
	if len(result.SyntheticUnits) > 0 {
		fmt.Printf("synthetic: %s\n", strings.Join(result.SyntheticUnits, ", "))
	}
	fmt.Println("locations:")
	for _, loc := range result.Locations {
		fmt.Printf("- %d %s (%s): %s, %d units, %dms\n", loc.Index, loc.Name, loc.Mode, loc.Status, loc.UnitCount, loc.DurationMs)
		for _, warning := range loc.Warnings {
			fmt.Printf("  warning: %s\n", warning)
		}
		if loc.Error != "" {
			fmt.Printf("  error: %s\n", loc.Error)
		}
	}
	return nil
}
