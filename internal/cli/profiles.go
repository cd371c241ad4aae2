package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"target-platform/internal/app"
)

type profilesOptions struct {
	ProfilesFile string
	JREPrefix    string
}

func newProfilesCommand() *cobra.Command {
	opts := profilesOptions{}
	cmd := &cobra.Command{
		Use:   "profiles [name]",
		Short: "List known execution environments or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfiles(cmd, opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.ProfilesFile, "profiles-file", "", "Execution environment profiles overlay")
	cmd.Flags().StringVar(&opts.JREPrefix, "jre-prefix", "", "Prefix of synthetic runtime units")
	_ = viper.BindPFlag("profiles_file", cmd.Flags().Lookup("profiles-file"))
	_ = viper.BindPFlag("jre_prefix", cmd.Flags().Lookup("jre-prefix"))
	return cmd
}

func runProfiles(cmd *cobra.Command, opts profilesOptions, args []string) error {
	req := app.ProfilesRequest{
		ProfilesFile: resolveString(cmd, opts.ProfilesFile, "profiles_file", "profiles-file"),
		JREPrefix:    resolveString(cmd, opts.JREPrefix, "jre_prefix", "jre-prefix"),
	}
	if len(args) == 1 {
		req.Name = args[0]
	}
	result, err := newAppService().Profiles(req)
	if err != nil {
		return err
	}
	if result.Detail == nil {
		for _, profile := range result.Profiles {
			fmt.Printf("%s (%d packages)\n", profile.Name, profile.Packages)
		}
		return nil
	}
	kind := "restricted"
	if result.Detail.Auto {
		kind = "auto"
	}
	fmt.Printf("%s (%s)\n", result.Detail.Name, kind)
	for _, unit := range result.Detail.SyntheticUnits {
		fmt.Printf("synthetic unit: %s\n", unit)
	}
	for _, capability := range result.Detail.Satisfied {
		fmt.Printf("- %s\n", capability)
	}
	return nil
}
