package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"target-platform/internal/app"
)

type validateOptions struct {
	Target               string
	ExecutionEnvironment string
	ProfilesFile         string
	JREPrefix            string
}

func newValidateCommand() *cobra.Command {
	opts := validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a target definition without loading repositories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Target, "target", "", "Target definition path")
	cmd.Flags().StringVar(&opts.ExecutionEnvironment, "execution-environment", "", "Execution environment (overrides the target definition)")
	cmd.Flags().StringVar(&opts.ProfilesFile, "profiles-file", "", "Execution environment profiles overlay")
	cmd.Flags().StringVar(&opts.JREPrefix, "jre-prefix", "", "Prefix of synthetic runtime units")
	_ = viper.BindPFlag("target", cmd.Flags().Lookup("target"))
	_ = viper.BindPFlag("execution_environment", cmd.Flags().Lookup("execution-environment"))
	_ = viper.BindPFlag("profiles_file", cmd.Flags().Lookup("profiles-file"))
	_ = viper.BindPFlag("jre_prefix", cmd.Flags().Lookup("jre-prefix"))
	return cmd
}

func runValidate(ctx context.Context, cmd *cobra.Command, opts validateOptions) error {
	service := newAppService()
	result, err := service.Validate(ctx, app.ValidateRequest{
		TargetPath:           resolveString(cmd, opts.Target, "target", "target"),
		ExecutionEnvironment: resolveString(cmd, opts.ExecutionEnvironment, "execution_environment", "execution-environment"),
		ProfilesFile:         resolveString(cmd, opts.ProfilesFile, "profiles_file", "profiles-file"),
		JREPrefix:            resolveString(cmd, opts.JREPrefix, "jre_prefix", "jre-prefix"),
	})
	if err != nil {
		return err
	}
	environment := result.ExecutionEnvironment
	if environment == "" {
		environment = "none"
	}
	fmt.Printf("validated: %s (%d locations, execution environment %s)\n", result.TargetName, result.Locations, environment)
	return nil
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func resolveInt(cmd *cobra.Command, value int, key string, flagName string) int {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetInt(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
