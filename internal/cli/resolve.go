package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"target-platform/internal/app"
)

type resolveOptions struct {
	Target               string
	ExecutionEnvironment string
	OutputDir            string
	ProfilesFile         string
	JREPrefix            string
	Parallelism          int
	MetricsTextfile      string
	SBOM                 bool
	HTTPUser             string
	HTTPAPIKey           string
	HTTPTimeoutSec       int
	HTTPRetries          int
	HTTPRetryDelayMs     int
}

func newResolveCommand() *cobra.Command {
	opts := resolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a target definition and write the resolved units",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd.Context(), cmd, opts)
		},
	}
	addResolveFlags(cmd, &opts)
	return cmd
}

func addResolveFlags(cmd *cobra.Command, opts *resolveOptions) {
	cmd.Flags().StringVar(&opts.Target, "target", "", "Target definition path")
	cmd.Flags().StringVar(&opts.ExecutionEnvironment, "execution-environment", "", "Execution environment (overrides the target definition)")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "out", "Output directory")
	cmd.Flags().StringVar(&opts.ProfilesFile, "profiles-file", "", "Execution environment profiles overlay")
	cmd.Flags().StringVar(&opts.JREPrefix, "jre-prefix", "", "Prefix of synthetic runtime units")
	cmd.Flags().IntVar(&opts.Parallelism, "parallelism", 4, "Concurrent repository loads and locations")
	cmd.Flags().StringVar(&opts.MetricsTextfile, "metrics-textfile", "", "Write prometheus metrics to this textfile")
	cmd.Flags().BoolVar(&opts.SBOM, "sbom", false, "Write an SPDX document of the resolved units")
	cmd.Flags().StringVar(&opts.HTTPUser, "http-user", "", "HTTP repository username")
	cmd.Flags().StringVar(&opts.HTTPAPIKey, "http-api-key", "", "HTTP repository API key")
	cmd.Flags().IntVar(&opts.HTTPTimeoutSec, "http-timeout", 60, "HTTP repository timeout in seconds")
	cmd.Flags().IntVar(&opts.HTTPRetries, "http-retries", 3, "HTTP repository attempts")
	cmd.Flags().IntVar(&opts.HTTPRetryDelayMs, "http-retry-delay-ms", 200, "HTTP repository base retry delay in milliseconds")

	_ = viper.BindPFlag("target", cmd.Flags().Lookup("target"))
	_ = viper.BindPFlag("execution_environment", cmd.Flags().Lookup("execution-environment"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("profiles_file", cmd.Flags().Lookup("profiles-file"))
	_ = viper.BindPFlag("jre_prefix", cmd.Flags().Lookup("jre-prefix"))
	_ = viper.BindPFlag("parallelism", cmd.Flags().Lookup("parallelism"))
	_ = viper.BindPFlag("metrics_textfile", cmd.Flags().Lookup("metrics-textfile"))
	_ = viper.BindPFlag("sbom", cmd.Flags().Lookup("sbom"))
	_ = viper.BindPFlag("http_user", cmd.Flags().Lookup("http-user"))
	_ = viper.BindPFlag("http_api_key", cmd.Flags().Lookup("http-api-key"))
	_ = viper.BindPFlag("http_timeout_sec", cmd.Flags().Lookup("http-timeout"))
	_ = viper.BindPFlag("http_retries", cmd.Flags().Lookup("http-retries"))
	_ = viper.BindPFlag("http_retry_delay_ms", cmd.Flags().Lookup("http-retry-delay-ms"))
}

func runResolve(ctx context.Context, cmd *cobra.Command, opts resolveOptions) error {
	service := newAppService()
	result, err := service.Resolve(ctx, app.ResolveRequest{
		TargetPath:           resolveString(cmd, opts.Target, "target", "target"),
		ExecutionEnvironment: resolveString(cmd, opts.ExecutionEnvironment, "execution_environment", "execution-environment"),
		OutputDir:            resolveString(cmd, opts.OutputDir, "output", "output"),
		ProfilesFile:         resolveString(cmd, opts.ProfilesFile, "profiles_file", "profiles-file"),
		JREPrefix:            resolveString(cmd, opts.JREPrefix, "jre_prefix", "jre-prefix"),
		Parallelism:          resolveInt(cmd, opts.Parallelism, "parallelism", "parallelism"),
		MetricsTextfile:      resolveString(cmd, opts.MetricsTextfile, "metrics_textfile", "metrics-textfile"),
		SBOM:                 resolveBool(cmd, opts.SBOM, "sbom", "sbom"),
		HTTPUser:             resolveString(cmd, opts.HTTPUser, "http_user", "http-user"),
		HTTPAPIKey:           resolveString(cmd, opts.HTTPAPIKey, "http_api_key", "http-api-key"),
		HTTPTimeoutSec:       resolveInt(cmd, opts.HTTPTimeoutSec, "http_timeout_sec", "http-timeout"),
		HTTPRetries:          resolveInt(cmd, opts.HTTPRetries, "http_retries", "http-retries"),
		HTTPRetryDelayMs:     resolveInt(cmd, opts.HTTPRetryDelayMs, "http_retry_delay_ms", "http-retry-delay-ms"),
	})
	for _, diagnostic := range result.Diagnostics {
		if diagnostic.Error != "" {
			fmt.Printf("location %d %s: %s: %s\n", diagnostic.Index, diagnostic.Name, diagnostic.Status, diagnostic.Error)
		}
		for _, warning := range diagnostic.Warnings {
			fmt.Printf("location %d %s: warning: %s\n", diagnostic.Index, diagnostic.Name, warning)
		}
	}
	if err != nil {
		return err
	}
	fmt.Printf("resolved: %s (%d units, resolution %s)\n", result.TargetName, result.UnitCount, result.ResolutionID)
	return nil
}
