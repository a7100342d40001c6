package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/thirteenf/internal/cli"
	"github.com/Veraticus/thirteenf/internal/common"
	"github.com/Veraticus/thirteenf/internal/pipeline"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = newRootCmd()
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thirteenf",
		Short: "Convert the SEC Official List of Section 13(f) Securities into records",
		Long: `thirteenf reads the SEC "Official List of Section 13(f) Securities" PDF,
rebuilds its fixed-width text layout, keeps the lines that look like
security records and writes them to a text file, an xlsx sheet and a
quoted CSV export. Rejected lines go to a separate file for review.`,
		PersistentPreRunE: initConfig,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/thirteenf/config.yaml)")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", cmd.PersistentFlags().Lookup("log-format"))

	cmd.AddCommand(convertCmd())
	cmd.AddCommand(recordsCmd())
	cmd.AddCommand(fieldsCmd())
	cmd.AddCommand(publishCmd())
	cmd.AddCommand(reviewCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

func main() {
	// convert installs its own interrupt handler; other commands stop on
	// the default signal behavior.
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// reportError reports a failed command once. Pipeline failures are logged
// with their stage and location; everything else is printed.
func reportError(w io.Writer, err error) {
	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		fields := common.Fields{"stage": string(stageErr.Stage)}
		if stageErr.Page > 0 {
			fields["page"] = stageErr.Page
		}
		if stageErr.Path != "" {
			fields["path"] = stageErr.Path
		}
		common.LogError(stageErr.Err, "Conversion failed", fields)
		return
	}

	var userErr *common.UserError
	if errors.As(err, &userErr) {
		_, _ = fmt.Fprintln(w, cli.FormatError(userErr.UserMessage))
		if userErr.Err != nil {
			common.LogDebug("Underlying error", common.Fields{"error": userErr.Err.Error()})
		}
		return
	}

	_, _ = fmt.Fprintln(w, cli.FormatError(err.Error()))
}

func initConfig(_ *cobra.Command, _ []string) error {
	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		viper.AddConfigPath(fmt.Sprintf("%s/.config/thirteenf", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	// Set up logging
	if err := setupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func setupLogging() error {
	return common.SetupLogger(viper.GetString("logging.level"), viper.GetString("logging.format"))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "thirteenf %s\n", version)
		},
	}
}
