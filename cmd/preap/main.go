package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"preap/internal/app"
	"preap/internal/tui"
)

var (
	flagConfig           string
	flagIgnoreThreads    bool
	flagIgnoreOtherUsers bool
	flagIgnorePaths      []string
)

var rootCmd = &cobra.Command{
	Use:   "preap [query]",
	Short: "preap: interactive process finder and killer",
	Long: `preap enumerates the host's processes into a searchable view and lets you
terminate a process or its whole family.

Query grammar: plain text fuzzy-matches process names; '/' matches paths,
'-' matches arguments (substring), ':' matches listening ports, '~' matches
everywhere, '!pid' looks up one pid and '@pid' selects a process family.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, err := controller(cmd)
		if err != nil {
			return err
		}
		query := ""
		if len(args) > 0 {
			query = args[0]
		}
		if err := tui.Run(ctrl, query); err != nil {
			return fmt.Errorf("tui exited with error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to the config file")
	rootCmd.PersistentFlags().BoolVar(&flagIgnoreThreads, "ignore-threads", true, "Hide thread records (Linux lists threads as processes)")
	rootCmd.PersistentFlags().BoolVar(&flagIgnoreOtherUsers, "ignore-other-users", true, "Hide other users' processes")
	rootCmd.PersistentFlags().StringSliceVar(&flagIgnorePaths, "ignore-path", nil, "Hide processes whose executable path matches this regex (repeatable)")
}

// controller builds the shared facade, letting explicitly set flags win
// over the config file.
func controller(cmd *cobra.Command) (*app.App, error) {
	opts := app.Options{
		ConfigPath:  flagConfig,
		IgnorePaths: flagIgnorePaths,
	}
	if cmd.Flags().Changed("ignore-threads") {
		opts.IgnoreThreads = &flagIgnoreThreads
	}
	if cmd.Flags().Changed("ignore-other-users") {
		opts.IgnoreOtherUsers = &flagIgnoreOtherUsers
	}
	return app.New(opts)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
