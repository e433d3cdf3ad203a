// Package commands implements the codebridge CLI commands.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/codebridge/pkg/plugin"
	"github.com/Sumatoshi-tech/codebridge/pkg/version"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	verbose    bool
	quiet      bool
}

// NewRootCommand builds the codebridge command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "codebridge",
		Short: "codebridge - derive API schemas from Java and Go sources",
		Long: `codebridge scans Java and Go sources and runs a pipeline of plugins
that turn classes, methods, fields, parameters and types into API schemas.

Commands:
  generate  Scan sources and run the plugin pipeline
  plugins   List built-in plugins`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is ./codebridge.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress output")

	rootCmd.AddCommand(newGenerateCommand(opts))
	rootCmd.AddCommand(newPluginsCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
		},
	}
}

var pluginDescriptions = map[string]string{
	plugin.NameTypeMap:     "map type signatures to schemas and field type names",
	plugin.NameNullability: "mark type schemas nullable from annotations and language defaults",
	plugin.NameModel:       "build component schemas for classes and parameter descriptions",
	plugin.NameEndpoint:    "build operations for endpoint methods",
}

func newPluginsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List built-in plugins in pass order",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			tbl := newTable()
			tbl.AppendHeader(rowOf("#", "Plugin", "Description"))

			for i, p := range plugin.Defaults(plugin.Options{}) {
				tbl.AppendRow(rowOf(i+1, p.Name(), pluginDescriptions[p.Name()]))
			}

			fmt.Fprintln(cmd.OutOrStdout(), tbl.Render())
		},
	}
}
