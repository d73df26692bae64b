package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/rstedit/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rstedit [file]",
		Short: "reStructuredText editor with live HTML preview",
		Long: `rstedit edits reStructuredText documents and shows the HTML that
docutils renders from them while you type.

Rendering is done by an external docutils front end (rst2html by default).
Rendered output is cached by content, so undoing back to earlier text is
instant.

Examples:
  rstedit                          # Start with an untitled document
  rstedit README.rst               # Open a document
  rstedit --engine markdown x.md   # Preview Markdown instead`,
		Args:          cobra.MaximumNArgs(1),
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.rstedit.yaml)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")

	// Rendering flags, shared with the export command
	cmd.PersistentFlags().StringVarP(&flags.Engine, "engine", "e", flags.Engine, "Render engine: docutils, markdown or source")
	cmd.PersistentFlags().StringVar(&flags.RstCommand, "rst-command", flags.RstCommand, "docutils front end used by the docutils engine")

	// Editor flags
	cmd.Flags().BoolVar(&flags.Preview, "preview", flags.Preview, "Start with the rendered preview (false shows the HTML source)")
	cmd.Flags().BoolVar(&flags.AutoReload, "auto-reload", flags.AutoReload, "Reload unmodified documents when they change on disk")

	// History flags
	cmd.Flags().BoolVar(&flags.NoHistory, "no-history", false, "Do not remember recently used documents")
	cmd.Flags().StringVar(&flags.HistoryDB, "history-db", "", "Recent documents database (default is ~/.local/state/rstedit/history.db)")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("render.engine", cmd.PersistentFlags().Lookup("engine"))
	viper.BindPFlag("render.command", cmd.PersistentFlags().Lookup("rst-command"))
	viper.BindPFlag("editor.preview", cmd.Flags().Lookup("preview"))
	viper.BindPFlag("editor.auto_reload", cmd.Flags().Lookup("auto-reload"))
	viper.BindPFlag("history.database", cmd.Flags().Lookup("history-db"))
}

// CreateExportCommand creates the export subcommand, which renders
// documents to HTML files without opening a window
func CreateExportCommand(flags *Flags) *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export [files...]",
		Short: "Render documents to HTML without the editor",
		Long: `Render reStructuredText documents to HTML files.

Each document is written next to its source with an .html extension, or
into --output-dir. With --batch, documents are read from a list file with
one "source.rst" or "source.rst = target.html" entry per line.

Examples:
  rstedit export README.rst
  rstedit export -o public docs/*.rst
  rstedit export --batch site.txt --force`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && flags.BatchFile == "" {
				return fmt.Errorf("nothing to export: name documents or use --batch")
			}
			return nil
		},
		SilenceUsage: true,
	}

	exportCmd.Flags().StringVarP(&flags.ExportDir, "output-dir", "o", "", "Directory for the HTML files (default is next to each source)")
	exportCmd.Flags().StringVar(&flags.BatchFile, "batch", "", "List file naming the documents to export")
	exportCmd.Flags().BoolVar(&flags.Force, "force", false, "Overwrite existing HTML files")

	return exportCmd
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	setDefaults()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".rstedit" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".rstedit")
	}

	// Environment variables
	viper.SetEnvPrefix("RSTEDIT")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
