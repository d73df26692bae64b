package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/rstedit/internal/cli"
	"codeberg.org/snonux/rstedit/internal/document"
	"codeberg.org/snonux/rstedit/internal/gui"
	"codeberg.org/snonux/rstedit/internal/history"
	"codeberg.org/snonux/rstedit/internal/processor"
	"codeberg.org/snonux/rstedit/internal/render"
	"codeberg.org/snonux/rstedit/internal/translation"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run functions
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}

	exportCmd := cli.CreateExportCommand(flags)
	exportCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runExport(args, flags)
	}
	rootCmd.AddCommand(exportCmd)

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	settings := cli.LoadSettings(flags)
	slog.SetDefault(cli.NewLogger(settings.LogLevel, os.Stderr))

	pub, err := render.NewPublisher(settings.Render)
	if err != nil {
		return fmt.Errorf("failed to set up renderer: %w", err)
	}
	if docutils, ok := pub.(*render.DocutilsPublisher); ok {
		if err := docutils.IsAvailable(); err != nil {
			slog.Warn("docutils front end not found, the preview will show errors until it is installed",
				"command", settings.Render.Command, "error", err)
		}
	}

	editorOpts := &document.Options{
		PreviewRendered: settings.PreviewRendered,
		AutoReload:      settings.AutoReload,
	}
	guiConfig := &gui.Config{WatchFiles: true}

	// A broken history database only costs the recent files menu
	if settings.HistoryEnabled {
		store, err := history.Open(settings.HistoryDB)
		if err != nil {
			slog.Warn("Recent documents are disabled", "database", settings.HistoryDB, "error", err)
		} else {
			defer store.Close()
			editorOpts.History = store
			guiConfig.Recent = store
		}
	}

	editor := document.NewEditor(translation.NewTranslator(pub), editorOpts)
	app := gui.New(editor, guiConfig)

	// From here on log records also go to the log panel
	slog.SetDefault(cli.NewLogger(settings.LogLevel, os.Stderr, app.LogWriter()))
	slog.Info("Starting rstedit", "renderer", pub.Name())

	if len(args) > 0 {
		if err := editor.Open(args[0]); err != nil {
			slog.Error("Could not open document", "error", err)
		}
	}

	app.Run()
	return nil
}

func runExport(args []string, flags *cli.Flags) error {
	settings := cli.LoadSettings(flags)
	slog.SetDefault(cli.NewLogger(settings.LogLevel, os.Stderr))

	pub, err := render.NewPublisher(settings.Render)
	if err != nil {
		return fmt.Errorf("failed to set up renderer: %w", err)
	}
	defer pub.Close()

	proc := processor.NewProcessor(pub, flags.ExportDir, flags.Force)

	exported, err := proc.ProcessFiles(args)
	if flags.BatchFile != "" {
		n, batchErr := proc.ProcessBatch(flags.BatchFile)
		exported += n
		err = errors.Join(err, batchErr)
	}

	fmt.Printf("Exported %d document(s)\n", exported)
	return err
}
