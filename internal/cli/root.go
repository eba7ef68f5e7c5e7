// Package cli wires the analysis and interchange pipelines to the command
// line.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sysmlkit/sysmlkit/internal/pipeline"
	"github.com/sysmlkit/sysmlkit/internal/report"
)

var (
	flagVerbose         bool
	flagNoStdlib        bool
	flagStdlibPath      string
	flagExport          string
	flagExportAST       bool
	flagJSON            bool
	flagImport          bool
	flagImportWorkspace bool
	flagDecompile       bool
	flagSelfContained   bool
	flagOutput          string
)

// errRunFailed signals a failing exit code for conditions already reported
// on the error stream (error diagnostics, validation issues).
var errRunFailed = errors.New("run failed")

var rootCmd = &cobra.Command{
	Use:           "sysmlkit [flags] INPUT",
	Short:         "SysML v2 parser and semantic analyzer",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose output")
	rootCmd.Flags().BoolVar(&flagNoStdlib, "no-stdlib", false, "skip loading standard library")
	rootCmd.Flags().StringVar(&flagStdlibPath, "stdlib-path", "", "path to custom standard library (default: sysml.library)")
	rootCmd.Flags().StringVar(&flagExport, "export", "", "export model to interchange format (xmi, kpar, jsonld, yaml)")
	rootCmd.Flags().BoolVar(&flagExportAST, "export-ast", false, "export symbol AST for all files")
	rootCmd.Flags().BoolVar(&flagJSON, "json", false, "export analysis results as JSON")
	rootCmd.Flags().BoolVar(&flagImport, "import", false, "import and validate an interchange file")
	rootCmd.Flags().BoolVar(&flagImportWorkspace, "import-workspace", false, "import interchange file into workspace (preserves element IDs)")
	rootCmd.Flags().BoolVar(&flagDecompile, "decompile", false, "decompile interchange file to source text + metadata")
	rootCmd.Flags().BoolVar(&flagSelfContained, "self-contained", false, "include standard library in export")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write output to file instead of stdout")
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		return 1
	}
	return 0
}

func options() pipeline.Options {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	return pipeline.Options{
		Verbose:       flagVerbose,
		LoadStdlib:    !flagNoStdlib,
		StdlibPath:    flagStdlibPath,
		SelfContained: flagSelfContained,
		Logger:        slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
		Status:        os.Stderr,
	}
}

func run(cmd *cobra.Command, args []string) error {
	input := args[0]
	ctx := cmd.Context()
	opts := options()
	opts.Logger.Debug("analyzing", "input", input)

	switch {
	case flagDecompile:
		return runDecompile(cmd, input)
	case flagImport:
		return runImport(cmd, input)
	case flagImportWorkspace:
		return runImportWorkspace(cmd, input, opts)
	case flagExport != "":
		data, err := pipeline.Export(ctx, input, flagExport, opts)
		if err != nil {
			return err
		}
		return writeOutput(data)
	case flagExportAST:
		data, err := pipeline.ExportAST(ctx, input, opts)
		if err != nil {
			return err
		}
		return writeOutput(data)
	default:
		return runAnalyze(cmd, input, opts)
	}
}

func runAnalyze(cmd *cobra.Command, input string, opts pipeline.Options) error {
	result, err := pipeline.Analyze(cmd.Context(), input, opts)
	if err != nil {
		return err
	}
	if flagJSON {
		data, err := result.JSON()
		if err != nil {
			return err
		}
		if err := writeOutput(data); err != nil {
			return err
		}
		if result.ErrorCount > 0 {
			return errRunFailed
		}
		return nil
	}
	for _, diag := range result.Diagnostics {
		fmt.Fprintln(os.Stderr, report.Render(diag))
	}
	if result.ErrorCount > 0 {
		fmt.Fprintln(os.Stderr, result.Summary())
		return errRunFailed
	}
	fmt.Println(result.Summary())
	return nil
}

func runImport(cmd *cobra.Command, input string) error {
	result, err := pipeline.Import(cmd.Context(), input)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Imported %d elements, %d relationships\n",
		result.ElementCount, result.RelationshipCount)
	if len(result.Issues) > 0 {
		fmt.Fprintf(os.Stderr, "  %d validation issues:\n", len(result.Issues))
		for _, issue := range result.Issues {
			fmt.Fprintf(os.Stderr, "    %s\n", issue)
		}
		return errRunFailed
	}
	return nil
}

func runImportWorkspace(cmd *cobra.Command, input string, opts pipeline.Options) error {
	c, result, err := pipeline.ImportWorkspace(cmd.Context(), input, opts)
	if err != nil {
		return err
	}
	_, symbolCount := c.Summary()

	// when exporting, human-readable status goes to stderr so stdout carries
	// only the exported document
	status := os.Stdout
	if flagExport != "" {
		status = os.Stderr
	}
	fmt.Fprintf(status, "✓ Imported %d elements into workspace\n", result.ElementCount)
	fmt.Fprintf(status, "  Total symbols in workspace: %d\n", symbolCount)
	fmt.Fprintf(status, "  Element IDs preserved: ✓\n")

	if flagExport == "" {
		return nil
	}
	data, err := pipeline.ExportFrom(c, flagExport, opts)
	if err != nil {
		return err
	}
	return writeOutput(data)
}

func runDecompile(cmd *cobra.Command, input string) error {
	result, err := pipeline.Decompile(cmd.Context(), input)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Decompiled %d elements from %s\n", result.ElementCount, input)

	sourcePath := flagOutput
	if sourcePath == "" {
		sourcePath = replaceExt(input, ".sysml")
	}
	if err := os.WriteFile(sourcePath, []byte(result.Text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", sourcePath, err)
	}
	fmt.Printf("  Wrote: %s\n", sourcePath)

	metadataPath := replaceExt(sourcePath, ".metadata.json")
	metadataData, err := result.Metadata.JSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(metadataPath, metadataData, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", metadataPath, err)
	}
	fmt.Printf("  Wrote: %s\n", metadataPath)
	return nil
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func writeOutput(data []byte) error {
	if flagExport == "kpar" && flagOutput == "" {
		return errors.New("kpar export requires --output FILE")
	}
	if flagOutput == "" {
		_, err := os.Stdout.Write(data)
		if err == nil && len(data) > 0 && data[len(data)-1] != '\n' {
			fmt.Println()
		}
		return err
	}
	if err := os.WriteFile(flagOutput, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
