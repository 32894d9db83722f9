package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/execpad/execpad/config"
	"github.com/execpad/execpad/sandbox"
)

var languageFlag string

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Execute a source file in the sandbox",
	Long: `Execute a local source file inside an isolated container and print the
captured output. The language is inferred from the file extension unless
--language is given. Piped stdin is forwarded to the program.

Examples:
  execpad run main.py
  execpad run --language php script.txt
  echo "42" | execpad run solve.go`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&languageFlag, "language", "", "Runtime language (defaults to the file extension)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := newCLILogger(cfg)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	sourcePath := args[0]
	language, err := resolveLanguage(sourcePath)
	if err != nil {
		return err
	}

	code, err := os.ReadFile(sourcePath) //nolint:gosec // User-selected local file
	if err != nil {
		return fmt.Errorf("reading source file: %w", err)
	}

	stdin, err := readPipedStdin()
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	registry, err := sandbox.NewRegistry(log, cfg)
	if err != nil {
		return fmt.Errorf("building sandbox registry: %w", err)
	}

	executor, err := registry.Resolve(language)
	if err != nil {
		return err
	}

	result, err := executor.Execute(cmd.Context(), sandbox.ExecuteRequest{
		Code:  string(code),
		Stdin: stdin,
	})
	if err != nil {
		return err
	}

	fmt.Fprint(os.Stdout, result.Stdout)
	fmt.Fprint(os.Stderr, result.Stderr)
	return nil
}

// resolveLanguage picks the language from the flag or the file extension
func resolveLanguage(sourcePath string) (sandbox.Language, error) {
	if languageFlag != "" {
		language := sandbox.Language(languageFlag)
		if !sandbox.IsSupported(language) {
			return "", fmt.Errorf("unsupported language: %s", languageFlag)
		}
		return language, nil
	}

	ext := strings.TrimPrefix(filepath.Ext(sourcePath), ".")
	language, ok := sandbox.LanguageForExtension(ext)
	if !ok {
		return "", fmt.Errorf("cannot infer language from extension %q, use --language", ext)
	}
	return language, nil
}

// readPipedStdin returns piped input, or empty when the CLI runs interactively
func readPipedStdin() (string, error) {
	info, err := os.Stdin.Stat()
	if err != nil {
		return "", err
	}
	if info.Mode()&os.ModeCharDevice != 0 {
		return "", nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
