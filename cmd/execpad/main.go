// Package main is the entry point for the execpad command line interface.
//
// The CLI runs local source files through the same sandbox the MCP server
// uses, which makes it handy for trying out language images and limits
// without speaking the protocol.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/execpad/execpad/config"
	"github.com/execpad/execpad/logger"
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "execpad",
	Short: "Execpad - sandboxed code execution",
	Long: `Execpad runs untrusted source code inside isolated, resource-bounded
containers and prints the captured output.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&verboseFlag, "verbose", false, "Log at the configured level instead of warnings only")
}

// newCLILogger builds the command logger, raising the threshold to warn
// unless --verbose is set
func newCLILogger(cfg *config.Config) (*zap.Logger, error) {
	if verboseFlag {
		return logger.NewFromConfig(cfg)
	}
	return logger.New(cfg.Logging.Mode, "warn")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
