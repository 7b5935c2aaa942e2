package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/effective-security/xlog"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var logLevel string

// rootCmd represents the base jwt-tool command
var rootCmd = &cobra.Command{
	Use:   "jwt-tool",
	Short: "Sign, verify and decode JSON Web Tokens",
	Long: `jwt-tool signs, verifies and decodes JSON Web Tokens in compact serialization.

Supported algorithms: HS256/384/512, RS256/384/512, PS256/384/512, ES256/384/512.
Key material comes from flags or from a YAML/JSON configuration file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := xlog.ParseLevel(strings.ToUpper(logLevel))
		if err != nil {
			return errors.WithStack(err)
		}
		xlog.SetGlobalLogLevel(l)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "ERROR", "log level: TRACE, DEBUG, INFO, WARNING, ERROR")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// readInput returns the first positional argument, or standard input when
// no argument is given.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", errors.WithMessage(err, "read stdin")
	}
	return strings.TrimSpace(string(raw)), nil
}

// printJSON pretty-prints a JSON document to the command's output.
func printJSON(cmd *cobra.Command, raw []byte) error {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return errors.WithMessage(err, "parse JSON")
	}
	pretty, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
	return nil
}
