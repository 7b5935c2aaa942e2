package main

import (
	"github.com/spf13/cobra"

	"github.com/wisperia/jwt"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode [token]",
	Short: "Decode a token without verifying it",
	Long: `Decode a compact token and print its header and claims.

No signature check happens; use the verify command when authenticity
matters.

Example:
  jwt-tool decode eyJ0eXAi...`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		tok, err := jwt.Decode(token)
		if err != nil {
			return err
		}

		if err := printJSON(cmd, tok.Header); err != nil {
			return err
		}
		return printJSON(cmd, tok.Payload)
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}
