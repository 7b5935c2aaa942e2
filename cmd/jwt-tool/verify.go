package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wisperia/jwt"
)

var verifyFlags = struct {
	algorithmFlags
}{}

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify [token]",
	Short: "Verify a token and print its claims",
	Long: `Verify a compact token's signature and print the claims on success.

The token is read from the first argument, or from standard input when no
argument is given. The exit status is non-zero when the token does not
verify.

Example:
  jwt-tool verify --alg HS256 --secret testkey eyJ0eXAi...
  jwt-tool verify --config verifier.yaml < token.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		alg, _, err := verifyFlags.algorithm()
		if err != nil {
			return err
		}

		if !jwt.Verify(token, alg) {
			return errors.New("token is not valid")
		}

		tok, err := jwt.Decode(token)
		if err != nil {
			return err
		}
		return printJSON(cmd, tok.Payload)
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyFlags.register(verifyCmd)
}
