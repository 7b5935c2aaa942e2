package main

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wisperia/jwt"
)

var signFlags = struct {
	algorithmFlags
	kid   string
	noTyp bool
}{}

// signCmd represents the sign command
var signCmd = &cobra.Command{
	Use:   "sign [claims-json]",
	Short: "Sign a claims document",
	Long: `Sign a JSON claims document and print the compact token.

The claims are read from the first argument, or from standard input when no
argument is given.

Example:
  jwt-tool sign --alg HS256 --secret testkey '{"sub":"1234567890"}'
  echo '{"sub":"1234567890"}' | jwt-tool sign --config signer.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		claims, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		if !json.Valid([]byte(claims)) {
			return errors.New("claims are not valid JSON")
		}

		alg, cfg, err := signFlags.algorithm()
		if err != nil {
			return err
		}

		var opts []jwt.SignOption
		kid := signFlags.kid
		if kid == "" {
			kid = cfg.KeyID
		}
		if kid != "" {
			opts = append(opts, jwt.WithKeyID(kid))
		}
		if signFlags.noTyp {
			opts = append(opts, jwt.WithoutType())
		}

		token, err := jwt.Sign(alg, json.RawMessage(claims), opts...)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signCmd)
	signFlags.register(signCmd)
	signCmd.Flags().StringVar(&signFlags.kid, "kid", "", `value for the "kid" header`)
	signCmd.Flags().BoolVar(&signFlags.noTyp, "no-typ", false, `omit the "typ" header`)
}
