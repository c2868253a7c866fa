package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"eojs/internal/token"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development JWT for a role",
	Long: `Mint an HS256 token accepted by the generated passport-jwt strategy. The
secret is taken from --secret or the JWT_SECRET environment variable. The
token is printed alone on stdout.`,
	Example: `  JWT_SECRET=change-me eojs token --role editor --subject 42`,
	Args:    cobra.NoArgs,
	RunE:    runToken,
}

func init() {
	tokenCmd.Flags().String("role", "", "role claim (required)")
	tokenCmd.Flags().String("subject", "", "subject claim (defaults to the role)")
	tokenCmd.Flags().Duration("ttl", token.DefaultTTL, "token lifetime")
	tokenCmd.Flags().String("secret", "", "signing secret (defaults to $JWT_SECRET)")
	_ = tokenCmd.MarkFlagRequired("role")
}

func runToken(cmd *cobra.Command, args []string) error {
	role, _ := cmd.Flags().GetString("role")
	subject, _ := cmd.Flags().GetString("subject")
	ttl, _ := cmd.Flags().GetDuration("ttl")
	secret, _ := cmd.Flags().GetString("secret")
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}

	signer, err := token.NewSigner(secret)
	if err != nil {
		return err
	}
	warnUnknownRole(cmd, role)
	return mintToken(cmd, signer, token.Request{Role: role, Subject: subject, TTL: ttl})
}

// mintToken signs req with signer and prints the token.
func mintToken(cmd *cobra.Command, signer *token.Signer, req token.Request) error {
	raw, claims, err := signer.Sign(req)
	if err != nil {
		return err
	}
	logger.Debug("token minted",
		zap.String("sub", claims.Subject),
		zap.String("role", claims.Role),
		zap.String("jti", claims.ID),
		zap.Time("exp", claims.ExpiresAt.Time))
	fmt.Fprintln(cmd.OutOrStdout(), raw)
	return nil
}

// warnUnknownRole logs when the current application has no such role. Outside
// an application nothing is checked.
func warnUnknownRole(cmd *cobra.Command, role string) {
	proj, err := loadProject(cmd)
	if err != nil {
		return
	}
	table, err := loadRoleTable(proj)
	if err != nil {
		logger.Debug("role table not checked", zap.Error(err))
		return
	}
	if table.Role(role) == nil {
		logger.Warn("role is not defined in the RBAC configuration",
			zap.String("role", role))
	}
}
