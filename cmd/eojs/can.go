package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// silentError exits non-zero without printing; the command has already
// reported the outcome.
type silentError struct{ msg string }

func (e silentError) Error() string { return e.msg }

var errDenied = silentError{"permission denied"}

var canCmd = &cobra.Command{
	Use:   "can <role> <action> <resource>",
	Short: "Check a permission against the RBAC configuration",
	Long: `Evaluate whether role may perform action on resource using the same rules
as the generated RBAC middleware. Exits with status 1 when denied.`,
	Example: `  eojs can editor update post
  eojs can user update post --subject 42 --owner 42`,
	Args: cobra.ExactArgs(3),
	RunE: runCan,
}

func init() {
	canCmd.Flags().String("subject", "", "id of the acting user")
	canCmd.Flags().String("owner", "", "id of the resource owner")
}

func runCan(cmd *cobra.Command, args []string) error {
	proj, err := loadProject(cmd)
	if err != nil {
		return err
	}
	table, err := loadRoleTable(proj)
	if err != nil {
		return err
	}
	subject, _ := cmd.Flags().GetString("subject")
	owner, _ := cmd.Flags().GetString("owner")

	role, action, resource := args[0], args[1], args[2]
	if table.Can(role, action, resource, subject, owner) {
		if !isQuiet(cmd) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s may %s %s\n", successColor.Sprint("allowed:"), role, action, resource)
		}
		return nil
	}
	if !isQuiet(cmd) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s may not %s %s\n", errorColor.Sprint("denied:"), role, action, resource)
	}
	return errDenied
}
