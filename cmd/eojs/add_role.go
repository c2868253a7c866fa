package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"eojs/internal/roles"
)

var addRoleCmd = &cobra.Command{
	Use:   "add:role <name>",
	Short: "Add a role or update its permissions",
	Long: `Add a role to the role table of the RBAC configuration, or replace the
permissions of an existing role. With --append the permissions are merged into
those of an existing role instead. Other roles are left untouched.`,
	Example: `  eojs add:role editor -p create:post,update:post
  eojs add:role editor --append -p delete:post`,
	Args: cobra.ExactArgs(1),
	RunE: runAddRole,
}

func init() {
	addRoleCmd.Flags().StringP("permissions", "p", "", "comma separated permissions, e.g. read:post,update:own")
	addRoleCmd.Flags().Bool("append", false, "merge into the permissions of an existing role")
}

func runAddRole(cmd *cobra.Command, args []string) error {
	proj, err := loadProject(cmd)
	if err != nil {
		return err
	}
	name := args[0]
	raw, _ := cmd.Flags().GetString("permissions")
	appendMode, _ := cmd.Flags().GetBool("append")
	perms := roles.ParsePermissions(raw)
	if appendMode && len(perms) == 0 {
		return fmt.Errorf("--append needs permissions (-p)")
	}

	s, err := openSession(cmd, proj)
	if err != nil {
		return err
	}
	defer s.close()

	editor := roles.NewEditor(proj.Config.Dialect(), proj.Config.RBAC.DefaultPermissions)
	var res roles.Result
	step := func(text string) (string, bool, error) {
		var err error
		if appendMode {
			res, err = editor.AddPermissions(text, name, perms)
		} else {
			res, err = editor.UpsertRole(text, name, perms)
		}
		return res.Text, res.Changed, err
	}
	rel := proj.Rel(proj.RBACFile())
	if err := s.edit(proj.RBACFile(), roles.ErrRoleTableMissing.At(rel), step); err != nil {
		return err
	}

	if !isQuiet(cmd) {
		verb := "updated"
		switch {
		case res.Created:
			verb = "added"
		case !res.Changed:
			verb = "unchanged"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "role %s %s: %s\n", infoColor.Sprint(name), verb, strings.Join(res.Permissions, ", "))
	}
	return nil
}
