package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"eojs/internal/project"
	"eojs/internal/roles"
	"eojs/internal/source"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List the roles of the RBAC configuration",
	Args:  cobra.NoArgs,
	RunE:  runRoles,
}

func init() {
	rolesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runRoles(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "pretty", "json":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	proj, err := loadProject(cmd)
	if err != nil {
		return err
	}
	table, err := loadRoleTable(proj)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		payload := make(map[string][]string, len(table.Roles()))
		for _, name := range table.Roles() {
			payload[name] = table.Role(name)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	for _, name := range table.Roles() {
		fmt.Fprintf(out, "%s: %s\n", infoColor.Sprint(name), strings.Join(table.Role(name), ", "))
	}
	return nil
}

// loadRoleTable parses the role table of proj's RBAC file.
func loadRoleTable(proj *project.Project) (*roles.Table, error) {
	rel := proj.Rel(proj.RBACFile())
	doc, err := source.Load(proj.RBACFile())
	if err != nil {
		return nil, roles.ErrRoleTableMissing.At(rel)
	}
	editor := roles.NewEditor(proj.Config.Dialect(), proj.Config.RBAC.DefaultPermissions)
	table, err := editor.Parse(doc.Text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rel, err)
	}
	return table, nil
}
