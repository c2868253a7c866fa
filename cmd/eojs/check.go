package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"eojs/internal/anchor"
	"eojs/internal/diag"
	"eojs/internal/diagfmt"
	"eojs/internal/project"
	"eojs/internal/roles"
	"eojs/internal/source"
)

var errCheckFailed = silentError{"check failed"}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the entry and RBAC files can be edited",
	Long: `Resolve every insertion anchor in the entry file and parse the role
table, reporting the probe each anchor resolves with. Nothing is written.
Exits with status 1 when a later command would fail.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

var checkedKinds = []anchor.Kind{
	anchor.LastImport,
	anchor.MiddlewareInsertionPoint,
	anchor.RouteInsertionPoint,
}

func runCheck(cmd *cobra.Command, args []string) error {
	proj, err := loadProject(cmd)
	if err != nil {
		return err
	}
	bag := diag.NewBag(0)
	texts := map[string]string{}
	out := cmd.OutOrStdout()
	quiet := isQuiet(cmd)

	entryRel := proj.Rel(proj.Entry())
	if doc, err := source.Load(proj.Entry()); err != nil {
		bag.Add(*project.ErrNotAnApp.At(entryRel).Wrap(diag.NoSpan, "cannot read entry file: %v", err))
	} else {
		texts[entryRel] = doc.Text
		loc := anchor.New(proj.Config.Dialect())
		for _, kind := range checkedKinds {
			pt, err := loc.Locate(doc.Text, kind)
			switch {
			case err == nil:
			case kind == anchor.LastImport && errors.Is(err, anchor.ErrNoImports):
				pt.Probe = "top-of-document"
			default:
				addDiagnostic(bag, entryRel, err)
				continue
			}
			if !quiet {
				printStatus(out, "ok", fmt.Sprintf("%s %s via %s (line %d)", entryRel, kind, pt.Probe, doc.Position(pt.Offset).Line))
			}
		}
	}

	rbacRel := proj.Rel(proj.RBACFile())
	if doc, err := source.Load(proj.RBACFile()); err != nil {
		bag.Add(*roles.ErrRoleTableMissing.At(rbacRel))
	} else {
		texts[rbacRel] = doc.Text
		editor := roles.NewEditor(proj.Config.Dialect(), proj.Config.RBAC.DefaultPermissions)
		if table, err := editor.Parse(doc.Text); err != nil {
			addDiagnostic(bag, rbacRel, err)
		} else if !quiet {
			printStatus(out, "ok", fmt.Sprintf("%s %d roles", rbacRel, len(table.Roles())))
		}
	}

	if bag.Len() == 0 {
		return nil
	}
	bag.Dedup()
	bag.Sort()
	src := func(path string) (string, bool) {
		text, ok := texts[path]
		return text, ok
	}
	diagfmt.Pretty(cmd.ErrOrStderr(), bag, src, diagfmt.PrettyOpts{Color: !color.NoColor, Context: 1})
	if bag.HasWarnings() {
		return errCheckFailed
	}
	return nil
}

func addDiagnostic(bag *diag.Bag, path string, err error) {
	var d *diag.Diagnostic
	if errors.As(err, &d) {
		if d.Path == "" {
			d = d.At(path)
		}
		bag.Add(*d)
		return
	}
	bag.AddError(fmt.Errorf("%s: %w", path, err))
}
