package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"eojs/internal/inject"
	"eojs/internal/project"
	"eojs/internal/scaffold"
	"eojs/templates"
)

var generateCmd = &cobra.Command{
	Use:     "generate <module>",
	Aliases: []string{"g"},
	Short:   "Generate a controller, service, model and routes module",
	Long: `Generate the files of a module and, when routes are generated, import
and mount them in the application entry file. Existing files with different
content are left alone unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Bool("controller-only", false, "generate only the controller")
	generateCmd.Flags().Bool("service-only", false, "generate only the service")
	generateCmd.Flags().Bool("model-only", false, "generate only the model")
	generateCmd.Flags().Bool("routes-only", false, "generate only the routes")
	generateCmd.Flags().Bool("no-swagger", false, "omit OpenAPI annotations")
	generateCmd.Flags().Bool("force", false, "overwrite files with different content")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	proj, err := loadProject(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	var parts scaffold.Parts
	parts.Controller, _ = flags.GetBool("controller-only")
	parts.Service, _ = flags.GetBool("service-only")
	parts.Model, _ = flags.GetBool("model-only")
	parts.Routes, _ = flags.GetBool("routes-only")
	noSwagger, _ := flags.GetBool("no-swagger")
	force, _ := flags.GetBool("force")

	mod, err := scaffold.GenerateModule(templates.FS(), proj.Config.Paths, scaffold.ModuleSpec{
		Name:    args[0],
		Parts:   parts,
		Swagger: !noSwagger,
		Prefix:  proj.Config.Routes.Prefix,
	})
	if err != nil {
		return err
	}

	s, err := openSession(cmd, proj)
	if err != nil {
		return err
	}
	defer s.close()

	// the entry edit is computed first so a missing anchor fails before any
	// file is written
	var entry *pendingEdit
	if mod.RoutesFile != "" {
		inj := inject.New(proj.Config.Dialect())
		importPath := project.ImportPath(proj.Entry(), proj.Path(mod.RoutesFile))
		logger.Debug("wiring routes",
			zap.String("import", importPath),
			zap.String("mount", mod.RoutePath),
			zap.String("binding", mod.Binding))
		entry, err = s.prepare(proj.Entry(), nil,
			injectStep(func(text string) (inject.Result, error) {
				return inj.AddImport(text, importPath, mod.Binding)
			}),
			injectStep(func(text string) (inject.Result, error) {
				return inj.AddRouteMount(text, mod.RoutePath, mod.Binding)
			}),
		)
		if err != nil {
			return err
		}
	}

	if err := s.write(cmd.Context(), mod.Files, force); err != nil {
		return err
	}
	if entry != nil {
		return s.commit(entry)
	}
	return nil
}

// injectStep adapts an injector call and logs the anchor it used.
func injectStep(fn func(text string) (inject.Result, error)) editStep {
	return func(text string) (string, bool, error) {
		res, err := fn(text)
		if err != nil {
			return text, false, err
		}
		if res.Changed {
			logger.Debug("line inserted",
				zap.String("probe", res.Point.Probe),
				zap.Stringer("placement", res.Point.Placement),
				zap.Int("offset", res.Point.Offset))
		}
		return res.Text, res.Changed, nil
	}
}
