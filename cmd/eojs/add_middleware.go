package main

import (
	"github.com/spf13/cobra"

	"eojs/internal/inject"
	"eojs/internal/project"
	"eojs/internal/scaffold"
	"eojs/templates"
)

var addMiddlewareCmd = &cobra.Command{
	Use:   "add:middleware <name>",
	Short: "Generate a middleware and register it with the application",
	Long: `Generate a middleware stub in the middleware directory, import it in the
entry file and register it after the existing middleware, before the first
route mount.`,
	Args: cobra.ExactArgs(1),
	RunE: runAddMiddleware,
}

func init() {
	addMiddlewareCmd.Flags().Bool("force", false, "overwrite an existing stub with different content")
}

func runAddMiddleware(cmd *cobra.Command, args []string) error {
	proj, err := loadProject(cmd)
	if err != nil {
		return err
	}
	force, _ := cmd.Flags().GetBool("force")

	mw, err := scaffold.GenerateMiddleware(templates.FS(), proj.Config.Paths.Middleware, args[0])
	if err != nil {
		return err
	}

	s, err := openSession(cmd, proj)
	if err != nil {
		return err
	}
	defer s.close()

	inj := inject.New(proj.Config.Dialect())
	importPath := project.ImportPath(proj.Entry(), proj.Path(mw.File.Path))
	entry, err := s.prepare(proj.Entry(), nil,
		injectStep(func(text string) (inject.Result, error) {
			return inj.AddImport(text, importPath, mw.Binding)
		}),
		injectStep(func(text string) (inject.Result, error) {
			return inj.AddMiddlewareUse(text, mw.Binding)
		}),
	)
	if err != nil {
		return err
	}
	if err := s.write(cmd.Context(), []scaffold.File{mw.File}, force); err != nil {
		return err
	}
	return s.commit(entry)
}
