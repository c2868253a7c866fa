package anchor

import (
	"fmt"
	"regexp"
)

// Dialect names the identifiers the generated application uses.
type Dialect struct {
	// App is the application object, e.g. "app" in `const app = express();`.
	App string
	// Framework is the framework namespace, e.g. "express" in
	// `app.use(express.json());`.
	Framework string
	// RoleTable is the variable or key holding the role entries.
	RoleTable string
}

// Express is the dialect of applications generated by `eojs new`.
var Express = Dialect{App: "app", Framework: "express", RoleTable: "roles"}

// WithDefaults fills empty fields from Express.
func (d Dialect) WithDefaults() Dialect {
	if d.App == "" {
		d.App = Express.App
	}
	if d.Framework == "" {
		d.Framework = Express.Framework
	}
	if d.RoleTable == "" {
		d.RoleTable = Express.RoleTable
	}
	return d
}

type patterns struct {
	use       *regexp.Regexp
	listen    *regexp.Regexp
	decl      *regexp.Regexp
	framework *regexp.Regexp
	table     *regexp.Regexp
}

// importRE matches `import <clause> from '<path>'` and the bare side-effect
// form `import '<path>'`.
var importRE = regexp.MustCompile(`(?m)^[ \t]*import(?:[ \t\r\n]+[\w$*{][^;'"]*?[ \t\r\n]from)?[ \t\r\n]*(['"])[^'"\n]*(['"])`)

func (d Dialect) compile() patterns {
	app := regexp.QuoteMeta(d.App)
	return patterns{
		use:       regexp.MustCompile(fmt.Sprintf(`(^|[^\w$.])(%s\s*\.\s*use\s*\()`, app)),
		listen:    regexp.MustCompile(fmt.Sprintf(`(^|[^\w$.])(%s\s*\.\s*listen\s*\()`, app)),
		decl:      regexp.MustCompile(fmt.Sprintf(`(?m)^[ \t]*(?:export[ \t]+)?(?:const|let|var)[ \t]+%s[ \t]*=`, app)),
		framework: regexp.MustCompile(fmt.Sprintf(`^%s\s*[.(]`, regexp.QuoteMeta(d.Framework))),
		table:     regexp.MustCompile(fmt.Sprintf(`(^|[^\w$])(%s\s*[=:]\s*\{)`, regexp.QuoteMeta(d.RoleTable))),
	}
}
