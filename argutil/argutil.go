// Package argutil builds command line interfaces whose flags default from
// resolved configuration. It wraps kingpin: define flags normally, or bind
// them to configuration keys so the precedence chain extends through
// defaults, user config, environment and finally the command line.
package argutil

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/lixenwraith/apputil/appconfig"
)

const stdEpilog = `Options may also be set in the user config file or through
environment variables; command line arguments take precedence.`

// App is a kingpin application bound to a configuration resolver.
type App struct {
	*kingpin.Application

	cfg *appconfig.Resolver

	// Debug is the count of --debug occurrences after Parse.
	Debug *int

	userConfig *string
}

// New creates an App with the standard flags every CLI in this library
// carries: --debug (repeatable) and --user-config.
func New(name, help string, cfg *appconfig.Resolver) *App {
	ka := kingpin.New(name, help)
	ka.UsageTemplate(kingpin.CompactUsageTemplate)

	app := &App{
		Application: ka,
		cfg:         cfg,
	}
	app.Debug = ka.Flag("debug", "Show debug output.").Short('d').Counter()
	app.userConfig = ka.Flag("user-config", "Path to the user config file.").
		PlaceHolder("FILE").String()

	return app
}

// ConfigFlag defines a flag whose default comes from the configuration key
// and which is also settable through the key's environment variable. The
// returned clause can be further typed with the usual kingpin methods.
func (a *App) ConfigFlag(name, help, key string) *kingpin.FlagClause {
	clause := a.Flag(name, help).Envar(a.cfg.EnvName(key))
	if val, ok := a.cfg.Get(key); ok && val != nil {
		clause = clause.Default(fmt.Sprintf("%v", val))
	}
	return clause
}

// Parse parses the arguments. When --user-config names a file, the
// resolver reloads that file and re-applies environment overrides before
// the parsed command is returned, so config-bound flags left at their
// defaults reflect the requested file.
func (a *App) Parse(args []string) (string, error) {
	command, err := a.Application.Parse(args)
	if err != nil {
		return "", err
	}

	if *a.userConfig != "" {
		if err := a.cfg.LoadUserConfig(*a.userConfig); err != nil {
			return "", err
		}
		a.cfg.LoadEnvironment()
	}
	return command, nil
}

var listSeparator = regexp.MustCompile(`[,\s]+`)

// listValue accumulates repeated occurrences and splits each on commas or
// whitespace, so --node a,b --node c yields [a b c].
type listValue struct {
	items *[]string
}

func (l *listValue) Set(raw string) error {
	for _, part := range listSeparator.Split(raw, -1) {
		if part = strings.TrimSpace(part); part != "" {
			*l.items = append(*l.items, part)
		}
	}
	return nil
}

func (l *listValue) String() string {
	return strings.Join(*l.items, ",")
}

func (l *listValue) IsCumulative() bool { return true }

// List attaches a cumulative, comma-or-whitespace separated string list to
// the clause.
func List(clause *kingpin.FlagClause) *[]string {
	items := new([]string)
	clause.SetValue(&listValue{items: items})
	return items
}

// WithEpilog appends the standard footer explaining the configuration
// precedence to the application help.
func (a *App) WithEpilog() *App {
	a.Help = a.Help + "\n\n" + stdEpilog
	return a
}
