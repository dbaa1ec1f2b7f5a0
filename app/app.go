// Package app runs a CLI application main function with the shared
// scaffolding every tool needs: signal handling, logging setup, an
// optional run timer and consistent exit codes.
package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lixenwraith/apputil/errutil"
	"github.com/lixenwraith/apputil/logutil"
	"github.com/lixenwraith/apputil/timeutil"
)

// Main is the application entry point run by App.Run. The context is
// cancelled on SIGINT or SIGTERM.
type Main func(ctx context.Context, log *logutil.Logger) error

// App describes an application to run.
type App struct {
	// Name labels log output.
	Name string

	// Main is the function to run. Required.
	Main Main

	// LogOptions configures the logger handed to Main. Nil selects
	// logutil.DefaultOptions.
	LogOptions *logutil.Options

	// Timer logs the elapsed run time when Main returns.
	Timer bool

	// RequireRoot aborts before Main when the process is not root.
	RequireRoot bool
}

// Run executes the application and returns the process exit code:
// 0 on success, the code carried by an errutil.ExitError, 1 otherwise.
func (a *App) Run() int {
	opts := logutil.DefaultOptions()
	if a.LogOptions != nil {
		opts = *a.LogOptions
	}

	log, err := logutil.New(a.Name, opts)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		return 1
	}
	defer log.Close()

	if a.RequireRoot && os.Geteuid() != 0 {
		log.Error("this application must be run as root")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	err = a.Main(ctx, log)
	if a.Timer {
		log.Infof("run time: %s", timeutil.FormatElapsed(time.Since(start)))
	}

	if err == nil {
		return 0
	}

	var ee *errutil.ExitError
	if errors.As(err, &ee) {
		if ee.Err != nil {
			log.Error(ee.Err.Error())
		}
		return ee.Code
	}

	if errors.Is(err, context.Canceled) {
		log.Warn("interrupted")
		return 1
	}

	log.Error(err.Error())
	return 1
}

// Run builds an App with default logging and executes it, for the common
// single-line main:
//
//	func main() { os.Exit(app.Run("mytool", realMain)) }
func Run(name string, main Main) int {
	a := &App{Name: name, Main: main}
	return a.Run()
}
