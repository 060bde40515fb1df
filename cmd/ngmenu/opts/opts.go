package opts

import (
	"io"

	"github.com/walteh/ngmenu/pkg/config"
	"github.com/walteh/ngmenu/pkg/external"
	"github.com/walteh/ngmenu/pkg/log"
	"github.com/walteh/ngmenu/pkg/status"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	// Dir is the workspace directory
	Dir string
	// ConfigFile is the explicit --config value, empty to discover one in Dir
	ConfigFile string
	// Config is loaded before any command runs
	Config *config.Config
	// Console prints the run summary
	Console *log.Logger
	// UserLogger prints step feedback
	UserLogger *status.UserLogger
	// Out is where diffs and step feedback go
	Out io.Writer
	// Runner overrides the external add-on runner, nil runs the Angular CLI
	Runner external.Runner
}
