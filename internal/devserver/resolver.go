package devserver

import (
	"fmt"

	"github.com/shinji-kodama/dev-doctor/internal/model"
)

// Command is a shell command line that starts a dev server.
type Command string

// String returns the command line.
func (c Command) String() string {
	return string(c)
}

const (
	// CommandNpmDev starts React (Vite) and Next.js projects.
	CommandNpmDev Command = "npm run dev"

	// CommandNgServe starts Angular CLI projects.
	CommandNgServe Command = "ng serve"

	// CommandNpmServe starts Vue CLI projects.
	CommandNpmServe Command = "npm run serve"
)

var commands = map[model.FrameworkKind]Command{
	model.FrameworkReact:   CommandNpmDev,
	model.FrameworkNext:    CommandNpmDev,
	model.FrameworkAngular: CommandNgServe,
	model.FrameworkVue:     CommandNpmServe,
}

// defaultPorts are the ports each framework's dev server listens on
// unless the project overrides them.
var defaultPorts = map[model.FrameworkKind]int{
	model.FrameworkReact:   5173,
	model.FrameworkNext:    3000,
	model.FrameworkAngular: 4200,
	model.FrameworkVue:     8080,
}

// ResolveCommand returns the dev server command for kind.
// FrameworkNone and unknown kinds fail with model.ErrUnsupportedFramework
// wrapped in a CLIError carrying ExitUnsupportedFramework.
func ResolveCommand(kind model.FrameworkKind) (Command, error) {
	cmd, ok := commands[kind]
	if !ok {
		return "", model.WrapCLIError(
			model.ExitUnsupportedFramework,
			fmt.Sprintf("no dev server command for framework %q", kind),
			model.ErrUnsupportedFramework,
		)
	}
	return cmd, nil
}

// DefaultPort returns the conventional dev server port for kind.
func DefaultPort(kind model.FrameworkKind) (int, bool) {
	p, ok := defaultPorts[kind]
	return p, ok
}
