// Package credential looks up provider API keys and renders the
// instructions shown when a key is missing.
package credential

import (
	"fmt"
	"os"
	"strings"

	"github.com/shinji-kodama/dev-doctor/internal/model"
)

// HostOS is the family of the host operating system, which decides how
// environment variables are set in a terminal.
type HostOS int

const (
	// Unix covers Linux, macOS and the BSDs.
	Unix HostOS = iota

	// Windows covers cmd.exe hosts.
	Windows
)

// HostOSFromGOOS maps a runtime.GOOS value to its family.
func HostOSFromGOOS(goos string) HostOS {
	if goos == "windows" {
		return Windows
	}
	return Unix
}

// LookupFunc reads an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Lookup returns the API key for p from the environment. An unset or
// empty variable yields model.ErrMissingCredential.
func Lookup(lookup LookupFunc, p model.Provider) (string, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	key, ok := lookup(p.APIKeyEnv())
	if !ok || strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("%w: %s", model.ErrMissingCredential, p.APIKeyEnv())
	}
	return key, nil
}

// Instructions returns the text explaining how to export the API key
// for p on the given host.
func Instructions(p model.Provider, host HostOS) string {
	name := strings.ToUpper(p.String())
	env := p.APIKeyEnv()

	var b strings.Builder
	fmt.Fprintf(&b, "\nTo use %s, you need to export your API key as an environment variable.\n", name)
	if host == Windows {
		b.WriteString("For Windows, run the following command in your terminal:\n\n")
		fmt.Fprintf(&b, "set %s=your_api_key_here\n", env)
	} else {
		b.WriteString("For Unix-based systems, run the following command in your terminal:\n\n")
		fmt.Fprintf(&b, "export %s=your_api_key_here\n", env)
	}
	return b.String()
}
