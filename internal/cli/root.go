// Package cli implements the cobra-based command line of dev-doctor.
//
// The root command is the whole tool: it loads configuration, asks for an
// analysis provider, detects the project's framework, runs its dev server
// and, if the server wrote to stderr, prints a fix suggestion.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/dev-doctor/internal/config"
	"github.com/shinji-kodama/dev-doctor/internal/model"
)

// verbose enables [verbose] trace lines on stderr. It is bound to the
// persistent --verbose flag on the root command.
var verbose bool

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// rootFlags holds the flag values of the root command.
type rootFlags struct {
	provider   string // --provider: skip the provider prompt
	envFile    string // --env-file: .env file to load
	dir        string // --dir: project directory
	configFile string // --config: explicit YAML config file
}

// NewRootCommand creates and configures the root cobra command.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "dev-doctor",
		Short: "Run a frontend dev server and explain its errors",
		Long: `dev-doctor detects the frontend framework of the current project
(Angular, Vue, Next.js or React), starts its dev server and captures
everything the server writes to stderr.

When the server reports errors, the log is sent to the selected
language-model provider (Gemini or OpenAI) and the suggested fix is printed.

The provider API key is read from GEMINI_API_KEY or OPENAI_API_KEY,
optionally loaded from a .env file in the project directory.

Examples:
  dev-doctor
  dev-doctor --provider openai
  dev-doctor --dir ./web --env-file ~/.config/dev-doctor.env`,

		Args: cobra.NoArgs,

		// Errors are printed by Execute with their exit code.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.Context(), flags, cmd.Flags().Changed("env-file"))
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.Flags().StringVar(&flags.provider, "provider", "", "Analysis provider (gemini or openai); skips the prompt")
	rootCmd.Flags().StringVar(&flags.envFile, "env-file", config.DefaultEnvFile, "Environment file loaded before anything else")
	rootCmd.Flags().StringVar(&flags.dir, "dir", "", "Project directory (default: current directory)")
	rootCmd.Flags().StringVar(&flags.configFile, "config", "", "YAML config file (default: .dev-doctor.yaml in the project directory)")

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// CLIError values carry their own exit code; other errors exit with 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError writes "Error: <message>[: <underlying>]" to stderr.
func printError(message string, underlying error) {
	if underlying != nil {
		fmt.Fprintln(os.Stderr, WithErrorFormat("Error: %s: %v", message, underlying))
		return
	}
	fmt.Fprintln(os.Stderr, WithErrorFormat("Error: %s", message))
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}
