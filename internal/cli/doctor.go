package cli

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/shinji-kodama/dev-doctor/internal/analysis"
	"github.com/shinji-kodama/dev-doctor/internal/config"
	"github.com/shinji-kodama/dev-doctor/internal/credential"
	"github.com/shinji-kodama/dev-doctor/internal/detect"
	"github.com/shinji-kodama/dev-doctor/internal/devserver"
	"github.com/shinji-kodama/dev-doctor/internal/model"
	"github.com/shinji-kodama/dev-doctor/internal/port"
	"github.com/shinji-kodama/dev-doctor/internal/prompt"
)

// runDoctor wires the production collaborators into a Workflow and runs it.
// envFileSet reports whether --env-file was given explicitly; otherwise the
// default .env is looked up in the project directory.
func runDoctor(ctx context.Context, flags *rootFlags, envFileSet bool) error {
	dir, err := projectDir(flags.dir)
	if err != nil {
		return err
	}
	VerboseLog("Project directory: %s", dir)

	envFile := flags.envFile
	if !envFileSet {
		envFile = filepath.Join(dir, config.DefaultEnvFile)
	}

	cfg, err := config.Load(config.Options{
		Dir:        dir,
		EnvFile:    envFile,
		ConfigFile: flags.configFile,
	})
	if err != nil {
		return err
	}
	if cfg.EnvFileLoaded {
		VerboseLog("Loaded environment file: %s", envFile)
	}
	if cfg.ConfigFileUsed != "" {
		VerboseLog("Using config file: %s", cfg.ConfigFileUsed)
	}

	if flags.provider != "" {
		cfg.Provider = flags.provider
	}
	provider, _, err := cfg.SelectedProvider()
	if err != nil {
		return err
	}

	var echo io.Writer
	if verbose {
		echo = os.Stderr
	}

	wf := &Workflow{
		Provider: provider,
		Selector: prompt.NewProviderSelector(nil),
		Lookup:   os.LookupEnv,
		HostOS:   credential.HostOSFromGOOS(runtime.GOOS),
		Detector: detect.NewDirDetector(dir),
		Ports:    port.NewScanner(),
		Runner: devserver.NewShellRunner(&devserver.RunnerOptions{
			Echo:               echo,
			InterceptInterrupt: true,
		}),
		Analyzer: analysis.New(&http.Client{},
			analysis.WithEndpoint(model.ProviderGemini, cfg.Endpoints.For(model.ProviderGemini)),
			analysis.WithEndpoint(model.ProviderOpenAI, cfg.Endpoints.For(model.ProviderOpenAI)),
			analysis.WithUserAgent("dev-doctor/"+Version),
		),
		Dir: dir,
		Out: os.Stdout,
		Err: os.Stderr,
	}

	outcome, err := wf.Run(ctx)
	if err != nil {
		return err
	}
	VerboseLog("Outcome: %s", outcome)
	return nil
}

// projectDir resolves the --dir flag to an absolute path, defaulting to
// the working directory.
func projectDir(dir string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
		}
		return cwd, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "failed to resolve project directory", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", model.WrapCLIError(model.ExitGeneralError, "project directory not accessible", err)
	}
	if !info.IsDir() {
		return "", model.NewCLIError(model.ExitGeneralError, abs+" is not a directory")
	}
	return abs, nil
}
