package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/shinji-kodama/dev-doctor/internal/credential"
	"github.com/shinji-kodama/dev-doctor/internal/detect"
	"github.com/shinji-kodama/dev-doctor/internal/devserver"
	"github.com/shinji-kodama/dev-doctor/internal/model"
	"github.com/shinji-kodama/dev-doctor/internal/port"
)

// FrameworkNotDetectedMessage is printed when no framework marker is found.
const FrameworkNotDetectedMessage = "Framework not detected. Ensure you are in the correct project directory."

// Outcome is the terminal state reached by a Workflow run.
type Outcome string

const (
	// OutcomePromptFailed: the provider prompt failed; nothing else ran.
	OutcomePromptFailed Outcome = "prompt-failed"

	// OutcomeMissingCredential: the API key was not set; instructions were printed.
	OutcomeMissingCredential Outcome = "missing-credential"

	// OutcomeFrameworkNotDetected: no framework marker was found.
	OutcomeFrameworkNotDetected Outcome = "framework-not-detected"

	// OutcomeClean: the dev server exited without writing to stderr.
	OutcomeClean Outcome = "clean"

	// OutcomeAnalyzed: the log was analyzed and a suggestion printed.
	OutcomeAnalyzed Outcome = "analyzed"

	// OutcomeAnalysisFailed: the provider call failed; the error was printed.
	OutcomeAnalysisFailed Outcome = "analysis-failed"
)

// ProviderSelector chooses the analysis provider interactively.
type ProviderSelector interface {
	SelectProvider() (model.Provider, error)
}

// FrameworkDetector identifies the project framework.
type FrameworkDetector interface {
	Detect() (detect.Detection, error)
}

// LogAnalyzer turns a captured log into a fix suggestion.
type LogAnalyzer interface {
	Analyze(ctx context.Context, log string, p model.Provider, apiKey string) (string, error)
}

// PortChecker reports whether a port is already bound.
type PortChecker interface {
	Check(port int) error
}

// Workflow sequences one dev-doctor run:
//
//	PromptingProvider → CheckingCredentials → DetectingFramework →
//	RunningServer → (AnalyzingLog | Done)
//
// Every collaborator is injected so each stage can be replaced in tests.
type Workflow struct {
	// Provider, if set, skips the prompt.
	Provider model.Provider

	Selector ProviderSelector
	Lookup   credential.LookupFunc
	HostOS   credential.HostOS
	Detector FrameworkDetector
	Runner   devserver.Runner
	Analyzer LogAnalyzer

	// Ports is optional. When set, a bound dev server port produces a warning.
	Ports PortChecker

	// Dir is the working directory of the dev server.
	Dir string

	Out io.Writer
	Err io.Writer
}

// Run executes the workflow. Handled conditions (prompt failure, missing
// key, no framework, analysis failure) are printed and reported through
// the Outcome with a nil error. Manifest, resolver and spawn failures are
// returned as errors.
func (w *Workflow) Run(ctx context.Context) (Outcome, error) {
	provider := w.Provider
	if provider == "" {
		p, err := w.Selector.SelectProvider()
		if err != nil {
			fmt.Fprintln(w.Err, WithErrorFormat("Error: %v", err))
			return OutcomePromptFailed, nil
		}
		provider = p
	}
	VerboseLog("Provider: %s", provider)

	apiKey, err := credential.Lookup(w.Lookup, provider)
	if err != nil {
		VerboseLog("%v", err)
		fmt.Fprintln(w.Out, credential.Instructions(provider, w.HostOS))
		return OutcomeMissingCredential, nil
	}

	detection, err := w.Detector.Detect()
	if err != nil {
		return "", err
	}
	if !detection.Kind.Detected() {
		fmt.Fprintln(w.Err, WithErrorFormat("%s", FrameworkNotDetectedMessage))
		return OutcomeFrameworkNotDetected, nil
	}
	VerboseLog("Detected framework: %s (%s)", detection.Kind, detection.Rule)
	if detection.Project != "" {
		VerboseLog("Project: %s", detection.Project)
	}

	cmd, err := devserver.ResolveCommand(detection.Kind)
	if err != nil {
		return "", err
	}

	w.warnIfPortBound(detection.Kind)

	fmt.Fprintf(w.Out, "Starting %s dev server: %s\n", detection.Kind, WithHighLightFormat("%s", cmd))
	result, err := w.Runner.Run(ctx, w.Dir, cmd)
	if err != nil {
		return "", err
	}
	VerboseLog("Dev server exited with code %d, %d bytes of stderr", result.ExitCode, len(result.Stderr))

	// Any stderr output at all, whitespace included, is worth a look.
	if result.Stderr == "" {
		return OutcomeClean, nil
	}

	fmt.Fprintln(w.Out, WithWarningFormat("Error detected, analyzing..."))
	suggestion, err := w.Analyzer.Analyze(ctx, result.Stderr, provider, apiKey)
	if err != nil {
		fmt.Fprintln(w.Err, WithErrorFormat("Error with %s API: %v", provider, err))
		return OutcomeAnalysisFailed, nil
	}

	fmt.Fprintf(w.Out, "%s %s\n", WithSuccessFormat("Suggestion:"), suggestion)
	return OutcomeAnalyzed, nil
}

func (w *Workflow) warnIfPortBound(kind model.FrameworkKind) {
	if w.Ports == nil {
		return
	}
	p, ok := devserver.DefaultPort(kind)
	if !ok {
		return
	}
	if err := w.Ports.Check(p); err != nil {
		if errors.Is(err, port.ErrPortInUse) {
			fmt.Fprintln(w.Err, WithWarningFormat(
				"Warning: port %d is already in use; another dev server may still be running.", p))
			return
		}
		VerboseLog("port check for %d failed: %v", p, err)
	}
}
