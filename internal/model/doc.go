// Package model defines the domain types and value objects for the
// dev-doctor CLI.
//
// This package contains pure data structures with no external dependencies.
// Every value (FrameworkKind, Provider, CLIError) is transient: it is
// determined once per invocation and never persisted.
//
// The package also defines exit codes (ExitCode), a custom error type
// (CLIError) that carries exit codes for process exit handling, and the
// sentinel errors used to classify failures across the workflow.
package model
