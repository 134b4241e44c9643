// Package devserver resolves and runs a project's development server.
//
// ResolveCommand maps a detected framework to the shell command that starts
// its dev server. ShellRunner executes that command through the host shell
// (sh -c on Unix-family hosts, cmd /C on Windows), blocks until the process
// exits and returns everything the process wrote to standard error.
//
// The exit status of the dev server is reported but never treated as an
// error: only the presence of stderr output matters to the caller. Failing
// to start the process at all is an error (model.ErrSpawnFailed).
package devserver
