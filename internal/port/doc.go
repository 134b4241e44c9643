// Package port checks whether a dev server port is already bound on the host.
//
// Before starting a dev server, the CLI checks the framework's conventional
// port (e.g. 4200 for Angular). A bound port usually means another dev
// server is still running, which would make the new one fail or pick a
// different port. The check only produces a warning; it never blocks the run.
package port
