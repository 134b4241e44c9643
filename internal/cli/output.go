package cli

import "github.com/fatih/color"

// Output helpers color user-facing text by meaning rather than by hue, so
// call sites read as intent ("this is a warning") and the palette lives in
// one place.
//
// fatih/color disables itself when stdout is not a terminal or NO_COLOR is
// set, so piping dev-doctor into a file or CI log yields plain text without
// any extra checks here. Tests set color.NoColor to compare plain strings.

// WithErrorFormat colors text for error messages (red). Used for failures
// the run reports and recovers from, and for the final "Error:" line.
func WithErrorFormat(text string, a ...interface{}) string {
	return color.RedString(text, a...)
}

// WithWarningFormat colors text for warnings (yellow), such as a bound
// dev server port or the notice that captured stderr is being analyzed.
func WithWarningFormat(text string, a ...interface{}) string {
	return color.YellowString(text, a...)
}

// WithSuccessFormat colors text for successful results (green).
func WithSuccessFormat(text string, a ...interface{}) string {
	return color.GreenString(text, a...)
}

// WithHighLightFormat colors text that names a command or value (cyan).
func WithHighLightFormat(text string, a ...interface{}) string {
	return color.CyanString(text, a...)
}
