// Package viz renders run results in the terminal.
//
// [Chart] draws a channel with asciigraph, [Summary] formats the headline
// numbers and metrics of a run with lipgloss styles, and [Progress] is a
// segment observer that keeps a progress bar on stderr during long runs.
package viz
