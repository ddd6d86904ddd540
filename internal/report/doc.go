// Package report renders analysis results for the terminal: styled tables
// with lipgloss and line plots with asciigraph. Every function returns a
// string so callers decide where output goes.
package report
