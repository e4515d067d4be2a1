// Package report renders batch run results in multiple output formats:
// a human-readable text summary for the terminal, GitHub-flavored Markdown
// for sharing, and JSON for tooling.
package report
