// Package logging builds the console logger and writes per-session JSONL
// journals that the tail command can follow.
package logging
