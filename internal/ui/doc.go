// Package ui provides semantic text formatting for giournal output.
//
// Formatters render colored text when the terminal supports it and fall back
// to plain decorations (backticks, quotes) when NO_COLOR is set or colors are
// unavailable:
//
//	ui.Code.Sprint("giournal --sync")      // Commands
//	ui.Path.Sprint("~/journal")            // File paths
//	ui.Entry.Sprint("2026-10-15_09-12...")  // Entry names
//	ui.Success.Sprint("✓")                 // Success indicators
//	ui.Error.Sprint("✗")                   // Error indicators
//	ui.Info.Sprint("→")                    // Hints
//	ui.Muted.Sprint("offline")             // De-emphasized text
//
// The package also renders tables for status and history output and the
// welcome banner shown on first run.
package ui
