// Package logger provides levelled logging for giournal commands.
//
// Output is formatted with bracketed prefixes colored by fatih/color.
//
// # Verbosity Levels
//
// Logging behavior is controlled by two flags:
//
//   - --verbose: Shows info messages
//   - --debug: Shows all messages including debug details
//
// Warnings and errors are always shown.
//
// # Log Methods
//
//	Logger.Infof()           // Shown with --verbose or --debug
//	Logger.Debugf()          // Shown only with --debug
//	Logger.Warnf()           // Always shown
//	Logger.Errorf()          // Always shown
//	Logger.ErrorfAndReturn() // Logs, then returns the message as an error
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Encrypted %d entries", count)
//
// The zero value writes to os.Stdout and os.Stderr. Tests can set Out and
// Err to capture output.
package logger
