// Package osascript runs AppleScript source through the macOS osascript
// command-line tool.
//
// Each call to Runner.Run starts exactly one process, passes the script with
// -e, waits for it to exit and reports stdout, stderr and the exit code as a
// ScriptResult. A non-zero exit is not an error at this layer: callers decide
// what a failed script means. Run only returns an error when the process could
// not be started or was cut short by the context or the configured timeout.
//
// Example usage:
//
//	runner := osascript.NewExecRunner(osascript.WithTimeout(10 * time.Second))
//	result, err := runner.Run(ctx, `tell application "Reminders" to get name of lists`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if result.ExitCode != 0 {
//	    log.Fatalf("script failed: %s", result.Stderr)
//	}
//	fmt.Println(result.Stdout)
package osascript
