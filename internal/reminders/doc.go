// Package reminders provides a client for the macOS Reminders app.
//
// The client drives Reminders through its AppleScript dictionary. Every
// operation generates one script, runs it through an osascript.Runner and
// parses the plain-text result:
//   - Listing the names of all reminder lists
//   - Listing reminders of one list or of all lists, optionally with completed ones
//   - Creating a reminder in a named list or in the default list
//   - Completing, updating and deleting a reminder found by its exact name
//
// Reminders has no stable identifier exposed over AppleScript, so lookups
// match on the exact reminder name inside a scope (one list, or all lists in
// the app's enumeration order). When several reminders share a name, the
// first one enumerated wins.
//
// Nothing is cached: every call re-reads the live state of the app, since
// other devices and apps may change it at any time.
//
// # Errors
//
// A script that exits with a non-zero status yields an *AutomationError
// carrying the diagnostic text printed by osascript. A lookup that finds
// nothing is not an error; it is reported as NotFound.
//
// # Example Usage
//
//	client := reminders.NewClient(osascript.NewExecRunner())
//
//	lists, err := client.ListLists(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	name, err := client.CreateReminder(ctx, "Buy milk", reminders.CreateInput{
//	    ListName: reminders.String("Groceries"),
//	    DueDate:  reminders.String("March 1, 2026 at 9:00 AM"),
//	})
//
//	result, err := client.CompleteReminder(ctx, "Buy milk", nil)
//	if err == nil && !result.Found() {
//	    fmt.Println("no such reminder")
//	}
package reminders
