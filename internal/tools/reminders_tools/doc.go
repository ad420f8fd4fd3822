// Package reminders_tools provides MCP tools for managing macOS Reminders.
//
// # Available Tools
//
// Reading:
//   - list_reminder_lists: Names of all lists, as a JSON array
//   - list_reminders: Reminders of one or all lists, as a JSON array
//
// Writing:
//   - create_reminder: Create a reminder, returns its name
//   - update_reminder: Change the name, notes or due date of a reminder
//   - complete_reminder: Mark a reminder as completed
//   - delete_reminder: Delete a reminder
//
// Reminders are addressed by name. When several reminders share a name the
// first one found is used; update, complete and delete return JSON true or
// false depending on whether a match existed.
//
// # Read-Only Mode
//
// With --read-only the writing tools are still listed but answer with an
// error result without touching the Reminders app.
package reminders_tools
