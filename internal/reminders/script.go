package reminders

import (
	"fmt"
	"strings"
)

const (
	// resultOK is printed by mutating scripts when a reminder matched
	resultOK = "ok"

	// resultNotFound is printed by mutating scripts when nothing matched
	resultNotFound = "not found"

	// NewlineSentinel stands in for line breaks inside notes on the
	// one-line-per-reminder wire format. It must not otherwise occur in notes.
	NewlineSentinel = "␤"

	// fieldSeparator delimits fields of a listed reminder
	fieldSeparator = "|"

	// missingValue is how AppleScript renders an absent property as text
	missingValue = "missing value"
)

var literalEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// quote renders s as an AppleScript string literal. Backslashes and double
// quotes are escaped so caller text is always data, never script.
func quote(s string) string {
	return `"` + literalEscaper.Replace(s) + `"`
}

// listScope returns the AppleScript expression for the lists an operation scans
func listScope(listName *string) string {
	if listName != nil {
		return "{list " + quote(*listName) + "}"
	}
	return "lists"
}

func listListsScript() string {
	return `tell application "Reminders"
	set listNames to {}
	repeat with l in lists
		set end of listNames to name of l
	end repeat
	return listNames
end tell`
}

func listRemindersScript(opts ListOptions) string {
	filter := ""
	if !opts.IncludeCompleted {
		filter = " whose completed is false"
	}

	return fmt.Sprintf(`on flatten(theText)
	set savedDelimiters to AppleScript's text item delimiters
	set AppleScript's text item delimiters to {return & linefeed, return, linefeed}
	set theParts to text items of theText
	set AppleScript's text item delimiters to %s
	set flatText to theParts as text
	set AppleScript's text item delimiters to savedDelimiters
	return flatText
end flatten

tell application "Reminders"
	set output to ""
	set theLists to %s
	repeat with l in theLists
		set rList to name of l
		repeat with r in (reminders of l%s)
			set rName to name of r
			set rCompleted to completed of r as string
			set rDue to ""
			try
				set rDue to due date of r as string
			end try
			set rNotes to ""
			try
				set rBody to body of r
				if rBody is not missing value then set rNotes to my flatten(rBody)
			end try
			set output to output & rList & "|" & rName & "|" & rCompleted & "|" & rDue & "|" & rNotes & linefeed
		end repeat
	end repeat
	return output
end tell`, quote(NewlineSentinel), listScope(opts.ListName), filter)
}

func createReminderScript(name string, in CreateInput) string {
	props := []string{"name:" + quote(name)}
	if in.DueDate != nil {
		props = append(props, "due date:date "+quote(*in.DueDate))
	}
	if in.Notes != nil {
		props = append(props, "body:"+quote(*in.Notes))
	}

	target := "default list"
	if in.ListName != nil {
		target = "list " + quote(*in.ListName)
	}

	return fmt.Sprintf(`tell application "Reminders"
	set newReminder to make new reminder at end of %s with properties {%s}
	return name of newReminder
end tell`, target, strings.Join(props, ", "))
}

// findAndApplyScript scans the scope in enumeration order and applies the
// given statements to the first reminder named exactly name. The app's whose
// clause ignores case, so it only narrows the candidates; the final
// comparison runs under considering case.
func findAndApplyScript(name string, listName *string, statements []string) string {
	var body strings.Builder
	for _, stmt := range statements {
		body.WriteString("\t\t\t\t")
		body.WriteString(stmt)
		body.WriteString("\n")
	}

	return fmt.Sprintf(`tell application "Reminders"
	set theLists to %[1]s
	repeat with l in theLists
		repeat with r in (reminders of l whose name is %[2]s)
			set rName to name of r
			considering case
				set isMatch to (rName is %[2]s)
			end considering
			if isMatch then
%[3]s				return %[4]s
			end if
		end repeat
	end repeat
	return %[5]s
end tell`, listScope(listName), quote(name), body.String(), quote(resultOK), quote(resultNotFound))
}

func completeReminderScript(name string, listName *string) string {
	return findAndApplyScript(name, listName, []string{"set completed of r to true"})
}

func updateReminderScript(name string, in UpdateInput) string {
	var statements []string
	if in.Notes != nil {
		statements = append(statements, "set body of r to "+quote(*in.Notes))
	}
	if in.DueDate != nil {
		statements = append(statements, "set due date of r to date "+quote(*in.DueDate))
	}
	// Rename last so the earlier statements still address the matched reminder
	if in.NewName != nil {
		statements = append(statements, "set name of r to "+quote(*in.NewName))
	}
	return findAndApplyScript(name, in.ListName, statements)
}

func deleteReminderScript(name string, listName *string) string {
	return findAndApplyScript(name, listName, []string{"delete r"})
}
