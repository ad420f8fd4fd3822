package reminders

import "strings"

// parseListNames splits the comma-joined list names printed by osascript
func parseListNames(output string) []string {
	if strings.TrimSpace(output) == "" {
		return []string{}
	}

	parts := strings.Split(output, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		names = append(names, strings.TrimSpace(part))
	}
	return names
}

// parseReminders parses one reminder per line in the format
// list|name|completed|due_date|notes. Lines with fewer than three fields are
// skipped; the second return value counts them.
func parseReminders(output string) ([]Reminder, int) {
	reminders := []Reminder{}
	skipped := 0

	// Notes have no length limit, so lines are split rather than scanned
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		reminder, ok := parseReminderLine(line)
		if !ok {
			skipped++
			continue
		}
		reminders = append(reminders, reminder)
	}

	return reminders, skipped
}

// parseReminderLine parses a single listing line
func parseReminderLine(line string) (Reminder, bool) {
	parts := strings.Split(line, fieldSeparator)
	if len(parts) < 3 {
		return Reminder{}, false
	}

	reminder := Reminder{
		List:      parts[0],
		Name:      parts[1],
		Completed: strings.EqualFold(parts[2], "true"),
	}

	if len(parts) > 3 && parts[3] != "" && parts[3] != missingValue {
		due := parts[3]
		reminder.DueDate = &due
	}

	// Notes are the last field, so any further separators belong to them
	if len(parts) > 4 {
		notes := strings.Join(parts[4:], fieldSeparator)
		if notes != "" {
			notes = strings.ReplaceAll(notes, NewlineSentinel, "\n")
			reminder.Notes = &notes
		}
	}

	return reminder, true
}

// parseResult interprets the status printed by a mutating script
func parseResult(output string) Result {
	if strings.TrimSpace(output) == resultOK {
		return Found
	}
	return NotFound
}
