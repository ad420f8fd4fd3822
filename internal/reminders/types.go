package reminders

// Reminder represents a single item of a Reminders list
type Reminder struct {
	// List is the name of the owning list
	List string `json:"list"`

	// Name is the reminder title (not guaranteed unique)
	Name string `json:"name"`

	// Completed reports whether the reminder is checked off
	Completed bool `json:"completed"`

	// DueDate is rendered by the Reminders app (e.g. "Thursday, February 27, 2026 at 9:00:00 AM").
	// Nil when the reminder has no due date.
	DueDate *string `json:"due_date"`

	// Notes is the reminder body, nil when empty
	Notes *string `json:"notes"`
}

// ListOptions selects which reminders ListReminders returns
type ListOptions struct {
	// ListName restricts the listing to one list; nil means all lists
	ListName *string

	// IncludeCompleted also returns reminders that are checked off
	IncludeCompleted bool
}

// CreateInput holds the optional fields of a new reminder
type CreateInput struct {
	// ListName is the target list; nil means the app's default list
	ListName *string

	// DueDate is date text the Reminders app can parse (e.g. "March 1, 2026 at 9:00 AM")
	DueDate *string

	// Notes becomes the reminder body
	Notes *string
}

// UpdateInput holds the fields to change on an existing reminder.
// Only non-nil fields are applied.
type UpdateInput struct {
	// ListName narrows the search to one list
	ListName *string

	NewName *string
	Notes   *string
	DueDate *string
}

// HasChanges reports whether any field would be modified
func (in UpdateInput) HasChanges() bool {
	return in.NewName != nil || in.Notes != nil || in.DueDate != nil
}

// Result is the outcome of a name lookup performed by a mutating operation
type Result int

const (
	// NotFound means no reminder with the given name exists in scope
	NotFound Result = iota

	// Found means the first matching reminder was processed
	Found
)

// Found reports whether the lookup matched a reminder
func (r Result) Found() bool {
	return r == Found
}

// String implements fmt.Stringer
func (r Result) String() string {
	if r == Found {
		return "found"
	}
	return "not found"
}

// String returns a pointer to s, for populating optional fields
func String(s string) *string {
	return &s
}

// OptionalString returns nil for an empty string and a pointer to s otherwise
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
