package model

// ChangeEntry is the result of one transformation stage on one document.
type ChangeEntry struct {
	// Name is the transformation name (e.g. "stylesheet", "placeholders").
	Name string `json:"name"`

	// Applied is true when the stage modified the document.
	Applied bool `json:"applied"`

	// Count is the number of changes made by the stage
	// (links inserted, sections patched, scripts inserted, substitutions).
	Count int `json:"count"`

	// Skipped is the number of units the stage deliberately left alone.
	// Only the placeholder stage reports skipped sections.
	Skipped int `json:"skipped,omitempty"`
}

// ChangeReport is the ordered list of stage results for a document.
type ChangeReport []ChangeEntry

// Entry returns the entry with the given name.
func (c ChangeReport) Entry(name string) (ChangeEntry, bool) {
	for _, e := range c {
		if e.Name == name {
			return e, true
		}
	}
	return ChangeEntry{}, false
}

// TotalChanges returns the sum of Count over all applied entries.
func (c ChangeReport) TotalChanges() int {
	total := 0
	for _, e := range c {
		if e.Applied {
			total += e.Count
		}
	}
	return total
}

// AnyApplied reports whether at least one stage modified the document.
func (c ChangeReport) AnyApplied() bool {
	for _, e := range c {
		if e.Applied {
			return true
		}
	}
	return false
}

// Diagnostic is a non-fatal observation made by a stage.
type Diagnostic struct {
	// Stage is the name of the stage that produced the diagnostic.
	Stage string `json:"stage"`

	// Section is the section identity token, when the diagnostic is section scoped.
	Section string `json:"section,omitempty"`

	// Message describes what was observed.
	Message string `json:"message"`
}

// String formats the diagnostic for terminal output.
func (d Diagnostic) String() string {
	if d.Section != "" {
		return d.Stage + " [" + d.Section + "]: " + d.Message
	}
	return d.Stage + ": " + d.Message
}
