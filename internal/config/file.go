package config

import "fmt"

// ReplacementRule is one ordered theme substitution.
// Pattern is a regular expression matched case-insensitively.
type ReplacementRule struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// QuizSettings configures the quiz pipeline.
type QuizSettings struct {
	// Stylesheet is the href of the quiz stylesheet inserted after </title>.
	Stylesheet string `yaml:"stylesheet,omitempty"`

	// Script is the src of the quiz widget script.
	Script string `yaml:"script,omitempty"`

	// Questions is the question data file fetched by the injected script.
	Questions string `yaml:"questions,omitempty"`

	// InitFunction is the widget entry point called per placeholder.
	InitFunction string `yaml:"initFunction,omitempty"`

	// SectionSelector selects the tab sections.
	SectionSelector string `yaml:"sectionSelector,omitempty"`

	// ContainerSelector selects the insertion container inside a section.
	ContainerSelector string `yaml:"containerSelector,omitempty"`

	// Documents is the registry processed by --all.
	Documents []string `yaml:"documents,omitempty"`
}

// ThemeSettings configures the theme pipeline.
type ThemeSettings struct {
	// Stylesheet is the href of the theme stylesheet inserted after </title>.
	Stylesheet string `yaml:"stylesheet,omitempty"`

	// Documents is the registry processed by --all.
	Documents []string `yaml:"documents,omitempty"`

	// Replacements are applied in order. A non-empty list replaces the
	// built-in rules entirely; rules are not merged one by one.
	Replacements []ReplacementRule `yaml:"replacements,omitempty"`
}

// File represents the structure of the .lessonpatch.yaml configuration file.
type File struct {
	// Root is the directory registry paths are resolved against.
	Root string `yaml:"root,omitempty"`

	// Quiz configures the quiz pipeline.
	Quiz QuizSettings `yaml:"quiz,omitempty"`

	// Theme configures the theme pipeline.
	Theme ThemeSettings `yaml:"theme,omitempty"`
}

// DefaultFile returns the built-in settings.
func DefaultFile() *File {
	return &File{
		Quiz: QuizSettings{
			Stylesheet:        DefaultQuizStylesheet,
			Script:            DefaultQuizScript,
			Questions:         DefaultQuizQuestions,
			InitFunction:      DefaultQuizInitFunction,
			SectionSelector:   DefaultSectionSelector,
			ContainerSelector: DefaultContainerSelector,
			Documents:         append([]string(nil), DefaultQuizDocuments...),
		},
		Theme: ThemeSettings{
			Stylesheet:   DefaultThemeStylesheet,
			Documents:    append([]string(nil), DefaultThemeDocuments...),
			Replacements: append([]ReplacementRule(nil), DefaultThemeReplacements...),
		},
	}
}

// WithDefaults returns a copy of f where every empty field is filled from
// DefaultFile. Non-empty lists replace the defaults as a whole.
func (f *File) WithDefaults() *File {
	d := DefaultFile()
	if f == nil {
		return d
	}

	result := *f

	q := &result.Quiz
	q.Stylesheet = firstNonEmpty(q.Stylesheet, d.Quiz.Stylesheet)
	q.Script = firstNonEmpty(q.Script, d.Quiz.Script)
	q.Questions = firstNonEmpty(q.Questions, d.Quiz.Questions)
	q.InitFunction = firstNonEmpty(q.InitFunction, d.Quiz.InitFunction)
	q.SectionSelector = firstNonEmpty(q.SectionSelector, d.Quiz.SectionSelector)
	q.ContainerSelector = firstNonEmpty(q.ContainerSelector, d.Quiz.ContainerSelector)
	if len(q.Documents) == 0 {
		q.Documents = d.Quiz.Documents
	}

	th := &result.Theme
	th.Stylesheet = firstNonEmpty(th.Stylesheet, d.Theme.Stylesheet)
	if len(th.Documents) == 0 {
		th.Documents = d.Theme.Documents
	}
	if len(th.Replacements) == 0 {
		th.Replacements = d.Theme.Replacements
	}

	return &result
}

// Validate checks the settings for values that cannot be used.
// Pattern syntax is checked when the theme pipeline compiles its rules.
func (f *File) Validate() error {
	if f.Quiz.Stylesheet == "" || f.Theme.Stylesheet == "" {
		return ErrEmptyStylesheet
	}
	for i, r := range f.Theme.Replacements {
		if r.Pattern == "" {
			return fmt.Errorf("%w (rule %d)", ErrEmptyReplacementPattern, i)
		}
	}
	return nil
}

// firstNonEmpty returns v when set, otherwise fallback.
func firstNonEmpty(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
