package transform

import (
	"bytes"
	"fmt"
	"path"
	"regexp"
	"strings"
	"text/template"

	"github.com/jhouedanou/lessonpatch/internal/model"
)

// Default runtime resources referenced by the injected script.
const (
	// DefaultScriptSrc is the quiz widget script.
	DefaultScriptSrc = "js/section-quiz.js"

	// DefaultQuestionsURL is the question data file, keyed by lesson identifier.
	DefaultQuestionsURL = "data/section-questions.json"

	// DefaultInitFunction is the widget entry point called once per placeholder.
	DefaultInitFunction = "initSectionQuiz"
)

var (
	// bodyCloseRe finds the boundary the script block is inserted before.
	bodyCloseRe = regexp.MustCompile(`(?i)</body\s*>`)

	// placeholderTokenRe matches the quiz placeholders for "tab<N>" sections.
	placeholderTokenRe = regexp.MustCompile(`id=["']quiz-tab\d+["']`)
)

// initScriptTemplate renders the initialization block.
// The block loads the question table, picks the lesson's entry and calls
// the widget entry point once per placeholder ordinal. A failed fetch is
// reported in the browser console by the .catch fallback.
var initScriptTemplate = template.Must(template.New("init").Parse(`
    <!-- Section Quiz Component -->
    <script src="{{html .ScriptSrc}}"></script>
    <script>
        // Load quiz questions from JSON
        fetch('{{js .QuestionsURL}}')
            .then(response => response.json())
            .then(data => {
                const lessonQuestions = data['{{js .LessonID}}'];

                if (!lessonQuestions) {
                    console.warn('No questions found for lesson: {{js .LessonID}}');
                    return;
                }

                // Initialize quizzes for each tab
{{range .Ordinals}}                if (lessonQuestions['tab{{.}}']) {
                    {{$.InitFunction}}('quiz-tab{{.}}', lessonQuestions['tab{{.}}']);
                }

{{end}}            })
            .catch(error => {
                console.error('Failed to load section questions:', error);
            });
    </script>`))

// scriptData is the template input.
type scriptData struct {
	ScriptSrc    string
	QuestionsURL string
	LessonID     string
	InitFunction string
	Ordinals     []int
}

// ScriptInjector appends the quiz initialization block before </body>.
type ScriptInjector struct {
	scriptSrc    string
	questionsURL string
	initFunction string
	marker       string
}

// ScriptOption configures a ScriptInjector.
type ScriptOption func(*ScriptInjector)

// WithScriptSrc sets the widget script path.
func WithScriptSrc(src string) ScriptOption {
	return func(s *ScriptInjector) {
		s.scriptSrc = src
	}
}

// WithQuestionsURL sets the question data path fetched at runtime.
func WithQuestionsURL(url string) ScriptOption {
	return func(s *ScriptInjector) {
		s.questionsURL = url
	}
}

// WithInitFunction sets the widget entry point name.
func WithInitFunction(name string) ScriptOption {
	return func(s *ScriptInjector) {
		s.initFunction = name
	}
}

// NewScriptInjector creates a ScriptInjector with the lesson defaults.
func NewScriptInjector(opts ...ScriptOption) *ScriptInjector {
	s := &ScriptInjector{
		scriptSrc:    DefaultScriptSrc,
		questionsURL: DefaultQuestionsURL,
		initFunction: DefaultInitFunction,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.marker = path.Base(s.scriptSrc)
	return s
}

// Name returns the stage name.
func (s *ScriptInjector) Name() string {
	return StageScript
}

// Applied reports whether the widget script is already referenced.
func (s *ScriptInjector) Applied(doc *model.Document) bool {
	return strings.Contains(doc.Content, s.marker)
}

// Apply inserts the initialization block.
// Nothing is inserted when the document has no placeholders or no </body>.
func (s *ScriptInjector) Apply(doc *model.Document) (Result, error) {
	count := CountPlaceholders(doc.Content)
	if count == 0 {
		return Result{
			Diagnostics: []model.Diagnostic{diagnostic(StageScript, "", "no quiz placeholders found; script not inserted")},
		}, nil
	}

	loc := bodyCloseRe.FindStringIndex(doc.Content)
	if loc == nil {
		return Result{
			Diagnostics: []model.Diagnostic{diagnostic(StageScript, "", "no </body> boundary; script not inserted")},
		}, nil
	}

	block, err := s.Render(doc.ID, count)
	if err != nil {
		return Result{}, err
	}

	doc.Content = doc.Content[:loc[0]] + block + "\n" + doc.Content[loc[0]:]
	return Result{Count: 1}, nil
}

// Render produces the initialization block for a lesson with count placeholders.
func (s *ScriptInjector) Render(lessonID string, count int) (string, error) {
	data := scriptData{
		ScriptSrc:    s.scriptSrc,
		QuestionsURL: s.questionsURL,
		LessonID:     lessonID,
		InitFunction: s.initFunction,
		Ordinals:     make([]int, count),
	}
	for i := 0; i < count; i++ {
		data.Ordinals[i] = i + 1
	}

	var buf bytes.Buffer
	if err := initScriptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render init script: %w", err)
	}
	return buf.String(), nil
}

// CountPlaceholders returns the number of quiz-tab<N> placeholder tokens in text.
func CountPlaceholders(text string) int {
	return len(placeholderTokenRe.FindAllStringIndex(text, -1))
}
