package config

// Built-in resources referenced by the quiz pipeline.
const (
	DefaultQuizStylesheet    = "css/section-quiz.css"
	DefaultQuizScript        = "js/section-quiz.js"
	DefaultQuizQuestions     = "data/section-questions.json"
	DefaultQuizInitFunction  = "initSectionQuiz"
	DefaultSectionSelector   = "div.tab-content"
	DefaultContainerSelector = "div.container"
)

// DefaultThemeStylesheet is the theme stylesheet inserted by the theme pipeline.
const DefaultThemeStylesheet = "css/karniella-theme.css"

// DefaultQuizDocuments is the quiz registry. Lessons that already carry
// section quizzes are not listed.
var DefaultQuizDocuments = []string{
	"maths-lecon-2-diviseurs.html",
	"maths-lecon-3-droites-points.html",
	"maths-lecon-4-secantes-perpendiculaires.html",
	"maths-lecon-5-droites-paralleles.html",
	"maths-lecon-6-proprietes.html",
	"maths-lecon-7-nombres-relatifs.html",
	"maths-lecon-8-somme-relatifs.html",
	"maths-lecon-segments.html",
	"le-circuit-electrique.html",
	"lecon-3-court-circuit.html",
	"les-commandes-electriques.html",
}

// DefaultThemeDocuments is the theme registry: every lesson page and its
// companion quiz page, excluding the index, admin and viewer pages.
var DefaultThemeDocuments = []string{
	// Maths
	"maths-lecon-1-calculs-algebriques.html",
	"maths-lecon-2-diviseurs.html",
	"maths-lecon-3-droites-points.html",
	"maths-lecon-4-secantes-perpendiculaires.html",
	"maths-lecon-5-droites-paralleles.html",
	"maths-lecon-6-proprietes.html",
	"maths-lecon-7-nombres-relatifs.html",
	"maths-lecon-8-somme-relatifs.html",
	"maths-lecon-segments.html",

	// Physics
	"le-circuit-electrique.html",
	"lecon-3-court-circuit.html",
	"les-commandes-electriques.html",

	// Other subjects
	"svt.html",
	"histoire-geographie.html",
	"education-civique.html",

	// Quiz pages
	"le-circuit-electrique-quiz.html",
	"lecon-3-court-circuit-quiz.html",
	"les-commandes-electriques-quiz.html",
	"education-civique-quiz.html",
	"maths-lecon-7-nombres-relatifs-quiz.html",
	"maths-lecon-8-somme-relatifs-quiz.html",
}

// DefaultThemeReplacements moves every lesson onto the pink theme.
// Order matters: the gradient rules run before the single-color rules that
// would otherwise consume their stops. No replacement value matches any
// pattern, so a second pass is a no-op.
var DefaultThemeReplacements = []ReplacementRule{
	// Headers
	{Pattern: `linear-gradient\(135deg,\s*#667eea\s+0%,\s*#764ba2\s+100%\)`, Replacement: "linear-gradient(135deg, #FF69B4 0%, #FF1493 100%)"},
	{Pattern: `linear-gradient\(135deg,\s*#5433ff\s+0%,\s*#20bdff\s+100%\)`, Replacement: "linear-gradient(135deg, #FF69B4 0%, #FF1493 100%)"},

	// Buttons
	{Pattern: `#667eea`, Replacement: "#FF69B4"},
	{Pattern: `#764ba2`, Replacement: "#FF1493"},
	{Pattern: `#5433ff`, Replacement: "#FF69B4"},
	{Pattern: `#20bdff`, Replacement: "#FF69B4"},

	// Inactive tabs
	{Pattern: `background:\s*#444`, Replacement: "background: linear-gradient(135deg, #FFE5F0 0%, #FFB6D9 100%); color: #C71585; font-weight: 700"},
}
