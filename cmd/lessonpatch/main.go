// Package main provides the entry point for the lessonpatch CLI.
//
// lessonpatch applies idempotent patches to static lesson pages: it links
// the quiz or theme stylesheet, inserts quiz placeholders into tab
// sections, injects the quiz initialization script and harmonizes theme
// colors. Every rewritten page is backed up first.
//
// Usage:
//
//	lessonpatch quiz maths-lecon-2-diviseurs.html
//	lessonpatch theme --all --dry-run
//
// See --help for all available options.
package main

// main is the entry point for lessonpatch.
func main() {
	Execute()
}
