// Package transform implements the content-aware transformations applied to
// lesson documents.
//
// Every transformation implements the Transformation interface: a name, a
// precondition telling whether the transformation was already applied to a
// document, and an Apply operation that mutates the document's content and
// returns how many changes it made.
//
// The transformations are:
//   - StylesheetLinker: inserts a <link rel="stylesheet"> after </title>
//   - PlaceholderInserter: inserts quiz placeholders into tab sections (tree based)
//   - ScriptInjector: inserts the quiz initialization script before </body>
//   - ColorHarmonizer: rewrites theme colors through PatternTransformer rules
//
// Idempotence contract: running a transformation on its own output must be a
// no-op. The text based transformations guarantee it with their Applied
// precondition; the placeholder inserter guarantees it per section; the color
// harmonizer relies on replacement values that never match their own pattern.
package transform
