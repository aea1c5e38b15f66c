// Package pipeline runs the patch stages of a lesson document in sequence.
//
// A document is loaded once, passed through an ordered list of
// transformations held in memory, and committed with a single write at the
// end. Each stage is implemented as a Step that receives the current
// PatchReport and can modify it.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. The quiz and theme variants share loading, committing and reporting
// 2. It provides consistent error handling and logging across stages
// 3. It supports cancellation via context between stages
//
// The pipeline supports both single documents and batches with concurrency
// control using errgroup.
package pipeline
