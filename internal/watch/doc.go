// Package watch implements gopherlings' watch mode.
//
// Watch mode runs two goroutines that share a small amount of state:
//
//   - The orchestrator loop owns the file watcher and the verification
//     engine. It waits for debounced change batches (or a poll tick),
//     recomputes the pending exercises, re-verifies them and publishes the
//     failing exercise's hint.
//   - The interactive shell reads commands from standard input. It reads
//     the published hint and may raise the quit flag.
//
// HintState and QuitFlag are the only values touched by both goroutines.
// Neither is ever locked across a blocking call, and the quit flag is only
// checked between loop iterations, so a verification pass in progress always
// runs to completion.
package watch
