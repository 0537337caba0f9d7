// Package sections holds the calculator section controllers. Each controller
// owns one region of the page, renders it for the currently selected
// proschet, and stays consistent with its siblings through bus events only —
// sections never call each other directly.
package sections

// retryState remembers the last failed load so the section's retry button can
// re-run it with the same proschet.
type retryState struct {
	proschetID int64
	title      string
}
