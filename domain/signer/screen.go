package signer

// Screen is the user-facing surface a session presents outputs on. The
// terminal implementation prompts interactively; tests and headless runs
// substitute their own.
type Screen interface {
	// Confirm presents two lines and waits for an approve or reject
	// decision.
	Confirm(line1, line2 string) (bool, error)

	// Show presents two lines without asking for a decision.
	Show(line1, line2 string) error
}
