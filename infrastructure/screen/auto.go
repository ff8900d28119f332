package screen

// AutoApprove approves every prompt without operator interaction. It is meant
// for non-interactive setups; prompts are logged so the approval history
// stays visible.
type AutoApprove struct{}

// NewAutoApprove returns an AutoApprove screen.
func NewAutoApprove() *AutoApprove {
	return &AutoApprove{}
}

// Confirm logs the given prompt and approves it.
func (a *AutoApprove) Confirm(line1, line2 string) (bool, error) {
	log.Infof("Auto-approving prompt: %s %s", line1, line2)
	return true, nil
}

// Show logs the given two lines.
func (a *AutoApprove) Show(line1, line2 string) error {
	log.Infof("Displaying: %s %s", line1, line2)
	return nil
}
