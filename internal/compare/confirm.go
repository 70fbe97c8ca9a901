package compare

// ContinuePrompt is shown after each diff tool invocation.
const ContinuePrompt = "Go to next set? [y/n]: "

// Confirmer asks the operator a yes/no question and blocks for the answer.
// A closed input must be reported as false with a nil error.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}
