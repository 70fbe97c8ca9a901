package testutil

import (
	"context"
	"os"
	"sync"
)

// Launch is one recorded diff tool invocation.
type Launch struct {
	Left  string
	Right string

	// LeftContent and RightContent are the file contents at launch time.
	LeftContent  string
	RightContent string
}

// RecordingLauncher records diff tool invocations instead of starting a
// process. It satisfies compare.Launcher.
type RecordingLauncher struct {
	mu       sync.Mutex
	launches []Launch

	// Err, when set, is returned from every Launch.
	Err error
}

// Launch records the pair of files.
func (l *RecordingLauncher) Launch(_ context.Context, left, right string) error {
	if l.Err != nil {
		return l.Err
	}
	rec := Launch{Left: left, Right: right}
	if b, err := os.ReadFile(left); err == nil {
		rec.LeftContent = string(b)
	}
	if b, err := os.ReadFile(right); err == nil {
		rec.RightContent = string(b)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.launches = append(l.launches, rec)
	return nil
}

// Launches returns every recorded invocation, oldest first.
func (l *RecordingLauncher) Launches() []Launch {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Launch, len(l.launches))
	copy(out, l.launches)
	return out
}

// ScriptedConfirmer answers confirmations from a fixed script. Once the
// script runs out every answer is false, the same as a closed console.
// It satisfies compare.Confirmer.
type ScriptedConfirmer struct {
	mu      sync.Mutex
	answers []bool
	prompts []string
}

// NewScriptedConfirmer creates a confirmer that answers in order.
func NewScriptedConfirmer(answers ...bool) *ScriptedConfirmer {
	return &ScriptedConfirmer{answers: answers}
}

// Confirm returns the next scripted answer.
func (c *ScriptedConfirmer) Confirm(prompt string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt)
	if len(c.answers) == 0 {
		return false, nil
	}
	answer := c.answers[0]
	c.answers = c.answers[1:]
	return answer, nil
}

// Prompts returns every prompt shown so far.
func (c *ScriptedConfirmer) Prompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.prompts))
	copy(out, c.prompts)
	return out
}

// AlwaysConfirm returns a confirmer that answers yes n times.
func AlwaysConfirm(n int) *ScriptedConfirmer {
	answers := make([]bool, n)
	for i := range answers {
		answers[i] = true
	}
	return NewScriptedConfirmer(answers...)
}
