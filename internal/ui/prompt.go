// Package ui handles operator interaction: confirmation prompts and
// styled console output. Prompts only run on a terminal; in
// non-interactive runs every decision resolves to the safe answer
// (decline) unless --yes was given.
package ui

import (
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// Prompter asks yes/no questions through huh forms.
type Prompter struct {
	assumeYes   bool
	interactive bool
}

// NewPrompter creates a prompter. assumeYes answers every question with
// yes without prompting.
func NewPrompter(assumeYes bool) *Prompter {
	return &Prompter{
		assumeYes:   assumeYes,
		interactive: isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()),
	}
}

// Confirm asks the question. Without a terminal and without --yes the
// answer is no: an unattended run must never wait on input, and
// declining is always the safe direction.
func (p *Prompter) Confirm(title, description string) (bool, error) {
	if p.assumeYes {
		return true, nil
	}
	if !p.interactive {
		return false, nil
	}

	confirmed := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Description(description).
			Affirmative("Yes").
			Negative("No").
			Value(&confirmed),
	))
	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}
