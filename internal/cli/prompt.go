package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("cancelled")

func runForm(f *huh.Form) error {
	if err := f.WithTheme(huh.ThemeCharm()).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return fmt.Errorf("interactive form error: %w", err)
	}
	return nil
}

// PromptMissing asks for every field whose value is empty. Secret fields
// are read without echo.
func PromptMissing(fields []PromptField) error {
	var inputs []huh.Field
	for _, f := range fields {
		if strings.TrimSpace(*f.Value) != "" {
			continue
		}
		in := huh.NewInput().Title(f.Title).Value(f.Value).Validate(f.validate)
		if f.Secret {
			in = in.EchoMode(huh.EchoModePassword)
		}
		inputs = append(inputs, in)
	}
	if len(inputs) == 0 {
		return nil
	}
	return runForm(huh.NewForm(huh.NewGroup(inputs...)))
}

// PromptField is one value PromptMissing may ask for.
type PromptField struct {
	Title  string
	Value  *string
	Secret bool
}

func (f PromptField) validate(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%s is required", strings.ToLower(f.Title))
	}
	return nil
}

// Confirm asks a yes/no question.
func Confirm(title string) (bool, error) {
	var ok bool
	err := runForm(huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(title).Affirmative("Yes").Negative("No").Value(&ok),
	)))
	return ok, err
}

// Choose asks the user to pick one of options and returns its index.
func Choose(title string, options []string) (int, error) {
	opts := make([]huh.Option[int], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o, i)
	}
	var idx int
	err := runForm(huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().Title(title).Options(opts...).Value(&idx),
	)))
	return idx, err
}

// ChooseMany asks the user to pick any number of options, returning indexes.
func ChooseMany(title string, options []string) ([]int, error) {
	opts := make([]huh.Option[int], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o, i)
	}
	var picked []int
	err := runForm(huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[int]().Title(title).Options(opts...).Value(&picked),
	)))
	return picked, err
}

// Input asks for one line of free text. An empty answer is allowed.
func Input(title, placeholder string) (string, error) {
	var v string
	err := runForm(huh.NewForm(huh.NewGroup(
		huh.NewInput().Title(title).Placeholder(placeholder).Value(&v),
	)))
	return v, err
}
