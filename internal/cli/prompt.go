package cli

import (
	"io"
	"net/mail"
	"os"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"

	"github.com/mesh-intelligence/pinhole/internal/bootstrap"
)

// prompter asks the user for values.
type prompter interface {
	choose(label string, items []string, current string) (string, error)
	text(label, current string, validate func(string) error) (string, error)
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type promptuiPrompter struct{}

func (promptuiPrompter) choose(label string, items []string, current string) (string, error) {
	cursor := 0
	for i, it := range items {
		if it == current {
			cursor = i
		}
	}
	sel := promptui.Select{Label: label, Items: items, CursorPos: cursor}
	_, value, err := sel.Run()
	return value, err
}

func (promptuiPrompter) text(label, current string, validate func(string) error) (string, error) {
	p := promptui.Prompt{Label: label, Default: current, AllowEdit: true, Validate: validate}
	return p.Run()
}

// askPreferences walks the user through every preference, starting from
// prefs.
func askPreferences(p prompter, prefs bootstrap.UserSettings) (bootstrap.UserSettings, error) {
	choices := []struct {
		label string
		items []string
		field *string
	}{
		{"Hemisphere", []string{bootstrap.HemisphereNorth, bootstrap.HemisphereSouth}, &prefs.Hemisphere},
		{"Temperature", []string{bootstrap.TemperatureFahrenheit, bootstrap.TemperatureCelsius}, &prefs.TemperatureFormat},
		{"Date format", []string{bootstrap.DateFormatUS, bootstrap.DateFormatInternational}, &prefs.DateFormat},
		{"Time format", []string{bootstrap.TimeFormat12Hour, bootstrap.TimeFormat24Hour}, &prefs.TimeFormat},
		{"Wind arrows", []string{bootstrap.WindTowards, bootstrap.WindWith}, &prefs.WindDirection},
	}
	for _, c := range choices {
		v, err := p.choose(c.label, c.items, *c.field)
		if err != nil {
			return prefs, err
		}
		*c.field = v
	}

	email, err := p.text("Email (optional)", prefs.Email, validateEmail)
	if err != nil {
		return prefs, err
	}
	prefs.Email = email
	return prefs, nil
}

func validateEmail(s string) error {
	if s == "" {
		return nil
	}
	_, err := mail.ParseAddress(s)
	return err
}
