// Package ui holds the interactive surface: the credential form, the
// preview table, the progress spinner, and the result panels.
package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/nhle/clerk/internal/model"
)

// ErrAborted is returned when the user quits a prompt.
var ErrAborted = errors.New("aborted by user")

// Credentials is what the input form collects.
type Credentials struct {
	Address  string
	Password string
}

// credentialsForm builds the address and password form. The address field
// re-prompts until ValidateAddress passes; the password is masked.
func credentialsForm(c *Credentials) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email address").
				Description("The profile is named after the part before @").
				Placeholder("user@example.com").
				Value(&c.Address).
				Validate(validateAddress),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&c.Password),
		),
	)
}

func validateAddress(s string) error {
	if err := model.ValidateAddress(s); err != nil {
		var vErr *model.ValidationError
		if errors.As(err, &vErr) {
			return errors.New(vErr.Message)
		}
		return err
	}
	return nil
}

// CollectCredentials prompts for the address and password.
func CollectCredentials() (Credentials, error) {
	var c Credentials
	if err := run(credentialsForm(&c)); err != nil {
		return Credentials{}, err
	}
	c.Address = strings.TrimSpace(c.Address)
	return c, nil
}

// Confirm asks a yes/no question, defaulting to no.
func Confirm(title string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	)
	if err := run(form); err != nil {
		return false, err
	}
	return ok, nil
}

func run(f *huh.Form) error {
	if err := f.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return fmt.Errorf("prompt: %w", err)
	}
	return nil
}
