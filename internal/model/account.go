package model

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports user input that failed the minimal shape checks.
// Callers recover from it locally by asking for the value again.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err (or any error in its chain) is a ValidationError.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// Endpoint is a mail server host and port pair.
type Endpoint struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// String returns host:port.
func (e Endpoint) String() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}

// ServerSettings holds the fixed deployment servers an account is bound to.
type ServerSettings struct {
	Incoming Endpoint `mapstructure:"incoming" yaml:"incoming"`
	Outgoing Endpoint `mapstructure:"outgoing" yaml:"outgoing"`
}

// AccountProfile is the one entity this tool creates: a named POP3 account
// profile for the target mail client.
type AccountProfile struct {
	// ProfileName is the unique key of the profile in the target store.
	ProfileName string

	// DisplayName defaults to ProfileName.
	DisplayName string

	Address string

	// Credential is consumed once by provisioning. It must never be logged
	// or rendered.
	Credential string

	Servers ServerSettings

	// RetainOnServer is always false for this deployment.
	RetainOnServer bool
}

// ValidateAddress applies the weak syntactic check used by the input form:
// the address must be non-blank and contain both "@" and ".".
// It is not RFC 5322 validation.
func ValidateAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return &ValidationError{Field: "email", Message: "email cannot be empty"}
	}
	if !strings.Contains(address, "@") || !strings.Contains(address, ".") {
		return &ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// DeriveProfileName returns the text before the first "@". Callers must
// validate the address first; without a separator the whole input is returned.
func DeriveProfileName(address string) string {
	local, _, _ := strings.Cut(address, "@")
	return local
}

// NewAccountProfile validates address and builds the profile record with
// the display name defaulted to the derived profile name.
func NewAccountProfile(address, credential string, servers ServerSettings) (AccountProfile, error) {
	if err := ValidateAddress(address); err != nil {
		return AccountProfile{}, err
	}

	name := DeriveProfileName(address)
	if name == "" {
		return AccountProfile{}, &ValidationError{
			Field:   "email",
			Message: "address has no text before @",
		}
	}

	return AccountProfile{
		ProfileName:    name,
		DisplayName:    name,
		Address:        address,
		Credential:     credential,
		Servers:        servers,
		RetainOnServer: false,
	}, nil
}

// MaskedCredential returns a fixed-width placeholder for the credential.
func (p AccountProfile) MaskedCredential() string {
	if p.Credential == "" {
		return "(empty)"
	}
	return "********"
}
