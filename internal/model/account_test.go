package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "alice.smith@example.com", false},
		{"minimal", "a@b.c", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"no separator", "alice.example.com", true},
		{"no domain marker", "alice@example", true},
		// Weak check: a dot anywhere satisfies the domain marker.
		{"dot in local part only", "alice.smith@localhost", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAddress(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidationError(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDeriveProfileName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"alice.smith@example.com", "alice.smith"},
		{"bob@example.org", "bob"},
		{"first@second@example.com", "first"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DeriveProfileName(tt.input))
	}
}

func TestNewAccountProfile(t *testing.T) {
	servers := DefaultAppConfig().Servers

	p, err := NewAccountProfile("alice.smith@example.com", "s3cret", servers)
	require.NoError(t, err)

	assert.Equal(t, "alice.smith", p.ProfileName)
	assert.Equal(t, "alice.smith", p.DisplayName)
	assert.Equal(t, "alice.smith@example.com", p.Address)
	assert.Equal(t, "s3cret", p.Credential)
	assert.False(t, p.RetainOnServer)
	assert.Equal(t, "mail.kurumsaleposta.com:110", p.Servers.Incoming.String())
	assert.Equal(t, "mail.kurumsaleposta.com:587", p.Servers.Outgoing.String())
}

func TestNewAccountProfileRejectsEmptyLocalPart(t *testing.T) {
	_, err := NewAccountProfile("@example.com", "pw", ServerSettings{})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestMaskedCredential(t *testing.T) {
	p := AccountProfile{Credential: "hunter2"}
	assert.Equal(t, "********", p.MaskedCredential())
	assert.NotContains(t, p.MaskedCredential(), "hunter2")

	p.Credential = ""
	assert.Equal(t, "(empty)", p.MaskedCredential())
}
