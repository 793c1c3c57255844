package provision

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/nhle/clerk/internal/model"
)

func init() {
	// Outlook's PRF reader expects compact key=value lines.
	ini.PrettyFormat = false
	ini.PrettyEqual = false
}

type prfKey struct {
	name, value string
}

type prfSection struct {
	name string
	keys []prfKey
}

// RenderPRF renders the Outlook profile description consumed by
// "OUTLOOK.EXE /importprf". The output embeds the credential; callers must
// delete the file once the import has run. Values the PRF format cannot
// carry verbatim are rejected with a *model.ValidationError.
func RenderPRF(p model.AccountProfile) ([]byte, error) {
	if err := checkPRFValues(p); err != nil {
		return nil, err
	}

	// Inline comment markers are legal in passwords and must be written raw.
	cfg := ini.Empty(ini.LoadOptions{IgnoreInlineComment: true})

	for _, s := range prfSections(p) {
		sec, err := cfg.NewSection(s.name)
		if err != nil {
			return nil, fmt.Errorf("adding PRF section %s: %w", s.name, err)
		}
		for _, k := range s.keys {
			if _, err := sec.NewKey(k.name, k.value); err != nil {
				return nil, fmt.Errorf("adding PRF key %s.%s: %w", s.name, k.name, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("writing PRF: %w", err)
	}
	return buf.Bytes(), nil
}

// prfRepresentable reports whether ini writes v without quoting. Outlook
// reads quote characters as part of the value.
func prfRepresentable(v string) bool {
	if strings.ContainsAny(v, "`\r\n") {
		return false
	}
	return strings.TrimSpace(v) == v
}

func checkPRFValues(p model.AccountProfile) error {
	if !prfRepresentable(p.Credential) {
		// The message must not echo the credential.
		return &model.ValidationError{
			Field:   "password",
			Message: "password cannot contain backticks or line breaks, or start or end with a space",
		}
	}

	fields := []struct {
		name, value string
	}{
		{"email", p.Address},
		{"display name", p.DisplayName},
		{"profile name", p.ProfileName},
		{"incoming server", p.Servers.Incoming.Host},
		{"outgoing server", p.Servers.Outgoing.Host},
	}
	for _, f := range fields {
		if !prfRepresentable(f.value) {
			return &model.ValidationError{
				Field:   f.name,
				Message: fmt.Sprintf("%s %q cannot be written to a PRF file", f.name, f.value),
			}
		}
	}
	return nil
}

func prfSections(p model.AccountProfile) []prfSection {
	leave := "0x0"
	if p.RetainOnServer {
		leave = "0x1"
	}

	return []prfSection{
		{"General", []prfKey{
			{"Custom", "1"},
			{"ProfileName", p.ProfileName},
			{"DefaultProfile", "Yes"},
			{"OverwriteProfile", "Yes"},
			{"ModifyDefaultProfileIfPresent", "FALSE"},
		}},
		{"Service List", []prfKey{
			{"ServiceX", "Microsoft Outlook Client"},
			{"Service1", "Unicode Personal Folders"},
		}},
		{"Internet Account List", []prfKey{
			{"Account1", "I_Mail"},
		}},
		{"Service1", []prfKey{
			{"UniqueService", "No"},
			{"Name", p.DisplayName},
			{"PathAndFilenameToPersonalFolders", `%USERPROFILE%\Documents\Outlook Files\` + p.ProfileName + ".pst"},
		}},
		{"Account1", []prfKey{
			{"UniqueService", "No"},
			{"AccountName", p.Address},
			{"DisplayName", p.DisplayName},
			{"EmailAddress", p.Address},
			{"POP3Server", p.Servers.Incoming.Host},
			{"POP3Port", strconv.Itoa(p.Servers.Incoming.Port)},
			{"POP3UseSSL", "0"},
			{"POP3UserName", p.Address},
			{"POP3Password", p.Credential},
			{"POP3UseSPA", "0"},
			{"SMTPServer", p.Servers.Outgoing.Host},
			{"SMTPPort", strconv.Itoa(p.Servers.Outgoing.Port)},
			{"SMTPSecureConnection", "0"},
			{"SMTPUseAuth", "1"},
			{"SMTPAuthMethod", "0"},
			{"SMTPUserName", p.Address},
			{"SMTPUseSPA", "0"},
			{"ConnectionType", "0"},
			{"LeaveOnServer", leave},
			{"DeliverToStore", "Service1"},
		}},
		// Property mapping for the I_Mail account type.
		{"I_Mail", []prfKey{
			{"AccountType", AccountTypePOP3},
			{"AccountName", "PT_UNICODE,0x0002"},
			{"DisplayName", "PT_UNICODE,0x000B"},
			{"EmailAddress", "PT_UNICODE,0x000C"},
			{"POP3Server", "PT_UNICODE,0x0100"},
			{"POP3UserName", "PT_UNICODE,0x0101"},
			{"POP3UseSPA", "PT_LONG,0x0108"},
			{"POP3Port", "PT_LONG,0x0104"},
			{"POP3UseSSL", "PT_LONG,0x0105"},
			{"SMTPServer", "PT_UNICODE,0x0200"},
			{"SMTPPort", "PT_LONG,0x0201"},
			{"SMTPUseAuth", "PT_LONG,0x0203"},
			{"SMTPUserName", "PT_UNICODE,0x0204"},
			{"SMTPUseSPA", "PT_LONG,0x0207"},
			{"SMTPAuthMethod", "PT_LONG,0x0208"},
			{"SMTPSecureConnection", "PT_LONG,0x020A"},
			{"ConnectionType", "PT_LONG,0x000F"},
			{"LeaveOnServer", "PT_LONG,0x1000"},
			{"DeliverToStore", "PT_UNICODE,0x0011"},
		}},
	}
}
