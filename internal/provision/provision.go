// Package provision creates the Outlook POP3 account profile, either by
// writing the profiles store directly or by handing a PRF file to Outlook's
// own importer and repairing what it leaves behind.
package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/nhle/clerk/internal/model"
	"github.com/nhle/clerk/internal/store"
)

// Provisioner turns an account profile into durable client configuration.
type Provisioner interface {
	Provision(ctx context.Context, p model.AccountProfile) error
}

// Value names of an account node.
const (
	ValAccountName       = "Account Name"
	ValEmail             = "Email"
	ValDisplayName       = "Display Name"
	ValPOP3Server        = "POP3 Server"
	ValPOP3Port          = "POP3 Port"
	ValPOP3UseSSL        = "POP3 Use SSL"
	ValSMTPServer        = "SMTP Server"
	ValSMTPPort          = "SMTP Port"
	ValSMTPUseSSL        = "SMTP Use SSL"
	ValSMTPUseAuth       = "SMTP Use Auth"
	ValPOP3User          = "POP3 User"
	ValSMTPUser          = "SMTP User"
	ValLeaveOnServer     = "Leave Mail On Server"
	ValRemoveWhenDeleted = "Remove When Deleted"
	ValRemoveWhenExpired = "Remove When Expired"
	ValAccountType       = "Account Type"

	// ValManagedTag marks account nodes written by this tool.
	ValManagedTag = "Clerk Managed"
)

// AccountTypePOP3 is the only account type provisioned.
const AccountTypePOP3 = "POP3"

// Account node layouts. The direct strategy names the account node with a
// fresh GUID; the import fallback uses Outlook's well-known mail account
// section with a sequential child.
const (
	MailAccountSection = "9375CFF0413111d3B88A00104B2A6676"
	FirstAccountIndex  = "00000001"
)

// NewAccountID returns a random identifier in registry GUID form,
// e.g. {0F3C...-...}.
func NewAccountID() string {
	return "{" + strings.ToUpper(uuid.New().String()) + "}"
}

// GUIDLayout returns the direct strategy's account path under a profile.
func GUIDLayout() []string {
	return []string{NewAccountID()}
}

// WellKnownLayout returns the import fallback's account path under a profile.
func WellKnownLayout() []string {
	return []string{MailAccountSection, FirstAccountIndex}
}

// storageErr makes sure err surfaces as a StorageAccessError.
func storageErr(op, path string, err error) error {
	if store.IsStorageAccessError(err) {
		return err
	}
	return &store.StorageAccessError{Op: op, Path: path, Err: err}
}

func boolDWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// createProfile replaces any profile named p.ProfileName under root with a
// fresh one holding a single account node at layout. The old profile is
// deleted before creation starts and is not restored if creation fails.
func createProfile(root store.Node, p model.AccountProfile, layout []string, logger *slog.Logger) error {
	if err := removeProfile(root, p.ProfileName, logger); err != nil {
		return err
	}

	node, err := root.CreateChild(p.ProfileName)
	if err != nil {
		return storageErr("create", store.JoinPath(root.Path(), p.ProfileName), err)
	}

	for _, seg := range layout {
		child, err := node.CreateChild(seg)
		node.Close()
		if err != nil {
			return storageErr("create", store.JoinPath(node.Path(), seg), err)
		}
		node = child
	}
	defer node.Close()

	if err := writeAccount(node, p); err != nil {
		return err
	}

	logger.Debug("account node written", "path", node.Path())
	return nil
}

// removeProfile deletes the profile named name under root, matching the
// name case-insensitively. An absent profile is not an error.
func removeProfile(root store.Node, name string, logger *slog.Logger) error {
	exists, err := store.HasChild(root, name)
	if err != nil {
		return storageErr("list", root.Path(), err)
	}
	if !exists {
		return nil
	}

	logger.Info("replacing existing profile", "profile", name)
	if err := root.DeleteSubtree(name); err != nil {
		return storageErr("delete", store.JoinPath(root.Path(), name), err)
	}
	return nil
}

// clearProfile removes any existing profile named name below profilesPath.
// A missing profiles container means there is nothing to remove.
func clearProfile(s store.Store, profilesPath, name string, logger *slog.Logger) error {
	root, err := s.Open(profilesPath)
	if errors.Is(err, store.ErrNotExist) {
		return nil
	}
	if err != nil {
		return storageErr("open", profilesPath, err)
	}
	defer root.Close()

	return removeProfile(root, name, logger)
}

// writeAccount writes the full settings record. Every value is overwritten.
func writeAccount(n store.Node, p model.AccountProfile) error {
	strs := []struct {
		name, value string
	}{
		{ValAccountName, p.Address},
		{ValEmail, p.Address},
		{ValDisplayName, p.DisplayName},
		{ValPOP3Server, p.Servers.Incoming.Host},
		{ValSMTPServer, p.Servers.Outgoing.Host},
		{ValPOP3User, p.Address},
		{ValSMTPUser, p.Address},
		{ValAccountType, AccountTypePOP3},
	}
	for _, s := range strs {
		if err := n.SetString(s.name, s.value); err != nil {
			return storageErr("set", store.JoinPath(n.Path(), s.name), err)
		}
	}

	dwords := []struct {
		name  string
		value uint32
	}{
		{ValPOP3Port, uint32(p.Servers.Incoming.Port)},
		{ValPOP3UseSSL, 0},
		{ValSMTPPort, uint32(p.Servers.Outgoing.Port)},
		{ValSMTPUseSSL, 0},
		{ValSMTPUseAuth, 1},
		{ValManagedTag, 1},
	}
	for _, d := range dwords {
		if err := n.SetDWord(d.name, d.value); err != nil {
			return storageErr("set", store.JoinPath(n.Path(), d.name), err)
		}
	}

	return writeRetentionFlags(n, p.RetainOnServer)
}

// writeRetentionFlags sets the three values controlling whether fetched
// messages stay on the server.
func writeRetentionFlags(n store.Node, retain bool) error {
	flags := []struct {
		name  string
		value uint32
	}{
		{ValLeaveOnServer, boolDWord(retain)},
		{ValRemoveWhenDeleted, 1},
		{ValRemoveWhenExpired, 1},
	}
	for _, f := range flags {
		if err := n.SetDWord(f.name, f.value); err != nil {
			return storageErr("set", store.JoinPath(n.Path(), f.name), err)
		}
	}
	return nil
}

// openProfilesRoot opens or creates the profiles container.
func openProfilesRoot(s store.Store, profilesPath string) (store.Node, error) {
	root, err := s.OpenOrCreate(profilesPath)
	if err != nil {
		return nil, storageErr("create", profilesPath, fmt.Errorf("accessing Outlook profiles key: %w", err))
	}
	return root, nil
}
