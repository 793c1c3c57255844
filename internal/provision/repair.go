package provision

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nhle/clerk/internal/logging"
	"github.com/nhle/clerk/internal/model"
	"github.com/nhle/clerk/internal/store"
)

// accountSearchDepth covers both <profile>\{GUID} and
// <profile>\9375CFF0...\00000001 layouts.
const accountSearchDepth = 2

// RepairOutcome says which branch the repair pass took.
type RepairOutcome int

const (
	// RepairByPatch means the importer created the profile and only the
	// retention flags were rewritten.
	RepairByPatch RepairOutcome = iota + 1

	// RepairByFullCreate means the profile was missing (or had no account
	// node) and was created from scratch.
	RepairByFullCreate
)

func (o RepairOutcome) String() string {
	switch o {
	case RepairByPatch:
		return "patch"
	case RepairByFullCreate:
		return "full-create"
	default:
		return "unknown"
	}
}

// RepairResult reports what the repair pass did.
type RepairResult struct {
	Outcome RepairOutcome

	// Patched lists the account node paths whose retention flags were
	// rewritten. Empty for RepairByFullCreate.
	Patched []string
}

// isAccountNode reports whether a node holds account settings. Nodes
// written by this tool carry ValManagedTag; importer-written nodes are
// recognised by their server or account name values.
func isAccountNode(n store.Node) (bool, error) {
	names, err := n.ValueNames()
	if err != nil {
		return false, err
	}
	for _, name := range names {
		switch name {
		case ValManagedTag, ValPOP3Server, ValAccountName:
			return true, nil
		}
	}
	return false, nil
}

// walkAccounts calls fn for every account node below n, down to depth
// levels. Account nodes are not descended into.
func walkAccounts(n store.Node, depth int, fn func(store.Node) error) error {
	if depth == 0 {
		return nil
	}

	children, err := n.Children()
	if err != nil {
		return err
	}

	for _, name := range children {
		child, err := n.OpenChild(name)
		if err != nil {
			return err
		}

		ok, err := isAccountNode(child)
		if err == nil {
			if ok {
				err = fn(child)
			} else {
				err = walkAccounts(child, depth-1, fn)
			}
		}
		child.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// Repair inspects the profile the importer should have created. An
// existing profile has the retention flags of every account node forced to
// the deployment policy. A missing profile, or one without any account
// node, is rebuilt from scratch under the well-known account layout.
func Repair(s store.Store, profilesPath string, p model.AccountProfile, logger *slog.Logger) (RepairResult, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	profilePath := store.JoinPath(profilesPath, p.ProfileName)

	node, err := s.Open(profilePath)
	switch {
	case errors.Is(err, store.ErrNotExist):
		logger.Warn("import did not create the profile, creating it directly", "profile", p.ProfileName)
		return fullCreate(s, profilesPath, p, logger)
	case err != nil:
		return RepairResult{}, storageErr("open", profilePath, err)
	}
	defer node.Close()

	var patched []string
	err = walkAccounts(node, accountSearchDepth, func(acct store.Node) error {
		if err := writeRetentionFlags(acct, p.RetainOnServer); err != nil {
			return err
		}
		patched = append(patched, acct.Path())
		return nil
	})
	if err != nil {
		return RepairResult{}, storageErr("repair", profilePath, err)
	}

	if len(patched) == 0 {
		logger.Warn("imported profile has no account node, recreating it", "profile", p.ProfileName)
		return fullCreate(s, profilesPath, p, logger)
	}

	logger.Info("retention flags repaired", "profile", p.ProfileName, "accounts", len(patched))
	return RepairResult{Outcome: RepairByPatch, Patched: patched}, nil
}

func fullCreate(s store.Store, profilesPath string, p model.AccountProfile, logger *slog.Logger) (RepairResult, error) {
	root, err := openProfilesRoot(s, profilesPath)
	if err != nil {
		return RepairResult{}, err
	}
	defer root.Close()

	if err := createProfile(root, p, WellKnownLayout(), logger); err != nil {
		return RepairResult{}, err
	}
	return RepairResult{Outcome: RepairByFullCreate}, nil
}

// WaitForAccount polls until the profile holds at least one account node or
// timeout elapses. It reports whether the account became visible; a
// timeout is not an error.
func WaitForAccount(ctx context.Context, s store.Store, profilePath string, interval, timeout time.Duration) (bool, error) {
	settle, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if hasAccount(s, profilePath) {
			return true, nil
		}

		select {
		case <-ticker.C:
		case <-settle.Done():
			// Only the caller's own cancellation or deadline is an error.
			if err := ctx.Err(); err != nil {
				return false, err
			}
			return hasAccount(s, profilePath), nil
		}
	}
}

func hasAccount(s store.Store, profilePath string) bool {
	node, err := s.Open(profilePath)
	if err != nil {
		return false
	}
	defer node.Close()

	errFound := errors.New("found")
	err = walkAccounts(node, accountSearchDepth, func(store.Node) error {
		return errFound
	})
	return errors.Is(err, errFound)
}
