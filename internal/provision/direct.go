package provision

import (
	"context"
	"log/slog"

	"github.com/nhle/clerk/internal/logging"
	"github.com/nhle/clerk/internal/model"
	"github.com/nhle/clerk/internal/store"
)

// Direct writes the profile straight into the profiles store.
type Direct struct {
	store        store.Store
	profilesPath string
	logger       *slog.Logger
}

// NewDirect creates a direct-write provisioner. A nil logger discards output.
func NewDirect(s store.Store, profilesPath string, logger *slog.Logger) *Direct {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Direct{
		store:        s,
		profilesPath: profilesPath,
		logger:       logger.With("strategy", string(model.StrategyDirect)),
	}
}

// Provision replaces any profile of the same name with a new one holding a
// single GUID-named account node. Each step aborts the run on failure.
func (d *Direct) Provision(ctx context.Context, p model.AccountProfile) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	root, err := openProfilesRoot(d.store, d.profilesPath)
	if err != nil {
		return err
	}
	defer root.Close()

	if err := createProfile(root, p, GUIDLayout(), d.logger); err != nil {
		return err
	}

	d.logger.Info("profile created", "profile", p.ProfileName)
	return nil
}
