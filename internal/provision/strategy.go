package provision

import (
	"fmt"
	"log/slog"

	"github.com/nhle/clerk/internal/model"
	"github.com/nhle/clerk/internal/store"
)

// New returns the provisioner selected by cfg.Provision.Strategy, bound to
// the real filesystem and process launcher.
func New(cfg *model.AppConfig, s store.Store, logger *slog.Logger, onStage func(Stage)) (Provisioner, error) {
	switch cfg.Provision.Strategy {
	case model.StrategyDirect:
		return NewDirect(s, cfg.Outlook.ProfilesPath(), logger), nil
	case model.StrategyImport:
		return NewImporter(ImporterConfig{
			Store:          s,
			ProfilesPath:   cfg.Outlook.ProfilesPath(),
			Locator:        NewOutlookLocator(cfg.Outlook.Executables),
			Launcher:       NewExecLauncher(logger),
			ImportTimeout:  cfg.Provision.ImportTimeout,
			SettleTimeout:  cfg.Provision.SettleTimeout,
			SettleInterval: cfg.Provision.SettleInterval,
			Logger:         logger,
			OnStage:        onStage,
		}), nil
	default:
		return nil, fmt.Errorf("unknown provision strategy %q", cfg.Provision.Strategy)
	}
}
