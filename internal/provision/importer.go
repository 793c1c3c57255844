package provision

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/afero"

	"github.com/nhle/clerk/internal/logging"
	"github.com/nhle/clerk/internal/model"
	"github.com/nhle/clerk/internal/store"
)

// ImportDirective is the Outlook switch that imports a PRF file.
const ImportDirective = "/importprf"

// Stage is a step of the import run, used for progress reporting.
type Stage string

const (
	StageRendering Stage = "rendering"
	StageLocating  Stage = "locating"
	StageImporting Stage = "importing"
	StageSettling  Stage = "settling"
	StageRepairing Stage = "repairing"
	StageDone      Stage = "done"
)

// ImporterConfig wires an Importer.
type ImporterConfig struct {
	Store        store.Store
	ProfilesPath string
	Locator      ExecutableLocator
	Launcher     Launcher

	// Fs holds the temporary PRF file. Defaults to the OS filesystem.
	Fs afero.Fs

	// TempDir defaults to the system temp directory.
	TempDir string

	ImportTimeout  time.Duration
	SettleTimeout  time.Duration
	SettleInterval time.Duration

	Logger *slog.Logger

	// OnStage, if set, is called as each stage begins.
	OnStage func(Stage)
}

// Importer provisions through Outlook's PRF importer, then repairs the
// resulting profile.
type Importer struct {
	cfg    ImporterConfig
	logger *slog.Logger
}

// NewImporter creates an import-based provisioner.
func NewImporter(cfg ImporterConfig) *Importer {
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	if cfg.OnStage == nil {
		cfg.OnStage = func(Stage) {}
	}
	defaults := model.DefaultAppConfig().Provision
	if cfg.ImportTimeout <= 0 {
		cfg.ImportTimeout = defaults.ImportTimeout
	}
	if cfg.SettleTimeout <= 0 {
		cfg.SettleTimeout = defaults.SettleTimeout
	}
	if cfg.SettleInterval <= 0 {
		cfg.SettleInterval = defaults.SettleInterval
	}
	return &Importer{
		cfg:    cfg,
		logger: cfg.Logger.With("strategy", string(model.StrategyImport)),
	}
}

// Provision renders the PRF, removes any existing profile of the same name,
// runs the importer, waits for its write-back and repairs the profile. The
// PRF file is removed on every path.
func (im *Importer) Provision(ctx context.Context, p model.AccountProfile) error {
	_, err := im.provision(ctx, p)
	return err
}

func (im *Importer) provision(ctx context.Context, p model.AccountProfile) (RepairResult, error) {
	im.cfg.OnStage(StageRendering)
	data, err := RenderPRF(p)
	if err != nil {
		return RepairResult{}, err
	}

	prfPath, err := im.writeTemp(data)
	if err != nil {
		return RepairResult{}, err
	}
	defer func() {
		// Best effort.
		if err := im.cfg.Fs.Remove(prfPath); err != nil {
			im.logger.Debug("removing PRF file failed", "path", prfPath, "error", err)
		}
	}()

	im.cfg.OnStage(StageLocating)
	exe, err := im.cfg.Locator.Locate()
	if err != nil {
		return RepairResult{}, err
	}
	im.logger.Debug("located mail client", "executable", exe)

	im.cfg.OnStage(StageImporting)
	// A leftover profile would satisfy the settle poll and the repair pass
	// without any import having happened.
	if err := clearProfile(im.cfg.Store, im.cfg.ProfilesPath, p.ProfileName, im.logger); err != nil {
		return RepairResult{}, err
	}
	if err := im.cfg.Launcher.Launch(ctx, exe, []string{ImportDirective, prfPath}, im.cfg.ImportTimeout); err != nil {
		if ctx.Err() != nil {
			return RepairResult{}, ctx.Err()
		}
		// The repair pass recovers from a failed import.
		im.logger.Warn("import run failed", "executable", exe, "error", err)
	}

	im.cfg.OnStage(StageSettling)
	profilePath := store.JoinPath(im.cfg.ProfilesPath, p.ProfileName)
	seen, err := WaitForAccount(ctx, im.cfg.Store, profilePath, im.cfg.SettleInterval, im.cfg.SettleTimeout)
	if err != nil {
		return RepairResult{}, err
	}
	if !seen {
		im.logger.Warn("imported account not visible before settle timeout",
			"profile", p.ProfileName, "timeout", im.cfg.SettleTimeout)
	}

	im.cfg.OnStage(StageRepairing)
	res, err := Repair(im.cfg.Store, im.cfg.ProfilesPath, p, im.logger)
	if err != nil {
		return RepairResult{}, err
	}

	im.cfg.OnStage(StageDone)
	im.logger.Info("profile provisioned", "profile", p.ProfileName, "repair", res.Outcome.String())
	return res, nil
}

func (im *Importer) writeTemp(data []byte) (string, error) {
	f, err := afero.TempFile(im.cfg.Fs, im.cfg.TempDir, "clerk-*.prf")
	if err != nil {
		return "", fmt.Errorf("creating PRF file: %w", err)
	}
	path := f.Name()

	_, werr := f.Write(data)
	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = im.cfg.Fs.Remove(path)
		return "", fmt.Errorf("writing PRF file %s: %w", path, werr)
	}
	return path, nil
}
