package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nhle/clerk/internal/logging"
	"github.com/nhle/clerk/internal/model"
	"github.com/nhle/clerk/internal/platform"
	"github.com/nhle/clerk/internal/provision"
	"github.com/nhle/clerk/internal/store"
	"github.com/nhle/clerk/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Nothing else may run on an unsupported OS.
	if err := platform.Check(); err != nil {
		fmt.Fprintln(os.Stderr, ui.RenderError(err))
		return 1
	}

	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.RenderError(err))
		return 1
	}

	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	logger.Debug("configuration loaded",
		"strategy", cfg.Provision.Strategy,
		"office_version", cfg.Outlook.Version,
	)

	fmt.Println(ui.Banner())
	fmt.Println()

	creds, err := ui.CollectCredentials()
	if errors.Is(err, ui.ErrAborted) {
		fmt.Println(ui.RenderCancelled())
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.RenderError(err))
		return 1
	}

	profile, err := model.NewAccountProfile(creds.Address, creds.Password, cfg.Servers)
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.RenderError(err))
		return 1
	}

	fmt.Println(ui.RenderPreview(profile, cfg.Provision.Strategy))

	ok, err := ui.Confirm("Create this Outlook profile?")
	if err != nil && !errors.Is(err, ui.ErrAborted) {
		fmt.Fprintln(os.Stderr, ui.RenderError(err))
		return 1
	}
	if !ok {
		fmt.Println(ui.RenderCancelled())
		return 0
	}

	st, err := store.NewRegistryStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, ui.RenderError(err))
		return 1
	}

	err = ui.RunWithSpinner("Creating Outlook profile...", func(report func(string)) error {
		prov, err := provision.New(cfg, st, logger, func(s provision.Stage) {
			report(ui.StageLabel(s))
		})
		if err != nil {
			return err
		}
		return prov.Provision(context.Background(), profile)
	})
	if err != nil {
		logger.Error("provisioning failed", "profile", profile.ProfileName, "error", err)
		fmt.Fprintln(os.Stderr, ui.RenderError(err))
		return 1
	}

	logger.Info("profile created", "profile", profile.ProfileName, "strategy", cfg.Provision.Strategy)
	fmt.Println(ui.RenderSuccess(profile.ProfileName))
	return 0
}
