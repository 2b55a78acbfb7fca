package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/vegana/shop/internal/browser"
	"github.com/vegana/shop/internal/config"
	"github.com/vegana/shop/internal/pages"
	"github.com/vegana/shop/internal/scenario"
	"github.com/vegana/shop/internal/suite"
)

// SuiteConfig maps the e2e configuration onto the scenario catalog.
func SuiteConfig(cfg *config.E2EConfig, log logrus.FieldLogger) suite.Config {
	return suite.Config{
		BaseURL:   cfg.BaseURL,
		Username:  cfg.Username,
		Password:  cfg.Password,
		ProductID: cfg.ProductID,
		Pages: pages.Options{
			Wait:         browser.NewWaiter(cfg.WaitTimeout, cfg.PollInterval),
			Settle:       cfg.SettleDelay,
			StaleRetries: cfg.StaleRetries,
			Log:          log,
		},
	}
}

// RunScenarios runs the named scenarios (all when names is empty) on sessions
// and writes the report to out.
func RunScenarios(ctx context.Context, sessions scenario.Sessions, cfg *config.E2EConfig, names []string, out io.Writer, log logrus.FieldLogger) (scenario.Summary, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	scenarios, err := suite.Select(SuiteConfig(cfg, log), names...)
	if err != nil {
		return scenario.Summary{}, err
	}

	runner := &scenario.Runner{
		Sessions:      sessions,
		ScreenshotDir: cfg.ScreenshotDir,
		Log:           log,
	}
	log.WithFields(logrus.Fields{
		"base_url":  cfg.BaseURL,
		"scenarios": len(scenarios),
	}).Info("Running storefront scenarios")

	results := runner.RunAll(ctx, scenarios...)
	return scenario.Report(out, results), nil
}

// RunE2E launches the configured browser and runs the scenarios against
// cfg.BaseURL.
func RunE2E(ctx context.Context, cfg *config.E2EConfig, names []string, out io.Writer, log logrus.FieldLogger) (scenario.Summary, error) {
	launcher, err := browser.Launch(browser.LaunchOptions{
		Browser:       cfg.Browser,
		Headless:      cfg.Headless,
		SlowMo:        cfg.SlowMo,
		ActionTimeout: cfg.ActionTimeout,
	})
	if err != nil {
		return scenario.Summary{}, err
	}
	defer func() {
		if err := launcher.Close(); err != nil && log != nil {
			log.WithError(err).Warn("Failed to stop browser")
		}
	}()

	summary, err := RunScenarios(ctx, launcher, cfg, names, out, log)
	if err != nil {
		return summary, err
	}
	if !summary.OK() {
		return summary, fmt.Errorf("%d of %d scenarios failed", summary.Failed, summary.Passed+summary.Failed)
	}
	return summary, nil
}
