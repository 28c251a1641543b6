package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureUserConfigWritesDefaultsOnce(t *testing.T) {
	dir := t.TempDir()

	path, err := EnsureUserConfig(dir)
	if err != nil {
		t.Fatalf("EnsureUserConfig: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Lookup.SpacingMS != 1200 || cfg.Matching.PenaltyKM != 999 {
		t.Errorf("defaults not written: %+v", cfg)
	}

	// Hand-edit survives a second bootstrap.
	cfg.Outreach.Sender = "Priya"
	if err := SaveAtomic(path, cfg); err != nil {
		t.Fatalf("SaveAtomic: %v", err)
	}
	if _, err := EnsureUserConfig(dir); err != nil {
		t.Fatalf("second EnsureUserConfig: %v", err)
	}
	cfg2, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cfg2.Outreach.Sender != "Priya" {
		t.Error("bootstrap overwrote an edited config")
	}
}

func TestSaveAtomicLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	if err := SaveAtomic(path, Default()); err != nil {
		t.Fatalf("SaveAtomic: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestNormalizeFillsZeroFields(t *testing.T) {
	var cfg Config
	out, res := NormalizeAndValidate(cfg)
	if !res.OK() {
		t.Fatalf("empty config rejected: %v", res.Errors)
	}
	if out.Lookup.BaseURL == "" || out.Lookup.SpacingMS != 1200 || out.Matching.RatingWeight != 2 {
		t.Errorf("defaults not applied: %+v", out)
	}
}

func TestNormalizeWarnsOnAggressiveSpacing(t *testing.T) {
	cfg := Default()
	cfg.Lookup.SpacingMS = 200
	out, res := NormalizeAndValidate(cfg)
	if len(res.Warnings) == 0 {
		t.Error("sub-second spacing produced no warning")
	}
	if out.Lookup.SpacingMS != 200 {
		t.Errorf("explicit spacing overridden to %d", out.Lookup.SpacingMS)
	}
}

func TestNormalizeRequiresPortsWithHosts(t *testing.T) {
	cfg := Default()
	cfg.Outreach.SMTPHost = "smtp.example.com"
	cfg.Outreach.SMTPPort = 0
	_, res := NormalizeAndValidate(cfg)
	if res.OK() {
		t.Error("smtp host without port accepted")
	}
}
