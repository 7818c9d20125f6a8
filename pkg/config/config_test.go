package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestLoad_ValidFile_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
min_journals: 2
min_nonlocal_journals: 1
log_level: debug
journals:
  - name: local-a
    kind: local
    path: /data/a
    required: true
  - name: shared-a
    kind: shared
    shared: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.MinJournals)
	assert.Equal(t, 1, cfg.MinNonlocalJournals)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:9090", cfg.MetricsAddr, "unset fields keep their default")
	assert.Len(t, cfg.Journals, 2)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "not: [valid: yaml")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_FailsValidation_NoJournals(t *testing.T) {
	path := writeConfig(t, "min_journals: 1\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_RejectsNegativeThresholds(t *testing.T) {
	cfg := Defaults()
	cfg.MinJournals = -1
	cfg.Journals = []JournalSpec{{Name: "a", Kind: KindLocal, Path: "/data/a"}}
	err := Validate(&cfg)
	assert.ErrorContains(t, err, "min_journals must be >= 0")
}

func TestValidate_RejectsLocalJournalWithoutPath(t *testing.T) {
	cfg := Defaults()
	cfg.Journals = []JournalSpec{{Name: "a", Kind: KindLocal}}
	err := Validate(&cfg)
	assert.ErrorContains(t, err, "kind=local requires path")
}

func TestValidate_RejectsDuplicateNames(t *testing.T) {
	cfg := Defaults()
	cfg.Journals = []JournalSpec{
		{Name: "a", Kind: KindShared},
		{Name: "a", Kind: KindRemote},
	}
	err := Validate(&cfg)
	assert.ErrorContains(t, err, `duplicate journal name "a"`)
}

func TestValidate_RejectsUnsupportedKind(t *testing.T) {
	cfg := Defaults()
	cfg.Journals = []JournalSpec{{Name: "a", Kind: "bogus"}}
	err := Validate(&cfg)
	assert.ErrorContains(t, err, `unsupported kind "bogus"`)
}

func TestValidate_AcceptsSharedAndRemoteWithoutPath(t *testing.T) {
	cfg := Defaults()
	cfg.Journals = []JournalSpec{
		{Name: "shared-a", Kind: KindShared},
		{Name: "remote-a", Kind: KindRemote},
	}
	assert.NoError(t, Validate(&cfg))
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 1, cfg.MinJournals)
	assert.Equal(t, 0, cfg.MinNonlocalJournals)
	assert.Equal(t, "info", cfg.LogLevel)
}
