package config

import (
	"testing"

	"github.com/wordcraftio/wordcraft/internal/wordnet"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvWordlistPath, EnvWordnetDir, EnvWordnetLoadMode, EnvMaxLen, EnvListenAddr} {
		t.Setenv(k, "")
	}
}

func TestLoad_RequiresWordlistPath(t *testing.T) {
	clearEnv(t)
	if _, err := Load(); err == nil {
		t.Error("Load() with no WORDLIST_PATH should fail")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvWordlistPath, "/tmp/words.txt")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MaxLen != DefaultMaxLen {
		t.Errorf("MaxLen = %d, want %d", cfg.MaxLen, DefaultMaxLen)
	}
	if cfg.WordnetMode != wordnet.Mmap {
		t.Errorf("WordnetMode = %v, want Mmap", cfg.WordnetMode)
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, DefaultListenAddr)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvWordlistPath, "/tmp/words.txt")
	t.Setenv(EnvWordnetDir, "/tmp/wordnet")
	t.Setenv(EnvWordnetLoadMode, "owned")
	t.Setenv(EnvMaxLen, "10")
	t.Setenv(EnvListenAddr, ":9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.WordnetDir != "/tmp/wordnet" {
		t.Errorf("WordnetDir = %q", cfg.WordnetDir)
	}
	if cfg.WordnetMode != wordnet.Owned {
		t.Errorf("WordnetMode = %v, want Owned", cfg.WordnetMode)
	}
	if cfg.MaxLen != 10 {
		t.Errorf("MaxLen = %d, want 10", cfg.MaxLen)
	}
	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q, want :9090", cfg.ListenAddr)
	}
}

func TestLoad_InvalidLoadMode(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvWordlistPath, "/tmp/words.txt")
	t.Setenv(EnvWordnetLoadMode, "zip")
	if _, err := Load(); err == nil {
		t.Error("Load() with an invalid WORDNET_LOAD_MODE should fail")
	}
}

func TestLoad_InvalidMaxLen(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvWordlistPath, "/tmp/words.txt")
	t.Setenv(EnvMaxLen, "not-a-number")
	if _, err := Load(); err == nil {
		t.Error("Load() with a non-numeric MAX_LEN should fail")
	}
}
