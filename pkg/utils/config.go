package utils

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config carries the file locations and scrape tuning knobs shared by
// the commands. Everything is overridable via CARDBINDER_* env vars and
// falls back to dev defaults under ~/.cardbinder.
type Config struct {
	CacheDir  string // per-collection catalog JSON files
	AlbumDir  string // user album JSON files
	AliasPath string // set alias table (master -> aliases)

	MarketBase    string // marketplace origin, prefix for scraped relative links
	RenderGateway string // optional headless-render service; empty means plain GET

	MaxPages      int           // listing pagination cap
	PageDelay     time.Duration // pacing between listing page fetches
	FreshnessDays int           // skip price refresh inside this window
}

func LoadConfig() Config {
	root := os.Getenv("CARDBINDER_ROOT")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = "."
		}
		root = filepath.Join(home, ".cardbinder")
	}

	cfg := Config{
		CacheDir:      envOr("CARDBINDER_CACHE_DIR", filepath.Join(root, "cache")),
		AliasPath:     envOr("CARDBINDER_ALIAS_PATH", filepath.Join(root, "set_mapping.json")),
		MarketBase:    envOr("CARDBINDER_MARKET_BASE", "https://www.cardmarket.com"),
		RenderGateway: os.Getenv("CARDBINDER_RENDER_GATEWAY"),
		MaxPages:      envIntOr("CARDBINDER_MAX_PAGES", 20),
		PageDelay:     time.Duration(envIntOr("CARDBINDER_PAGE_DELAY_MS", 1000)) * time.Millisecond,
		FreshnessDays: envIntOr("CARDBINDER_FRESHNESS_DAYS", 7),
	}
	cfg.AlbumDir = envOr("CARDBINDER_ALBUM_DIR", filepath.Join(cfg.CacheDir, "users", "admin", "albums"))
	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
