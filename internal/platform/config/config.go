package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	stateDir     = ".readplan"
	settingsFile = "settings.json"
	logLevelEnv  = "READPLAN_LOG_LEVEL"
)

type Config struct {
	VaultPath    string
	DBPath       string
	SettingsPath string
	Settings     Settings
}

// Settings are the user-tunable knobs stored in .readplan/settings.json.
// Paths are vault-relative.
type Settings struct {
	PlanPath           string `json:"plan_path"`
	MapPath            string `json:"map_path"`
	ProgressPath       string `json:"progress_path"`
	EventLogPath       string `json:"event_log_path"`
	SessionLogPath     string `json:"session_log_path"`
	TargetNotePath     string `json:"target_note_path"`
	DashboardPath      string `json:"dashboard_path"`
	NotesRoot          string `json:"notes_root"`
	DailyCap           int    `json:"daily_cap"`
	PreviewCount       int    `json:"preview_count"`
	DefaultTotal       int    `json:"default_total"`
	DefaultTargetDays  int    `json:"default_target_days"`
	ScaffoldOnFinalize bool   `json:"scaffold_on_finalize"`
	LogLevel           string `json:"log_level"`
}

func DefaultSettings() Settings {
	return Settings{
		PlanPath:          filepath.Join(stateDir, "plan.json"),
		MapPath:           filepath.Join("Reading", "read-map.json"),
		ProgressPath:      filepath.Join("Reading", "Progress.md"),
		EventLogPath:      filepath.Join("Reading", "Read Log.md"),
		SessionLogPath:    filepath.Join("Reading", "Sessions.md"),
		TargetNotePath:    filepath.Join("Reading", "Today.md"),
		DashboardPath:     filepath.Join("Reading", "Dashboard.md"),
		DailyCap:          300,
		PreviewCount:      20,
		DefaultTotal:      31102,
		DefaultTargetDays: 365,
		LogLevel:          "info",
	}
}

func New(vaultPath string) (Config, error) {
	if vaultPath == "" {
		return Config{}, fmt.Errorf("vault path is required")
	}
	cfg := Config{
		VaultPath:    vaultPath,
		DBPath:       filepath.Join(vaultPath, stateDir, "readplan.db"),
		SettingsPath: filepath.Join(vaultPath, stateDir, settingsFile),
		Settings:     DefaultSettings(),
	}

	data, err := os.ReadFile(cfg.SettingsPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg.Settings); err != nil {
			return Config{}, fmt.Errorf("decode settings %s: %w", cfg.SettingsPath, err)
		}
	case os.IsNotExist(err):
	default:
		return Config{}, fmt.Errorf("read settings: %w", err)
	}

	if level := strings.TrimSpace(os.Getenv(logLevelEnv)); level != "" {
		cfg.Settings.LogLevel = level
	}
	cfg.Settings.normalize()
	return cfg, nil
}

// WriteDefaults creates the settings file with default values. An existing
// file is left alone.
func WriteDefaults(cfg Config) (bool, error) {
	if _, err := os.Stat(cfg.SettingsPath); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.SettingsPath), 0o755); err != nil {
		return false, fmt.Errorf("create settings dir: %w", err)
	}
	payload, err := json.MarshalIndent(DefaultSettings(), "", "  ")
	if err != nil {
		return false, fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(cfg.SettingsPath, append(payload, '\n'), 0o644); err != nil {
		return false, fmt.Errorf("write settings: %w", err)
	}
	return true, nil
}

func (s *Settings) normalize() {
	def := DefaultSettings()
	fill := func(v *string, d string) {
		if strings.TrimSpace(*v) == "" {
			*v = d
		}
	}
	fill(&s.PlanPath, def.PlanPath)
	fill(&s.MapPath, def.MapPath)
	fill(&s.ProgressPath, def.ProgressPath)
	fill(&s.EventLogPath, def.EventLogPath)
	fill(&s.SessionLogPath, def.SessionLogPath)
	fill(&s.TargetNotePath, def.TargetNotePath)
	fill(&s.DashboardPath, def.DashboardPath)
	fill(&s.LogLevel, def.LogLevel)
	if s.DailyCap <= 0 {
		s.DailyCap = def.DailyCap
	}
	if s.PreviewCount < 0 {
		s.PreviewCount = 0
	}
	if s.DefaultTotal <= 0 {
		s.DefaultTotal = def.DefaultTotal
	}
	if s.DefaultTargetDays <= 0 {
		s.DefaultTargetDays = def.DefaultTargetDays
	}
}
