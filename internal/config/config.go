// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config loads the daemon configuration from defaults, a YAML file
// and the environment, in increasing precedence.
package config

import (
	"github.com/ManuGH/demorec/internal/domain/capture/controller"
)

// Defaults.
const (
	DefaultBaseDirectory = "./"
	DefaultGameDir       = "."
	DefaultSaveDir       = "SAVE"
	DefaultChapterConfig = "cfg/chapter1.cfg"
	DefaultResumeFile    = "speedrun_democrecord_resume_info.txt"
	DefaultBookmarksFile = "speedrun_democrecord_bookmarks.txt"
	DefaultLogLevel      = "info"
	DefaultLogService    = "demorecd"
)

// Environment keys.
const (
	EnvBaseDir    = "DEMOREC_BASE_DIR"
	EnvMap        = "DEMOREC_MAP"
	EnvSave       = "DEMOREC_SAVE"
	EnvGameDir    = "DEMOREC_GAME_DIR"
	EnvListenAddr = "DEMOREC_LISTEN"
	EnvJournal    = "DEMOREC_JOURNAL"
	EnvLogLevel   = "LOG_LEVEL"
)

// AppConfig is the resolved configuration.
type AppConfig struct {
	BaseDirectory string
	MapTarget     string
	SaveTarget    string
	GameDir       string
	SaveDir       string
	ChapterConfig string
	ResumeFile    string
	BookmarksFile string
	ListenAddr    string
	JournalPath   string
	LogLevel      string
	LogService    string
}

// FileConfig is the on-disk YAML shape. Pointer fields distinguish "unset"
// from "set to empty".
type FileConfig struct {
	BaseDirectory *string `yaml:"baseDirectory,omitempty"`
	MapTarget     *string `yaml:"mapTarget,omitempty"`
	SaveTarget    *string `yaml:"saveTarget,omitempty"`
	GameDir       *string `yaml:"gameDir,omitempty"`
	SaveDir       *string `yaml:"saveDir,omitempty"`
	ChapterConfig *string `yaml:"chapterConfig,omitempty"`
	ResumeFile    *string `yaml:"resumeFile,omitempty"`
	BookmarksFile *string `yaml:"bookmarksFile,omitempty"`
	ListenAddr    *string `yaml:"listenAddr,omitempty"`
	JournalPath   *string `yaml:"journalPath,omitempty"`
	LogLevel      *string `yaml:"logLevel,omitempty"`
	LogService    *string `yaml:"logService,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		BaseDirectory: DefaultBaseDirectory,
		GameDir:       DefaultGameDir,
		SaveDir:       DefaultSaveDir,
		ChapterConfig: DefaultChapterConfig,
		ResumeFile:    DefaultResumeFile,
		BookmarksFile: DefaultBookmarksFile,
		LogLevel:      DefaultLogLevel,
		LogService:    DefaultLogService,
	}
}

// ToFileConfig renders every field, for dumping and saving.
func ToFileConfig(cfg AppConfig) FileConfig {
	s := func(v string) *string { return &v }
	return FileConfig{
		BaseDirectory: s(cfg.BaseDirectory),
		MapTarget:     s(cfg.MapTarget),
		SaveTarget:    s(cfg.SaveTarget),
		GameDir:       s(cfg.GameDir),
		SaveDir:       s(cfg.SaveDir),
		ChapterConfig: s(cfg.ChapterConfig),
		ResumeFile:    s(cfg.ResumeFile),
		BookmarksFile: s(cfg.BookmarksFile),
		ListenAddr:    s(cfg.ListenAddr),
		JournalPath:   s(cfg.JournalPath),
		LogLevel:      s(cfg.LogLevel),
		LogService:    s(cfg.LogService),
	}
}

// Settings projects the values the capture controller reads at command time.
func (c AppConfig) Settings() controller.Settings {
	return controller.Settings{
		BaseDirectory: c.BaseDirectory,
		MapTarget:     c.MapTarget,
		SaveTarget:    c.SaveTarget,
		SaveDirectory: c.SaveDir,
		ResumeFile:    c.ResumeFile,
		BookmarksFile: c.BookmarksFile,
	}
}
