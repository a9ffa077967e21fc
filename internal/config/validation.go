// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"github.com/ManuGH/demorec/internal/validate"
)

var logLevels = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"}

// Validate checks a resolved configuration. Paths the controller joins with
// the game directory must stay inside it.
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.RelativePath("baseDirectory", cfg.BaseDirectory)
	v.RelativePath("saveDir", cfg.SaveDir)
	v.RelativePath("chapterConfig", cfg.ChapterConfig)
	v.NotEmpty("gameDir", cfg.GameDir)
	v.FileName("resumeFile", cfg.ResumeFile)
	v.FileName("bookmarksFile", cfg.BookmarksFile)
	v.ListenAddr("listenAddr", cfg.ListenAddr)
	v.OneOf("logLevel", cfg.LogLevel, logLevels)
	v.NotEmpty("logService", cfg.LogService)

	if cfg.MapTarget != "" {
		v.FileName("mapTarget", cfg.MapTarget)
	}
	if cfg.SaveTarget != "" {
		v.FileName("saveTarget", cfg.SaveTarget)
	}

	return v.Err()
}
