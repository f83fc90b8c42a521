// Copyright © 2025 Texelkit contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Default values for system and app configuration files.

package config

func applySystemDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults("screen", Section{
		"mouse":      true,
		"trace_db":   "",
		"background": "auto",
	})
}

func applyAppDefaults(app string, cfg Config) {
	if cfg == nil {
		return
	}
	switch app {
	case "sourceview":
		cfg.RegisterDefaults("sourceview", Section{
			"style":     "catppuccin-mocha",
			"tab_width": 4,
		})
	case "clock":
		cfg.RegisterDefaults("clock", Section{
			"format": "15:04:05",
		})
	case "counter":
		cfg.RegisterDefaults("counter", Section{
			"step": 1,
		})
	}
}
