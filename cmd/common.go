package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/alexiusacademia/gotakeoff/internal/project"
	"github.com/alexiusacademia/gotakeoff/internal/settings"
)

const rule = "───────────────────────────────────────────────────────────────"

func header(title string) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("     %s\n", title)
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()
}

func section(title string) {
	fmt.Println(title)
	fmt.Println(rule)
}

// loadProject reads a project file. A settings file given on the command
// line replaces the project's settings; the GOTAKEOFF_SETTINGS file is
// used only when the project carries none.
func loadProject(path, settingsPath string) (*project.Project, error) {
	p, err := project.LoadFromFile(path)
	if err != nil {
		return nil, err
	}

	if settingsPath == "" && p.Settings == (settings.Settings{}) && appConfig != nil {
		settingsPath = appConfig.Settings
	}
	if settingsPath != "" {
		s, err := project.LoadSettings(settingsPath)
		if err != nil {
			return nil, err
		}
		p.Settings = *s
	}

	log.Info("project loaded",
		zap.String("path", path),
		zap.String("settings", settingsPath),
		zap.Int("walls", len(p.Walls)),
		zap.Int("openings", len(p.Openings)),
		zap.Int("columns", len(p.Columns)),
	)
	return p, nil
}
