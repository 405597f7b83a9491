// Command quillterm runs a minimal chat-transcript terminal UI exercising
// the composer text area and transcript viewport core: internal/textarea,
// internal/transcript, internal/scrollnorm, internal/tselect,
// internal/multiclick, internal/clipcopy, internal/skills, and
// internal/highlight.
//
// Grounded on the teacher's cmd/symb/main.go (flag parsing, file-backed
// zerolog setup, tea.NewProgram+WithFilter wiring), trimmed to the
// transcript-viewport scope: no LLM provider, MCP proxy, or session store.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/quillterm/quillterm/internal/config"
	"github.com/quillterm/quillterm/internal/skills"
)

func main() {
	if err := setupFileLogging(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to setup logging: %v\n", err)
	}

	configPath := filepath.Join(".", "config.toml")
	if dataDir, err := config.DataDir(); err == nil {
		dataDirPath := filepath.Join(dataDir, "config.toml")
		if _, err := os.Stat(dataDirPath); err == nil {
			configPath = dataDirPath
		}
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	home, _ := os.UserHomeDir()
	mgr := skills.NewManager(joinIfSet(home, cfg.Skills.CodexHome), cfg.Skills.SystemDir, cfg.Skills.AdminDir, log.Logger)

	p := tea.NewProgram(
		newApp(cfg, mgr, cwd, os.Getenv("TERM_PROGRAM")),
		tea.WithFilter(MouseEventFilter),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running quillterm: %v\n", err)
		os.Exit(1)
	}
}

func joinIfSet(home, override string) string {
	if override != "" {
		return override
	}
	return home
}

func setupFileLogging() error {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	dataDir, err := config.DataDir()
	if err != nil {
		return err
	}

	logDir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return err
	}

	logFile := filepath.Join(logDir, "quillterm.log")
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	log.Logger = log.Output(file)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	return nil
}
