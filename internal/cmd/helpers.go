package cmd

import (
	"fmt"
	"time"

	"github.com/jmgilman/codeweaver/internal/bot"
	"github.com/jmgilman/codeweaver/internal/config"
	"github.com/jmgilman/codeweaver/internal/flags"
	"github.com/jmgilman/codeweaver/internal/names"
	"github.com/jmgilman/codeweaver/internal/snippets"
)

// loadCatalog returns the built-in snippets plus those from content.snippets.
func loadCatalog(cfg *config.Config) (*snippets.Catalog, error) {
	catalog := snippets.Default()
	if cfg.Content.Snippets == "" {
		return catalog, nil
	}

	extra, err := snippets.LoadFile(cfg.Content.Snippets)
	if err != nil {
		return nil, fmt.Errorf("load snippets: %w", err)
	}
	catalog.Merge(extra)
	return catalog, nil
}

// newGenerator creates a name generator for dir using the output settings.
func newGenerator(cfg *config.Config, dir string) (*names.Generator, error) {
	gen, err := names.NewGenerator(names.Options{
		Dir:           dir,
		MaxNameLength: cfg.Output.MaxFilenameLength,
		Extensions:    cfg.Output.Extensions,
		SafeChars:     cfg.Output.SafeChars,
		MaxAttempts:   cfg.Output.MaxAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("create name generator: %w", err)
	}
	return gen, nil
}

// editorFlags merges the configured editor flags with extra ones given on the
// command line. Command-line values win.
func editorFlags(cfg *config.Config, extra string) (flags.Flags, error) {
	base, err := flags.FromConfig(cfg.Editor.Flags)
	if err != nil {
		return nil, fmt.Errorf("parse editor flags: %w", err)
	}
	return flags.Merge(base, flags.Parse(extra)), nil
}

// timing maps the configured delays onto the bot.
func timing(cfg *config.Config) bot.Timing {
	return bot.Timing{
		NewFile:      cfg.Timing.NewFile,
		Pause:        cfg.Timing.Pause,
		SaveDialog:   cfg.Timing.SaveDialog,
		LoopInterval: cfg.Timing.LoopInterval,
		RetryDelay:   cfg.Timing.RetryDelay,
		TypeInterval: cfg.Input.TypeInterval,
		PathInterval: cfg.Input.PathInterval,
	}
}

// formatTimeAgo formats a time as a human-readable relative time.
func formatTimeAgo(t time.Time) string {
	return formatAge(time.Since(t))
}

func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dw ago", int(d.Hours()/24/7))
	default:
		return fmt.Sprintf("%dmo ago", int(d.Hours()/24/30))
	}
}

// formatSize renders a byte count with a binary unit.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
