package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Watch polls the input files and reruns the full batch whenever any of them
// changes. It runs once immediately, then on every change, until the context
// is cancelled. A failed run is logged and the watcher keeps going; the next
// change gets another chance.
func (p *Pipeline) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}

	last := ""
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		current, err := p.fingerprint()
		if err != nil {
			p.logger.Error("input scan failed", "error", err)
		} else if current != last {
			if _, err := p.Run(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				p.logger.Error("watched run failed", "error", err)
			}
			last = current
		}

		select {
		case <-ctx.Done():
			p.logger.Info("watcher stopping", "reason", ctx.Err())
			return nil
		case <-ticker.C:
		}
	}
}

// fingerprint summarizes the input set by name, size, and modification time.
// Any difference between polls means at least one input changed.
func (p *Pipeline) fingerprint() (string, error) {
	var parts []string

	entries, err := os.ReadDir(p.cfg.InputDir)
	if err != nil {
		return "", fmt.Errorf("read input dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		parts = append(parts, stampOf(entry.Name(), info.Size(), info.ModTime()))
	}

	for _, path := range []string{p.cfg.BerthDictionary, p.cfg.Manifest} {
		info, err := os.Stat(path)
		if err != nil {
			// A missing manifest is not fatal to the scan; its appearance
			// later changes the fingerprint and triggers a run.
			parts = append(parts, path+":absent")
			continue
		}
		parts = append(parts, stampOf(path, info.Size(), info.ModTime()))
	}

	sort.Strings(parts)
	return strings.Join(parts, "|"), nil
}

func stampOf(name string, size int64, mod time.Time) string {
	return fmt.Sprintf("%s:%d:%d", name, size, mod.UnixNano())
}
