// Package checkpoint snapshots documents before edits are applied, so a bad
// apply can be rolled back without source control.
package checkpoint

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// backupTimeFormat orders backup names lexicographically by creation time.
const backupTimeFormat = "20060102-150405.000000000"

// Manager creates and restores point-in-time copies of a single document.
// Backups live in a sibling directory named after the document, one file per
// snapshot, newest last in sorted order.
type Manager struct {
	documentPath string
	backupDir    string
}

// NewManager creates a manager for the given document path.
func NewManager(documentPath string) (*Manager, error) {
	if documentPath == "" {
		return nil, fmt.Errorf("document path cannot be empty")
	}
	abs, err := filepath.Abs(documentPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve document path: %w", err)
	}
	return &Manager{
		documentPath: abs,
		backupDir:    abs + ".backups",
	}, nil
}

// DocumentPath returns the absolute path of the managed document.
func (m *Manager) DocumentPath() string {
	return m.documentPath
}

// Save copies the current document into the backup directory and returns the
// backup path. A document that does not exist yet needs no backup; Save
// returns an empty path.
func (m *Manager) Save() (string, error) {
	src, err := os.Open(m.documentPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to open document: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(m.backupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := time.Now().UTC().Format(backupTimeFormat) + ".bak"
	backupPath := filepath.Join(m.backupDir, name)

	dst, err := os.OpenFile(backupPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(backupPath)
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(backupPath)
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	return backupPath, nil
}

// List returns all backup paths for the document, oldest first.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".bak") {
			continue
		}
		backups = append(backups, filepath.Join(m.backupDir, e.Name()))
	}
	sort.Strings(backups)
	return backups, nil
}

// RestoreLatest replaces the document with its most recent backup.
func (m *Manager) RestoreLatest() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found for %s", m.documentPath)
	}
	return m.Restore(backups[len(backups)-1])
}

// Restore replaces the document with the content of a specific backup. The
// write goes through a temp file and rename, so a crash mid-restore leaves
// the document intact.
func (m *Manager) Restore(backupPath string) error {
	data, err := os.ReadFile(backupPath)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}

	tmp := m.documentPath + ".restore.tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write restore file: %w", err)
	}
	if err := os.Rename(tmp, m.documentPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to restore document: %w", err)
	}
	return nil
}

// Prune removes all but the newest keep backups. keep <= 0 removes all.
func (m *Manager) Prune(keep int) error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	if keep < 0 {
		keep = 0
	}
	if len(backups) <= keep {
		return nil
	}
	for _, b := range backups[:len(backups)-keep] {
		if err := os.Remove(b); err != nil {
			return fmt.Errorf("failed to prune backup %s: %w", b, err)
		}
	}
	return nil
}
