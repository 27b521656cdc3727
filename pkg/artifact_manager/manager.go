package artifact_manager

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dtnitsch/wordfreq/models"
	"github.com/dtnitsch/wordfreq/pkg/mapreduce"
)

const (
	SuccessMarker = "_SUCCESS"
	ManifestFile  = "_manifest.yaml"
	partFormat    = "part-%05d.csv"
)

// removeAll deletes the previous output after a successful Commit.
var removeAll = os.RemoveAll

// ErrOutputExists is returned when the destination is already populated and overwrite is off.
var ErrOutputExists = errors.New("output already exists")

// PartInfo describes one written part file.
type PartInfo struct {
	Name      string `yaml:"name"`
	Rows      int    `yaml:"rows"`
	SizeBytes int64  `yaml:"size_bytes"`
}

// Manager writes the frequency table as a directory of CSV part files.
// Files are staged in a sibling directory and moved into place by Commit,
// so a failed run never leaves a half-written output behind.
type Manager struct {
	outputDir  string
	overwrite  bool
	header     bool
	stagingDir string
	logger     *slog.Logger
}

// NewManager checks the destination up front so a conflict fails before any work is done.
func NewManager(outputDir string, overwrite, header bool) (*Manager, error) {
	if outputDir == "" {
		return nil, errors.New("output path is empty")
	}
	m := &Manager{
		outputDir: filepath.Clean(outputDir),
		overwrite: overwrite,
		header:    header,
		logger:    slog.New(slog.DiscardHandler),
	}
	if err := m.checkDestination(); err != nil {
		return nil, err
	}
	return m, nil
}

// SetLogger sets the logger used for non-fatal cleanup problems.
func (m *Manager) SetLogger(logger *slog.Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// OutputDir returns the final output location.
func (m *Manager) OutputDir() string {
	return m.outputDir
}

// PartName returns the file name of reducer i's part.
func PartName(i int) string {
	return fmt.Sprintf(partFormat, i)
}

func (m *Manager) checkDestination() error {
	if m.overwrite {
		return nil
	}
	if _, err := os.Stat(m.outputDir); err == nil {
		return fmt.Errorf("%w: %s (use --overwrite to replace it)", ErrOutputExists, m.outputDir)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check output path: %w", err)
	}
	return nil
}

// Begin creates the staging directory next to the output location.
func (m *Manager) Begin() error {
	parent := filepath.Dir(m.outputDir)
	if err := os.MkdirAll(parent, 0750); err != nil {
		return fmt.Errorf("failed to create output parent directory: %w", err)
	}
	dir, err := os.MkdirTemp(parent, "."+filepath.Base(m.outputDir)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	m.stagingDir = dir
	return nil
}

// Export writes one part file per reducer shard, rows sorted by word.
func (m *Manager) Export(shards []map[string]int) ([]PartInfo, error) {
	parts := make([]PartInfo, 0, len(shards))
	for i, shard := range shards {
		info, err := m.WritePart(i, mapreduce.SortByWord(shard))
		if err != nil {
			return nil, err
		}
		parts = append(parts, info)
	}
	return parts, nil
}

// WritePart writes records as CSV rows "word,count".
func (m *Manager) WritePart(i int, records []models.FrequencyRecord) (PartInfo, error) {
	if m.stagingDir == "" {
		return PartInfo{}, errors.New("staging directory not initialized; call Begin first")
	}
	name := PartName(i)
	path := filepath.Join(m.stagingDir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return PartInfo{}, fmt.Errorf("failed to create part %s: %w", name, err)
	}
	defer f.Close()

	bw := bufio.NewWriterSize(f, 64*1024)
	cw := csv.NewWriter(bw)
	if m.header {
		if err := cw.Write([]string{"word", "count"}); err != nil {
			return PartInfo{}, fmt.Errorf("failed to write header of %s: %w", name, err)
		}
	}
	for _, r := range records {
		if err := cw.Write([]string{r.Word, strconv.Itoa(r.Count)}); err != nil {
			return PartInfo{}, fmt.Errorf("failed to write row to %s: %w", name, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return PartInfo{}, fmt.Errorf("failed to flush %s: %w", name, err)
	}
	if err := bw.Flush(); err != nil {
		return PartInfo{}, fmt.Errorf("failed to flush %s: %w", name, err)
	}
	if err := f.Sync(); err != nil {
		return PartInfo{}, fmt.Errorf("failed to sync %s: %w", name, err)
	}

	info, err := f.Stat()
	if err != nil {
		return PartInfo{}, fmt.Errorf("failed to stat %s: %w", name, err)
	}
	return PartInfo{Name: name, Rows: len(records), SizeBytes: info.Size()}, nil
}

// WriteFile adds an auxiliary file (manifest) to the staged output.
func (m *Manager) WriteFile(name string, data []byte) error {
	if m.stagingDir == "" {
		return errors.New("staging directory not initialized; call Begin first")
	}
	if err := os.WriteFile(filepath.Join(m.stagingDir, name), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// Commit marks the output complete and moves it into place.
// An existing destination is replaced only when overwrite is set.
func (m *Manager) Commit() error {
	if err := m.WriteFile(SuccessMarker, nil); err != nil {
		return err
	}
	if err := m.checkDestination(); err != nil {
		return err
	}

	var backup string
	if _, err := os.Stat(m.outputDir); err == nil {
		backup = m.stagingDir + ".old"
		if err := os.Rename(m.outputDir, backup); err != nil {
			return fmt.Errorf("failed to move existing output aside: %w", err)
		}
	}
	if err := os.Rename(m.stagingDir, m.outputDir); err != nil {
		if backup != "" {
			_ = os.Rename(backup, m.outputDir)
		}
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	m.stagingDir = ""
	// The new output is already in place; a leftover backup is not a failed export
	if backup != "" {
		if err := removeAll(backup); err != nil {
			m.logger.Warn("failed to remove previous output", "path", backup, "error", err)
		}
	}
	return nil
}

// Abort discards the staged output. Safe to call after Commit.
func (m *Manager) Abort() {
	if m.stagingDir != "" {
		_ = os.RemoveAll(m.stagingDir)
		m.stagingDir = ""
	}
}
