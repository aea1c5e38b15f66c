package backup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jhouedanou/lessonpatch/internal/model"
)

// Snapshot suffixes used by the two pipelines.
const (
	// QuizSuffix is used by the quiz pipeline.
	QuizSuffix = ".backup_"

	// ThemeSuffix is used by the theme pipeline.
	ThemeSuffix = ".theme_backup_"

	// timestampLayout matches the "%Y%m%d_%H%M%S" layout of existing backups.
	timestampLayout = "20060102_150405"

	// maxCollisions bounds the search for a free snapshot name within one second.
	maxCollisions = 100
)

// Manager creates snapshots and commits patched content.
type Manager struct {
	suffix string
	now    func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithSuffix sets the snapshot suffix placed between the file name and the timestamp.
func WithSuffix(suffix string) Option {
	return func(m *Manager) {
		m.suffix = suffix
	}
}

// WithClock sets the time source used for snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager. The default suffix is QuizSuffix.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		suffix: QuizSuffix,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// SnapshotPath returns the snapshot path for a document at time t.
func (m *Manager) SnapshotPath(path string, t time.Time) string {
	return path + m.suffix + t.Format(timestampLayout)
}

// Snapshot copies the current content of path to a timestamped sibling and
// returns the sibling's path.
//
// A read failure returns ErrDocumentNotFound or ErrDocumentUnreadable.
// A write failure returns ErrBackupWriteFailed; in that case no partial
// snapshot is left behind and the caller must not commit.
func (m *Manager) Snapshot(path string) (string, error) {
	content, err := os.ReadFile(path) //nolint:gosec // Document paths come from the operator
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", model.ErrDocumentNotFound, path)
		}
		return "", fmt.Errorf("%w: %s: %v", model.ErrDocumentUnreadable, path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", model.ErrDocumentUnreadable, path, err)
	}

	base := m.SnapshotPath(path, m.now())
	for i := 0; i < maxCollisions; i++ {
		candidate := base
		if i > 0 {
			candidate = base + "-" + strconv.Itoa(i)
		}

		err := writeExclusive(candidate, content, info.Mode().Perm())
		if err == nil {
			return candidate, nil
		}
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		return "", fmt.Errorf("%w: %s: %v", model.ErrBackupWriteFailed, candidate, err)
	}

	return "", fmt.Errorf("%w: no free snapshot name for %s", model.ErrBackupWriteFailed, base)
}

// Commit replaces the content of path.
// The content is written to a temporary sibling and renamed over the
// original, so readers never observe a half-written document.
func (m *Manager) Commit(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", model.ErrCommitFailed, path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", model.ErrCommitFailed, path, err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()        //nolint:errcheck // Best effort cleanup
		_ = os.Remove(tmpName) //nolint:errcheck // Best effort cleanup
	}

	if _, err := tmp.WriteString(content); err != nil {
		cleanup()
		return fmt.Errorf("%w: %s: %v", model.ErrCommitFailed, path, err)
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		cleanup()
		return fmt.Errorf("%w: %s: %v", model.ErrCommitFailed, path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // Best effort cleanup
		return fmt.Errorf("%w: %s: %v", model.ErrCommitFailed, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // Best effort cleanup
		return fmt.Errorf("%w: %s: %v", model.ErrCommitFailed, path, err)
	}

	return nil
}

// writeExclusive writes content to a new file, failing if the file exists.
// A partially written file is removed.
func writeExclusive(path string, content []byte, perm fs.FileMode) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm) //nolint:gosec // Sibling of an operator supplied path
	if err != nil {
		return err
	}

	if _, err := f.Write(content); err != nil {
		_ = f.Close()       //nolint:errcheck // Best effort cleanup
		_ = os.Remove(path) //nolint:errcheck // Best effort cleanup
		return err
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(path) //nolint:errcheck // Best effort cleanup
		return err
	}

	return nil
}
