package filestate

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/hoopstats/internal/domain/state"
	"github.com/riskibarqy/hoopstats/internal/platform/logging"
)

const tempSuffix = ".tmp"

// Repository stores the engine state as one JSON document, replaced atomically.
type Repository struct {
	mu     sync.Mutex
	path   string
	logger *logging.Logger
	now    func() time.Time
}

func NewRepository(path string, logger *logging.Logger) *Repository {
	if logger == nil {
		logger = logging.Default()
	}
	return &Repository{
		path:   path,
		logger: logger,
		now:    time.Now,
	}
}

func (r *Repository) Path() string {
	return r.path
}

// Load returns the persisted state, or the default state when the file is
// absent or cannot be decoded.
func (r *Repository) Load(ctx context.Context) (state.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.logger.InfoContext(ctx, "state file not found, using default state", "path", r.path)
		} else {
			r.logger.WarnContext(ctx, "read state file failed, using default state", "path", r.path, "error", err)
		}
		return state.Default(), nil
	}

	var out state.State
	if err := sonic.Unmarshal(raw, &out); err != nil {
		r.logger.WarnContext(ctx, "decode state file failed, using default state", "path", r.path, "error", err)
		return state.Default(), nil
	}

	return out.Normalize(), nil
}

// Save writes to a sibling temp file and renames it over the target so a
// crash never leaves a partial document behind.
func (r *Repository) Save(ctx context.Context, s state.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	payload := s.Normalize().Touch(r.now())
	raw, err := sonic.ConfigStd.MarshalIndent(payload, "", "  ")
	if err != nil {
		return crerr.Wrap(err, "encode state")
	}

	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return crerr.Wrapf(err, "create state dir %s", dir)
		}
	}

	tmpPath := r.path + tempSuffix
	if err := writeFileSync(tmpPath, raw); err != nil {
		_ = os.Remove(tmpPath)
		return crerr.Wrapf(err, "write temp state %s", tmpPath)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		_ = os.Remove(tmpPath)
		return crerr.Wrapf(err, "replace state %s", r.path)
	}

	r.logger.DebugContext(ctx, "state saved", "path", r.path, "bytes", len(raw))
	return nil
}

func writeFileSync(path string, raw []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(raw); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
