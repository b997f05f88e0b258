package store

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/foomo/guitarserver/pkg/metrics"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// Delimiter joins the names inside the persisted blob.
	Delimiter = ","

	KeyPrefix  = "guitars-"
	KeySuffix  = ".txt"
	CurrentKey = KeyPrefix + "current" + KeySuffix

	// fixed width so that backup keys sort chronologically
	backupTimeFormat = "2006-01-02T15-04-05.000000000Z"
)

// ErrStoreUnavailable is returned whenever the backing medium cannot be read or written.
var ErrStoreUnavailable = errors.New("store unavailable")

type (
	// Store persists the whole list of names as one delimiter joined blob.
	Store struct {
		l           *zap.Logger
		storage     Storage
		backupLimit int
		mu          sync.Mutex
	}
	Option func(*Store)
)

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

// WithBackupLimit sets how many timestamped backups are kept next to the current blob.
// Zero disables backups.
func WithBackupLimit(v int) Option {
	return func(o *Store) {
		o.backupLimit = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func New(l *zap.Logger, storage Storage, opts ...Option) *Store {
	inst := &Store{
		l:           l.Named("store"),
		storage:     storage,
		backupLimit: 2,
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// ReadAll returns the persisted names in order. A medium that does not exist yet reads as empty.
func (s *Store) ReadAll(ctx context.Context) ([]string, error) {
	data, err := s.storage.Read(ctx, CurrentKey)
	if errors.Is(err, os.ErrNotExist) {
		s.l.Debug("nothing persisted yet", zap.String("key", CurrentKey))
		return []string{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", ErrStoreUnavailable, CurrentKey, err)
	}
	return Decode(data), nil
}

// WriteAll replaces the persisted names and rotates the backups.
// A failed backup cleanup is logged but does not fail the write.
func (s *Store) WriteAll(ctx context.Context, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.l.With(zap.String("run_id", uuid.New().String()), zap.Int("count", len(names)))
	data := Encode(names)

	if err := s.storage.Write(ctx, CurrentKey, data); err != nil {
		metrics.StorePersistFailedCounter.WithLabelValues().Inc()
		return fmt.Errorf("%w: failed to write %s: %w", ErrStoreUnavailable, CurrentKey, err)
	}
	l.Debug("persisted collection", zap.String("key", CurrentKey))

	if s.backupLimit <= 0 {
		return nil
	}

	backupKey := KeyPrefix + time.Now().UTC().Format(backupTimeFormat) + KeySuffix
	if err := s.storage.Write(ctx, backupKey, data); err != nil {
		l.Warn("could not write backup", zap.String("key", backupKey), zap.Error(err))
		return nil
	}
	if err := s.cleanup(ctx); err != nil {
		l.Warn("could not clean up backups", zap.Error(err))
	}
	return nil
}

// Backups returns the keys of all kept backups, newest first.
func (s *Store) Backups(ctx context.Context) ([]string, error) {
	keys, err := s.storage.List(ctx, KeyPrefix)
	if err != nil {
		return nil, err
	}

	backups := make([]string, 0, len(keys))
	for _, key := range keys {
		if key != CurrentKey && strings.HasSuffix(key, KeySuffix) {
			backups = append(backups, key)
		}
	}
	return backups, nil
}

func (s *Store) Close() error {
	return s.storage.Close()
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (s *Store) cleanup(ctx context.Context) error {
	backups, err := s.Backups(ctx)
	if err != nil {
		return errors.Wrap(err, "could not list backups")
	}
	if len(backups) <= s.backupLimit {
		return nil
	}

	var (
		mu   sync.Mutex
		errs error
		g    errgroup.Group
	)
	for _, key := range backups[s.backupLimit:] {
		g.Go(func() error {
			s.l.Debug("removing outdated backup", zap.String("key", key))
			if err := s.storage.Delete(ctx, key); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, errors.Wrapf(err, "could not remove %s", key))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errs
}
