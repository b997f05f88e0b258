package guitars

import (
	"context"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/foomo/guitarserver/pkg/metrics"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Store is the persistence contract the service relies on.
type Store interface {
	ReadAll(ctx context.Context) ([]string, error)
	WriteAll(ctx context.Context, names []string) error
}

type (
	// Service owns the in-memory collection and keeps it in sync with the store.
	Service struct {
		l         *zap.Logger
		store     Store
		addresser Addresser
		loaded    *atomic.Bool
		names     []string
		namesLock sync.RWMutex
	}
	Option func(*Service)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

func NewService(l *zap.Logger, store Store, opts ...Option) *Service {
	inst := &Service{
		l:         l.Named("guitars"),
		store:     store,
		addresser: NewAddresser(DefaultBasePath),
		loaded:    &atomic.Bool{},
		names:     []string{},
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithBasePath(v string) Option {
	return func(o *Service) {
		o.addresser = NewAddresser(v)
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Getter
// ------------------------------------------------------------------------------------------------

func (s *Service) Loaded() bool {
	return s.loaded.Load()
}

func (s *Service) Addresser() Addresser {
	return s.addresser
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Load replaces the in-memory collection with the persisted one.
func (s *Service) Load(ctx context.Context) error {
	names, err := s.store.ReadAll(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to load guitars")
	}

	s.namesLock.Lock()
	s.names = names
	s.namesLock.Unlock()

	s.loaded.Store(true)
	metrics.CollectionSizeGauge.WithLabelValues().Set(float64(len(names)))
	s.l.Info("loaded guitars", zap.Int("count", len(names)))
	return nil
}

// List returns the collection in insertion order.
func (s *Service) List() []Item {
	s.namesLock.RLock()
	defer s.namesLock.RUnlock()

	items := make([]Item, len(s.names))
	for i, name := range s.names {
		items[i] = s.item(name)
	}
	return items
}

// Create appends a guitar and persists the collection. The name is accepted only when it is
// non-empty after trimming and passes validation.
func (s *Service) Create(ctx context.Context, name string) (Item, error) {
	item := Item{Name: strings.TrimSpace(name)}
	isNameValid := item.Name != ""
	validationErr := Validate(item)
	if !isNameValid || validationErr != nil {
		metrics.ValidationFailedCounter.WithLabelValues().Inc()
		if validationErr == nil {
			validationErr = errors.New("name is required")
		}
		return item, errors.Wrap(ErrValidation, validationErr.Error())
	}

	s.namesLock.Lock()
	defer s.namesLock.Unlock()

	names := append(slices.Clip(s.names), item.Name)
	if err := s.store.WriteAll(ctx, names); err != nil {
		s.l.Error("failed to persist created guitar", zap.String("name", item.Name), zap.Error(err))
		return item, err
	}
	s.set(names)

	s.l.Info("created guitar", zap.String("name", item.Name))
	return s.item(item.Name), nil
}

// Delete removes the first guitar matching address and persists the collection.
func (s *Service) Delete(ctx context.Context, address string) error {
	name, err := s.addresser.Name(address)
	if err != nil {
		return errors.Wrap(ErrNotFound, err.Error())
	}

	s.namesLock.Lock()
	defer s.namesLock.Unlock()

	i := slices.Index(s.names, name)
	if i < 0 {
		return errors.Wrapf(ErrNotFound, "no guitar named %q", name)
	}

	names := slices.Delete(slices.Clone(s.names), i, i+1)
	if err := s.store.WriteAll(ctx, names); err != nil {
		s.l.Error("failed to persist deleted guitar", zap.String("name", name), zap.Error(err))
		return err
	}
	s.set(names)

	s.l.Info("deleted guitar", zap.String("name", name))
	return nil
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (s *Service) item(name string) Item {
	return Item{
		Name: name,
		Link: s.addresser.Address(name),
	}
}

// set must be called with namesLock held
func (s *Service) set(names []string) {
	s.names = names
	metrics.CollectionSizeGauge.WithLabelValues().Set(float64(len(names)))
}
