package guitars

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/foomo/guitarserver/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// memoryStore keeps names in memory and can be switched to fail.
type memoryStore struct {
	mu    sync.Mutex
	names []string
	err   error
}

func (m *memoryStore) ReadAll(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return slices.Clone(m.names), nil
}

func (m *memoryStore) WriteAll(_ context.Context, names []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.names = slices.Clone(names)
	return nil
}

func newTestService(t *testing.T, names ...string) (*Service, *memoryStore) {
	t.Helper()
	ms := &memoryStore{names: names}
	s := NewService(zaptest.NewLogger(t), ms)
	require.NoError(t, s.Load(context.Background()))
	return s, ms
}

func count(items []Item, name string) int {
	var n int
	for _, item := range items {
		if item.Name == name {
			n++
		}
	}
	return n
}

func TestService_CreateOnEmptyStore(t *testing.T) {
	s, ms := newTestService(t)

	item, err := s.Create(context.Background(), "Stratocaster")
	require.NoError(t, err)
	assert.Equal(t, Item{Name: "Stratocaster", Link: "/guitars/Stratocaster"}, item)
	assert.Equal(t, []Item{{Name: "Stratocaster", Link: "/guitars/Stratocaster"}}, s.List())
	assert.Equal(t, []string{"Stratocaster"}, ms.names)
}

func TestService_CreateAddsExactlyOne(t *testing.T) {
	s, _ := newTestService(t, "Les Paul", "SG")

	for _, name := range []string{"SG", "Telecaster", "  Jazzmaster  ", "Les Paul"} {
		trimmed := strings.TrimSpace(name)
		before := count(s.List(), trimmed)
		_, err := s.Create(context.Background(), name)
		require.NoError(t, err)
		assert.Equal(t, before+1, count(s.List(), trimmed), name)
	}
	assert.Equal(t, "Les Paul", s.List()[len(s.List())-1].Name)
}

func TestService_CreateRejectsInvalidNames(t *testing.T) {
	s, ms := newTestService(t, "Les Paul")

	for _, name := range []string{"", " ", "\t\n", "Les Paul,SG", strings.Repeat("x", 129), ".", "..", " .. "} {
		_, err := s.Create(context.Background(), name)
		require.ErrorIs(t, err, ErrValidation, name)
		assert.Equal(t, []Item{{Name: "Les Paul", Link: "/guitars/Les%20Paul"}}, s.List())
		assert.Equal(t, []string{"Les Paul"}, ms.names)
	}
}

func TestService_Delete(t *testing.T) {
	s, ms := newTestService(t, "Les Paul", "SG")

	require.NoError(t, s.Delete(context.Background(), "/guitars/SG"))
	assert.Equal(t, []Item{{Name: "Les Paul", Link: "/guitars/Les%20Paul"}}, s.List())
	assert.Equal(t, []string{"Les Paul"}, ms.names)
}

func TestService_DeleteByListedLink(t *testing.T) {
	s, _ := newTestService(t, "Les Paul", "AC/DC SG", "Flying V")

	items := s.List()
	require.NoError(t, s.Delete(context.Background(), items[1].Link))
	assert.Equal(t, []Item{items[0], items[2]}, s.List())
}

func TestService_DeleteRemovesFirstDuplicate(t *testing.T) {
	s, ms := newTestService(t, "SG", "Les Paul", "SG")

	require.NoError(t, s.Delete(context.Background(), "/guitars/SG"))
	assert.Equal(t, []string{"Les Paul", "SG"}, ms.names)
}

func TestService_DeleteNotFound(t *testing.T) {
	s, ms := newTestService(t, "Les Paul", "SG")

	for _, address := range []string{"/guitars/Telecaster", "/guitars/", "/elsewhere/SG", "garbage"} {
		err := s.Delete(context.Background(), address)
		require.ErrorIs(t, err, ErrNotFound, address)
		assert.Len(t, s.List(), 2)
		assert.Equal(t, []string{"Les Paul", "SG"}, ms.names)
	}
}

func TestService_StoreUnavailable(t *testing.T) {
	s, ms := newTestService(t, "Les Paul", "SG")
	ms.err = errors.Join(store.ErrStoreUnavailable, errors.New("boom"))

	_, err := s.Create(context.Background(), "Telecaster")
	require.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Len(t, s.List(), 2)

	err = s.Delete(context.Background(), "/guitars/SG")
	require.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Len(t, s.List(), 2)

	// recovers once the store is back
	ms.err = nil
	_, err = s.Create(context.Background(), "Telecaster")
	require.NoError(t, err)
	assert.Len(t, s.List(), 3)
}

func TestService_Load(t *testing.T) {
	ms := &memoryStore{err: store.ErrStoreUnavailable}
	s := NewService(zaptest.NewLogger(t), ms, WithBasePath("/api/guitars"))

	require.ErrorIs(t, s.Load(context.Background()), ErrStoreUnavailable)
	assert.False(t, s.Loaded())

	ms.err = nil
	ms.names = []string{"Les Paul"}
	require.NoError(t, s.Load(context.Background()))
	assert.True(t, s.Loaded())
	assert.Equal(t, []Item{{Name: "Les Paul", Link: "/api/guitars/Les%20Paul"}}, s.List())
}

func TestService_WithStore(t *testing.T) {
	ctx := context.Background()
	storage, err := store.NewFilesystemStorage(t.TempDir())
	require.NoError(t, err)
	l := zaptest.NewLogger(t)

	s := NewService(l, store.New(l, storage))
	require.NoError(t, s.Load(ctx))
	_, err = s.Create(ctx, "Les Paul")
	require.NoError(t, err)
	_, err = s.Create(ctx, "SG")
	require.NoError(t, err)

	// a fresh service sees the persisted collection
	reloaded := NewService(l, store.New(l, storage))
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, s.List(), reloaded.List())
}

func TestService_ListIsACopy(t *testing.T) {
	s, _ := newTestService(t, "SG")

	items := s.List()
	items[0].Name = "changed"
	assert.Equal(t, "SG", s.List()[0].Name)
}
