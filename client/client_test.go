package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foomo/guitarserver/client"
	"github.com/foomo/guitarserver/pkg/guitars"
	"github.com/foomo/guitarserver/pkg/handler"
	"github.com/foomo/guitarserver/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestInvalidClientInit(t *testing.T) {
	for _, serverURL := range []string{"", "bogus", "htt:/notaurl", "htts://notaurl", "/path/segment/only", "http://"} {
		c, err := client.New(serverURL)
		assert.Nil(t, c, serverURL)
		assert.Error(t, err, serverURL)
	}
}

func initServer(tb testing.TB, l *zap.Logger, opts ...guitars.Option) *httptest.Server {
	tb.Helper()
	storage, err := store.NewFilesystemStorage(tb.TempDir())
	require.NoError(tb, err)
	svc := guitars.NewService(l, store.New(l, storage), opts...)
	require.NoError(tb, svc.Load(context.Background()))
	server := httptest.NewServer(handler.NewHTTP(l, svc))
	tb.Cleanup(server.Close)
	return server
}

func newClient(tb testing.TB, server *httptest.Server, opts ...client.Option) *client.Client {
	tb.Helper()
	c, err := client.New(server.URL, opts...)
	require.NoError(tb, err)
	return c
}

func TestClient(t *testing.T) {
	ctx := context.Background()
	c := newClient(t, initServer(t, zaptest.NewLogger(t)))

	items, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	strat, err := c.Create(ctx, "Stratocaster")
	require.NoError(t, err)
	assert.Equal(t, guitars.Item{Name: "Stratocaster", Link: "/guitars/Stratocaster"}, strat)

	acdc, err := c.Create(ctx, "AC/DC SG")
	require.NoError(t, err)
	assert.Equal(t, "/guitars/AC%2FDC%20SG", acdc.Link)

	items, err = c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []guitars.Item{strat, acdc}, items)

	require.NoError(t, c.Delete(ctx, acdc.Link))
	items, err = c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []guitars.Item{strat}, items)
}

func TestClient_BasePath(t *testing.T) {
	ctx := context.Background()
	server := initServer(t, zaptest.NewLogger(t), guitars.WithBasePath("/api/guitars"))
	c := newClient(t, server, client.WithBasePath("api/guitars/"), client.WithHTTPClient(server.Client()))

	item, err := c.Create(ctx, "Les Paul")
	require.NoError(t, err)
	assert.Equal(t, "/api/guitars/Les%20Paul", item.Link)

	items, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []guitars.Item{item}, items)
}

func TestClient_StatusError(t *testing.T) {
	c := newClient(t, initServer(t, zaptest.NewLogger(t)))

	_, err := c.Create(context.Background(), "   ")
	var statusErr *client.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.Code)
	assert.Contains(t, statusErr.Body, "invalid guitar")
}
