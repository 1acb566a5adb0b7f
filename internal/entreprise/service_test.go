package entreprise_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/entreprise-registry/internal/entreprise"
	"github.com/odyssey-erp/entreprise-registry/internal/platform/httpx"
)

func newService(t *testing.T, store entreprise.Store, publisher entreprise.EventPublisher) (*entreprise.Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return entreprise.NewService(store, entreprise.NewCache(client, time.Minute), publisher, logger), mr
}

func TestServiceRegisterNormalizesName(t *testing.T) {
	store := &stubStore{}
	svc, _ := newService(t, store, nil)

	// "e" followed by a combining acute accent folds to the precomposed "é".
	created, err := svc.Register(context.Background(), entreprise.RegistrationRequest{Name: " Cafe\u0301 "}, "req-1")

	require.NoError(t, err)
	assert.Equal(t, "Caf\u00e9", created.Name)
	assert.Equal(t, []string{"Caf\u00e9"}, store.calls())
}

func TestServiceRegisterErrors(t *testing.T) {
	ctx := context.Background()

	svc, _ := newService(t, &stubStore{}, nil)
	_, err := svc.Register(ctx, entreprise.RegistrationRequest{Name: "  "}, "")
	assert.ErrorIs(t, err, entreprise.ErrMissingField)

	dbErr := errors.New("insert entreprise: timeout")
	svc, _ = newService(t, &stubStore{createFn: failingCreate(entreprise.ResultFailed, dbErr)}, nil)
	_, err = svc.Register(ctx, entreprise.RegistrationRequest{Name: "Acme"}, "")
	assert.ErrorIs(t, err, entreprise.ErrPersistence)
	assert.ErrorIs(t, err, dbErr)

	svc, _ = newService(t, &stubStore{createFn: failingCreate(entreprise.ResultFailed, nil)}, nil)
	_, err = svc.Register(ctx, entreprise.RegistrationRequest{Name: "Acme"}, "")
	assert.ErrorIs(t, err, entreprise.ErrPersistence)

	svc, _ = newService(t, &stubStore{createFn: failingCreate(entreprise.Result(42), nil)}, nil)
	_, err = svc.Register(ctx, entreprise.RegistrationRequest{Name: "Acme"}, "")
	assert.ErrorIs(t, err, entreprise.ErrUnspecified)
}

func TestServiceRegisterPublishesEvent(t *testing.T) {
	publisher := &recordingPublisher{}
	svc, _ := newService(t, &stubStore{}, publisher)

	_, err := svc.Register(context.Background(), entreprise.RegistrationRequest{Name: "Acme"}, "req-42")
	require.NoError(t, err)

	events := publisher.published()
	require.Len(t, events, 1)
	assert.Equal(t, "req-42", events[0].RequestID)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), events[0].RegisteredAt)
}

func TestServiceListIsCachedUntilRegistration(t *testing.T) {
	store := &stubStore{}
	svc, _ := newService(t, store, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, entreprise.RegistrationRequest{Name: "Acme"}, "")
	require.NoError(t, err)

	page, err := svc.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, page.Entreprises, 1)

	_, err = svc.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, store.lists, "second read should come from redis")

	_, err = svc.Register(ctx, entreprise.RegistrationRequest{Name: "Globex"}, "")
	require.NoError(t, err)

	page, err = svc.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, store.lists)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, "Globex", page.Entreprises[0].Name)
}

func TestServiceListClampsPaging(t *testing.T) {
	svc, _ := newService(t, &stubStore{}, nil)

	page, err := svc.List(context.Background(), 0, -5)
	require.NoError(t, err)
	assert.Equal(t, 20, page.Limit)
	assert.Equal(t, 0, page.Offset)

	page, err = svc.List(context.Background(), 1000, 3)
	require.NoError(t, err)
	assert.Equal(t, 100, page.Limit)
	assert.Equal(t, 3, page.Offset)
}

func TestServiceGet(t *testing.T) {
	store := &stubStore{}
	svc, _ := newService(t, store, nil)
	ctx := context.Background()

	_, err := svc.Get(ctx, 0)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Get(ctx, 5)
	assert.ErrorIs(t, err, httpx.ErrNotFound)

	created, err := svc.Register(ctx, entreprise.RegistrationRequest{Name: "Acme"}, "")
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	_, err = svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, store.gets, "not-found lookups are not cached, hits are")
}

func TestServiceReadsWithoutRedis(t *testing.T) {
	store := &stubStore{}
	svc, mr := newService(t, store, nil)
	ctx := context.Background()
	mr.Close()

	_, err := svc.Register(ctx, entreprise.RegistrationRequest{Name: "Acme"}, "")
	require.NoError(t, err)

	page, err := svc.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}
