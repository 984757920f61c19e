package photos_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/photopicker/internal/database"
	"github.com/jask/photopicker/internal/database/repository"
	"github.com/jask/photopicker/internal/photos"
)

func newRepo(t *testing.T) *repository.ConsentRepo {
	t.Helper()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "consent.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repository.NewConsentRepo(db)
}

func answering(status photos.AuthorizationStatus, calls *int32) photos.Prompter {
	return photos.PrompterFunc(func(context.Context) (photos.AuthorizationStatus, error) {
		atomic.AddInt32(calls, 1)
		return status, nil
	})
}

func TestConsentServicePromptsOnce(t *testing.T) {
	t.Parallel()
	var calls int32
	repo := newRepo(t)
	svc := photos.NewConsentService(repo, answering(photos.StatusAuthorized, &calls),
		photos.ConsentOptions{Scope: "photos.readwrite"}, zerolog.Nop())

	require.Equal(t, photos.StatusNotDetermined, svc.CurrentStatus())
	require.Equal(t, photos.StatusAuthorized, svc.RequestAuthorization(context.Background()))
	require.Equal(t, photos.StatusAuthorized, svc.RequestAuthorization(context.Background()))
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
	require.Equal(t, photos.StatusAuthorized, svc.CurrentStatus())

	// a fresh service over the same store sees the persisted decision
	again := photos.NewConsentService(repo, answering(photos.StatusDenied, &calls),
		photos.ConsentOptions{Scope: "photos.readwrite"}, zerolog.Nop())
	require.Equal(t, photos.StatusAuthorized, again.CurrentStatus())
}

func TestConsentServiceReset(t *testing.T) {
	t.Parallel()
	var calls int32
	svc := photos.NewConsentService(newRepo(t), answering(photos.StatusLimited, &calls),
		photos.ConsentOptions{Scope: "s"}, zerolog.Nop())

	require.Equal(t, photos.StatusLimited, svc.RequestAuthorization(context.Background()))
	require.NoError(t, svc.Reset(context.Background()))
	require.Equal(t, photos.StatusNotDetermined, svc.CurrentStatus())
	require.Equal(t, photos.StatusLimited, svc.RequestAuthorization(context.Background()))
	require.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestConsentServiceRestricted(t *testing.T) {
	t.Parallel()
	var calls int32
	svc := photos.NewConsentService(newRepo(t), answering(photos.StatusAuthorized, &calls),
		photos.ConsentOptions{Scope: "s", Restricted: true}, zerolog.Nop())

	assert.Equal(t, photos.StatusRestricted, svc.CurrentStatus())
	assert.Equal(t, photos.StatusRestricted, svc.RequestAuthorization(context.Background()))
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestConsentServicePromptErrorKeepsStatus(t *testing.T) {
	t.Parallel()
	p := photos.PrompterFunc(func(context.Context) (photos.AuthorizationStatus, error) {
		return photos.StatusAuthorized, photos.ErrPromptClosed
	})
	svc := photos.NewConsentService(newRepo(t), p, photos.ConsentOptions{Scope: "s"}, zerolog.Nop())

	assert.Equal(t, photos.StatusNotDetermined, svc.RequestAuthorization(context.Background()))
	assert.Equal(t, photos.StatusNotDetermined, svc.CurrentStatus())
}

func TestConsentServiceIgnoresNonDecision(t *testing.T) {
	t.Parallel()
	var calls int32
	svc := photos.NewConsentService(newRepo(t), answering(photos.StatusRestricted, &calls),
		photos.ConsentOptions{Scope: "s"}, zerolog.Nop())

	assert.Equal(t, photos.StatusNotDetermined, svc.RequestAuthorization(context.Background()))
}

func TestConsentServiceBlocksUntilAnswered(t *testing.T) {
	t.Parallel()
	answer := make(chan photos.AuthorizationStatus)
	p := photos.PrompterFunc(func(ctx context.Context) (photos.AuthorizationStatus, error) {
		select {
		case a := <-answer:
			return a, nil
		case <-ctx.Done():
			return photos.StatusNotDetermined, ctx.Err()
		}
	})
	svc := photos.NewConsentService(newRepo(t), p, photos.ConsentOptions{Scope: "s"}, zerolog.Nop())

	var wg sync.WaitGroup
	results := make([]photos.AuthorizationStatus, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.RequestAuthorization(context.Background())
		}(i)
	}

	select {
	case answer <- photos.StatusDenied:
	case <-time.After(2 * time.Second):
		t.Fatal("prompt never shown")
	}
	wg.Wait()
	assert.Equal(t, []photos.AuthorizationStatus{photos.StatusDenied, photos.StatusDenied}, results)
}

func TestConsentServiceContextCancel(t *testing.T) {
	t.Parallel()
	p := photos.PrompterFunc(func(ctx context.Context) (photos.AuthorizationStatus, error) {
		<-ctx.Done()
		return photos.StatusNotDetermined, ctx.Err()
	})
	svc := photos.NewConsentService(newRepo(t), p, photos.ConsentOptions{Scope: "s"}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, photos.StatusNotDetermined, svc.RequestAuthorization(ctx))
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (*repository.Consent, error) { return nil, nil }
func (failingStore) Set(context.Context, string, string) error {
	return errors.New("disk full")
}
func (failingStore) Delete(context.Context, string) error { return nil }

func TestConsentServiceKeepsUnsavedAnswer(t *testing.T) {
	t.Parallel()
	var calls int32
	svc := photos.NewConsentService(failingStore{}, answering(photos.StatusAuthorized, &calls),
		photos.ConsentOptions{Scope: "s"}, zerolog.Nop())

	assert.Equal(t, photos.StatusAuthorized, svc.RequestAuthorization(context.Background()))
	assert.Equal(t, photos.StatusAuthorized, svc.CurrentStatus())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
