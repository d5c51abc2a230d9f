package journal

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bekirdag/diagview/internal/diagnostics"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "journal.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	started := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	doc := &diagnostics.Document{
		BuildInfo: diagnostics.BuildInfo{BuildVersion: "1.2.3"},
		Extensions: map[string]diagnostics.Extension{
			"a": diagnostics.NewInfoExtension(diagnostics.ExtensionInfo{ExtensionName: "A"}),
			"b": diagnostics.NewErrorExtension(diagnostics.ExtensionError{}),
		},
	}
	ok := EntryFromResult(diagnostics.FetchResult{
		Request:  diagnostics.FetchRequest{Seq: 1, Environment: diagnostics.Public, URL: diagnostics.Public.URL()},
		Document: doc,
	}, started, 150*time.Millisecond)
	_, err := store.Record(ok)
	require.NoError(t, err)

	failed := EntryFromResult(diagnostics.FetchResult{
		Request: diagnostics.FetchRequest{Seq: 2, Environment: diagnostics.Fairfax, URL: diagnostics.Fairfax.URL()},
		Err:     errors.New("dial tcp: timeout"),
	}, started.Add(time.Minute), time.Second)
	_, err = store.Record(failed)
	require.NoError(t, err)

	entries, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "fairfax", entries[0].Environment)
	assert.False(t, entries[0].OK)
	assert.Equal(t, "dial tcp: timeout", entries[0].Error)

	first := entries[1]
	assert.Equal(t, "public", first.Environment)
	assert.True(t, first.OK)
	assert.Equal(t, uint64(1), first.Seq)
	assert.Equal(t, 1, first.Loaded)
	assert.Equal(t, 1, first.Failed)
	assert.Equal(t, "1.2.3", first.BuildVersion)
	assert.Equal(t, 150*time.Millisecond, first.Duration)
	assert.True(t, started.Equal(first.StartedAt))
}

func TestLatestPerEnvironment(t *testing.T) {
	store := openTestStore(t)
	for i, env := range []string{"public", "fairfax", "public"} {
		_, err := store.Record(Entry{Environment: env, URL: "u", Seq: uint64(i + 1), OK: true, Loaded: i})
		require.NoError(t, err)
	}

	latest, err := store.Latest()
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, uint64(3), latest["public"].Seq)
	assert.Equal(t, uint64(2), latest["fairfax"].Seq)
}

func TestEmptyDocumentEntry(t *testing.T) {
	entry := EntryFromResult(diagnostics.FetchResult{
		Request: diagnostics.FetchRequest{Environment: diagnostics.Mooncake},
	}, time.Now(), 0)
	assert.True(t, entry.OK)
	assert.True(t, entry.Empty)
	assert.Contains(t, entry.Summary(), "empty document")
}

func TestConcurrentRecords(t *testing.T) {
	store := openTestStore(t)
	const writers = 50

	var wg sync.WaitGroup
	errs := make(chan error, writers*2)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			env := diagnostics.Environments()[i%3]
			if _, err := store.Record(Entry{Environment: env.Key(), URL: env.URL(), Seq: uint64(i), OK: true}); err != nil {
				errs <- fmt.Errorf("record %d: %w", i, err)
			}
			if _, err := store.Latest(); err != nil {
				errs <- fmt.Errorf("latest %d: %w", i, err)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	entries, err := store.Recent(writers * 2)
	require.NoError(t, err)
	assert.Len(t, entries, writers)
	latest, err := store.Latest()
	require.NoError(t, err)
	assert.Len(t, latest, 3)
}

func TestNilStoreIsInert(t *testing.T) {
	var store *Store
	id, err := store.Record(Entry{})
	assert.NoError(t, err)
	assert.Zero(t, id)
	entries, err := store.Recent(5)
	assert.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, store.Close())
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}
