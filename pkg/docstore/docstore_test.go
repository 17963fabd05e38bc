package docstore

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type testRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestStoreMissingFileIsEmptyCollection(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	var records []testRecord
	require.NoError(t, store.Load("students", &records))
	require.Empty(t, records)
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	in := []testRecord{{ID: "1", Name: "Ana"}, {ID: "2", Name: "Bia"}}
	require.NoError(t, store.Save("students", in))

	var out []testRecord
	require.NoError(t, store.Load("students", &out))
	require.Equal(t, in, out)
}

func TestStoreMalformedDocumentFails(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "students.json"), []byte("{not json"), 0o644))

	var records []testRecord
	err = store.Load("students", &records)
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode document")
}

func TestStoreUpdateMutatesUnderLock(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save("counters", []testRecord{}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var records []testRecord
			err := store.Update("counters", &records, func() error {
				records = append(records, testRecord{ID: "x"})
				return nil
			})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	var records []testRecord
	require.NoError(t, store.Load("counters", &records))
	require.Len(t, records, 20)
}

func TestStoreUpdateAbortsOnMutateError(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save("students", []testRecord{{ID: "1"}}))

	var records []testRecord
	err = store.Update("students", &records, func() error {
		records = nil
		return os.ErrPermission
	})
	require.ErrorIs(t, err, os.ErrPermission)

	var after []testRecord
	require.NoError(t, store.Load("students", &after))
	require.Len(t, after, 1)
}
