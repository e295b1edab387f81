package history

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethanbaker/chatwidget/pkg/transcript"
	"github.com/ethanbaker/chatwidget/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blobStores returns a fresh instance of every local blob store
func blobStores(t *testing.T) map[string]BlobStore {
	t.Helper()

	file, err := NewFileBlobStore(filepath.Join(t.TempDir(), "blobs"))
	require.NoError(t, err)

	pebbleStore, err := NewPebbleBlobStore(filepath.Join(t.TempDir(), "pebble"))
	require.NoError(t, err)

	stores := map[string]BlobStore{
		KindMemory: NewInMemoryBlobStore(),
		KindFile:   file,
		KindPebble: pebbleStore,
	}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func sampleTranscript() transcript.Transcript {
	return transcript.Transcript{
		transcript.NewTurn(transcript.User, "Hi"),
		transcript.NewTurn(transcript.Assistant, "How can I help you today?"),
		transcript.NewTurn(transcript.User, "How long do I boil an egg?"),
		transcript.NewTurn(transcript.Assistant, "About 9 minutes for hard boiled."),
	}
}

func TestBlobStores(t *testing.T) {
	ctx := context.Background()

	for name, blobs := range blobStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := blobs.Load(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, blobs.Delete(ctx, "missing"), ErrNotFound)

			require.NoError(t, blobs.Save(ctx, "profile", []byte("first")))
			require.NoError(t, blobs.Save(ctx, "profile", []byte("second")))

			data, err := blobs.Load(ctx, "profile")
			require.NoError(t, err)
			assert.Equal(t, "second", string(data))

			// Keys are independent
			require.NoError(t, blobs.Save(ctx, "other", []byte("x")))
			require.NoError(t, blobs.Delete(ctx, "profile"))

			_, err = blobs.Load(ctx, "profile")
			assert.ErrorIs(t, err, ErrNotFound)

			data, err = blobs.Load(ctx, "other")
			require.NoError(t, err)
			assert.Equal(t, "x", string(data))
		})
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		t    transcript.Transcript
	}{
		{"pair seed", sampleTranscript()},
		{"greeting seed", transcript.Transcript{transcript.NewTurn(transcript.Assistant, "Hello")}},
		{"empty", transcript.Transcript{}},
	}

	for name, blobs := range blobStores(t) {
		for _, test := range tests {
			t.Run(name+"/"+test.name, func(t *testing.T) {
				store := NewStore(blobs, test.name)

				require.NoError(t, store.Persist(ctx, test.t))
				assert.Equal(t, test.t, store.Restore(ctx))
			})
		}
	}
}

func TestStoreRestore(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		blob     []byte
		expected transcript.Transcript
	}{
		{"missing", nil, transcript.Transcript{}},
		{"corrupt", []byte(`{"role":`), transcript.Transcript{}},
		{"not a list", []byte(`{"role":"user","text":"x"}`), transcript.Transcript{}},
		{"unknown role", []byte(`[{"role":"system","text":"x"}]`), transcript.Transcript{}},
		{"missing seed", []byte(`[{"role":"user","text":"q"}]`), transcript.Transcript{}},
		{"null", []byte(`null`), transcript.Transcript{}},
		{
			name: "legacy gemini shape",
			blob: []byte(`[{"role":"user","parts":[{"text":"Hi"}]},{"role":"model","parts":[{"text":"Hello"}]}]`),
			expected: transcript.Transcript{
				transcript.NewTurn(transcript.User, "Hi"),
				transcript.NewTurn(transcript.Assistant, "Hello"),
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			blobs := NewInMemoryBlobStore()
			if test.blob != nil {
				require.NoError(t, blobs.Save(ctx, DefaultProfile, test.blob))
			}

			got := NewStore(blobs, "").Restore(ctx)
			assert.NotNil(t, got)
			assert.Equal(t, test.expected, got)
		})
	}
}

// failingBlobStore fails every operation
type failingBlobStore struct{ err error }

func (f failingBlobStore) Load(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingBlobStore) Save(context.Context, string, []byte) error   { return f.err }
func (f failingBlobStore) Delete(context.Context, string) error         { return f.err }
func (f failingBlobStore) Close() error                                 { return nil }

func TestStoreFailures(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("disk full")
	store := NewStore(failingBlobStore{err: cause}, "p")

	assert.Equal(t, transcript.Transcript{}, store.Restore(ctx))
	assert.ErrorIs(t, store.Persist(ctx, sampleTranscript()), cause)
	assert.ErrorIs(t, store.Reset(ctx), cause)
}

func TestStorePersistRejectsMalformed(t *testing.T) {
	ctx := context.Background()
	blobs := NewInMemoryBlobStore()
	store := NewStore(blobs, "p")

	err := store.Persist(ctx, transcript.Transcript{transcript.NewTurn(transcript.User, "q")})
	assert.ErrorIs(t, err, transcript.ErrMissingSeed)

	_, err = blobs.Load(ctx, "p")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreReset(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewInMemoryBlobStore(), "p")

	// Resetting an empty store is fine
	require.NoError(t, store.Reset(ctx))

	require.NoError(t, store.Persist(ctx, sampleTranscript()))
	require.NoError(t, store.Reset(ctx))
	assert.Empty(t, store.Restore(ctx))
}

func TestFileBlobStoreKeys(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileBlobStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), "../escape/attempt", []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "_escape_attempt.json", entries[0].Name())
}

func TestOpenBlobStore(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		kind     string
		expected any
		wantErr  bool
	}{
		{"", &FileBlobStore{}, false},
		{"file", &FileBlobStore{}, false},
		{"PEBBLE", &PebbleBlobStore{}, false},
		{"memory", &InMemoryBlobStore{}, false},
		{"redis", nil, true},
	}

	for _, test := range tests {
		t.Run(test.kind, func(t *testing.T) {
			cfg := utils.NewConfig(map[string]string{
				"TRANSCRIPT_STORE": test.kind,
				"TRANSCRIPT_PATH":  filepath.Join(dir, test.kind),
			})

			blobs, err := OpenBlobStore(cfg)
			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer blobs.Close()
			assert.IsType(t, test.expected, blobs)
		})
	}
}

func TestOpenStoreProfile(t *testing.T) {
	store, err := OpenStore(utils.NewConfig(map[string]string{"TRANSCRIPT_STORE": "memory"}))
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile, store.Profile())

	store, err = OpenStore(utils.NewConfig(map[string]string{
		"TRANSCRIPT_STORE":   "memory",
		"TRANSCRIPT_PROFILE": "kitchen",
	}))
	require.NoError(t, err)
	assert.Equal(t, "kitchen", store.Profile())
}

func TestMySqlDSN(t *testing.T) {
	cfg := utils.NewConfig(map[string]string{
		"MYSQL_USERNAME":      "widget",
		"MYSQL_ROOT_PASSWORD": "secret",
		"MYSQL_HOST":          "db",
		"MYSQL_PORT":          "3307",
		"MYSQL_DATABASE":      "chat",
	})

	dsn := MySqlDSN(cfg)
	assert.Contains(t, dsn, "widget:secret@tcp(db:3307)/chat")
	assert.Contains(t, dsn, "parseTime=true")
}
