package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

// testRepositoryContract exercises the behaviour every backend must share
func testRepositoryContract(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()

	_, err := repo.Get(ctx, KeyUser)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Set(ctx, KeyUser, `{"id":1,"name":"john"}`))
	require.NoError(t, repo.Set(ctx, KeyToken, "tok-1"))

	value, err := repo.Get(ctx, KeyUser)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"name":"john"}`, value)

	require.NoError(t, repo.Set(ctx, KeyToken, "tok-2"))
	value, err = repo.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", value)

	require.NoError(t, repo.Clear(ctx, KeyToken, KeyUser))
	_, err = repo.Get(ctx, KeyToken)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Get(ctx, KeyUser)
	assert.ErrorIs(t, err, ErrNotFound)

	// Clearing keys that are already gone is not an error
	require.NoError(t, repo.Clear(ctx, KeyToken, KeyUser, KeyRegisteredUser))
	require.NoError(t, repo.Clear(ctx))
}

func TestMemoryRepository(t *testing.T) {
	testRepositoryContract(t, NewMemoryRepository())
}

func TestFileRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	repo := NewFileRepository(path, "")
	testRepositoryContract(t, repo)

	require.NoError(t, repo.Set(context.Background(), KeyUser, "kept"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// A second repository over the same file sees the persisted value
	value, err := NewFileRepository(path, "").Get(context.Background(), KeyUser)
	require.NoError(t, err)
	assert.Equal(t, "kept", value)
}

func TestFileRepository_Sealed(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	repo := NewFileRepository(path, "correct horse")
	testRepositoryContract(t, repo)
	require.NoError(t, repo.Set(ctx, KeyToken, "secret-token"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-token")

	t.Run("wrong passphrase", func(t *testing.T) {
		_, err := NewFileRepository(path, "battery staple").Get(ctx, KeyToken)
		assert.ErrorIs(t, err, ErrSealed)
	})

	t.Run("no passphrase", func(t *testing.T) {
		repo := NewFileRepository(path, "")
		_, err := repo.Get(ctx, KeyToken)
		assert.ErrorIs(t, err, ErrSealed)

		// A sealed file is never overwritten by a repository that cannot open it
		assert.ErrorIs(t, repo.Set(ctx, KeyUser, "intruder"), ErrSealed)
		assert.ErrorIs(t, repo.Clear(ctx, KeyToken), ErrSealed)
	})

	t.Run("wrong passphrase refuses writes", func(t *testing.T) {
		repo := NewFileRepository(path, "battery staple")
		assert.ErrorIs(t, repo.Set(ctx, KeyUser, "intruder"), ErrSealed)
		assert.ErrorIs(t, repo.Clear(ctx, KeyToken), ErrSealed)
	})

	t.Run("same passphrase", func(t *testing.T) {
		value, err := NewFileRepository(path, "correct horse").Get(ctx, KeyToken)
		require.NoError(t, err)
		assert.Equal(t, "secret-token", value)
	})
}

func TestFileRepository_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	ctx := context.Background()
	repo := NewFileRepository(path, "")

	_, err := repo.Get(ctx, KeyUser)
	require.ErrorIs(t, err, ErrCorrupt)
	assert.NotErrorIs(t, err, ErrNotFound)

	t.Run("set replaces the document", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, KeyUser, "fresh"))

		value, err := repo.Get(ctx, KeyUser)
		require.NoError(t, err)
		assert.Equal(t, "fresh", value)
	})

	t.Run("clear replaces the document", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
		require.NoError(t, repo.Clear(ctx, KeyToken))

		_, err := repo.Get(ctx, KeyUser)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("sealed repository replaces garbage", func(t *testing.T) {
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
		sealed := NewFileRepository(path, "correct horse")
		require.NoError(t, sealed.Set(ctx, KeyToken, "t"))

		value, err := sealed.Get(ctx, KeyToken)
		require.NoError(t, err)
		assert.Equal(t, "t", value)
	})
}

func TestKeyringRepository(t *testing.T) {
	keyring.MockInit()

	testRepositoryContract(t, NewKeyringRepository("localhost:8080"))
	assert.True(t, KeyringAvailable())
}

func TestKeyringRepository_ScopesAreIsolated(t *testing.T) {
	keyring.MockInit()
	ctx := context.Background()

	a := NewKeyringRepository("api.a.example")
	b := NewKeyringRepository("api.b.example")

	require.NoError(t, a.Set(ctx, KeyToken, "token-a"))
	_, err := b.Get(ctx, KeyToken)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	repo, err := NewSQLiteRepository(path, "localhost:8080")
	require.NoError(t, err)
	defer repo.Close()

	testRepositoryContract(t, repo)

	other, err := NewSQLiteRepository(path, "other-host")
	require.NoError(t, err)
	defer other.Close()

	require.NoError(t, repo.Set(context.Background(), KeyUser, "scoped"))
	_, err = other.Get(context.Background(), KeyUser)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisRepository(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	repo := NewRedisRepository(client, "localhost:8080")
	defer repo.Close()

	testRepositoryContract(t, repo)

	require.NoError(t, repo.Set(context.Background(), KeyToken, "tok"))
	assert.True(t, mr.Exists("agrimarket:session:localhost:8080:token"))
}

func TestSplitRepository(t *testing.T) {
	secrets := NewMemoryRepository()
	rest := NewMemoryRepository()
	repo := NewSplitRepository(secrets, rest)

	testRepositoryContract(t, repo)

	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, KeyToken, "tok"))
	require.NoError(t, repo.Set(ctx, KeyUser, "user"))

	_, err := rest.Get(ctx, KeyToken)
	assert.ErrorIs(t, err, ErrNotFound)
	value, err := secrets.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "tok", value)

	_, err = secrets.Get(ctx, KeyUser)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	log := zerolog.Nop()
	dir := t.TempDir()

	t.Run("memory", func(t *testing.T) {
		repo, err := Open(ctx, Options{Backend: "memory"}, log)
		require.NoError(t, err)
		assert.IsType(t, &MemoryRepository{}, repo)
	})

	t.Run("file uses dir", func(t *testing.T) {
		repo, err := Open(ctx, Options{Backend: "FILE", Dir: dir}, log)
		require.NoError(t, err)
		require.IsType(t, &FileRepository{}, repo)
		assert.Equal(t, filepath.Join(dir, "session.json"), repo.(*FileRepository).Path())
	})

	t.Run("sqlite", func(t *testing.T) {
		repo, err := Open(ctx, Options{Backend: "sqlite", Dir: dir, Scope: "h"}, log)
		require.NoError(t, err)
		defer repo.Close()
		assert.IsType(t, &SQLiteRepository{}, repo)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		repo, err := Open(ctx, Options{Backend: "redis", RedisAddr: mr.Addr(), Scope: "h"}, log)
		require.NoError(t, err)
		defer repo.Close()
		assert.IsType(t, &RedisRepository{}, repo)
	})

	t.Run("default splits token into keyring", func(t *testing.T) {
		keyring.MockInit()
		repo, err := Open(ctx, Options{Dir: dir, Scope: "h"}, log)
		require.NoError(t, err)
		assert.IsType(t, &SplitRepository{}, repo)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := Open(ctx, Options{Backend: "floppy"}, log)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown storage backend")
	})
}

func TestKeyValid(t *testing.T) {
	assert.True(t, KeyToken.Valid())
	assert.True(t, KeyRegisteredUser.Valid())
	assert.False(t, Key("cart").Valid())
}
