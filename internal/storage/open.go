package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Backend names accepted by Open
const (
	BackendDefault = "default"
	BackendFile    = "file"
	BackendKeyring = "keyring"
	BackendSQLite  = "sqlite"
	BackendRedis   = "redis"
	BackendMemory  = "memory"
)

const (
	sessionFileName = "session.json"
	sessionDBName   = "session.db"
)

// Options selects and configures a backend
type Options struct {
	Backend    string
	Dir        string // base directory for file and sqlite backends
	Path       string // overrides the default file or database location
	Passphrase string // seals the file backend when set
	RedisAddr  string
	Scope      string // separates sessions against different API hosts
}

func (o Options) pathOr(name string) string {
	if o.Path != "" {
		return o.Path
	}
	return filepath.Join(o.Dir, name)
}

// Open builds the configured repository. The caller owns the result and
// must Close it.
func Open(ctx context.Context, opts Options, log zerolog.Logger) (Repository, error) {
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	if backend == "" {
		backend = BackendDefault
	}

	switch backend {
	case BackendMemory:
		return NewMemoryRepository(), nil

	case BackendFile:
		return NewFileRepository(opts.pathOr(sessionFileName), opts.Passphrase), nil

	case BackendKeyring:
		return NewKeyringRepository(opts.Scope), nil

	case BackendSQLite:
		return NewSQLiteRepository(opts.pathOr(sessionDBName), opts.Scope)

	case BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.RedisAddr, err)
		}
		return NewRedisRepository(client, opts.Scope), nil

	case BackendDefault:
		file := NewFileRepository(opts.pathOr(sessionFileName), opts.Passphrase)
		if !KeyringAvailable() {
			log.Debug().Msg("OS keyring unavailable, keeping token in session file")
			return file, nil
		}
		return NewSplitRepository(NewKeyringRepository(opts.Scope), file), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q (expected one of: default, file, keyring, sqlite, redis, memory)", opts.Backend)
	}
}
