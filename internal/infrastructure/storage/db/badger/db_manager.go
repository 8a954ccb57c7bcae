package dbbadger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/domain"
	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/ports"
	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/timshannon/badgerhold/v4"
)

// repoManager holds all the badgerhold stores in a single data structure.
type repoManager struct {
	vaultStore   *badgerhold.Store
	sessionStore *badgerhold.Store

	vaultRepository       domain.VaultRepository
	sessionRepository     domain.SessionRepository
	unlockGuardRepository domain.UnlockGuardRepository
}

// NewRepoManager opens (or creates if not exists) the badger stores on disk.
// It expects a base data dir and an optional logger. The vault and the unlock
// guard share a dedicated directory, sessions get their own. Every record
// that matters across restarts lives here, a killed process does not void
// lockouts nor leak sessions.
func NewRepoManager(baseDbDir string, logger badger.Logger) (ports.RepoManager, error) {
	vaultDb, err := createDb(filepath.Join(baseDbDir, "vault"), logger)
	if err != nil {
		return nil, fmt.Errorf("opening vault db: %w", err)
	}

	sessionDb, err := createDb(filepath.Join(baseDbDir, "sessions"), logger)
	if err != nil {
		return nil, fmt.Errorf("opening sessions db: %w", err)
	}

	return &repoManager{
		vaultStore:            vaultDb,
		sessionStore:          sessionDb,
		vaultRepository:       NewVaultRepositoryImpl(vaultDb),
		sessionRepository:     NewSessionRepositoryImpl(sessionDb),
		unlockGuardRepository: NewUnlockGuardRepositoryImpl(vaultDb),
	}, nil
}

func (d *repoManager) VaultRepository() domain.VaultRepository {
	return d.vaultRepository
}

func (d *repoManager) SessionRepository() domain.SessionRepository {
	return d.sessionRepository
}

func (d *repoManager) UnlockGuardRepository() domain.UnlockGuardRepository {
	return d.unlockGuardRepository
}

func (d *repoManager) Close() {
	d.vaultStore.Close()
	d.sessionStore.Close()
}

// JSONEncode is a custom JSON based encoder for badger
func JSONEncode(value interface{}) ([]byte, error) {
	var buff bytes.Buffer

	en := json.NewEncoder(&buff)

	err := en.Encode(value)
	if err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

// JSONDecode is a custom JSON based decoder for badger
func JSONDecode(data []byte, value interface{}) error {
	var buff bytes.Buffer
	de := json.NewDecoder(&buff)

	_, err := buff.Write(data)
	if err != nil {
		return err
	}

	return de.Decode(value)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger
	opts.Compression = options.ZSTD

	return badgerhold.Open(badgerhold.Options{
		Encoder:          JSONEncode,
		Decoder:          JSONDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
