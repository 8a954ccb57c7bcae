package biometric

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/RainumBlockchain/rainum-wallet-sub001/internal/core/ports"
	"github.com/google/uuid"
)

const credentialsFilename = "credentials.json"

type credential struct {
	ID         string    `json:"id"`
	Label      string    `json:"label"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// service is a file backed stand-in for the platform authenticator bridge.
// Real deployments delegate the ceremony to the OS credential manager, the
// wallet only relies on the contract: a successful platform authentication
// is a trust signal bound to the enrolled owner and never a key source.
type service struct {
	lock     *sync.Mutex
	filePath string
}

// NewService returns a ports.CredentialBinding implementation persisting
// enrollments in the given datadir.
func NewService(datadir string) (ports.CredentialBinding, error) {
	if err := os.MkdirAll(datadir, 0700); err != nil {
		return nil, fmt.Errorf("creating credential datadir: %w", err)
	}

	return &service{
		lock:     &sync.Mutex{},
		filePath: filepath.Join(datadir, credentialsFilename),
	}, nil
}

func (s *service) IsSupported() bool {
	return true
}

func (s *service) Enroll(
	_ context.Context, ownerAddress, label string,
) (string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	credentials, err := s.load()
	if err != nil {
		return "", err
	}

	credentials[ownerAddress] = credential{
		ID:         uuid.New().String(),
		Label:      label,
		EnrolledAt: time.Now(),
	}
	if err := s.save(credentials); err != nil {
		return "", err
	}

	return credentials[ownerAddress].ID, nil
}

func (s *service) HasCredential(
	_ context.Context, ownerAddress string,
) (bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	credentials, err := s.load()
	if err != nil {
		return false, err
	}

	_, ok := credentials[ownerAddress]
	return ok, nil
}

func (s *service) Revoke(_ context.Context, ownerAddress string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	credentials, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := credentials[ownerAddress]; !ok {
		return nil
	}

	delete(credentials, ownerAddress)
	return s.save(credentials)
}

func (s *service) load() (map[string]credential, error) {
	buf, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]credential{}, nil
		}
		return nil, err
	}

	credentials := map[string]credential{}
	if err := json.Unmarshal(buf, &credentials); err != nil {
		return nil, err
	}
	return credentials, nil
}

func (s *service) save(credentials map[string]credential) error {
	buf, err := json.Marshal(credentials)
	if err != nil {
		return err
	}
	return os.WriteFile(s.filePath, buf, 0600)
}
