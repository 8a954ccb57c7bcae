package securemem

import (
	"crypto/subtle"
	"runtime"
	"sync"
)

// ZeroBytes overwrites the given buffer with zeros. The constant-time copy
// prevents the compiler from eliding the wipe as a dead store.
func ZeroBytes(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
	runtime.KeepAlive(b)
}

// Secret holds a sensitive byte buffer (password, decrypted mnemonic) whose
// lifetime must end with an explicit wipe. The buffer is reachable only
// through WithBytes so that no caller can retain a reference past Destroy.
type Secret struct {
	mtx  sync.RWMutex
	data []byte
}

// NewSecret copies the given bytes into a new Secret. The caller keeps
// ownership of its own copy and should zero it once no longer needed.
func NewSecret(b []byte) *Secret {
	if b == nil {
		return &Secret{}
	}
	data := make([]byte, len(b))
	copy(data, b)
	return &Secret{data: data}
}

// NewSecretFromString copies the given string into a new Secret. Strings
// cannot be wiped in place, so this must only be fed values that never
// outlive their enclosing call frame.
func NewSecretFromString(s string) *Secret {
	return NewSecret([]byte(s))
}

// WithBytes grants scoped read access to the underlying buffer. The slice
// passed to fn is the live backing array and must not escape the callback.
func (s *Secret) WithBytes(fn func(b []byte) error) error {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return fn(s.data)
}

// IsEmpty returns whether the secret holds no bytes, either because it was
// created empty or because it has been destroyed.
func (s *Secret) IsEmpty() bool {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return len(s.data) == 0
}

// Destroy wipes the backing buffer and detaches it. The Secret is unusable
// afterwards; WithBytes callbacks receive a nil slice.
func (s *Secret) Destroy() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	ZeroBytes(s.data)
	s.data = nil
}
