package registry

import (
	"fmt"
	"path/filepath"
)

// Backend names accepted by OpenStore.
const (
	BackendMemory = "memory"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

// OpenStore opens the named storage backend under dataDir. The memory
// backend ignores dataDir.
func OpenStore(backend, dataDir string) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemStore(), nil
	case BackendBolt:
		return OpenBoltStore(filepath.Join(dataDir, "registry.db"))
	case BackendSQLite:
		return OpenSQLiteStore(filepath.Join(dataDir, "registry.sqlite"))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
