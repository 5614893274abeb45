package platform

import (
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ViperStore is the key-value persistence substrate, backed by a single
// state file. Reads of a missing or corrupt file start fresh; every write
// is flushed through to disk and failures are reported to the caller to
// log and continue.
type ViperStore struct {
	v      *viper.Viper
	path   string
	logger *log.Logger
}

// NewViperStore opens (or creates on first write) the state file at path
func NewViperStore(path string, logger *log.Logger) *ViperStore {
	if logger == nil {
		panic("ViperStore: logger cannot be nil")
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		logger.Printf("ViperStore: no usable state at %s, starting fresh (%v)", path, err)
	}
	return &ViperStore{v: v, path: path, logger: logger}
}

// GetString returns the stored value for key and whether it was set
func (s *ViperStore) GetString(key string) (string, bool) {
	if !s.v.IsSet(key) {
		return "", false
	}
	return s.v.GetString(key), true
}

// SetString stores value under key and writes the state file through
func (s *ViperStore) SetString(key, value string) error {
	s.v.Set(key, value)
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return s.v.WriteConfigAs(s.path)
}
