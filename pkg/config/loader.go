package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	mu     sync.RWMutex
	loaded = make(map[string]any)

	defaultEnvLoaded sync.Once
)

// Load parses environment variables into the provided configuration struct
// based on its `env` field tags. The default .env file is loaded once, if
// present, before the first parse. Each configuration type is parsed at most
// once per process; subsequent calls return the cached value so every part
// of the service observes the same configuration.
//
// Example:
//
//	type StoreConfig struct {
//		Collection   string `env:"NOTIFICATIONS_COLLECTION" envDefault:"users"`
//		RetentionCap int    `env:"NOTIFICATIONS_RETENTION_CAP" envDefault:"3"`
//	}
//
//	var cfg StoreConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		// The .env file is optional; missing is fine.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	typeName := typeNameOf[T]()

	mu.RLock()
	cached, ok := loaded[typeName]
	mu.RUnlock()
	if ok {
		*v = cached.(T)
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	// Re-check under the write lock; another goroutine may have parsed the
	// same type while we waited.
	if cached, ok := loaded[typeName]; ok {
		*v = cached.(T)
		return nil
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	loaded[typeName] = *v // store a copy so callers can't mutate the cache
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
// Use it for configuration the service cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
}

// typeNameOf returns a string identifier for the generic type T.
func typeNameOf[T any]() string {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return fmt.Sprintf("%T", *new(T))
	}
	return t.String()
}
