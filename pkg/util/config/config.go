package config

import (
	"sync"

	"github.com/Jeffail/gabs"
	"github.com/pkg/errors"
)

var (
	mu     sync.Mutex
	config *gabs.Container
)

// Load parses the given json configuration file. Loading is optional:
// Get falls back to the empty string while no file is loaded, so every
// option can also come from command line flags.
func Load(path string) error {
	json, err := gabs.ParseJSONFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to parse config file %s", path)
	}

	mu.Lock()
	config = json
	mu.Unlock()

	return nil
}

// Get returns config data with the given path.
// Config data is only allowed in string type.
func Get(path string) string {
	mu.Lock()
	defer mu.Unlock()

	if config == nil {
		return ""
	}

	v, ok := config.Path(path).Data().(string)
	if !ok {
		return ""
	}
	return v
}
