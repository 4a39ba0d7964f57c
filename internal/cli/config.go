package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	orgerrors "github.com/g-zangara/OrganigrammaAziendale/pkg/errors"
)

// config holds the TOML configuration. Every field has a usable
// default, so running without a config file needs no setup.
type config struct {
	// Format is the storage format assumed when a file's extension
	// does not decide it.
	Format string `toml:"format"`
	// Verbose enables debug logging, same as the --verbose flag.
	Verbose bool `toml:"verbose"`

	Visualize visualizeConfig `toml:"visualize"`
}

type visualizeConfig struct {
	// Format is the diagram output format: dot, svg or png.
	Format string `toml:"format"`
	// Detailed lists roles and holders inside the unit boxes.
	Detailed bool `toml:"detailed"`
}

func defaultConfig() config {
	return config{
		Format: "document",
		Visualize: visualizeConfig{
			Format: "svg",
		},
	}
}

// loadConfig reads the config file at path, or the default location
// when path is empty. A missing file is not an error; the defaults
// apply.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		dir, err := os.UserConfigDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "orgchart", "config.toml")
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, orgerrors.Wrap(orgerrors.ErrCodeIO, err, "loading config %s", path)
	}
	return cfg, nil
}
