package qfis

import (
	"github.com/spf13/viper"
	"github.com/theapemachine/errnie"
)

const (
	// DefaultShots is the measurement budget of a single inference run.
	DefaultShots = 4096

	// DefaultWorkers is how many inferences a batch runs at once.
	DefaultWorkers = 4
)

type Config struct {
	Shots       int
	Seed        uint64
	CircuitPath string
	SystemPath  string
	Legacy      bool
	Workers     int
}

func NewConfig() *Config {
	return &Config{
		Shots:   DefaultShots,
		Workers: DefaultWorkers,
	}
}

/*
LoadConfig reads the configuration from path, if given, with QFIS_*
environment variables taking precedence over the file and defaults filling
in the rest.
*/
func LoadConfig(path string) (*Config, error) {
	defaults := NewConfig()

	v := viper.New()
	v.SetDefault("shots", defaults.Shots)
	v.SetDefault("seed", defaults.Seed)
	v.SetDefault("circuit", defaults.CircuitPath)
	v.SetDefault("system", defaults.SystemPath)
	v.SetDefault("legacy", defaults.Legacy)
	v.SetDefault("workers", defaults.Workers)

	v.SetEnvPrefix("qfis")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			errnie.Error(err)
			return nil, err
		}
		errnie.Info("loaded config from %s", v.ConfigFileUsed())
	}

	return &Config{
		Shots:       v.GetInt("shots"),
		Seed:        v.GetUint64("seed"),
		CircuitPath: v.GetString("circuit"),
		SystemPath:  v.GetString("system"),
		Legacy:      v.GetBool("legacy"),
		Workers:     v.GetInt("workers"),
	}, nil
}
