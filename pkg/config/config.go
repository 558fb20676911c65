// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/bend-deployer/pkg/constants"
	"github.com/ava-labs/bend-deployer/pkg/deployments"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	RPCURLKey       = "rpc-url"
	PrivateKeyKey   = "private-key"
	ArtifactsDirKey = "artifacts-dir"
	ManifestKey     = "manifest"
	ProxyKindKey    = "proxy-kind"
	InitializerKey  = "initializer"
	TimeoutKey      = "timeout"
	LogLevelKey     = "log-level"
)

// Settings is the resolved configuration a deployment runs with
type Settings struct {
	RPCURL       string
	PrivateKey   string
	ArtifactsDir string
	ManifestPath string
	ProxyKind    deployments.Kind
	Initializer  string
	Timeout      time.Duration
}

type Config struct {
	v *viper.Viper
}

func New() *Config {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv() // read in environment variables that match
	v.SetDefault(ArtifactsDirKey, constants.DefaultArtifactsDir)
	v.SetDefault(ManifestKey, constants.DefaultManifestName)
	v.SetDefault(ProxyKindKey, string(deployments.KindTransparent))
	v.SetDefault(InitializerKey, constants.DefaultInitializer)
	v.SetDefault(TimeoutKey, constants.DeployTimeout)
	v.SetDefault(LogLevelKey, "ERROR")
	return &Config{v: v}
}

// SetFs makes config files be read from [fs]
func (c *Config) SetFs(fs afero.Fs) {
	c.v.SetFs(fs)
}

// SetConfig reads the config file at [s], json unless its extension says otherwise
func (c *Config) SetConfig(log logging.Logger, s string) error {
	if filepath.Ext(s) == "" {
		c.v.SetConfigType("json")
	}
	c.v.SetConfigFile(s)
	if err := c.v.ReadInConfig(); err != nil {
		return fmt.Errorf("failure reading config file %s: %w", s, err)
	}
	log.Info("Using config file", zap.String("config-file", s))
	return nil
}

func (c *Config) GetConfigPath() string {
	return c.v.ConfigFileUsed()
}

// BindFlags makes command line flags take precedence over env and file values
func (c *Config) BindFlags(flags *pflag.FlagSet) error {
	return c.v.BindPFlags(flags)
}

// SetConfigValue sets the value of a configuration key.
func (c *Config) SetConfigValue(key string, value interface{}) {
	c.v.Set(key, value)
}

func (c *Config) GetConfigStringValue(key string) string {
	return c.v.GetString(key)
}

// Settings resolves and validates the deployment configuration
func (c *Config) Settings() (Settings, error) {
	kind, err := deployments.ParseKind(c.v.GetString(ProxyKindKey))
	if err != nil {
		return Settings{}, err
	}
	s := Settings{
		RPCURL:       c.v.GetString(RPCURLKey),
		PrivateKey:   c.v.GetString(PrivateKeyKey),
		ArtifactsDir: c.v.GetString(ArtifactsDirKey),
		ManifestPath: c.v.GetString(ManifestKey),
		ProxyKind:    kind,
		Initializer:  c.v.GetString(InitializerKey),
		Timeout:      c.v.GetDuration(TimeoutKey),
	}
	switch {
	case s.RPCURL == "":
		return Settings{}, fmt.Errorf("%s is not set", RPCURLKey)
	case s.PrivateKey == "":
		return Settings{}, fmt.Errorf("%s is not set", PrivateKeyKey)
	case s.ArtifactsDir == "":
		return Settings{}, fmt.Errorf("%s is not set", ArtifactsDirKey)
	}
	return s, nil
}
