// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/bend-deployer/cmd/deploycmd"
	"github.com/ava-labs/bend-deployer/cmd/manifestcmd"
	"github.com/ava-labs/bend-deployer/pkg/application"
	"github.com/ava-labs/bend-deployer/pkg/cobrautils"
	"github.com/ava-labs/bend-deployer/pkg/config"
	"github.com/ava-labs/bend-deployer/pkg/constants"
	"github.com/ava-labs/bend-deployer/pkg/ux"
	ansi "github.com/k0kubun/go-ansi"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	app *application.Bend

	Version = ""

	configFile string
	logFactory logging.Factory
)

func NewRootCmd(injectedApp *application.Bend) *cobra.Command {
	app = injectedApp
	rootCmd := &cobra.Command{
		Use: constants.AppName,
		Long: `bend-deployer deploys the Bend incentives contracts from compiled
Hardhat artifacts, either one by one or as a complete suite.

Contracts can be deployed directly or behind upgradeable proxies. Every
deployment is recorded in a manifest that later runs reuse.`,
		PersistentPreRunE:  setup,
		PersistentPostRunE: cleanup,
		Version:            Version,
		RunE:               cobrautils.CommandSuiteUsage,
	}
	cobrautils.ConfigureRootCmd(rootCmd)

	// Disable printing the completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (json or yaml)")
	flags.String(config.LogLevelKey, "ERROR", "log level for the application")
	flags.String(config.RPCURLKey, "", "rpc endpoint of the target chain")
	flags.String(config.PrivateKeyKey, "", "hex private key of the deployer account")
	flags.String(config.ArtifactsDirKey, constants.DefaultArtifactsDir, "hardhat artifacts directory")
	flags.String(config.ManifestKey, constants.DefaultManifestName, "deployments manifest file")
	flags.Duration(config.TimeoutKey, constants.DeployTimeout, "timeout for each deployment or transaction")

	rootCmd.AddCommand(deploycmd.NewCmd(app))
	rootCmd.AddCommand(manifestcmd.NewCmd(app))
	return rootCmd
}

func setup(cmd *cobra.Command, _ []string) error {
	if app.Conf == nil {
		app.Conf = config.New()
		app.Conf.SetFs(app.Fs)
	}
	if err := app.Conf.BindFlags(cmd.Flags()); err != nil {
		return err
	}
	if app.GetBaseDir() == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("unable to get system user home dir: %w", err)
		}
		app.Setup(filepath.Join(homeDir, constants.BaseDirName), app.Log, app.Conf, app.Prompt, app.Fs)
	}
	if configFile != "" {
		if err := app.Conf.SetConfig(logging.NoLog{}, configFile); err != nil {
			return err
		}
	}
	if app.Log == nil {
		log, err := setupLogging(app.GetLogDir(), app.Conf.GetConfigStringValue(config.LogLevelKey))
		if err != nil {
			return err
		}
		app.Log = log
	}
	// create the user facing logger as a global var
	ux.NewUserLog(app.Log, cmd.OutOrStdout())
	if configFile != "" {
		app.Log.Info("using config file", zap.String("config-file", app.Conf.GetConfigPath()))
	}
	app.Log.Info("-----------")
	app.Log.Info(fmt.Sprintf("cmd: %s", cmd.CommandPath()))
	return nil
}

func setupLogging(logDir string, logLevel string) (logging.Logger, error) {
	var err error
	config := logging.Config{}
	config.LogLevel = logging.Info
	config.DisplayLevel, err = logging.ToLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level configured: %s", logLevel)
	}
	config.Directory = logDir
	if err := os.MkdirAll(config.Directory, constants.DefaultPerms755); err != nil {
		return nil, fmt.Errorf("failed creating log directory: %w", err)
	}

	// some logging config params
	config.LogFormat = logging.Colors
	config.MaxSize = constants.MaxLogFileSize
	config.MaxFiles = constants.MaxNumOfLogFiles
	config.MaxAge = constants.RetainOldFiles

	logFactory = logging.NewFactory(config)
	log, err := logFactory.Make(constants.AppName)
	if err != nil {
		logFactory.Close()
		return nil, fmt.Errorf("failed setting up logging, exiting: %w", err)
	}
	log.Info("logging initialized", zap.String("dir", logDir))
	return log, nil
}

func cleanup(*cobra.Command, []string) error {
	if logFactory != nil {
		logFactory.Close()
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd := NewRootCmd(application.New())
	// color codes on every platform
	rootCmd.SetOut(ansi.NewAnsiStdout())
	os.Exit(cobrautils.HandleErrors(rootCmd.Execute()))
}
