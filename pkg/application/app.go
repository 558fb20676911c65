// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"context"
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/bend-deployer/pkg/artifacts"
	"github.com/ava-labs/bend-deployer/pkg/config"
	"github.com/ava-labs/bend-deployer/pkg/constants"
	"github.com/ava-labs/bend-deployer/pkg/contract"
	"github.com/ava-labs/bend-deployer/pkg/deployments"
	"github.com/ava-labs/bend-deployer/pkg/evm"
	"github.com/ava-labs/bend-deployer/pkg/prompts"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ClientDialer connects to the evm node at [rpcURL]
type ClientDialer func(ctx context.Context, rpcURL string) (evm.Client, error)

type Bend struct {
	Log     logging.Logger
	Conf    *config.Config
	Prompt  prompts.Prompter
	Fs      afero.Fs
	baseDir string
	dial    ClientDialer
}

func New() *Bend {
	return &Bend{
		Prompt: prompts.NewPrompter(),
		Fs:     afero.NewOsFs(),
		dial:   evm.GetClient,
	}
}

func (app *Bend) Setup(
	baseDir string,
	log logging.Logger,
	conf *config.Config,
	prompt prompts.Prompter,
	fs afero.Fs,
) {
	app.baseDir = baseDir
	app.Log = log
	app.Conf = conf
	app.Prompt = prompt
	app.Fs = fs
	if conf != nil {
		conf.SetFs(fs)
	}
}

// SetClientDialer replaces how rpc clients are created
func (app *Bend) SetClientDialer(dial ClientDialer) {
	app.dial = dial
}

func (app *Bend) GetBaseDir() string {
	return app.baseDir
}

func (app *Bend) GetLogDir() string {
	return filepath.Join(app.baseDir, constants.LogDir)
}

// LoadManifest opens the configured deployments manifest
func (app *Bend) LoadManifest() (*deployments.Manifest, error) {
	return deployments.Load(app.Fs, app.Conf.GetConfigStringValue(config.ManifestKey))
}

// NewDeployer wires the configured node, artifacts and manifest into a deployer.
// The returned func closes the rpc client.
func (app *Bend) NewDeployer(ctx context.Context) (*contract.Deployer, func(), error) {
	settings, err := app.Conf.Settings()
	if err != nil {
		return nil, nil, err
	}
	from, err := evm.PrivateKeyToAddress(settings.PrivateKey)
	if err != nil {
		return nil, nil, err
	}
	store, err := artifacts.Load(app.Log, app.Fs, settings.ArtifactsDir)
	if err != nil {
		return nil, nil, err
	}
	manifest, err := deployments.Load(app.Fs, settings.ManifestPath)
	if err != nil {
		return nil, nil, err
	}
	client, err := app.dial(ctx, settings.RPCURL)
	if err != nil {
		return nil, nil, err
	}
	d, err := contract.NewDeployer(
		ctx,
		app.Log,
		client,
		store,
		settings.PrivateKey,
		contract.WithManifest(manifest),
		contract.WithProxyOptions(contract.ProxyOptions{
			Kind:        settings.ProxyKind,
			Initializer: settings.Initializer,
		}),
		contract.WithTimeout(settings.Timeout),
	)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	app.Log.Debug("loaded deployment settings",
		zap.String("from", from.Hex()),
		zap.String("artifacts", settings.ArtifactsDir),
		zap.String("manifest", settings.ManifestPath),
		zap.Int("contracts", len(store.Names())),
	)
	return d, client.Close, nil
}
