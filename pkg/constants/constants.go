// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import (
	"math/big"
	"time"
)

const (
	BaseDirName = ".bend-deployer"
	LogDir      = "logs"
	AppName     = "bend-deployer"
	EnvPrefix   = "BEND"

	DefaultPerms755    = 0o755
	WriteReadReadPerms = 0o644

	APIRequestTimeout = 30 * time.Second
	DeployTimeout     = 5 * time.Minute

	DefaultArtifactsDir = "artifacts"
	DefaultManifestName = "deployments.json"

	// seconds
	OneYear = 60 * 60 * 24 * 365

	DefaultInitializer = "initialize"

	ProxyAdminContract                  = "ProxyAdmin"
	TransparentUpgradeableProxyContract = "TransparentUpgradeableProxy"
	ERC1967ProxyContract                = "ERC1967Proxy"

	MaxLogFileSize   = 4
	MaxNumOfLogFiles = 5
	RetainOldFiles   = 0 // retain all old log files
)

// MaxUintAmount is 2^256 - 1, used for unlimited approvals
var MaxUintAmount = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
