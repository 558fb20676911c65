// Copyright (C) 2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package artifacts resolves compiled contracts by name from Hardhat build
// artifacts (artifacts/<source>.sol/<Name>.json).
package artifacts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/libevm/accounts/abi"
	"github.com/ava-labs/libevm/common"
	"github.com/ava-labs/libevm/common/hexutil"
	"github.com/ava-labs/libevm/crypto"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var (
	ErrArtifactNotFound  = errors.New("artifact not found")
	ErrAmbiguousArtifact = errors.New("multiple artifacts match contract name")
	ErrUnlinkedLibraries = errors.New("artifact has unlinked library references")
	ErrNoBytecode        = errors.New("artifact has no creation bytecode")
)

const hardhatArtifactFormat = "hh-sol-artifact-1"

// Artifact mirrors the fields of a Hardhat artifact file that deployments need
type Artifact struct {
	Format         string                                `json:"_format,omitempty"`
	ContractName   string                                `json:"contractName"`
	SourceName     string                                `json:"sourceName"`
	ABI            json.RawMessage                       `json:"abi"`
	Bytecode       string                                `json:"bytecode"`
	LinkReferences map[string]map[string][]LinkReference `json:"linkReferences,omitempty"`
}

type LinkReference struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// FullyQualifiedName returns source:Name, or just Name when the source is unknown
func (a Artifact) FullyQualifiedName() string {
	if a.SourceName == "" {
		return a.ContractName
	}
	return a.SourceName + ":" + a.ContractName
}

// Factory is a parsed artifact ready to be deployed
type Factory struct {
	Name     string
	ABI      abi.ABI
	Bytecode []byte
}

// BytecodeHash identifies the implementation code, used to reuse deployments
func (f Factory) BytecodeHash() common.Hash {
	return crypto.Keccak256Hash(f.Bytecode)
}

// Store indexes artifacts by contract name and fully qualified name
type Store struct {
	log    logging.Logger
	byName map[string][]Artifact
	byFQN  map[string]Artifact
}

func NewStore(log logging.Logger) *Store {
	return &Store{
		log:    log,
		byName: map[string][]Artifact{},
		byFQN:  map[string]Artifact{},
	}
}

// Load walks [dir] on [fs] indexing every Hardhat artifact found.
// Debug files and build-info are skipped.
func Load(log logging.Logger, fs afero.Fs, dir string) (*Store, error) {
	store := NewStore(log)
	if _, err := fs.Stat(dir); err != nil {
		return nil, fmt.Errorf("failure reading artifacts dir %s: %w", dir, err)
	}
	err := afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}
		bs, err := afero.ReadFile(fs, path)
		if err != nil {
			return err
		}
		var artifact Artifact
		if err := json.Unmarshal(bs, &artifact); err != nil {
			log.Debug("skipping non artifact json file", zap.String("path", path), zap.Error(err))
			return nil
		}
		if artifact.ContractName == "" || len(artifact.ABI) == 0 {
			log.Debug("skipping json file without contract", zap.String("path", path))
			return nil
		}
		if artifact.Format != "" && artifact.Format != hardhatArtifactFormat {
			log.Warn("unexpected artifact format", zap.String("path", path), zap.String("format", artifact.Format))
		}
		store.Register(artifact)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failure loading artifacts from %s: %w", dir, err)
	}
	log.Info("loaded contract artifacts", zap.String("dir", dir), zap.Int("count", len(store.byFQN)))
	return store, nil
}

// Register adds [artifact] to the store, replacing one with the same fully qualified name
func (s *Store) Register(artifact Artifact) {
	fqn := artifact.FullyQualifiedName()
	if _, ok := s.byFQN[fqn]; ok {
		existing := s.byName[artifact.ContractName]
		for i := range existing {
			if existing[i].FullyQualifiedName() == fqn {
				existing[i] = artifact
			}
		}
	} else {
		s.byName[artifact.ContractName] = append(s.byName[artifact.ContractName], artifact)
	}
	s.byFQN[fqn] = artifact
}

// Names returns every fully qualified name in the store, sorted
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.byFQN))
	for fqn := range s.byFQN {
		names = append(names, fqn)
	}
	sort.Strings(names)
	return names
}

// Get resolves [name], either a bare contract name or source.sol:Name
func (s *Store) Get(name string) (Artifact, error) {
	if strings.Contains(name, ":") {
		artifact, ok := s.byFQN[name]
		if !ok {
			return Artifact{}, fmt.Errorf("%w: %s", ErrArtifactNotFound, name)
		}
		return artifact, nil
	}
	candidates := s.byName[name]
	switch len(candidates) {
	case 0:
		return Artifact{}, fmt.Errorf("%w: %s", ErrArtifactNotFound, name)
	case 1:
		return candidates[0], nil
	default:
		fqns := make([]string, 0, len(candidates))
		for _, c := range candidates {
			fqns = append(fqns, c.FullyQualifiedName())
		}
		sort.Strings(fqns)
		return Artifact{}, fmt.Errorf("%w %s: use one of %s", ErrAmbiguousArtifact, name, strings.Join(fqns, ", "))
	}
}

// Factory resolves [name] and parses its abi and creation bytecode
func (s *Store) Factory(name string) (Factory, error) {
	artifact, err := s.Get(name)
	if err != nil {
		return Factory{}, err
	}
	return artifact.Factory()
}

func (a Artifact) Factory() (Factory, error) {
	parsedABI, err := abi.JSON(bytes.NewReader(a.ABI))
	if err != nil {
		return Factory{}, fmt.Errorf("failure parsing abi for %s: %w", a.FullyQualifiedName(), err)
	}
	if len(a.LinkReferences) > 0 {
		libs := []string{}
		for source, names := range a.LinkReferences {
			for lib := range names {
				libs = append(libs, source+":"+lib)
			}
		}
		sort.Strings(libs)
		return Factory{}, fmt.Errorf("%w: %s needs %s", ErrUnlinkedLibraries, a.FullyQualifiedName(), strings.Join(libs, ", "))
	}
	bytecode, err := hexutil.Decode(normalizeHex(a.Bytecode))
	if err != nil {
		return Factory{}, fmt.Errorf("failure decoding bytecode for %s: %w", a.FullyQualifiedName(), err)
	}
	if len(bytecode) == 0 {
		return Factory{}, fmt.Errorf("%w: %s", ErrNoBytecode, a.FullyQualifiedName())
	}
	return Factory{
		Name:     a.ContractName,
		ABI:      parsedABI,
		Bytecode: bytecode,
	}, nil
}

func normalizeHex(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	return s
}
