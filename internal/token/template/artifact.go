package template

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// hardhatArtifact is the subset of a Hardhat compilation artifact we read.
type hardhatArtifact struct {
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
}

// indexArtifacts records the artifact file of every contract under dir.
// Debug files and build info are skipped.
func (r *Registry) indexArtifacts(dir string) error {
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn().Str("dir", dir).Msg("Artifacts directory does not exist, only builtin templates are available")
			return nil
		}
		return errors.Wrapf(err, "failed to stat artifacts directory %s", dir)
	}

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()
		if !strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".dbg.json") {
			return nil
		}

		contract := strings.TrimSuffix(name, ".json")
		if previous, ok := r.artifacts[contract]; ok {
			log.Debug().Str("contract", contract).Str("kept", previous).Str("ignored", path).Msg("Duplicate artifact name")
			return nil
		}

		r.artifacts[contract] = path
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "failed to index artifacts directory %s", dir)
	}

	return nil
}

func loadArtifact(path string) (*Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read artifact %s", path)
	}

	var artifact hardhatArtifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal artifact %s", path)
	}

	if len(artifact.ABI) == 0 {
		return nil, errors.Errorf("artifact %s has no abi", path)
	}

	parsed, err := abi.JSON(bytes.NewReader(artifact.ABI))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse abi of artifact %s", path)
	}

	var bytecode []byte
	if artifact.Bytecode != "" && artifact.Bytecode != "0x" {
		if strings.Contains(artifact.Bytecode, "__") {
			return nil, errors.Errorf("artifact %s has unlinked library references", path)
		}

		bytecode, err = hexutil.Decode(artifact.Bytecode)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode bytecode of artifact %s", path)
		}
	}

	name := artifact.ContractName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), ".json")
	}

	return &Template{
		Name:     name,
		ABI:      parsed,
		Bytecode: bytecode,
		Source:   path,
	}, nil
}
