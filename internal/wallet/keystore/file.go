package keystore

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

const keystoreFileMode = 0o600

// ReadFile loads a keystore document from path
func ReadFile(path string) (*KeystoreJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read keystore %s", path)
	}

	var ks KeystoreJSON
	if err := json.Unmarshal(data, &ks); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal keystore JSON")
	}

	return &ks, nil
}

// WriteFile stores ks at path, refusing to overwrite an existing file
func WriteFile(path string, ks *KeystoreJSON) error {
	data, err := json.MarshalIndent(ks, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal keystore JSON")
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, keystoreFileMode)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return errors.Errorf("keystore %s already exists", path)
		}
		return errors.Wrapf(err, "failed to create keystore %s", path)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return errors.Wrapf(err, "failed to write keystore %s", path)
	}

	return nil
}
