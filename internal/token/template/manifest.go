package template

import (
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// manifest is the optional TOML file describing additional templates:
//
//	default = "TestnetERC20Token"
//
//	[templates.MyToken]
//	artifact = "artifacts/MyToken.json"
//	wrapped_native = false
type manifest struct {
	Default   string                   `toml:"default"`
	Templates map[string]manifestEntry `toml:"templates"`
}

type manifestEntry struct {
	// Artifact is a Hardhat artifact path, relative to the manifest file
	Artifact      string `toml:"artifact"`
	WrappedNative bool   `toml:"wrapped_native"`
}

func (r *Registry) loadManifest(path string) error {
	var m manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return errors.Wrapf(err, "failed to decode template manifest %s", path)
	}

	if m.Default != "" {
		r.defaultName = m.Default
	}

	base := filepath.Dir(path)

	for name, entry := range m.Templates {
		if entry.Artifact == "" {
			return errors.Errorf("template manifest %s: template %s has no artifact", path, name)
		}

		artifactPath := entry.Artifact
		if !filepath.IsAbs(artifactPath) {
			artifactPath = filepath.Join(base, artifactPath)
		}

		t, err := loadArtifact(artifactPath)
		if err != nil {
			return errors.Wrapf(err, "template manifest %s: template %s", path, name)
		}

		t.Name = name
		t.WrappedNative = entry.WrappedNative || isWrappedNativeName(name)
		r.templates[name] = t
	}

	return nil
}
