package template

import (
	"bytes"
	"embed"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultName is the template used when neither the spec nor the configuration names one.
	DefaultName = "TestnetERC20Token"
	// WrappedNativeName is the wrapped native asset template.
	WrappedNativeName = "WETH9"
)

// ErrUnknownTemplate is returned by Resolve for names no source provides.
var ErrUnknownTemplate = errors.New("unknown token template")

//go:embed abi/*.json
var builtinABIs embed.FS

// Options configures where templates are loaded from. Later sources override
// earlier ones: builtin ABIs, then the artifacts directory, then the manifest.
type Options struct {
	ArtifactsDir string
	ManifestPath string
	// Default is used when a spec names no implementation.
	Default string
}

// Registry maps implementation names to templates.
type Registry struct {
	mu sync.RWMutex

	defaultName string
	templates   map[string]*Template
	// artifacts indexes Hardhat artifact files by contract name, loaded on first use
	artifacts map[string]string
}

func isWrappedNativeName(name string) bool {
	return name == WrappedNativeName
}

// NewRegistry builds a registry from the builtin ABIs and the configured sources.
func NewRegistry(opts Options) (*Registry, error) {
	r := &Registry{
		defaultName: opts.Default,
		templates:   make(map[string]*Template),
		artifacts:   make(map[string]string),
	}

	if err := r.loadBuiltins(); err != nil {
		return nil, err
	}

	if opts.ArtifactsDir != "" {
		if err := r.indexArtifacts(opts.ArtifactsDir); err != nil {
			return nil, err
		}
	}

	if opts.ManifestPath != "" {
		if err := r.loadManifest(opts.ManifestPath); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *Registry) loadBuiltins() error {
	entries, err := builtinABIs.ReadDir("abi")
	if err != nil {
		return errors.Wrap(err, "failed to list builtin ABIs")
	}

	for _, entry := range entries {
		raw, err := builtinABIs.ReadFile(path.Join("abi", entry.Name()))
		if err != nil {
			return errors.Wrapf(err, "failed to read builtin ABI %s", entry.Name())
		}

		parsed, err := abi.JSON(bytes.NewReader(raw))
		if err != nil {
			return errors.Wrapf(err, "failed to parse builtin ABI %s", entry.Name())
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		r.templates[name] = &Template{
			Name:          name,
			ABI:           parsed,
			WrappedNative: isWrappedNativeName(name),
			Source:        "builtin",
		}
	}

	return nil
}

// Register adds or replaces a template.
func (r *Registry) Register(t *Template) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.templates[t.Name] = t
}

// DefaultName returns the template used for specs without an implementation.
func (r *Registry) DefaultName() string {
	if r.defaultName == "" {
		return DefaultName
	}

	return r.defaultName
}

// Resolve returns the template for name, the default template if name is empty.
// Templates that only have a builtin ABI are completed from the artifacts
// directory on first use.
func (r *Registry) Resolve(name string) (*Template, error) {
	if name == "" {
		name = r.DefaultName()
	}

	r.mu.RLock()
	t, ok := r.templates[name]
	artifactPath, hasArtifact := r.artifacts[name]
	r.mu.RUnlock()

	if ok && (t.Deployable() || !hasArtifact) {
		return t, nil
	}

	if !hasArtifact {
		return nil, errors.Wrapf(ErrUnknownTemplate, "%q", name)
	}

	loaded, err := loadArtifact(artifactPath)
	if err != nil {
		return nil, err
	}

	loaded.WrappedNative = isWrappedNativeName(name) || (ok && t.WrappedNative)

	log.Debug().Str("template", name).Str("source", loaded.Source).Msg("Loaded token template from artifact")

	r.Register(loaded)

	return loaded, nil
}

// IsWrappedNative reports whether the template name (the default one if name
// is empty) is a wrapped native asset, either builtin or declared so in the
// manifest. No artifact is loaded.
func (r *Registry) IsWrappedNative(name string) bool {
	if name == "" {
		name = r.DefaultName()
	}

	r.mu.RLock()
	t, ok := r.templates[name]
	r.mu.RUnlock()

	if ok {
		return t.WrappedNative
	}

	return isWrappedNativeName(name)
}

// Names lists all known template names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{}, len(r.templates)+len(r.artifacts))
	for name := range r.templates {
		seen[name] = struct{}{}
	}
	for name := range r.artifacts {
		seen[name] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
