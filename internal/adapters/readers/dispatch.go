package readers

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/okian/seacast/internal/domain/rawtable"
)

// Reader decodes one input file into the raw table contract.
type Reader interface {
	// Variant names the concrete reader for provenance.
	Variant() string

	// Read decodes the input and returns the raw table plus file metadata.
	Read(ctx context.Context) (*rawtable.Table, *rawtable.Metadata, error)
}

// Option applies a configuration option to dispatch.
type Option func(*dispatchConfig)

type dispatchConfig struct {
	formatKey  string
	headerPath string
}

// WithFormatKey declares the input format explicitly, bypassing extension
// detection. The key must belong to the format registry.
func WithFormatKey(key string) Option {
	return func(c *dispatchConfig) {
		c.formatKey = key
	}
}

// WithHeaderPath supplies the separate header file required by the Nortek
// ASCII format.
func WithHeaderPath(path string) Option {
	return func(c *dispatchConfig) {
		c.headerPath = path
	}
}

// Open selects and constructs the reader for the given input file.
//
// A declared format key wins and must be known. Otherwise the file extension
// is looked up in the registry. The versioned RSK container key resolves to
// the modern or legacy schema reader by inspecting the container's
// (type, version) record against the version rule table.
func Open(ctx context.Context, path string, opts ...Option) (Reader, error) {
	var cfg dispatchConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	key, err := ResolveKey(path, cfg.formatKey)
	if err != nil {
		return nil, err
	}

	switch key {
	case KeySbeCnv:
		return newCnvReader(path), nil
	case KeySeasunTob:
		return newTobReader(path), nil
	case KeyCSV:
		return newCsvReader(path), nil
	case KeyNetCDF:
		return newNetCdfReader(path), nil
	case KeyNortekAscii:
		if cfg.headerPath == "" {
			return nil, fmt.Errorf("%w: %s", ErrHeaderRequired, KeyNortekAscii)
		}
		return newNortekReader(path, cfg.headerPath), nil
	case KeyRbrAscii:
		return newRbrAsciiReader(path), nil
	case KeyRskDefault:
		return newRskReader(path), nil
	case KeyRskLegacy:
		return newRskLegacyReader(path), nil
	case KeyRskAuto:
		return selectRskReader(ctx, path)
	case KeyMatrix:
		return newMatrixReader(path), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, key)
}

// ResolveKey determines the format key for an input file: a declared key wins
// and must be known, otherwise the file extension decides.
func ResolveKey(path, declared string) (string, error) {
	if declared != "" {
		if !knownKey(declared) {
			return "", fmt.Errorf("%w: unknown format key %q", ErrUnsupportedFormat, declared)
		}
		return declared, nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	key, ok := keyForExtension(ext)
	if !ok {
		return "", fmt.Errorf("%w: no format registered for extension %q", ErrUnsupportedFormat, ext)
	}
	return key, nil
}

// rskRule maps a semantic version range of the RSK container schema to the
// reader key handling it. Rules are evaluated in order; the first match wins.
type rskRule struct {
	constraint string
	key        string
}

// Behavior for schema versions outside the observed range is an open
// compatibility question (see DESIGN.md).
var rskRules = []rskRule{
	{">= 2.0.0", KeyRskDefault},
	{"< 2.0.0", KeyRskLegacy},
}

// selectRskReader opens the container, reads its (type, version) record and
// applies the version rule table. Comparison is semantic, not lexicographic.
func selectRskReader(ctx context.Context, path string) (Reader, error) {
	schemaType, schemaVersion, err := readRskInfo(ctx, path)
	if err != nil {
		return nil, err
	}

	v, err := semver.NewVersion(schemaVersion)
	if err != nil {
		return nil, fmt.Errorf("%w: container version %q is not semantic: %v",
			ErrMalformedInput, schemaVersion, err)
	}

	for _, rule := range rskRules {
		c, err := semver.NewConstraint(rule.constraint)
		if err != nil {
			return nil, fmt.Errorf("invalid version rule %q: %w", rule.constraint, err)
		}
		if c.Check(v) {
			switch rule.key {
			case KeyRskDefault:
				return newRskReader(path), nil
			case KeyRskLegacy:
				return newRskLegacyReader(path), nil
			}
		}
	}
	return nil, fmt.Errorf("%w: no rule matches container %s/%s",
		ErrUnsupportedFormat, schemaType, schemaVersion)
}
