package filerepo

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/gobeaver/beaver-kit/config"
	"github.com/gobeaver/filerepo/filevalidator"
)

// Global instance
var (
	defaultRepo *Repository
	defaultOnce sync.Once
	defaultErr  error
)

// Builder provides a way to create Repository instances with custom prefixes
type Builder struct {
	prefix string
}

// WithPrefix creates a new Builder with the specified prefix
func WithPrefix(prefix string) *Builder {
	return &Builder{prefix: prefix}
}

// New creates a new Repository using the builder's prefix
func (b *Builder) New(opts ...RepositoryOption) (*Repository, error) {
	cfg := &Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: b.prefix}); err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// Init initializes the global repository. Without a config it is loaded
// from the environment. Only the first call has any effect.
func Init(configs ...*Config) error {
	defaultOnce.Do(func() {
		var cfg *Config
		if len(configs) > 0 {
			cfg = configs[0]
		} else {
			cfg, defaultErr = GetConfig()
			if defaultErr != nil {
				return
			}
		}

		defaultRepo, defaultErr = New(cfg)
	})

	return defaultErr
}

// Default returns the global repository, initializing it from the
// environment if needed
func Default() (*Repository, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	return defaultRepo, nil
}

// Reset clears the global instance (for testing)
func Reset() {
	defaultRepo = nil
	defaultOnce = sync.Once{}
	defaultErr = nil
}

// New creates a repository and its verifier chain from config. Options are
// applied after the ones derived from cfg.
func New(cfg *Config, opts ...RepositoryOption) (*Repository, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	chain, err := createChain(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure verifiers: %w", err)
	}

	repoOpts, err := createOptions(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return NewRepository(cfg.RootDir, chain, append(repoOpts, opts...)...)
}

// NewFromEnv creates instance from environment variables (convenience constructor)
func NewFromEnv(opts ...RepositoryOption) (*Repository, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// validateConfig checks configuration validity
func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if strings.TrimSpace(cfg.RootDir) == "" {
		return errors.New("root dir is required")
	}
	if cfg.Checksum != "" {
		if _, err := NewHasher(ChecksumAlgorithm(cfg.Checksum)); err != nil {
			return err
		}
	}
	return nil
}

// createChain builds the verifier chain from built-in names and the
// descriptor file, in that order.
func createChain(cfg *Config) (*filevalidator.Chain, error) {
	chain := filevalidator.NewChain(filevalidator.WithAllowUnknown(cfg.AllowUnknownTypes))

	if names := splitList(cfg.BuiltinTypes); len(names) > 0 {
		if err := filevalidator.AddBuiltins(chain, names...); err != nil {
			return nil, err
		}
	}

	if cfg.TypesFile != "" {
		descs, err := filevalidator.LoadDescriptorsFile(cfg.TypesFile)
		if err != nil {
			return nil, err
		}
		for _, desc := range descs {
			v, err := filevalidator.NewTypeVerifier(desc)
			if err != nil {
				return nil, err
			}
			if err := chain.AddVerifier(v); err != nil {
				return nil, err
			}
		}
	}

	return chain, nil
}

// createOptions converts config fields into repository options
func createOptions(cfg *Config) ([]RepositoryOption, error) {
	opts := []RepositoryOption{WithCreateRoot(cfg.CreateRoot)}

	if cfg.DirPerm != "" {
		perm, err := parsePerm(cfg.DirPerm)
		if err != nil {
			return nil, fmt.Errorf("dir perm: %w", err)
		}
		opts = append(opts, WithDirPerm(perm))
	}

	if cfg.FilePerm != "" {
		perm, err := parsePerm(cfg.FilePerm)
		if err != nil {
			return nil, fmt.Errorf("file perm: %w", err)
		}
		opts = append(opts, WithFilePerm(perm))
	}

	if cfg.Checksum != "" {
		opts = append(opts, WithDefaultChecksum(ChecksumAlgorithm(cfg.Checksum)))
	}

	return opts, nil
}

func parsePerm(s string) (os.FileMode, error) {
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, err
	}
	if v > 0o777 {
		return 0, fmt.Errorf("permission %s out of range", s)
	}
	return os.FileMode(v), nil
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
