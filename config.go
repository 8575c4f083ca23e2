package filerepo

import (
	"github.com/gobeaver/beaver-kit/config"
)

type Config struct {
	// Root directory all operations are confined to
	RootDir string `env:"FILEREPO_ROOT_DIR,default:./storage"`

	// Create the root directory if it is missing
	CreateRoot bool `env:"FILEREPO_CREATE_ROOT,default:true"`

	// Let files with an unregistered MIME type through verification
	AllowUnknownTypes bool `env:"FILEREPO_ALLOW_UNKNOWN_TYPES,default:false"`

	// Built-in file types to register, comma-separated (pdf,png,jpeg,...).
	// Empty by default: with no types registered and AllowUnknownTypes off,
	// every save fails with ErrUnsupportedType until types are configured.
	BuiltinTypes string `env:"FILEREPO_BUILTIN_TYPES"`

	// YAML file with additional type descriptors
	TypesFile string `env:"FILEREPO_TYPES_FILE"`

	// Permissions for created directories and files, octal
	DirPerm  string `env:"FILEREPO_DIR_PERM,default:0755"`
	FilePerm string `env:"FILEREPO_FILE_PERM,default:0644"`

	// Checksum algorithm applied to every save (md5, sha1, sha256, sha512, crc32, xxhash)
	Checksum string `env:"FILEREPO_CHECKSUM"`
}

// GetConfig returns config loaded from environment
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
