package filevalidator

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// TypeDescriptor fully describes one kind of file. New kinds are added by
// registering descriptors, never by implementing new verifier types.
type TypeDescriptor struct {
	// Extensions lists accepted file extensions, for example ".jpg" and ".jpeg".
	Extensions []string

	// MIMEType is the MIME type the upload must claim.
	MIMEType string

	// Magic is the signature the content must start with. Nil skips the check.
	Magic []byte
}

// descriptorFile is the YAML layout read by LoadDescriptors.
type descriptorFile struct {
	Types []descriptorEntry `yaml:"types"`
}

type descriptorEntry struct {
	Extensions []string `yaml:"extensions"`
	MIMEType   string   `yaml:"mime_type"`
	Magic      string   `yaml:"magic"`
}

// LoadDescriptors reads type descriptors from YAML:
//
//	types:
//	  - extensions: [".pdf"]
//	    mime_type: application/pdf
//	    magic: "25 50 44 46"
//
// The magic value is hex; whitespace is ignored.
func LoadDescriptors(r io.Reader) ([]TypeDescriptor, error) {
	var file descriptorFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode type descriptors: %w", err)
	}

	descs := make([]TypeDescriptor, 0, len(file.Types))
	for i, entry := range file.Types {
		if strings.TrimSpace(entry.MIMEType) == "" {
			return nil, fmt.Errorf("type descriptor %d: mime_type is required", i)
		}
		if len(entry.Extensions) == 0 {
			return nil, fmt.Errorf("type descriptor %d (%s): extensions are required", i, entry.MIMEType)
		}

		magic, err := ParseMagic(entry.Magic)
		if err != nil {
			return nil, fmt.Errorf("type descriptor %d (%s): %w", i, entry.MIMEType, err)
		}

		descs = append(descs, TypeDescriptor{
			Extensions: entry.Extensions,
			MIMEType:   entry.MIMEType,
			Magic:      magic,
		})
	}

	return descs, nil
}

// LoadDescriptorsFile reads type descriptors from a YAML file on disk.
func LoadDescriptorsFile(path string) ([]TypeDescriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadDescriptors(f)
}

// ParseMagic decodes a hex signature such as "25 50 44 46" or "25504446".
// An empty string yields nil.
func ParseMagic(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return nil, nil
	}
	magic, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid magic bytes: %w", err)
	}
	return magic, nil
}
