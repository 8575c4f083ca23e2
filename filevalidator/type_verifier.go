package filevalidator

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Verifier validates a content stream against a claimed file name and MIME type.
// Both TypeVerifier and Chain implement it.
type Verifier interface {
	Validate(r io.ReadSeeker, fileName, mimeType string) error
}

// TypeVerifier checks extension, MIME type and an optional magic-byte
// signature for exactly one kind of file. It is immutable once built.
type TypeVerifier struct {
	extensions map[string]struct{}
	mimeType   string
	magic      []byte
}

// NewTypeVerifier builds a verifier from a descriptor. Extensions are
// lowercased and given a leading dot when they lack one.
func NewTypeVerifier(desc TypeDescriptor) (*TypeVerifier, error) {
	mimeType := strings.TrimSpace(desc.MIMEType)
	if mimeType == "" {
		return nil, errors.New("type descriptor: mime type is required")
	}
	if len(desc.Extensions) == 0 {
		return nil, fmt.Errorf("type descriptor %s: at least one extension is required", mimeType)
	}

	exts := make(map[string]struct{}, len(desc.Extensions))
	for _, ext := range desc.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || ext == "." {
			return nil, fmt.Errorf("type descriptor %s: empty extension", mimeType)
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = struct{}{}
	}

	var magic []byte
	if len(desc.Magic) > 0 {
		magic = bytes.Clone(desc.Magic)
	}

	return &TypeVerifier{
		extensions: exts,
		mimeType:   mimeType,
		magic:      magic,
	}, nil
}

// MustTypeVerifier is like NewTypeVerifier but panics on an invalid descriptor.
func MustTypeVerifier(desc TypeDescriptor) *TypeVerifier {
	v, err := NewTypeVerifier(desc)
	if err != nil {
		panic(err)
	}
	return v
}

// MIMEType returns the MIME type this verifier accepts.
func (v *TypeVerifier) MIMEType() string {
	return v.mimeType
}

// Extensions returns the accepted extensions, lowercased with a leading dot.
func (v *TypeVerifier) Extensions() []string {
	exts := make([]string, 0, len(v.extensions))
	for ext := range v.extensions {
		exts = append(exts, ext)
	}
	return exts
}

// MagicBytes returns a copy of the configured signature, or nil.
func (v *TypeVerifier) MagicBytes() []byte {
	return bytes.Clone(v.magic)
}

// Validate checks the file name extension, then the MIME type, then the
// leading magic bytes of r. The stream is left at offset 0 whenever the
// magic-byte step runs, whatever its outcome.
func (v *TypeVerifier) Validate(r io.ReadSeeker, fileName, mimeType string) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := v.extensions[ext]; !ok {
		return NewValidationError(ErrorTypeExtension, fmt.Sprintf("unsupported extension %q", ext))
	}

	if !strings.EqualFold(v.mimeType, mimeType) {
		return NewValidationError(ErrorTypeMIME, fmt.Sprintf("unsupported mime type %q", mimeType))
	}

	if len(v.magic) == 0 {
		return nil
	}
	if r == nil {
		return NewValidationError(ErrorTypeSize, "file too small")
	}

	return v.checkMagic(r)
}

func (v *TypeVerifier) checkMagic(r io.ReadSeeker) (err error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("seek to start: %w", err)
	}
	defer func() {
		if _, seekErr := r.Seek(0, io.SeekStart); seekErr != nil && err == nil {
			err = fmt.Errorf("reset stream position: %w", seekErr)
		}
	}()

	header := make([]byte, len(v.magic))
	n, readErr := io.ReadFull(r, header)
	if readErr != nil && !errors.Is(readErr, io.EOF) && !errors.Is(readErr, io.ErrUnexpectedEOF) {
		return fmt.Errorf("read file header: %w", readErr)
	}
	if n < len(v.magic) {
		return NewValidationError(ErrorTypeSize, "file too small")
	}

	if !bytes.Equal(header, v.magic) {
		return NewValidationError(
			ErrorTypeContent,
			fmt.Sprintf("content does not match claimed type %s", v.mimeType),
		)
	}

	return nil
}
