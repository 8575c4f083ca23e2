package filevalidator

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// Chain routes a validation request to the TypeVerifier registered for the
// claimed MIME type. Lookup is O(1).
type Chain struct {
	mu           sync.RWMutex
	verifiers    map[string]*TypeVerifier
	allowUnknown bool
}

// ChainOption configures a Chain
type ChainOption func(*Chain)

// WithAllowUnknown lets content with an unregistered MIME type pass
// validation instead of failing with ErrUnsupportedType.
func WithAllowUnknown(allow bool) ChainOption {
	return func(c *Chain) {
		c.allowUnknown = allow
	}
}

// NewChain creates an empty chain. Unknown types are rejected unless
// WithAllowUnknown(true) is given.
func NewChain(opts ...ChainOption) *Chain {
	c := &Chain{
		verifiers: make(map[string]*TypeVerifier),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewChainFromDescriptors builds a chain and registers a verifier for each descriptor.
func NewChainFromDescriptors(descs []TypeDescriptor, opts ...ChainOption) (*Chain, error) {
	c := NewChain(opts...)
	for _, desc := range descs {
		v, err := NewTypeVerifier(desc)
		if err != nil {
			return nil, err
		}
		if err := c.AddVerifier(v); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// AddVerifier registers v under its MIME type. Registering a second
// verifier for the same MIME type fails with ErrDuplicateRegistration.
func (c *Chain) AddVerifier(v *TypeVerifier) error {
	key := mimeKey(v.MIMEType())

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.verifiers[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRegistration, v.MIMEType())
	}
	c.verifiers[key] = v
	return nil
}

// AllowUnknown reports whether unregistered MIME types pass validation.
func (c *Chain) AllowUnknown() bool {
	return c.allowUnknown
}

// Validate delegates to the verifier registered for mimeType.
func (c *Chain) Validate(r io.ReadSeeker, fileName, mimeType string) error {
	c.mu.RLock()
	v, ok := c.verifiers[mimeKey(mimeType)]
	c.mu.RUnlock()

	if !ok {
		if c.allowUnknown {
			return nil
		}
		return fmt.Errorf("%w: mime type %q not supported", ErrUnsupportedType, mimeType)
	}

	return v.Validate(r, fileName, mimeType)
}

// Lookup returns the verifier registered for mimeType, if any.
func (c *Chain) Lookup(mimeType string) (*TypeVerifier, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.verifiers[mimeKey(mimeType)]
	return v, ok
}

// HasVerifier returns true if a verifier is registered for the given MIME type
func (c *Chain) HasVerifier(mimeType string) bool {
	_, ok := c.Lookup(mimeType)
	return ok
}

// MIMETypes returns the registered MIME types in sorted order.
func (c *Chain) MIMETypes() []string {
	c.mu.RLock()
	types := make([]string, 0, len(c.verifiers))
	for _, v := range c.verifiers {
		types = append(types, v.MIMEType())
	}
	c.mu.RUnlock()

	sort.Strings(types)
	return types
}

// Count returns the number of registered verifiers
func (c *Chain) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.verifiers)
}

func mimeKey(mimeType string) string {
	return strings.ToLower(strings.TrimSpace(mimeType))
}
