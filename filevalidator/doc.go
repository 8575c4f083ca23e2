// Package filevalidator verifies that uploaded content is the kind of file it
// claims to be before it is persisted.
//
// A [TypeVerifier] accepts exactly one kind of file. It is built from an
// immutable [TypeDescriptor] holding the accepted extensions, the MIME type and
// an optional magic-byte signature. A [Chain] routes each request to the
// verifier registered for the claimed MIME type.
//
// # Quick Start
//
//	chain := filevalidator.NewChain()
//	if err := filevalidator.AddBuiltins(chain, "pdf", "png", "jpeg"); err != nil {
//	    log.Fatal(err)
//	}
//
//	f, _ := os.Open("report.pdf")
//	defer f.Close()
//
//	if err := chain.Validate(f, "report.pdf", "application/pdf"); err != nil {
//	    // rejected
//	}
//
// # Validation Order
//
// A TypeVerifier runs three checks and stops at the first failure:
//
//	1. Extension   the final dot segment of the name, lowercased
//	2. MIME type   case-insensitive match against the configured type
//	3. Magic bytes exactly len(magic) bytes read from offset 0
//
// The magic-byte step always seeks the stream back to offset 0, so the same
// stream can be written out after it has been validated.
//
// # Custom Types
//
// New kinds of file are data, not code:
//
//	v, err := filevalidator.NewTypeVerifier(filevalidator.TypeDescriptor{
//	    Extensions: []string{".webp"},
//	    MIMEType:   "image/webp",
//	    Magic:      []byte("RIFF"),
//	})
//	err = chain.AddVerifier(v)
//
// Descriptors can also be loaded from YAML with [LoadDescriptors]:
//
//	types:
//	  - extensions: [".pdf"]
//	    mime_type: application/pdf
//	    magic: "25 50 44 46"
//
// # Error Handling
//
//	err := chain.Validate(r, name, mimeType)
//	switch {
//	case errors.Is(err, filevalidator.ErrUnsupportedType):
//	    // no verifier for this MIME type
//	case filevalidator.IsErrorOfType(err, filevalidator.ErrorTypeExtension):
//	    // extension not accepted
//	case filevalidator.IsErrorOfType(err, filevalidator.ErrorTypeSize):
//	    // shorter than the signature
//	case errors.Is(err, filevalidator.ErrInvalidFormat):
//	    // any other mismatch
//	}
//
// This package does type verification, not security scanning. For malware
// detection, use dedicated tools like ClamAV.
package filevalidator
