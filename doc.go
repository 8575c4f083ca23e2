// Package filerepo provides a sandboxed file repository for host applications.
// Every operation is confined to a root directory fixed at construction, and
// uploaded content is verified against its claimed type before a single byte
// is written.
//
// # Basic Usage
//
//	chain := filevalidator.NewChain()
//	if err := filevalidator.AddBuiltins(chain, "pdf", "png"); err != nil {
//	    log.Fatal(err)
//	}
//
//	repo, err := filerepo.NewRepository("./uploads", chain)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx := context.Background()
//
//	// Save verifies then writes; nothing is written on rejection
//	_, err = repo.Save(ctx, "reports/q1.pdf", "application/pdf", file)
//
//	// Read it back
//	rc, err := repo.OpenRead(ctx, "reports/q1.pdf")
//	defer rc.Close()
//
//	// List with root-relative results
//	files, err := repo.ListFiles(ctx, "reports", filerepo.WithPattern("*.pdf"))
//
// # Path Confinement
//
// Client names are joined onto the root and cleaned by [Resolve]. The result
// must be the root or start with the root followed by a path separator.
// Traversal such as "../../etc/passwd" fails with [ErrIllegalPath], and so does
// a sibling directory that merely shares the root's textual prefix.
//
// # Verification
//
// Save hands the stream to a [filevalidator.Verifier], usually a
// [filevalidator.Chain]. The content must be an [io.ReadSeeker]: the magic-byte
// check rewinds the stream to offset 0 so it can be written out afterwards.
//
// # Error Handling
//
// Every failure is a [*PathError] carrying the operation and the
// client-supplied path:
//
//	_, err := repo.Save(ctx, name, mimeType, r)
//	switch {
//	case filerepo.IsIllegalPath(err):
//	    // traversal attempt or empty name
//	case filerepo.IsUnsupportedType(err):
//	    // no verifier for the claimed MIME type
//	case filerepo.IsInvalidFormat(err):
//	    // extension, MIME type or signature mismatch
//	}
//
// I/O errors from the operating system are wrapped, not replaced, so
// [errors.Is] with [fs.ErrPermission] and friends keeps working.
//
// # Configuration
//
// A repository and its verifier chain can be built from environment
// variables with the BEAVER_ prefix, or programmatically via [Config].
// No file types are registered by default, so a bare config rejects every
// save until BuiltinTypes or TypesFile is set:
//
//	cfg := filerepo.Config{
//	    RootDir:      "/var/uploads",
//	    BuiltinTypes: "pdf,png,jpeg",
//	}
//	repo, err := filerepo.New(&cfg)
package filerepo
