package filerepo_test

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/gobeaver/filerepo"
	"github.com/gobeaver/filerepo/filevalidator"
)

func ExampleRepository_Save() {
	ctx := context.Background()

	root, _ := os.MkdirTemp("", "filerepo-example")
	defer os.RemoveAll(root)

	chain := filevalidator.NewChain()
	_ = filevalidator.AddBuiltins(chain, "pdf")

	repo, _ := filerepo.NewRepository(root, chain)

	pdf := []byte("%PDF-1.7\n%%EOF\n")
	_, err := repo.Save(ctx, "reports/q1.pdf", "application/pdf", bytes.NewReader(pdf))
	fmt.Println("pdf saved:", err == nil)

	// Same claim, different content
	_, err = repo.Save(ctx, "reports/q2.pdf", "application/pdf", bytes.NewReader([]byte("<?php")))
	fmt.Println("php rejected:", filerepo.IsInvalidFormat(err))

	// Escaping the root
	_, err = repo.Save(ctx, "../../etc/passwd", "application/pdf", bytes.NewReader(pdf))
	fmt.Println("traversal rejected:", filerepo.IsIllegalPath(err))

	files, _ := repo.ListFiles(ctx, "reports")
	fmt.Println(files)
	// Output:
	// pdf saved: true
	// php rejected: true
	// traversal rejected: true
	// [reports/q1.pdf]
}

func ExampleChain() {
	chain := filevalidator.NewChain()
	_ = chain.AddVerifier(filevalidator.MustTypeVerifier(filevalidator.TypeDescriptor{
		Extensions: []string{".png"},
		MIMEType:   "image/png",
		Magic:      []byte{0x89, 'P', 'N', 'G'},
	}))

	err := chain.Validate(bytes.NewReader([]byte("GIF89a")), "logo.png", "image/png")
	fmt.Println(filevalidator.GetErrorType(err))

	err = chain.Validate(bytes.NewReader(nil), "logo.gif", "image/gif")
	fmt.Println(filevalidator.IsUnsupportedType(err))
	// Output:
	// content
	// true
}
