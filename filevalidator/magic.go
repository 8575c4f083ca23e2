package filevalidator

import (
	"fmt"
	"sort"
	"strings"
)

// Common MIME types with built-in descriptors
const (
	MIMETypePDF  = "application/pdf"
	MIMETypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMETypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMETypePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	MIMETypeDOC  = "application/msword"
	MIMETypeXLS  = "application/vnd.ms-excel"
	MIMETypePPT  = "application/vnd.ms-powerpoint"
	MIMETypeBMP  = "image/bmp"
	MIMETypeGIF  = "image/gif"
	MIMETypeJPEG = "image/jpeg"
	MIMETypePNG  = "image/png"
)

var (
	// ZIP local file header, shared by all OOXML documents
	magicZIP = []byte{0x50, 0x4B, 0x03, 0x04}
	// OLE2 compound document header, shared by legacy Office formats
	magicOLE2 = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// builtinDescriptors contains preconfigured descriptors keyed by short name
var builtinDescriptors = map[string]TypeDescriptor{
	// Documents
	"pdf":  {Extensions: []string{".pdf"}, MIMEType: MIMETypePDF, Magic: []byte("%PDF")},
	"docx": {Extensions: []string{".docx"}, MIMEType: MIMETypeDOCX, Magic: magicZIP},
	"xlsx": {Extensions: []string{".xlsx"}, MIMEType: MIMETypeXLSX, Magic: magicZIP},
	"pptx": {Extensions: []string{".pptx"}, MIMEType: MIMETypePPTX, Magic: magicZIP},
	"doc":  {Extensions: []string{".doc"}, MIMEType: MIMETypeDOC, Magic: magicOLE2},
	"xls":  {Extensions: []string{".xls"}, MIMEType: MIMETypeXLS, Magic: magicOLE2},
	"ppt":  {Extensions: []string{".ppt"}, MIMEType: MIMETypePPT, Magic: magicOLE2},

	// Images
	"bmp":  {Extensions: []string{".bmp"}, MIMEType: MIMETypeBMP, Magic: []byte("BM")},
	"gif":  {Extensions: []string{".gif"}, MIMEType: MIMETypeGIF, Magic: []byte("GIF8")},
	"jpeg": {Extensions: []string{".jpg", ".jpeg"}, MIMEType: MIMETypeJPEG, Magic: []byte{0xFF, 0xD8, 0xFF}},
	"png":  {Extensions: []string{".png"}, MIMEType: MIMETypePNG, Magic: []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
}

// Builtin returns the preconfigured descriptor with the given short name
// (pdf, docx, xlsx, pptx, doc, xls, ppt, bmp, gif, jpeg, png).
func Builtin(name string) (TypeDescriptor, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "jpg" {
		name = "jpeg"
	}
	desc, ok := builtinDescriptors[name]
	return desc, ok
}

// BuiltinNames returns the short names accepted by Builtin, sorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtinDescriptors))
	for name := range builtinDescriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddBuiltins registers the named built-in descriptors into c. With no
// names, every built-in descriptor is registered.
func AddBuiltins(c *Chain, names ...string) error {
	if len(names) == 0 {
		names = BuiltinNames()
	}

	for _, name := range names {
		desc, ok := Builtin(name)
		if !ok {
			return fmt.Errorf("unknown built-in file type: %s", name)
		}
		v, err := NewTypeVerifier(desc)
		if err != nil {
			return err
		}
		if err := c.AddVerifier(v); err != nil {
			return err
		}
	}

	return nil
}
