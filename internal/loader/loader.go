package loader

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/hecate/internal/ir"
)

// Supported module document extensions.
var extensions = []string{".yaml", ".yml", ".cue"}

// IsModuleFile reports whether path has a module document extension.
func IsModuleFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Load reads a module document from path and builds it.
func Load(path string) (*ir.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: err.Error(), Path: path}
	}
	return Parse(path, data)
}

// Parse decodes data as the document format implied by path's extension
// and builds the module. A document without a name takes the base name of
// path.
func Parse(path string, data []byte) (*ir.Module, error) {
	doc, err := Decode(path, data)
	if err != nil {
		return nil, err
	}
	if doc.Name == "" {
		base := filepath.Base(path)
		doc.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return Build(path, doc)
}

// Decode parses data into a Document without building it.
func Decode(path string, data []byte) (*Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return decodeYAML(path, data)
	case ".cue":
		return decodeCUE(path, data)
	}
	return nil, &LoadError{
		Code:    ErrCodeFormat,
		Message: "unsupported module format " + filepath.Ext(path) + " (want .yaml, .yml or .cue)",
		Path:    path,
	}
}
