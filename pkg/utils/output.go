package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nodewee/file-converter/pkg/constants"
	"github.com/nodewee/file-converter/pkg/formats"
)

// OutputPath is a resolved destination for one conversion. When it was
// resolved without overwrite, an empty placeholder holds the name until
// the converter replaces it or Release removes it.
type OutputPath struct {
	Path     string
	reserved bool
}

// Release removes the placeholder after a failed conversion. It is a no-op
// for overwrite destinations, which may name a pre-existing file.
func (o *OutputPath) Release() error {
	if o == nil || !o.reserved {
		return nil
	}
	o.reserved = false
	if err := os.Remove(o.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// ResolveOutputPath picks the destination for converting inputPath to targetFormat.
// Without overwrite, taken names are skipped as stem_1.ext, stem_2.ext, ...
// and the chosen name is reserved atomically.
func ResolveOutputPath(inputPath, targetFormat, outputDir string, overwrite bool) (*OutputPath, error) {
	stem := FileStem(inputPath)
	if stem == "" {
		return nil, NewInvalidPathError()
	}
	ext := formats.CanonicalExtension(targetFormat)

	dir := outputDir
	if dir != "" {
		expanded, err := ExpandPath(dir)
		if err != nil {
			return nil, NewWriteError(err)
		}
		dir = expanded
	} else {
		dir = filepath.Dir(inputPath)
	}
	if dir == "" {
		dir = "."
	}
	if err := EnsureDir(dir); err != nil {
		return nil, NewWriteError(err)
	}

	candidate := filepath.Join(dir, stem+"."+ext)
	if overwrite {
		return &OutputPath{Path: candidate}, nil
	}

	for n := 0; n <= constants.MaxPathProbes; n++ {
		if n > 0 {
			candidate = filepath.Join(dir, fmt.Sprintf("%s_%d.%s", stem, n, ext))
		}
		ok, err := reserve(candidate)
		if err != nil {
			return nil, NewWriteError(err)
		}
		if ok {
			return &OutputPath{Path: candidate, reserved: true}, nil
		}
	}

	return nil, NewFileExistsError("Too many files with same name")
}

// reserve creates path exclusively; false means the name is taken
func reserve(path string) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, constants.DefaultFilePermission)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, err
	}
	return true, f.Close()
}
