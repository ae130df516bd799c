package utils

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/gabriel-vasile/mimetype"

	"github.com/nodewee/file-converter/pkg/constants"
)

// DetectMimeType sniffs a file's content type from its leading bytes
func DetectMimeType(filePath string) (string, error) {
	mtype, err := mimetype.DetectFile(filePath)
	if err != nil {
		return "", fmt.Errorf("error getting MIME type: %w", err)
	}
	return mtype.String(), nil
}

// IsSVGContent reports whether data sniffs as an SVG document
func IsSVGContent(data []byte) bool {
	return mimetype.Detect(data).Is("image/svg+xml")
}

// FileExists reports whether path names an existing regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// FileSize returns the size of the file at path
func FileSize(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return uint64(info.Size()), nil
}

// MoveFile renames src to dst, copying when they are on different devices
func MoveFile(src, dst string) error {
	if src == dst {
		return nil
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	} else if errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := CopyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

// CopyFile copies the content of src into dst, truncating dst
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, constants.DefaultFilePermission)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
