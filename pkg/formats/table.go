// Package formats classifies file extensions into media categories and
// knows which targets each category can be converted to.
package formats

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/nodewee/file-converter/pkg/constants"
	"github.com/nodewee/file-converter/pkg/types"
)

var categories = map[types.MediaCategory][]string{
	types.CategoryImage: {
		"heic", "heif", "png", "jpg", "jpeg", "webp", "bmp", "tiff", "tif", "gif",
		"svg", "ico", "avif", "raw", "cr2", "nef", "arw", "dng", "psd", "xcf",
		"jfif", "ppm", "pgm", "pbm",
	},
	types.CategoryDocument: {
		"pdf", "txt", "md", "markdown", "html", "htm", "rtf", "docx", "doc", "odt",
		"epub", "xps", "tex", "rst", "asciidoc", "adoc",
	},
	types.CategoryAudio: {
		"mp3", "wav", "flac", "ogg", "aac", "m4a", "opus", "wma", "aiff", "aif",
		"ape", "alac", "dsd", "dsf", "dff", "wv", "tta", "ac3",
	},
	types.CategoryVideo: {
		"mp4", "webm", "mkv", "avi", "mov", "flv", "wmv", "3gp", "mts", "m2ts",
		"ts", "vob", "ogv", "m4v", "mpg", "mpeg", "divx", "asf", "rm", "rmvb",
	},
}

var byExtension = func() map[string]types.MediaCategory {
	m := make(map[string]types.MediaCategory)
	for category, exts := range categories {
		for _, ext := range exts {
			m[ext] = category
		}
	}
	return m
}()

var synonyms = map[string]string{
	"jpeg":     "jpg",
	"tif":      "tiff",
	"aif":      "aiff",
	"m2ts":     "mts",
	"markdown": "md",
	"htm":      "html",
}

// Conversion targets per input category
var (
	ImageTargets          = []string{"jpg", "png", "webp", "gif", "bmp", "tiff", "ico", "avif", "pdf"}
	DocumentBaseTargets   = []string{"pdf", "txt", "md", "html", "rtf"}
	DocumentOfficeTargets = []string{"docx", "doc", "odt"}
	DocumentEbookTargets  = []string{"epub"}
	AudioTargets          = []string{"mp3", "wav", "flac", "ogg", "aac", "m4a", "opus", "wma", "aiff"}
	VideoTargets          = []string{"mp4", "webm", "mkv", "avi", "mov", "flv", "wmv", "3gp", "mts", "ts", "ogv"}
)

// Normalize lowercases an extension and strips surrounding space and a leading dot
func Normalize(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// CategoryOf classifies an extension; unknown extensions map to CategoryUnknown
func CategoryOf(ext string) types.MediaCategory {
	if category, ok := byExtension[Normalize(ext)]; ok {
		return category
	}
	return types.CategoryUnknown
}

// ExtensionOf returns the normalized extension of a path
func ExtensionOf(path string) string {
	return Normalize(filepath.Ext(path))
}

// CanonicalExtension folds synonyms and maps unknown tokens to "bin"
func CanonicalExtension(token string) string {
	ext := Normalize(token)
	if canonical, ok := synonyms[ext]; ok {
		return canonical
	}
	if _, ok := byExtension[ext]; ok {
		return ext
	}
	return constants.UnknownExtension
}

// ImageEncoding reports the encoder name for an image target the converter can write
func ImageEncoding(ext string) (string, bool) {
	switch Normalize(ext) {
	case "jpg", "jpeg":
		return "jpg", true
	case "png":
		return "png", true
	case "gif":
		return "gif", true
	case "bmp":
		return "bmp", true
	case "webp":
		return "webp", true
	case "tiff", "tif":
		return "tiff", true
	case "ico":
		return "ico", true
	case "avif":
		return "avif", true
	default:
		return "", false
	}
}

// TargetsFor returns the fixed target list for a category, without tool-gated entries
func TargetsFor(category types.MediaCategory) []string {
	switch category {
	case types.CategoryImage:
		return slices.Clone(ImageTargets)
	case types.CategoryDocument:
		return slices.Clone(DocumentBaseTargets)
	case types.CategoryAudio:
		return slices.Clone(AudioTargets)
	case types.CategoryVideo:
		return slices.Clone(VideoTargets)
	default:
		return nil
	}
}

// Without returns targets with every entry equal to ext removed
func Without(targets []string, ext string) []string {
	ext = CanonicalExtension(ext)
	return slices.DeleteFunc(targets, func(t string) bool { return t == ext })
}

// IsOfficeFormat reports whether ext is handled by an office suite
func IsOfficeFormat(ext string) bool {
	return slices.Contains(DocumentOfficeTargets, Normalize(ext))
}
