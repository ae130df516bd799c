package constants

import "time"

// Application constants
const (
	AppName = "file-converter"
	// The version is injected into main.go with -ldflags
)

// File processing constants
const (
	// Default file permissions
	DefaultFilePermission = 0644
	DefaultDirPermission  = 0755

	// Quality bounds shared by every converter
	MinQuality     = 1
	MaxQuality     = 100
	DefaultQuality = 85

	// Upper bound on stem_N probes when the output name is taken
	MaxPathProbes = 1000

	// Fallback extension for unrecognised format tokens
	UnknownExtension = "bin"

	// Prefix of per-conversion scratch directories
	ScratchDirPrefix = ".file-converter-"

	DefaultTimeoutDuration = 30 * time.Minute
)

// Audio bitrates used when the request does not carry one
const (
	DefaultAudioBitrate = "192k"
	DefaultOpusBitrate  = "128k"
)

// Text-to-PDF layout, in millimetres and points
const (
	TextPDFFontSize     = 10.0
	TextPDFLeftMargin   = 15.0
	TextPDFTopMargin    = 20.0
	TextPDFLineHeight   = 4.0
	TextPDFPageBottom   = 277.0
	TextPDFMaxLineRunes = 90
)

// Plain-text rendering of markup is wrapped at this column
const TextWrapWidth = 80

// Image-to-PDF page size uses this pixel density
const ImagePDFDPI = 96.0

// ICO output is always a single square image of this size
const IconSize = 256

// Rasterizer densities by quality tier
const (
	HighDensity   = 300
	MediumDensity = 200
	LowDensity    = 150
)

// HTML to Markdown modes
const (
	HTMLMarkdownText     = "text"
	HTMLMarkdownMarkdown = "markdown"
)
