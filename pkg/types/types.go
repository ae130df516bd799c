package types

// MediaCategory represents the coarse kind of a file format
type MediaCategory string

const (
	CategoryImage    MediaCategory = "image"
	CategoryDocument MediaCategory = "document"
	CategoryAudio    MediaCategory = "audio"
	CategoryVideo    MediaCategory = "video"
	CategoryUnknown  MediaCategory = "unknown"
)

// ConversionRequest describes one whole-file conversion
type ConversionRequest struct {
	InputPath    string
	OutputFormat string
	Quality      int
	OutputDir    string
	// PreserveMetadata is accepted for compatibility and has no effect
	PreserveMetadata bool
	Overwrite        bool
	Bitrate          string
	// Page selects a zero-based page when rasterizing a PDF
	Page *int
}

// ConversionResult is the outcome of a conversion request
type ConversionResult struct {
	Success      bool    `json:"success"`
	OutputPath   string  `json:"output_path,omitempty"`
	Error        string  `json:"error,omitempty"`
	OriginalSize *uint64 `json:"original_size,omitempty"`
	NewSize      *uint64 `json:"new_size,omitempty"`
}

// ToolName identifies an external program the converter can drive
type ToolName string

const (
	ToolFFmpeg      ToolName = "ffmpeg"
	ToolLibreOffice ToolName = "libreoffice"
	ToolPandoc      ToolName = "pandoc"
	ToolImageMagick ToolName = "imagemagick"
	ToolPdftoppm    ToolName = "pdftoppm"
)

// AllTools lists every known tool in discovery order
var AllTools = []ToolName{ToolFFmpeg, ToolLibreOffice, ToolPandoc, ToolImageMagick, ToolPdftoppm}

// ToolAvailability is a point-in-time snapshot of the main external tools
type ToolAvailability struct {
	FFmpeg      bool `json:"ffmpeg"`
	LibreOffice bool `json:"libreoffice"`
	Pandoc      bool `json:"pandoc"`
}

// ToolStatus reports discovery of a single tool
type ToolStatus struct {
	Name      ToolName `json:"name"`
	Available bool     `json:"available"`
	Path      string   `json:"path,omitempty"`
}

// MediaInfo contains basic information about a media file
type MediaInfo struct {
	Name      string        `json:"name"`
	Size      uint64        `json:"size"`
	Extension string        `json:"extension"`
	Category  MediaCategory `json:"category"`
	MimeType  string        `json:"mime_type,omitempty"`
	Width     *uint32       `json:"width,omitempty"`
	Height    *uint32       `json:"height,omitempty"`
	Duration  *float64      `json:"duration,omitempty"`
	MD5Hash   string        `json:"md5,omitempty"`
}

// FormatPair is a classified (input, output) extension pair
type FormatPair struct {
	InputExt       string
	OutputExt      string
	InputCategory  MediaCategory
	OutputCategory MediaCategory
}

// ConversionJob carries everything a converter needs for one request
type ConversionJob struct {
	FormatPair
	InputPath  string
	OutputPath string
	Quality    int
	Bitrate    string
	Page       *int
}
