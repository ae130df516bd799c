package utils

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeRead                ErrorType = "read_error"
	ErrorTypeDecode              ErrorType = "decode_error"
	ErrorTypeEncode              ErrorType = "encode_error"
	ErrorTypeWrite               ErrorType = "write_error"
	ErrorTypeUnsupportedFormat   ErrorType = "unsupported_format"
	ErrorTypeFileExists          ErrorType = "file_exists"
	ErrorTypeInvalidPath         ErrorType = "invalid_path"
	ErrorTypeSvg                 ErrorType = "svg_error"
	ErrorTypePdf                 ErrorType = "pdf_error"
	ErrorTypeFFmpeg              ErrorType = "ffmpeg_error"
	ErrorTypeFFmpegNotFound      ErrorType = "ffmpeg_not_found"
	ErrorTypeDocument            ErrorType = "document_error"
	ErrorTypeLibreOfficeNotFound ErrorType = "libreoffice_not_found"
	ErrorTypePandocNotFound      ErrorType = "pandoc_not_found"
	ErrorTypeValidation          ErrorType = "validation"
)

// AppError represents an application-specific error with context.
// Message is the user-facing text and is what Error returns.
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any AppError of the same type
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type
	}
	return false
}

// WithContext adds context information to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new application error
func NewError(errorType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

func detail(cause error) string {
	if cause == nil {
		return ""
	}
	return cause.Error()
}

// NewReadError reports a failure to read the input
func NewReadError(cause error) *AppError {
	return NewError(ErrorTypeRead, fmt.Sprintf("Failed to read input file: %s", detail(cause)), cause)
}

// NewInputNotFoundError reports a missing input file
func NewInputNotFoundError(path string) *AppError {
	return NewError(ErrorTypeRead, fmt.Sprintf("Failed to read input file: Input file not found: %s", path), nil).
		WithContext("path", path)
}

// NewDecodeError reports an image that could not be decoded
func NewDecodeError(cause error) *AppError {
	return NewError(ErrorTypeDecode, fmt.Sprintf("Failed to decode image: %s", detail(cause)), cause)
}

// NewEncodeError reports an image that could not be encoded
func NewEncodeError(cause error) *AppError {
	return NewError(ErrorTypeEncode, fmt.Sprintf("Failed to encode image: %s", detail(cause)), cause)
}

// NewWriteError reports a failure to create or stat the output
func NewWriteError(cause error) *AppError {
	return NewError(ErrorTypeWrite, fmt.Sprintf("Failed to write output file: %s", detail(cause)), cause)
}

// NewUnsupportedFormatError reports a format or pair with no conversion route
func NewUnsupportedFormatError(what string) *AppError {
	return NewError(ErrorTypeUnsupportedFormat, fmt.Sprintf("Unsupported format: %s", what), nil)
}

// NewFileExistsError reports that no free output name could be found
func NewFileExistsError(what string) *AppError {
	return NewError(ErrorTypeFileExists, fmt.Sprintf("Output file already exists: %s", what), nil)
}

// NewInvalidPathError reports an input path without a usable file name
func NewInvalidPathError() *AppError {
	return NewError(ErrorTypeInvalidPath, "Invalid input path", nil)
}

// NewSvgError reports an SVG that could not be rendered
func NewSvgError(cause error) *AppError {
	return NewError(ErrorTypeSvg, fmt.Sprintf("SVG rendering failed: %s", detail(cause)), cause)
}

// NewPdfError reports a PDF generation or rasterization failure
func NewPdfError(what string, cause error) *AppError {
	return NewError(ErrorTypePdf, fmt.Sprintf("PDF generation failed: %s", what), cause)
}

// NewFFmpegError carries FFmpeg's stderr verbatim
func NewFFmpegError(stderr string) *AppError {
	return NewError(ErrorTypeFFmpeg, fmt.Sprintf("FFmpeg error: %s", stderr), nil)
}

// NewFFmpegNotFoundError reports that no FFmpeg binary could be spawned
func NewFFmpegNotFoundError() *AppError {
	return NewError(ErrorTypeFFmpegNotFound, "FFmpeg not found", nil)
}

// NewDocumentError reports a document conversion failure
func NewDocumentError(what string, cause error) *AppError {
	return NewError(ErrorTypeDocument, fmt.Sprintf("Document conversion failed: %s", what), cause)
}

// NewLibreOfficeNotFoundError reports a missing office suite
func NewLibreOfficeNotFoundError() *AppError {
	return NewError(ErrorTypeLibreOfficeNotFound, "LibreOffice not found - required for this conversion", nil)
}

// NewPandocNotFoundError reports a missing Pandoc
func NewPandocNotFoundError() *AppError {
	return NewError(ErrorTypePandocNotFound, "Pandoc not found - required for this conversion", nil)
}

// NewValidationError creates a validation error
func NewValidationError(message string, cause error) *AppError {
	return NewError(ErrorTypeValidation, message, cause)
}

// GetErrorType extracts the error type from an error chain, or "" for foreign errors
func GetErrorType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsErrorType reports whether err carries the given type
func IsErrorType(err error, errorType ErrorType) bool {
	return GetErrorType(err) == errorType
}
