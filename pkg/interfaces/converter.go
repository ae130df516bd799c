package interfaces

import (
	"context"

	"github.com/nodewee/file-converter/pkg/tools"
	"github.com/nodewee/file-converter/pkg/types"
)

// Converter is one conversion strategy
type Converter interface {
	// Name returns the name of the converter
	Name() string

	// Supports reports whether this converter handles the format pair
	Supports(pair types.FormatPair) bool

	// Convert writes job.OutputPath from job.InputPath
	Convert(ctx context.Context, job *types.ConversionJob) error
}

// ConverterFactory selects the converter for a format pair
type ConverterFactory interface {
	// ConverterFor returns the first registered converter that supports pair
	ConverterFor(pair types.FormatPair) (Converter, error)

	// RegisterConverter appends a converter to the dispatch order
	RegisterConverter(converter Converter)

	// ListConverters returns converter names in dispatch order
	ListConverters() []string
}

// ToolFinder locates external tools
type ToolFinder interface {
	Locate(ctx context.Context, tool types.ToolName) (*tools.Handle, bool)
}

// ToolInventory locates tools and reports what is installed
type ToolInventory interface {
	ToolFinder

	// Availability snapshots the tools that gate capability queries
	Availability(ctx context.Context) types.ToolAvailability

	// Statuses reports discovery for every known tool
	Statuses(ctx context.Context) []types.ToolStatus
}
