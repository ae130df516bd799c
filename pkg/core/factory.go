package core

import (
	"fmt"

	"github.com/nodewee/file-converter/pkg/interfaces"
	"github.com/nodewee/file-converter/pkg/logger"
	"github.com/nodewee/file-converter/pkg/providers"
	"github.com/nodewee/file-converter/pkg/types"
	"github.com/nodewee/file-converter/pkg/utils"
)

// DefaultConverterFactory implements ConverterFactory. Converters are
// consulted in registration order and the first match wins.
type DefaultConverterFactory struct {
	converters []interfaces.Converter
	logger     *logger.Logger
}

// NewConverterFactory creates a factory with the default dispatch order:
// image, image to PDF, PDF rasterizing, documents, then audio and video
func NewConverterFactory(finder interfaces.ToolFinder, htmlMode string, log *logger.Logger) interfaces.ConverterFactory {
	if log == nil {
		log = logger.Discard()
	}
	factory := &DefaultConverterFactory{logger: log}
	factory.registerDefaultConverters(finder, htmlMode)
	return factory
}

// NewEmptyConverterFactory creates a factory with nothing registered
func NewEmptyConverterFactory(log *logger.Logger) *DefaultConverterFactory {
	if log == nil {
		log = logger.Discard()
	}
	return &DefaultConverterFactory{logger: log}
}

// ConverterFor returns the first converter that supports pair
func (f *DefaultConverterFactory) ConverterFor(pair types.FormatPair) (interfaces.Converter, error) {
	f.logger.Debug("Looking for converter for %s (%s) → %s (%s)",
		pair.InputExt, pair.InputCategory, pair.OutputExt, pair.OutputCategory)

	for _, converter := range f.converters {
		if converter.Supports(pair) {
			f.logger.Debug("Selected converter '%s'", converter.Name())
			return converter, nil
		}
	}

	return nil, utils.NewUnsupportedFormatError(fmt.Sprintf("Cannot convert %s to %s", pair.InputExt, pair.OutputExt))
}

// RegisterConverter appends a converter to the dispatch order
func (f *DefaultConverterFactory) RegisterConverter(converter interfaces.Converter) {
	f.converters = append(f.converters, converter)
	f.logger.Debug("Registered converter: %s", converter.Name())
}

// ListConverters returns converter names in dispatch order
func (f *DefaultConverterFactory) ListConverters() []string {
	names := make([]string, 0, len(f.converters))
	for _, converter := range f.converters {
		names = append(names, converter.Name())
	}
	return names
}

func (f *DefaultConverterFactory) registerDefaultConverters(finder interfaces.ToolFinder, htmlMode string) {
	images := providers.NewImageConverter(f.logger)
	media := providers.NewMediaConverter(finder, f.logger)
	office := providers.NewOfficeConverter(finder, nil, f.logger)

	f.RegisterConverter(images)
	f.RegisterConverter(providers.NewImagePDFConverter(images))
	f.RegisterConverter(providers.NewPdfRasterizer(finder, images, media, nil, f.logger))
	f.RegisterConverter(providers.NewDocumentConverter(office, htmlMode, f.logger))
	f.RegisterConverter(media)

	f.logger.Debug("Registered %d converters: %v", len(f.converters), f.ListConverters())
}
