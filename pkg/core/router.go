package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/nodewee/file-converter/pkg/constants"
	"github.com/nodewee/file-converter/pkg/formats"
	"github.com/nodewee/file-converter/pkg/interfaces"
	"github.com/nodewee/file-converter/pkg/logger"
	"github.com/nodewee/file-converter/pkg/types"
	"github.com/nodewee/file-converter/pkg/utils"
)

// Router turns a conversion request into exactly one converter call. It
// holds no per-request state and is safe for concurrent use.
type Router struct {
	factory interfaces.ConverterFactory
	logger  *logger.Logger
}

// NewRouter creates a router over factory
func NewRouter(factory interfaces.ConverterFactory, log *logger.Logger) *Router {
	if log == nil {
		log = logger.Discard()
	}
	return &Router{factory: factory, logger: log}
}

// Convert runs one request. Failures are reported in the result, never as
// a Go error, and leave no output file behind.
func (r *Router) Convert(ctx context.Context, req *types.ConversionRequest) *types.ConversionResult {
	startTime := time.Now()

	result, err := r.convert(ctx, req)
	if err != nil {
		r.logger.Error("%s: %v", filepath.Base(req.InputPath), err)
		return &types.ConversionResult{Success: false, Error: err.Error()}
	}

	r.logger.Progress("✅", "Converted %s → %s in %s", filepath.Base(req.InputPath), result.OutputPath,
		time.Since(startTime).Round(time.Millisecond))
	return result
}

func (r *Router) convert(ctx context.Context, req *types.ConversionRequest) (*types.ConversionResult, error) {
	info, err := os.Stat(req.InputPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, utils.NewInputNotFoundError(req.InputPath)
		}
		return nil, utils.NewReadError(err)
	}
	if info.IsDir() {
		return nil, utils.NewReadError(fmt.Errorf("%s is a directory", req.InputPath))
	}
	originalSize := uint64(info.Size())

	job := &types.ConversionJob{
		FormatPair: classify(req.InputPath, req.OutputFormat),
		InputPath:  req.InputPath,
		Quality:    clampQuality(req.Quality),
		Bitrate:    req.Bitrate,
		Page:       req.Page,
	}
	if job.OutputExt == "" {
		return nil, utils.NewUnsupportedFormatError("no output format given")
	}
	if req.PreserveMetadata {
		r.logger.Debug("preserve_metadata has no effect on any converter")
	}

	converter, err := r.factory.ConverterFor(job.FormatPair)
	if err != nil {
		return nil, err
	}

	out, err := utils.ResolveOutputPath(req.InputPath, job.OutputExt, req.OutputDir, req.Overwrite)
	if err != nil {
		return nil, err
	}
	job.OutputPath = out.Path

	r.logger.Info("Converting %s (%s) to %s with %s", req.InputPath, job.InputCategory, job.OutputPath, converter.Name())

	err = converter.Convert(ctx, job)
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		if releaseErr := out.Release(); releaseErr != nil {
			r.logger.Warn("Failed to remove %s: %v", out.Path, releaseErr)
		}
		return nil, err
	}

	newSize, err := utils.FileSize(out.Path)
	if err != nil {
		return nil, utils.NewWriteError(err)
	}

	return &types.ConversionResult{
		Success:      true,
		OutputPath:   out.Path,
		OriginalSize: &originalSize,
		NewSize:      &newSize,
	}, nil
}

// classify builds the format pair for a request. Known target tokens are
// canonicalised; unknown ones are kept so messages name what was asked for.
func classify(inputPath, outputFormat string) types.FormatPair {
	in := formats.ExtensionOf(inputPath)
	out := formats.Normalize(outputFormat)
	if canonical := formats.CanonicalExtension(out); canonical != constants.UnknownExtension {
		out = canonical
	}
	return types.FormatPair{
		InputExt:       in,
		OutputExt:      out,
		InputCategory:  formats.CategoryOf(in),
		OutputCategory: formats.CategoryOf(out),
	}
}

// clampQuality forces quality into 1..100
func clampQuality(quality int) int {
	return min(max(quality, constants.MinQuality), constants.MaxQuality)
}
