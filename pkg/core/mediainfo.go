package core

import (
	"context"
	"errors"
	"image"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nodewee/file-converter/pkg/formats"
	"github.com/nodewee/file-converter/pkg/logger"
	"github.com/nodewee/file-converter/pkg/providers"
	"github.com/nodewee/file-converter/pkg/types"
	"github.com/nodewee/file-converter/pkg/utils"
)

// durationProber reads the playing time of audio and video files
type durationProber interface {
	ProbeDuration(ctx context.Context, path string) (float64, bool)
}

// MediaProber collects basic facts about a file
type MediaProber struct {
	durations durationProber
	logger    *logger.Logger
}

// NewMediaProber creates a prober. durations may be nil, in which case no
// duration is reported.
func NewMediaProber(durations durationProber, log *logger.Logger) *MediaProber {
	if log == nil {
		log = logger.Discard()
	}
	return &MediaProber{durations: durations, logger: log}
}

// MediaInfo describes path. Dimensions come from the image header,
// duration from FFmpeg; either is omitted when it cannot be determined.
func (p *MediaProber) MediaInfo(ctx context.Context, path string, withChecksum bool) (*types.MediaInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, utils.NewInputNotFoundError(path)
		}
		return nil, utils.NewReadError(err)
	}

	ext := formats.ExtensionOf(path)
	info := &types.MediaInfo{
		Name:      filepath.Base(path),
		Size:      uint64(stat.Size()),
		Extension: ext,
		Category:  formats.CategoryOf(ext),
	}

	if mimeType, err := utils.DetectMimeType(path); err == nil {
		info.MimeType = mimeType
	} else {
		p.logger.Debug("MIME detection failed for %s: %v", path, err)
	}

	switch info.Category {
	case types.CategoryImage:
		if w, h, ok := p.dimensions(path, ext); ok {
			info.Width, info.Height = &w, &h
		}
	case types.CategoryAudio, types.CategoryVideo:
		if p.durations != nil {
			if seconds, ok := p.durations.ProbeDuration(ctx, path); ok {
				info.Duration = &seconds
			}
		}
	}

	if withChecksum {
		sum, err := utils.CalculateFileMD5(path)
		if err != nil {
			return nil, utils.NewReadError(err)
		}
		info.MD5Hash = sum
	}

	return info, nil
}

// dimensions reads the pixel size without decoding the whole image
func (p *MediaProber) dimensions(path, ext string) (uint32, uint32, bool) {
	if ext == "svg" {
		data, err := os.ReadFile(path)
		if err != nil {
			return 0, 0, false
		}
		w, h, err := providers.SVGSize(data)
		if err != nil || w <= 0 || h <= 0 {
			return 0, 0, false
		}
		return uint32(w), uint32(h), true
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, 0, false
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		p.logger.Debug("No image header in %s: %v", path, err)
		return 0, 0, false
	}
	p.logger.Debug("%s is %s %dx%d", path, format, cfg.Width, cfg.Height)
	return uint32(cfg.Width), uint32(cfg.Height), true
}
