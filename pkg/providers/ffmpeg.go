package providers

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nodewee/file-converter/pkg/constants"
	"github.com/nodewee/file-converter/pkg/formats"
	"github.com/nodewee/file-converter/pkg/interfaces"
	"github.com/nodewee/file-converter/pkg/logger"
	"github.com/nodewee/file-converter/pkg/types"
	"github.com/nodewee/file-converter/pkg/utils"
)

// MediaConverter transcodes audio and video through FFmpeg
type MediaConverter struct {
	tools  interfaces.ToolFinder
	logger *logger.Logger
}

// NewMediaConverter creates an FFmpeg-backed converter
func NewMediaConverter(finder interfaces.ToolFinder, log *logger.Logger) *MediaConverter {
	if log == nil {
		log = logger.Discard()
	}
	return &MediaConverter{tools: finder, logger: log}
}

// Name returns the name of the converter
func (c *MediaConverter) Name() string {
	return "media"
}

// Supports accepts audio→audio, video→video and video→audio
func (c *MediaConverter) Supports(pair types.FormatPair) bool {
	switch pair.InputCategory {
	case types.CategoryAudio:
		return pair.OutputCategory == types.CategoryAudio
	case types.CategoryVideo:
		return pair.OutputCategory == types.CategoryVideo || pair.OutputCategory == types.CategoryAudio
	default:
		return false
	}
}

// Convert transcodes the job
func (c *MediaConverter) Convert(ctx context.Context, job *types.ConversionJob) error {
	return c.Transcode(ctx, job.InputPath, job.OutputPath, job.OutputExt, job.Quality, job.Bitrate)
}

// Transcode runs FFmpeg with the codec flags for format. An empty bitrate
// selects the per-codec default. An "ape" target always fails with
// UnsupportedFormat, whether or not FFmpeg is installed.
func (c *MediaConverter) Transcode(ctx context.Context, inputPath, outputPath, format string, quality int, bitrate string) error {
	if formats.Normalize(format) == "ape" {
		return utils.NewUnsupportedFormatError("APE encoding is not supported")
	}

	ffmpeg, ok := c.tools.Locate(ctx, types.ToolFFmpeg)
	if !ok {
		return utils.NewFFmpegNotFoundError()
	}

	args := BuildArgs(inputPath, outputPath, format, quality, bitrate)
	c.logger.Progress("🎬", "Transcoding %s to %s", filepath.Base(inputPath), formats.Normalize(format))
	c.logger.Debug("ffmpeg %s", strings.Join(args, " "))

	out, err := ffmpeg.Invoke(ctx, args...)
	if err != nil {
		return utils.NewFFmpegError(err.Error())
	}
	if !out.Success() {
		return utils.NewFFmpegError(string(out.Stderr))
	}
	return nil
}

// ProbeDuration asks FFmpeg for the duration of a media file in seconds
func (c *MediaConverter) ProbeDuration(ctx context.Context, path string) (float64, bool) {
	ffmpeg, ok := c.tools.Locate(ctx, types.ToolFFmpeg)
	if !ok {
		return 0, false
	}
	// ffmpeg exits non-zero without an output file; the header is still printed
	out, err := ffmpeg.Invoke(ctx, "-hide_banner", "-i", path)
	if err != nil {
		return 0, false
	}
	return ParseDuration(string(out.Stderr))
}

// ParseDuration extracts "Duration: HH:MM:SS.ss" from FFmpeg's stderr
func ParseDuration(stderr string) (float64, bool) {
	for _, line := range strings.Split(stderr, "\n") {
		_, rest, found := strings.Cut(line, "Duration:")
		if !found {
			continue
		}
		stamp, _, _ := strings.Cut(rest, ",")
		parts := strings.Split(strings.TrimSpace(stamp), ":")
		if len(parts) != 3 {
			return 0, false
		}
		var total float64
		for i, unit := range []float64{3600, 60, 1} {
			v, err := strconv.ParseFloat(parts[i], 64)
			if err != nil {
				return 0, false
			}
			total += v * unit
		}
		return total, true
	}
	return 0, false
}

// BuildArgs returns the FFmpeg argument list for a conversion. Targets
// without a codec table entry get no codec flags and FFmpeg picks defaults.
func BuildArgs(inputPath, outputPath, format string, quality int, bitrate string) []string {
	br := func(def string) string {
		if bitrate != "" {
			return bitrate
		}
		return def
	}
	crf := func(factor float64) string {
		return strconv.Itoa(int(float64(100-quality) * factor))
	}
	qv := func(div int) string {
		return strconv.Itoa((100 - quality) / div)
	}

	args := []string{"-i", inputPath, "-y"}

	switch formats.Normalize(format) {
	// audio
	case "mp3":
		args = append(args, "-c:a", "libmp3lame", "-b:a", br(constants.DefaultAudioBitrate))
	case "wav":
		args = append(args, "-c:a", "pcm_s16le")
	case "flac":
		args = append(args, "-c:a", "flac")
	case "ogg":
		args = append(args, "-c:a", "libvorbis", "-b:a", br(constants.DefaultAudioBitrate))
	case "aac", "m4a":
		args = append(args, "-c:a", "aac", "-b:a", br(constants.DefaultAudioBitrate))
	case "opus":
		args = append(args, "-c:a", "libopus", "-b:a", br(constants.DefaultOpusBitrate))
	case "wma":
		args = append(args, "-c:a", "wmav2", "-b:a", br(constants.DefaultAudioBitrate))
	case "aiff", "aif":
		args = append(args, "-c:a", "pcm_s16be")

	// video
	case "mp4":
		args = append(args, "-c:v", "libx264", "-crf", crf(0.51), "-preset", "medium",
			"-c:a", "aac", "-b:a", constants.DefaultAudioBitrate)
	case "webm":
		args = append(args, "-c:v", "libvpx-vp9", "-crf", crf(0.63), "-b:v", "0", "-c:a", "libopus")
	case "mkv":
		args = append(args, "-c:v", "libx264", "-crf", crf(0.51), "-c:a", "aac")
	case "avi":
		args = append(args, "-c:v", "libxvid", "-q:v", qv(4), "-c:a", "mp3")
	case "mov":
		args = append(args, "-c:v", "libx264", "-crf", crf(0.51), "-c:a", "aac", "-tag:v", "avc1")
	case "flv":
		args = append(args, "-c:v", "flv1", "-q:v", qv(10), "-c:a", "mp3")
	case "wmv":
		args = append(args, "-c:v", "wmv2", "-q:v", qv(10), "-c:a", "wmav2")
	case "3gp":
		args = append(args, "-c:v", "h263", "-s", "352x288", "-c:a", "aac", "-ar", "8000", "-ac", "1")
	case "mts", "m2ts":
		args = append(args, "-c:v", "libx264", "-c:a", "ac3")
	case "ts":
		args = append(args, "-c:v", "libx264", "-c:a", "aac", "-f", "mpegts")
	case "vob":
		args = append(args, "-c:v", "mpeg2video", "-c:a", "ac3")
	case "ogv":
		args = append(args, "-c:v", "libtheora", "-c:a", "libvorbis")
	}

	return append(args, outputPath)
}

