package core

import (
	"context"

	"github.com/nodewee/file-converter/pkg/formats"
	"github.com/nodewee/file-converter/pkg/interfaces"
	"github.com/nodewee/file-converter/pkg/providers"
	"github.com/nodewee/file-converter/pkg/types"
)

// Capabilities answers which conversions are possible with the tools
// installed right now. Tool presence is re-probed on every call.
type Capabilities struct {
	tools interfaces.ToolInventory
}

// NewCapabilities creates a capability query over inventory
func NewCapabilities(inventory interfaces.ToolInventory) *Capabilities {
	return &Capabilities{tools: inventory}
}

// ToolAvailability snapshots FFmpeg, LibreOffice and Pandoc
func (c *Capabilities) ToolAvailability(ctx context.Context) types.ToolAvailability {
	return c.tools.Availability(ctx)
}

// ListSupportedTargets lists the targets offered for an input extension,
// without the input's own format. Office and e-book targets appear only
// when LibreOffice or Pandoc is installed.
func (c *Capabilities) ListSupportedTargets(ctx context.Context, from string) []string {
	category := formats.CategoryOf(from)
	targets := formats.TargetsFor(category)
	if targets == nil {
		return []string{}
	}

	if category == types.CategoryDocument {
		available := c.tools.Availability(ctx)
		if available.LibreOffice {
			targets = append(targets, formats.DocumentOfficeTargets...)
		}
		if available.Pandoc {
			targets = append(targets, formats.DocumentEbookTargets...)
		}
	}

	return formats.Without(targets, from)
}

// IsPairSupported reports whether converting from → to would be attempted
// with a working backend. It follows the router's dispatch order.
func (c *Capabilities) IsPairSupported(ctx context.Context, from, to string) bool {
	pair := classify("x."+formats.Normalize(from), to)
	_, encodable := formats.ImageEncoding(pair.OutputExt)

	switch {
	case pair.InputCategory == types.CategoryImage && pair.OutputCategory == types.CategoryImage:
		return encodable
	case pair.InputCategory == types.CategoryImage && pair.OutputExt == "pdf":
		return true
	case pair.InputExt == "pdf" && pair.OutputCategory == types.CategoryImage && encodable:
		return true
	case pair.InputCategory == types.CategoryDocument || pair.OutputCategory == types.CategoryDocument:
		return c.documentPairSupported(ctx, pair)
	case pair.InputCategory == types.CategoryAudio && pair.OutputCategory == types.CategoryAudio,
		pair.InputCategory == types.CategoryVideo && pair.OutputCategory == types.CategoryVideo,
		pair.InputCategory == types.CategoryVideo && pair.OutputCategory == types.CategoryAudio:
		if pair.OutputExt == "ape" {
			return false
		}
		_, ok := c.tools.Locate(ctx, types.ToolFFmpeg)
		return ok
	default:
		return false
	}
}

func (c *Capabilities) documentPairSupported(ctx context.Context, pair types.FormatPair) bool {
	tool, ok := providers.DocumentBackend(pair.InputExt, pair.OutputExt)
	if !ok {
		return false
	}
	switch tool {
	case "":
		return true
	case types.ToolLibreOffice:
		if !providers.LibreOfficeCanWrite(pair.OutputExt) {
			return false
		}
	}
	_, found := c.tools.Locate(ctx, tool)
	return found
}
