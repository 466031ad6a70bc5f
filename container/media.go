package container

import (
	"bytes"
	"image"
	"path"
	"strings"

	// Raster codecs registered for image.DecodeConfig. The engine never
	// decodes pixel data, only header dimensions.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Media is a raw media blob with sniffed metadata.
type Media struct {
	Data     []byte
	MimeType string
	Width    int
	Height   int
}

// Media loads a media part by name and sniffs its type and, for raster
// formats, its dimensions.
func (p *Package) Media(name string) (Media, bool) {
	data, ok := p.Part(name)
	if !ok {
		return Media{}, false
	}
	m := Media{
		Data:     data,
		MimeType: sniffMime(data, name),
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		m.Width = cfg.Width
		m.Height = cfg.Height
	}
	return m, true
}

// MediaTarget resolves a relationship id on the owner part to a media blob.
func (p *Package) MediaTarget(owner, relID string) (Media, bool) {
	target, ok := p.RelTarget(owner, relID)
	if !ok {
		return Media{}, false
	}
	return p.Media(target)
}

// sniffMime determines a media mime type by magic bytes, falling back to the
// part extension.
func sniffMime(data []byte, name string) string {
	switch {
	case len(data) >= 8 && bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "image/png"
	case len(data) >= 3 && bytes.HasPrefix(data, []byte("\xff\xd8\xff")):
		return "image/jpeg"
	case len(data) >= 6 && (bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a"))):
		return "image/gif"
	case len(data) >= 2 && bytes.HasPrefix(data, []byte("BM")):
		return "image/bmp"
	case len(data) >= 4 && (bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*"))):
		return "image/tiff"
	case len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return "image/webp"
	case bytes.Contains(bytes.TrimSpace(firstBytes(data, 256)), []byte("<svg")):
		return "image/svg+xml"
	}

	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	case ".tif", ".tiff":
		return "image/tiff"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".emf":
		return "image/x-emf"
	case ".wmf":
		return "image/x-wmf"
	default:
		return "application/octet-stream"
	}
}

func firstBytes(data []byte, n int) []byte {
	if len(data) < n {
		return data
	}
	return data[:n]
}
