package docx

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"path"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/farid-asgarli/pdf-template-builder-sub000/units"
)

// mediaPrefix is where Word stores embedded pictures.
const mediaPrefix = "word/media/"

var imageExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".jfif": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".emf":  "image/x-emf",
	".wmf":  "image/x-wmf",
	".wdp":  "image/vnd.ms-photo",
}

// imageContentType determines a media part's content type from
// [Content_Types].xml, then its extension, then its bytes.
func (c *converter) imageContentType(name string, data []byte) string {
	if ct := c.pkg.ContentType(name); ct != "" && ct != "application/octet-stream" {
		return ct
	}
	if ct, ok := imageExtensions[strings.ToLower(path.Ext(name))]; ok {
		return ct
	}
	if len(data) > 0 {
		return http.DetectContentType(data)
	}
	return "application/octet-stream"
}

// nativeSizeMM decodes the pixel size of data at 96 dpi. ok is false for
// formats image.DecodeConfig cannot read (EMF, WMF, SVG).
func nativeSizeMM(data []byte) (w, h float64, ok bool) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, false
	}
	return units.PixelsToMM(float64(cfg.Width)), units.PixelsToMM(float64(cfg.Height)), true
}

// loadImage reads the media part behind relID and marks it as referenced.
func (c *converter) loadImage(pc *partContext, relID string) (*Image, error) {
	rel, ok := pc.rels.Get(relID)
	if !ok {
		return nil, fmt.Errorf("unresolved image relationship %s", relID)
	}
	if rel.IsExternal() {
		return nil, fmt.Errorf("linked image %s skipped", rel.Target)
	}
	target := rel.TargetPath()
	data, err := c.pkg.Part(target)
	if err != nil {
		return nil, fmt.Errorf("image %s: %w", target, err)
	}
	c.usedMedia[strings.ToLower(target)] = true

	img := &Image{
		RelID:       relID,
		Part:        target,
		FileName:    path.Base(target),
		ContentType: c.imageContentType(target, data),
		Position:    PositionInline,
		Wrap:        "inline",
	}
	if w, h, ok := nativeSizeMM(data); ok {
		img.WidthMM, img.HeightMM = w, h
	}
	if !c.opts.SkipImages {
		img.Data = data
	}
	return img, nil
}

// recoverOrphanImages emits every media image no drawing referenced as an
// inline image at the end of the body.
func (c *converter) recoverOrphanImages() {
	if c.opts.SkipOrphanImages {
		return
	}
	for _, name := range c.pkg.Files(mediaPrefix) {
		if c.usedMedia[strings.ToLower(name)] {
			continue
		}
		c.safely(name, "orphanImage", func() error {
			data, err := c.pkg.Part(name)
			if err != nil {
				return err
			}
			ct := c.imageContentType(name, data)
			if !strings.HasPrefix(ct, "image/") {
				return nil
			}
			img := &Image{
				Part:        name,
				FileName:    path.Base(name),
				ContentType: ct,
				Position:    PositionInline,
				Wrap:        "inline",
				IsOrphan:    true,
			}
			if w, h, ok := nativeSizeMM(data); ok {
				img.WidthMM, img.HeightMM = w, h
			}
			if !c.opts.SkipImages {
				img.Data = data
			}
			c.usedMedia[strings.ToLower(name)] = true
			c.out.Images = append(c.out.Images, img)
			c.out.Elements = append(c.out.Elements, Element{Type: ElementImage, Image: img})
			return nil
		})
	}
}

// recognizable lists the formats an alt-text recognizer can read.
var recognizable = map[string]bool{
	"image/png": true, "image/jpeg": true, "image/gif": true,
	"image/bmp": true, "image/tiff": true, "image/webp": true,
}

// recognizeAltText fills missing alt text through Options.AltText. The
// first recognizer error stops the pass with a single warning.
func (c *converter) recognizeAltText() {
	if c.opts.AltText == nil {
		return
	}
	for _, img := range c.out.Images {
		if img.AltText != "" || !recognizable[img.ContentType] {
			continue
		}
		data := img.Data
		if len(data) == 0 && img.Part != "" {
			var err error
			if data, err = c.pkg.Part(img.Part); err != nil {
				continue
			}
		}
		text, err := c.opts.AltText.RecognizeImage(data)
		if err != nil {
			c.warn(img.Part, "altText", err)
			return
		}
		img.AltText = strings.TrimSpace(text)
	}
}
