package docx

import (
	"fmt"
	"path"
	"strings"

	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
	"github.com/farid-asgarli/pdf-template-builder-sub000/xlsx"
)

// embeddedObject converts a w:object: the OLE payload is recorded and its
// VML preview picture is emitted like any other image.
func (c *converter) embeddedObject(b *paraBuilder, obj *ooxml.Node) error {
	ole := obj.Child("OLEObject")
	shape := obj.Child("v:shape")
	if ole == nil {
		if shape != nil {
			return c.vmlPicture(b, obj)
		}
		return fmt.Errorf("object without OLE payload")
	}

	eo := &EmbeddedObject{
		RelID:  ole.Attr("r:id"),
		ProgID: ole.Attr("ProgID"),
	}
	if shape != nil {
		style := parseVMLStyle(shape.Attr("style"))
		eo.WidthMM = vmlPosition(style, "width")
		eo.HeightMM = vmlPosition(style, "height")
		eo.PreviewImageRelID = firstAttr(shape.Child("imagedata"), "r:id", "r:pict")
	}

	if rel, ok := b.pc.rels.Get(eo.RelID); ok && !rel.IsExternal() {
		eo.Part = rel.TargetPath()
		eo.FileName = path.Base(eo.Part)
		data, err := c.pkg.Part(eo.Part)
		if err != nil {
			c.warn(b.pc.name, "OLEObject", err)
		} else {
			eo.ContentType = c.pkg.ContentType(eo.Part)
			if eo.ContentType == "" {
				eo.ContentType = "application/vnd.openxmlformats-officedocument.oleObject"
			}
			if !c.opts.SkipImages {
				eo.Data = data
			}
			if isWorkbook(eo) {
				c.previewWorkbook(eo, data)
			}
		}
	} else if eo.RelID != "" {
		c.warnf(b.pc.name, "OLEObject", "unresolved relationship %s", eo.RelID)
	}
	c.out.EmbeddedObjects = append(c.out.EmbeddedObjects, eo)

	if eo.PreviewImageRelID != "" {
		img, err := c.loadImage(b.pc, eo.PreviewImageRelID)
		if err != nil {
			return err
		}
		img.WidthMM, img.HeightMM = nonZero(eo.WidthMM, img.WidthMM), nonZero(eo.HeightMM, img.HeightMM)
		img.Title = eo.ProgID
		c.placeImage(b, img, eo.ProgID)
	}
	return nil
}

// previewRows caps the rows kept from an embedded workbook.
const previewRows = 20

func isWorkbook(eo *EmbeddedObject) bool {
	if strings.Contains(eo.ContentType, "spreadsheetml") {
		return true
	}
	switch strings.ToLower(path.Ext(eo.Part)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

// previewWorkbook records the first worksheet of an embedded workbook.
func (c *converter) previewWorkbook(eo *EmbeddedObject, data []byte) {
	wb, err := xlsx.FromBytes(data)
	if err != nil {
		c.warn(eo.Part, "OLEObject", err)
		return
	}
	sheet := wb.Sheets[0]
	eo.PreviewSheet = sheet.Name
	eo.Preview = sheet.Rows(previewRows)
}

func nonZero(a, b float64) float64 {
	if a != 0 {
		return a
	}
	return b
}
