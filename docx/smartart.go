package docx

import (
	"fmt"
	"path"
	"strings"

	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
)

// smartArt reads the data model of a diagram. Node levels follow the
// parOf connection tree; the layout name comes from the layout part.
func (c *converter) smartArt(pc *partContext, relIDs *ooxml.Node, g drawingGeometry) (*SmartArt, error) {
	dmID := relIDs.Attr("r:dm")
	rel, ok := pc.rels.Get(dmID)
	if !ok {
		return nil, fmt.Errorf("unresolved diagram relationship %s", dmID)
	}
	root, err := c.pkg.XML(rel.TargetPath())
	if err != nil {
		return nil, fmt.Errorf("diagram %s: %w", rel.TargetPath(), err)
	}

	sa := &SmartArt{
		RelID:    dmID,
		Nodes:    parseDataModel(root),
		WidthMM:  g.widthMM,
		HeightMM: g.heightMM,
	}
	if lo, ok := pc.rels.Get(relIDs.Attr("r:lo")); ok {
		if layout, err := c.pkg.XML(lo.TargetPath()); err == nil {
			sa.Layout = path.Base(layout.Attr("uniqueId"))
		}
	}
	c.out.SmartArt = append(c.out.SmartArt, sa)
	return sa, nil
}

func parseDataModel(root *ooxml.Node) []SmartArtNode {
	parent := make(map[string]string)
	for _, cxn := range root.Child("cxnLst").Children("cxn") {
		if t := cxn.Attr("type"); t == "" || t == "parOf" {
			parent[cxn.Attr("destId")] = cxn.Attr("srcId")
		}
	}
	depth := func(id string) int {
		d := 0
		seen := map[string]bool{}
		for p, ok := parent[id]; ok && !seen[p]; p, ok = parent[p] {
			seen[p] = true
			d++
		}
		return d
	}

	var nodes []SmartArtNode
	for _, pt := range root.Child("ptLst").Children("pt") {
		if t := pt.Attr("type"); t != "" && t != "node" {
			continue
		}
		text := strings.TrimSpace(richText(pt.Child("t")))
		if text == "" {
			continue
		}
		// The document point is level 0; top-level nodes sit directly
		// below it.
		level := depth(pt.Attr("modelId")) - 1
		if level < 0 {
			level = 0
		}
		nodes = append(nodes, SmartArtNode{Text: text, Level: level})
	}
	return nodes
}
