package ooxml

import (
	"encoding/xml"
	"fmt"
	"path"
	"strings"
)

// Relationship type suffixes. ByType matches on the final path segment of
// the type URI, so both transitional and strict URIs are recognised.
const (
	RelOfficeDocument   = "officeDocument"
	RelCoreProperties   = "core-properties"
	RelExtendedProps    = "extended-properties"
	RelStyles           = "styles"
	RelNumbering        = "numbering"
	RelSettings         = "settings"
	RelTheme            = "theme"
	RelHeader           = "header"
	RelFooter           = "footer"
	RelFootnotes        = "footnotes"
	RelEndnotes         = "endnotes"
	RelComments         = "comments"
	RelCommentsExtended = "commentsExtended"
	RelImage            = "image"
	RelHyperlink        = "hyperlink"
	RelChart            = "chart"
	RelDiagramData      = "diagramData"
	RelDiagramLayout    = "diagramLayout"
	RelOLEObject        = "oleObject"
	RelPackage          = "package"
	RelCustomXML        = "customXml"
	RelCustomXMLProps   = "customXmlProps"
	RelVBAProject       = "vbaProject"
	RelWorksheet        = "worksheet"
	RelSharedStrings    = "sharedStrings"
	targetModeExternal  = "External"
)

// Relationship is one entry of a .rels part.
type Relationship struct {
	ID         string
	Type       string
	Target     string
	TargetMode string
	source     string
}

// IsExternal reports whether the target is outside the package.
func (r Relationship) IsExternal() bool {
	return strings.EqualFold(r.TargetMode, targetModeExternal)
}

// TypeName returns the last segment of the relationship type URI.
func (r Relationship) TypeName() string {
	return path.Base(r.Type)
}

// TargetPath returns the package part name the target resolves to. External
// targets are returned unchanged.
func (r Relationship) TargetPath() string {
	if r.IsExternal() {
		return r.Target
	}
	return ResolveTarget(r.source, r.Target)
}

// Rels is the relationship set of one source part.
type Rels struct {
	source string
	list   []Relationship
	byID   map[string]Relationship
}

type relationshipsXML struct {
	XMLName       xml.Name `xml:"Relationships"`
	Relationships []struct {
		ID         string `xml:"Id,attr"`
		Type       string `xml:"Type,attr"`
		Target     string `xml:"Target,attr"`
		TargetMode string `xml:"TargetMode,attr"`
	} `xml:"Relationship"`
}

// ParseRels parses the .rels data belonging to source.
func ParseRels(source string, data []byte) (*Rels, error) {
	var raw relationshipsXML
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling relationships: %w", err)
	}
	r := &Rels{source: source, byID: make(map[string]Relationship, len(raw.Relationships))}
	for _, x := range raw.Relationships {
		rel := Relationship{ID: x.ID, Type: x.Type, Target: x.Target, TargetMode: x.TargetMode, source: source}
		r.list = append(r.list, rel)
		r.byID[rel.ID] = rel
	}
	return r, nil
}

// Source returns the part these relationships belong to.
func (r *Rels) Source() string {
	if r == nil {
		return ""
	}
	return r.source
}

// Get returns the relationship with the given id.
func (r *Rels) Get(id string) (Relationship, bool) {
	if r == nil {
		return Relationship{}, false
	}
	rel, ok := r.byID[id]
	return rel, ok
}

// Target returns the resolved target path for id, or "".
func (r *Rels) Target(id string) string {
	rel, ok := r.Get(id)
	if !ok {
		return ""
	}
	return rel.TargetPath()
}

// All returns every relationship in declaration order.
func (r *Rels) All() []Relationship {
	if r == nil {
		return nil
	}
	return r.list
}

// ByType returns relationships whose type URI ends in "/"+typeName.
func (r *Rels) ByType(typeName string) []Relationship {
	if r == nil {
		return nil
	}
	var out []Relationship
	for _, rel := range r.list {
		if rel.TypeName() == typeName {
			out = append(out, rel)
		}
	}
	return out
}

// ResolveTarget resolves a relationship target relative to the source part.
// Targets beginning with "/" are package-absolute.
func ResolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	joined := path.Join(path.Dir(source), target)
	return strings.TrimPrefix(path.Clean(joined), "/")
}
