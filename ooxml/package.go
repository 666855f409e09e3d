package ooxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

var (
	// ErrCorruptPackage is returned when the container is not a readable ZIP.
	ErrCorruptPackage = errors.New("ooxml: corrupt package")
	// ErrPartNotFound is returned when a requested part is absent.
	ErrPartNotFound = errors.New("ooxml: part not found")
)

// maxPartSize bounds the bytes read from a single part.
const maxPartSize = 256 << 20

// Package is an opened OOXML container.
type Package struct {
	closer       io.Closer
	files        map[string]*zip.File
	folded       map[string]string
	names        []string
	contentTypes *ContentTypes
	rels         map[string]*Rels
}

// Open opens the package at filename.
func Open(filename string) (*Package, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w: %v", ErrCorruptPackage, err)
	}
	p := newPackage(zr.File)
	p.closer = zr
	return p, nil
}

// FromBytes opens a package held in memory.
func FromBytes(data []byte) (*Package, error) {
	return FromReader(bytes.NewReader(data), int64(len(data)))
}

// FromReader opens a package from r.
func FromReader(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w: %v", ErrCorruptPackage, err)
	}
	return newPackage(zr.File), nil
}

func newPackage(files []*zip.File) *Package {
	p := &Package{
		files:  make(map[string]*zip.File, len(files)),
		folded: make(map[string]string, len(files)),
		rels:   make(map[string]*Rels),
	}
	for _, f := range files {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		name := strings.TrimPrefix(f.Name, "/")
		p.files[name] = f
		p.folded[strings.ToLower(name)] = name
		p.names = append(p.names, name)
	}
	sort.Strings(p.names)
	return p
}

// Close releases the underlying file, if any.
func (p *Package) Close() error {
	if p.closer != nil {
		err := p.closer.Close()
		p.closer = nil
		return err
	}
	return nil
}

func (p *Package) lookup(name string) *zip.File {
	name = strings.TrimPrefix(name, "/")
	if f, ok := p.files[name]; ok {
		return f
	}
	// Part names are case-insensitive.
	if real, ok := p.folded[strings.ToLower(name)]; ok {
		return p.files[real]
	}
	return nil
}

// Has reports whether the package contains the named part.
func (p *Package) Has(name string) bool {
	return p.lookup(name) != nil
}

// Part reads the named part.
func (p *Package) Part(name string) ([]byte, error) {
	f := p.lookup(name)
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, maxPartSize))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

// XML reads and parses the named part.
func (p *Package) XML(name string) (*Node, error) {
	data, err := p.Part(name)
	if err != nil {
		return nil, err
	}
	n, err := ParseXML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return n, nil
}

// Files returns the sorted names of all parts starting with prefix.
func (p *Package) Files(prefix string) []string {
	prefix = strings.TrimPrefix(prefix, "/")
	var out []string
	for _, name := range p.names {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	return out
}

// ContentType returns the declared content type of a part: an Override for
// the exact part wins over the Default for its extension.
func (p *Package) ContentType(name string) string {
	if p.contentTypes == nil {
		p.contentTypes = &ContentTypes{}
		if data, err := p.Part("[Content_Types].xml"); err == nil {
			if ct, err := ParseContentTypes(data); err == nil {
				p.contentTypes = ct
			}
		}
	}
	return p.contentTypes.Lookup(name)
}

// HasContentTypes reports whether the package declares [Content_Types].xml.
func (p *Package) HasContentTypes() bool {
	return p.Has("[Content_Types].xml")
}

// Relationships returns the relationships of part (read from
// "<dir>/_rels/<base>.rels"). Pass "" for the package-level relationships.
// A missing or malformed rels part yields an empty set.
func (p *Package) Relationships(part string) *Rels {
	part = strings.TrimPrefix(part, "/")
	if r, ok := p.rels[part]; ok {
		return r
	}
	r := &Rels{source: part, byID: map[string]Relationship{}}
	if data, err := p.Part(RelsPath(part)); err == nil {
		if parsed, err := ParseRels(part, data); err == nil {
			r = parsed
		}
	}
	p.rels[part] = r
	return r
}

// MainDocument returns the main document part name from the package
// relationships, falling back to word/document.xml.
func (p *Package) MainDocument() string {
	for _, rel := range p.Relationships("").ByType(RelOfficeDocument) {
		if target := rel.TargetPath(); p.Has(target) {
			return target
		}
	}
	return "word/document.xml"
}

// RelsPath returns the relationships part name for part.
func RelsPath(part string) string {
	if part == "" {
		return "_rels/.rels"
	}
	dir, base := path.Split(part)
	return dir + "_rels/" + base + ".rels"
}

// ContentTypes is the parsed [Content_Types].xml.
type ContentTypes struct {
	defaults  map[string]string
	overrides map[string]string
}

type contentTypesXML struct {
	XMLName   xml.Name `xml:"Types"`
	Defaults  []struct {
		Extension   string `xml:"Extension,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Default"`
	Overrides []struct {
		PartName    string `xml:"PartName,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Override"`
}

// ParseContentTypes parses a [Content_Types].xml part.
func ParseContentTypes(data []byte) (*ContentTypes, error) {
	var raw contentTypesXML
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling content types: %w", err)
	}
	ct := &ContentTypes{
		defaults:  make(map[string]string, len(raw.Defaults)),
		overrides: make(map[string]string, len(raw.Overrides)),
	}
	for _, d := range raw.Defaults {
		ct.defaults[strings.ToLower(d.Extension)] = d.ContentType
	}
	for _, o := range raw.Overrides {
		ct.overrides[strings.ToLower(strings.TrimPrefix(o.PartName, "/"))] = o.ContentType
	}
	return ct, nil
}

// Lookup returns the content type for name, or "".
func (ct *ContentTypes) Lookup(name string) string {
	if ct == nil {
		return ""
	}
	key := strings.ToLower(strings.TrimPrefix(name, "/"))
	if v, ok := ct.overrides[key]; ok {
		return v
	}
	ext := strings.TrimPrefix(path.Ext(key), ".")
	return ct.defaults[ext]
}

// Overrides returns every overridden part name with its content type.
func (ct *ContentTypes) Overrides() map[string]string {
	if ct == nil {
		return nil
	}
	return ct.overrides
}
