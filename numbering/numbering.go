// Package numbering implements Word list numbering: the definition cache
// built from numbering.xml, the per-conversion counter state machine, and
// marker text formatting.
package numbering

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"

	"github.com/farid-asgarli/pdf-template-builder-sub000/units"
)

// MaxLevel is the deepest list level Word supports (0-based).
const MaxLevel = 8

// LevelInfo describes one level of a list definition.
type LevelInfo struct {
	Level         int
	Format        string // numFmt: decimal, bullet, lowerLetter, ...
	LevelText     string // lvlText pattern, e.g. "%1.%2."
	Start         int
	Justification string
	IndentLeftMM  float64
	HangingMM     float64
	// RestartAfterHigherLevel reports whether this level's counter resets
	// when a shallower level is used. <w:lvlRestart w:val="0"/> clears it.
	RestartAfterHigherLevel bool
	// RestartLevel is the 1-based w:lvlRestart value, or 0 when absent.
	RestartLevel int
	FontFamily   string
	IsLegal      bool
	Suffix       string // tab, space, nothing
}

// IsBullet reports whether the level renders a glyph rather than a number.
func (li *LevelInfo) IsBullet() bool {
	return li == nil || li.Format == "" || li.Format == "bullet"
}

func (li *LevelInfo) clone() *LevelInfo {
	c := *li
	return &c
}

// LevelOverride is a w:lvlOverride on a numbering instance.
type LevelOverride struct {
	Level         int
	StartOverride *int
	// LevelDef is a full level redefinition, or nil.
	LevelDef *LevelInfo
}

// Definition is a numbering instance (w:num) with its abstract levels
// resolved. It is immutable once the cache is built.
type Definition struct {
	NumID         string
	AbstractNumID string
	Levels        map[int]*LevelInfo
	Overrides     map[int]*LevelOverride
}

// Cache maps numId to its definition.
type Cache map[string]*Definition

// Get returns the definition for numID.
func (c Cache) Get(numID string) (*Definition, bool) {
	d, ok := c[numID]
	return d, ok
}

// PartSource reads package parts.
type PartSource interface {
	Has(name string) bool
	Part(name string) ([]byte, error)
}

// numberingXML represents word/numbering.xml
type numberingXML struct {
	XMLName      xml.Name         `xml:"numbering"`
	AbstractNums []abstractNumXML `xml:"abstractNum"`
	Nums         []numXML         `xml:"num"`
}

type abstractNumXML struct {
	AbstractNumID string   `xml:"abstractNumId,attr"`
	Levels        []lvlXML `xml:"lvl"`
	NumStyleLink  valXML   `xml:"numStyleLink"`
	StyleLink     valXML   `xml:"styleLink"`
}

type lvlXML struct {
	ILvl       string    `xml:"ilvl,attr"`
	Start      valXML    `xml:"start"`
	NumFmt     valXML    `xml:"numFmt"`
	LvlText    valXML    `xml:"lvlText"`
	LvlJc      valXML    `xml:"lvlJc"`
	LvlRestart *valXML   `xml:"lvlRestart"`
	IsLgl      *valXML   `xml:"isLgl"`
	Suffix     valXML    `xml:"suff"`
	PPr        lvlPPrXML `xml:"pPr"`
	RPr        lvlRPrXML `xml:"rPr"`
}

type lvlPPrXML struct {
	Ind struct {
		Left    string `xml:"left,attr"`
		Start   string `xml:"start,attr"`
		Hanging string `xml:"hanging,attr"`
	} `xml:"ind"`
}

type lvlRPrXML struct {
	Fonts struct {
		ASCII string `xml:"ascii,attr"`
		HAnsi string `xml:"hAnsi,attr"`
	} `xml:"rFonts"`
}

type numXML struct {
	NumID         string           `xml:"numId,attr"`
	AbstractNumID valXML           `xml:"abstractNumId"`
	Overrides     []lvlOverrideXML `xml:"lvlOverride"`
}

type lvlOverrideXML struct {
	ILvl          string  `xml:"ilvl,attr"`
	StartOverride *valXML `xml:"startOverride"`
	Lvl           *lvlXML `xml:"lvl"`
}

type valXML struct {
	Val string `xml:"val,attr"`
}

// BuildCache parses numbering.xml. Empty input yields an empty cache.
// Malformed XML yields an empty cache together with the parse error, which
// callers treat as a warning.
func BuildCache(data []byte) (Cache, error) {
	cache := Cache{}
	if len(data) == 0 {
		return cache, nil
	}
	var raw numberingXML
	if err := xml.Unmarshal(data, &raw); err != nil {
		return cache, fmt.Errorf("unmarshaling numbering.xml: %w", err)
	}

	abstracts := make(map[string]*abstractNumXML, len(raw.AbstractNums))
	for i := range raw.AbstractNums {
		an := &raw.AbstractNums[i]
		abstracts[an.AbstractNumID] = an
	}

	for _, num := range raw.Nums {
		an, ok := abstracts[num.AbstractNumID.Val]
		if !ok {
			continue
		}
		an = followStyleLink(an, raw.AbstractNums)

		def := &Definition{
			NumID:         num.NumID,
			AbstractNumID: num.AbstractNumID.Val,
			Levels:        make(map[int]*LevelInfo, len(an.Levels)),
			Overrides:     make(map[int]*LevelOverride),
		}
		for _, lvl := range an.Levels {
			li := parseLevel(lvl)
			if li.Level < 0 || li.Level > MaxLevel {
				continue
			}
			def.Levels[li.Level] = li
		}
		for _, o := range num.Overrides {
			ilvl := units.ParseInt(o.ILvl, -1)
			if ilvl < 0 || ilvl > MaxLevel {
				continue
			}
			ov := &LevelOverride{Level: ilvl}
			if o.StartOverride != nil {
				if v, err := strconv.Atoi(o.StartOverride.Val); err == nil {
					ov.StartOverride = &v
				}
			}
			if o.Lvl != nil {
				li := parseLevel(*o.Lvl)
				li.Level = ilvl
				ov.LevelDef = li
			}
			def.Overrides[ilvl] = ov
		}
		cache[def.NumID] = def
	}
	return cache, nil
}

// BuildCacheFromPart reads and parses the named numbering part. An absent
// part yields an empty cache and no error.
func BuildCacheFromPart(src PartSource, name string) (Cache, error) {
	if name == "" || !src.Has(name) {
		return Cache{}, nil
	}
	data, err := src.Part(name)
	if err != nil {
		return Cache{}, err
	}
	return BuildCache(data)
}

// followStyleLink resolves a numStyleLink one hop: an abstract definition
// that only points at a numbering style borrows the levels of the abstract
// that defines that style.
func followStyleLink(an *abstractNumXML, all []abstractNumXML) *abstractNumXML {
	link := an.NumStyleLink.Val
	if link == "" || len(an.Levels) > 0 {
		return an
	}
	for i := range all {
		if all[i].StyleLink.Val == link && len(all[i].Levels) > 0 {
			return &all[i]
		}
	}
	return an
}

func parseLevel(lvl lvlXML) *LevelInfo {
	li := &LevelInfo{
		Level:                   units.ParseInt(lvl.ILvl, 0),
		Format:                  lvl.NumFmt.Val,
		LevelText:               lvl.LvlText.Val,
		Start:                   units.ParseInt(lvl.Start.Val, 1),
		Justification:           units.Justification(lvl.LvlJc.Val),
		RestartAfterHigherLevel: true,
		Suffix:                  lvl.Suffix.Val,
		FontFamily:              lvl.RPr.Fonts.ASCII,
	}
	if li.Format == "" {
		li.Format = "bullet"
	}
	if li.FontFamily == "" {
		li.FontFamily = lvl.RPr.Fonts.HAnsi
	}
	if li.Suffix == "" {
		li.Suffix = "tab"
	}
	if lvl.LvlRestart != nil {
		li.RestartLevel = units.ParseInt(lvl.LvlRestart.Val, 0)
		if li.RestartLevel == 0 {
			li.RestartAfterHigherLevel = false
		}
	}
	if lvl.IsLgl != nil {
		li.IsLegal = units.ParseOnOff(lvl.IsLgl.Val)
	}
	left := lvl.PPr.Ind.Left
	if left == "" {
		left = lvl.PPr.Ind.Start
	}
	li.IndentLeftMM = units.ParseTwips(left)
	li.HangingMM = units.ParseTwips(lvl.PPr.Ind.Hanging)
	return li
}

// DefaultLevel synthesizes the bullet level used when neither the instance
// nor its abstract definition describes level.
func DefaultLevel(level int) *LevelInfo {
	return &LevelInfo{
		Level:                   level,
		Format:                  "bullet",
		LevelText:               "•",
		Start:                   1,
		Justification:           "left",
		IndentLeftMM:            units.MMPerInch * 0.25 * float64(level+1),
		HangingMM:               units.MMPerInch * 0.25,
		RestartAfterHigherLevel: true,
		Suffix:                  "tab",
	}
}

// EffectiveLevel resolves level through override, abstract definition, then
// a synthesized default bullet level.
func EffectiveLevel(def *Definition, level int) *LevelInfo {
	if def != nil {
		if ov, ok := def.Overrides[level]; ok && ov.LevelDef != nil {
			return ov.LevelDef
		}
		if li, ok := def.Levels[level]; ok {
			return li
		}
	}
	return DefaultLevel(level)
}

// StartValue resolves the start value of level: start override, then the
// effective level's start, then 1.
func StartValue(def *Definition, level int) int {
	if def != nil {
		if ov, ok := def.Overrides[level]; ok && ov.StartOverride != nil {
			return *ov.StartOverride
		}
	}
	if li := EffectiveLevel(def, level); li != nil {
		return li.Start
	}
	return 1
}

// ErrNoDefinition is returned by Lookup for an unknown numId.
var ErrNoDefinition = errors.New("numbering: no definition for numId")

// Lookup returns the definition for numID or ErrNoDefinition. numId "0" is
// Word's explicit "no list" marker and is reported as not found too.
func (c Cache) Lookup(numID string) (*Definition, error) {
	if numID == "" || numID == "0" {
		return nil, fmt.Errorf("%w %q", ErrNoDefinition, numID)
	}
	d, ok := c[numID]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrNoDefinition, numID)
	}
	return d, nil
}
