package docx

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
	"github.com/farid-asgarli/pdf-template-builder-sub000/units"
)

// corePropertiesXML represents docProps/core.xml (Dublin Core metadata)
type corePropertiesXML struct {
	XMLName        xml.Name `xml:"coreProperties"`
	Title          string   `xml:"title"`
	Subject        string   `xml:"subject"`
	Creator        string   `xml:"creator"`
	Keywords       string   `xml:"keywords"`
	Description    string   `xml:"description"`
	LastModifiedBy string   `xml:"lastModifiedBy"`
	Revision       string   `xml:"revision"`
	Created        string   `xml:"created"`
	Modified       string   `xml:"modified"`
	Category       string   `xml:"category"`
	Language       string   `xml:"language"`
}

// appPropertiesXML represents docProps/app.xml
type appPropertiesXML struct {
	XMLName     xml.Name `xml:"Properties"`
	Template    string   `xml:"Template"`
	Pages       string   `xml:"Pages"`
	Words       string   `xml:"Words"`
	Application string   `xml:"Application"`
	Company     string   `xml:"Company"`
}

func (c *converter) loadProperties() {
	props := &c.out.CoreProperties

	corePart := c.packagePartFor(ooxml.RelCoreProperties, "docProps/core.xml")
	if data, ok := c.readOptional(corePart); ok {
		var core corePropertiesXML
		if err := xml.Unmarshal(data, &core); err != nil {
			c.warn(corePart, "coreProperties", err)
		} else {
			props.Title = strings.TrimSpace(core.Title)
			props.Subject = strings.TrimSpace(core.Subject)
			props.Author = strings.TrimSpace(core.Creator)
			props.Description = core.Description
			props.LastModifiedBy = core.LastModifiedBy
			props.Revision = core.Revision
			props.Category = core.Category
			props.Created = core.Created
			props.Modified = core.Modified
			props.Keywords = splitKeywords(core.Keywords)
			if core.Language != "" {
				props.Language = canonicalLanguage(core.Language)
			}
		}
	}

	appPart := c.packagePartFor(ooxml.RelExtendedProps, "docProps/app.xml")
	if data, ok := c.readOptional(appPart); ok {
		var app appPropertiesXML
		if err := xml.Unmarshal(data, &app); err != nil {
			c.warn(appPart, "Properties", err)
		} else {
			props.Application = app.Application
			props.Company = app.Company
			props.Template = app.Template
			props.Pages, _ = strconv.Atoi(strings.TrimSpace(app.Pages))
			props.Words, _ = strconv.Atoi(strings.TrimSpace(app.Words))
		}
	}
}

// splitKeywords splits a keyword list on commas or semicolons.
func splitKeywords(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// packagePartFor resolves a package-level relationship from _rels/.rels.
func (c *converter) packagePartFor(relType, fallback string) string {
	for _, rel := range c.pkg.Relationships("").ByType(relType) {
		if target := rel.TargetPath(); !rel.IsExternal() && c.pkg.Has(target) {
			return target
		}
	}
	if c.pkg.Has(fallback) {
		return fallback
	}
	return ""
}

func (c *converter) readOptional(part string) ([]byte, bool) {
	if part == "" {
		return nil, false
	}
	data, err := c.pkg.Part(part)
	if err != nil {
		c.warn(part, "", err)
		return nil, false
	}
	return data, true
}

func (c *converter) loadSettings() {
	part := c.partFor(ooxml.RelSettings, "word/settings.xml")
	root := c.optionalXML(part)
	c.out.Settings = parseSettings(root)
	if c.out.Settings.TrackRevisions {
		c.sawTrack = true
	}
}

// parseSettings reads the word/settings.xml values the importer uses. A
// nil root yields Word's defaults.
func parseSettings(root *ooxml.Node) Settings {
	s := Settings{DefaultTabStopMM: units.TwipsToMM(720)}
	if root == nil {
		return s
	}
	if v := root.Val("defaultTabStop"); v != "" {
		if mm := units.ParseTwips(v); mm > 0 {
			s.DefaultTabStopMM = mm
		}
	}
	s.EvenAndOddHeaders = onOff(root.Child("evenAndOddHeaders"))
	s.TrackRevisions = onOff(root.Child("trackRevisions"))
	s.MirrorMargins = onOff(root.Child("mirrorMargins"))
	s.UpdateFields = onOff(root.Child("updateFields"))
	return s
}

// onOff evaluates an OOXML toggle element: absent is off, present without
// a val is on.
func onOff(n *ooxml.Node) bool {
	if n == nil {
		return false
	}
	if !n.HasAttr("val") {
		return true
	}
	return units.ParseOnOff(n.Attr("val"))
}
