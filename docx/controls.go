package docx

import (
	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
	"github.com/farid-asgarli/pdf-template-builder-sub000/units"
)

// sdtTypes maps the type child of w:sdtPr to a control type, in the order
// they are checked.
var sdtTypes = []struct {
	child string
	typ   string
}{
	{"w:text", "plainText"},
	{"w:richText", "richText"},
	{"w:date", "date"},
	{"w:dropDownList", "dropDown"},
	{"w:comboBox", "comboBox"},
	{"w14:checkbox", "checkbox"},
	{"w:picture", "picture"},
	{"w15:repeatingSection", "repeatingSection"},
	{"w:docPartObj", "docPart"},
	{"w:docPartList", "docPart"},
	{"w:group", "group"},
	{"w:citation", "citation"},
	{"w:bibliography", "bibliography"},
	{"w:equation", "equation"},
}

// contentControl records a w:sdt. Its content is emitted by the caller.
func (c *converter) contentControl(pc *partContext, sdt *ooxml.Node) *ContentControl {
	pr := sdt.Child("sdtPr")
	cc := &ContentControl{
		ID:          pr.Val("id"),
		Tag:         pr.Val("tag"),
		Alias:       pr.Val("alias"),
		Type:        "richText",
		Locked:      pr.Val("lock"),
		Placeholder: pr.Child("showingPlcHdr") != nil && onOff(pr.Child("showingPlcHdr")),
		Text:        blockText(sdt.Child("sdtContent")),
	}

	typed := false
	for _, t := range sdtTypes {
		if pr.Child(t.child) != nil {
			cc.Type = t.typ
			typed = true
			break
		}
	}
	if !typed && hasUnknownType(pr) {
		cc.Type = "unknown"
	}

	switch cc.Type {
	case "date":
		d := pr.Child("w:date")
		cc.DateFormat = d.Val("dateFormat")
	case "dropDown", "comboBox":
		list := pr.Child("w:dropDownList")
		if list == nil {
			list = pr.Child("w:comboBox")
		}
		for _, item := range list.Children("listItem") {
			v := item.Attr("displayText")
			if v == "" {
				v = item.Attr("value")
			}
			cc.Options = append(cc.Options, v)
		}
	case "checkbox":
		cb := pr.Child("w14:checkbox")
		if checked := cb.Child("checked"); checked != nil {
			cc.Checked = units.ParseOnOff(checked.Attr("val"))
		}
	}

	c.out.ContentControls = append(c.out.ContentControls, cc)
	return cc
}

// hasUnknownType reports whether sdtPr carries a child that names a type
// the importer does not model.
func hasUnknownType(pr *ooxml.Node) bool {
	known := map[string]bool{
		"id": true, "tag": true, "alias": true, "lock": true, "showingPlcHdr": true,
		"placeholder": true, "rPr": true, "dataBinding": true, "temporary": true,
		"color": true, "appearance": true, "text": true, "richText": true,
		"webExtensionLinked": true, "webExtensionCreated": true,
	}
	for _, ch := range pr.Elements() {
		if !known[ch.Name()] {
			return true
		}
	}
	return false
}
