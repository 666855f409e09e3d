package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farid-asgarli/pdf-template-builder-sub000/model"
)

func TestResolve(t *testing.T) {
	b := Bindings{Variables: map[string]string{"name": "Ann"}}
	assert.Equal(t, "Dear Ann, page 2 of 7", b.Resolve("Dear {{name}}, page {{pageNumber}} of {{totalPages}}", 2, 7))
	assert.Equal(t, "Hi {{other}}", b.Resolve("Hi {{other}}", 1, 1))
	assert.Equal(t, "{{#if a}}broken", b.Resolve("{{#if a}}broken", 1, 1))
}

func TestTextPageNumber(t *testing.T) {
	c := model.NewComponent("p", model.ComponentPageNumber)
	assert.Equal(t, "3", Bindings{}.Text(c, 3, 4))
	assert.Equal(t, "Page 3/4", Bindings{PageNumberFormat: "Page {{pageNumber}}/{{totalPages}}"}.Text(c, 3, 4))

	c.Set(model.PropFormat, "- {{pageNumber}} -")
	assert.Equal(t, "- 3 -", Bindings{PageNumberFormat: "ignored"}.Text(c, 3, 4))

	text := model.NewComponent("t", model.ComponentText).Set(model.PropContent, "Total: {{amount}}")
	assert.Equal(t, "Total: 10", Bindings{Variables: map[string]string{"amount": "10"}}.Text(text, 1, 1))
}

func TestPageLayers(t *testing.T) {
	doc := model.NewDocument(model.A4())
	page := model.NewPage(210, 297)
	doc.AddPage(page)

	body := model.NewComponent("body", model.ComponentText)
	body.YMM, body.ZIndex = 30, 1
	wm := model.NewComponent("wm", model.ComponentText)
	wm.YMM, wm.ZIndex = 100, -1
	page.AddComponent(body)
	page.AddComponent(wm)

	head := model.NewComponent("head", model.ComponentText)
	head.YMM, head.ZIndex, head.HeightMM = 0, 1, 5
	doc.Headers[model.TemplateDefault] = &model.HeaderFooterContent{TemplateType: model.TemplateDefault, HeightMM: 5, Components: []*model.Component{head}}
	foot := model.NewComponent("foot", model.ComponentPageNumber)
	foot.YMM, foot.ZIndex, foot.HeightMM = 0, 1, 4
	doc.Footers[model.TemplateDefault] = &model.HeaderFooterContent{TemplateType: model.TemplateDefault, HeightMM: 4, Components: []*model.Component{foot}}

	layers := PageLayers(doc, 0)
	require.Len(t, layers, 4)
	ids := []string{layers[0].ID, layers[1].ID, layers[2].ID, layers[3].ID}
	assert.Equal(t, []string{"wm", "head", "body", "foot"}, ids)

	margins := doc.PageSettings.Margins
	assert.Equal(t, margins.Header, layers[1].Y)
	assert.Equal(t, LayerHeader, layers[1].Layer)
	assert.InDelta(t, 297-margins.Footer-4, layers[3].Y, 0.001)

	assert.Nil(t, PageLayers(doc, 5))
}
