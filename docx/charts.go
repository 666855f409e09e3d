package docx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/farid-asgarli/pdf-template-builder-sub000/ooxml"
	"github.com/farid-asgarli/pdf-template-builder-sub000/xlsx"
)

// chart resolves a c:chart reference and parses its part. Any parse error
// drops the whole chart.
func (c *converter) chart(pc *partContext, relID string, g drawingGeometry) (*Chart, error) {
	rel, ok := pc.rels.Get(relID)
	if !ok {
		return nil, fmt.Errorf("unresolved chart relationship %s", relID)
	}
	part := rel.TargetPath()
	root, err := c.pkg.XML(part)
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", part, err)
	}
	chart, err := parseChart(root, c.theme)
	if err != nil {
		return nil, fmt.Errorf("chart %s: %w", part, err)
	}
	chart.RelID = relID
	chart.Part = part
	c.fillFromWorkbook(part, root, chart)
	chart.WidthMM, chart.HeightMM = g.widthMM, g.heightMM
	c.out.Charts = append(c.out.Charts, chart)
	return chart, nil
}

// parseChart reads a c:chartSpace. The chart type is taken from the first
// c:*Chart element of the plot area.
func parseChart(root *ooxml.Node, theme *Theme) (*Chart, error) {
	if !root.Is("chartSpace") {
		return nil, fmt.Errorf("unexpected root element %q", root.Name())
	}
	ch := root.Child("chart")
	if ch == nil {
		return nil, fmt.Errorf("chartSpace without chart")
	}

	chart := &Chart{}
	if title := ch.Child("title"); title != nil && !onOff(ch.Child("autoTitleDeleted")) {
		chart.Title = richText(title)
	}

	plot := ch.Child("plotArea")
	var typed *ooxml.Node
	for _, n := range plot.Elements() {
		if strings.HasSuffix(n.Name(), "Chart") {
			typed = n
			break
		}
	}
	if typed == nil {
		return nil, fmt.Errorf("plot area has no chart type")
	}

	name := strings.TrimSuffix(typed.Name(), "Chart")
	if strings.HasSuffix(name, "3D") {
		chart.Is3D = true
		name = strings.TrimSuffix(name, "3D")
	}
	chart.Type = name
	if name == "bar" {
		chart.BarDirection = typed.Val("barDir")
		if chart.BarDirection == "" {
			chart.BarDirection = "col"
		}
	}

	for _, ser := range typed.Children("ser") {
		s, err := parseSeries(ser, theme)
		if err != nil {
			return nil, err
		}
		if s.Name == "" {
			s.Name = "Series " + strconv.Itoa(len(chart.Series)+1)
		}
		chart.Series = append(chart.Series, s)
	}
	return chart, nil
}

func parseSeries(ser *ooxml.Node, theme *Theme) (ChartSeries, error) {
	var s ChartSeries
	if tx := ser.Child("tx"); tx != nil {
		if v := tx.FirstDescendant("v"); v != nil {
			s.Name = v.Text()
		} else {
			s.Name = richText(tx)
		}
	}
	cat := firstChild(ser, "cat", "xVal")
	s.Categories = cachedStrings(cat)
	s.CategoriesRef = cat.FirstDescendant("f").Text()

	val := firstChild(ser, "val", "yVal")
	s.ValuesRef = val.FirstDescendant("f").Text()
	values, err := parseValues(cachedStrings(val))
	if err != nil {
		return s, fmt.Errorf("series %q: %w", s.Name, err)
	}
	s.Values = values

	if fill := ser.Child("spPr").Child("solidFill"); fill != nil {
		s.Color = drawingColor(fill, theme)
	}
	return s, nil
}

func parseValues(texts []string) ([]float64, error) {
	var out []float64
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			out = append(out, 0)
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q", text)
		}
		out = append(out, v)
	}
	return out, nil
}

// fillFromWorkbook reads series without cached points from the chart's
// embedded workbook, following their range references.
func (c *converter) fillFromWorkbook(part string, root *ooxml.Node, chart *Chart) {
	var missing []int
	for i, s := range chart.Series {
		if (len(s.Values) == 0 && s.ValuesRef != "") || (len(s.Categories) == 0 && s.CategoriesRef != "") {
			missing = append(missing, i)
		}
	}
	if len(missing) == 0 {
		return
	}

	relID := root.Child("externalData").Attr("r:id")
	rel, ok := c.pkg.Relationships(part).Get(relID)
	if !ok || rel.IsExternal() {
		c.warnf(part, "externalData", "series without cached values and no embedded workbook")
		return
	}
	data, err := c.pkg.Part(rel.TargetPath())
	if err != nil {
		c.warn(part, "externalData", err)
		return
	}
	wb, err := xlsx.FromBytes(data)
	if err != nil {
		c.warn(part, "externalData", err)
		return
	}

	for _, i := range missing {
		s := &chart.Series[i]
		if len(s.Categories) == 0 && s.CategoriesRef != "" {
			if cats, err := wb.Lookup(s.CategoriesRef); err == nil {
				s.Categories = cats
			} else {
				c.warn(part, "cat", err)
			}
		}
		if len(s.Values) == 0 && s.ValuesRef != "" {
			texts, err := wb.Lookup(s.ValuesRef)
			if err == nil {
				s.Values, err = parseValues(texts)
			}
			if err != nil {
				c.warnf(part, "val", "series %q: %v", s.Name, err)
			}
		}
	}
}

// cachedStrings returns the c:pt values of a str/num reference or literal,
// placed by their idx.
func cachedStrings(n *ooxml.Node) []string {
	if n == nil {
		return nil
	}
	cache := n.FirstDescendant("strCache")
	if cache == nil {
		cache = n.FirstDescendant("numCache")
	}
	if cache == nil {
		cache = firstChild(n, "strLit", "numLit")
	}
	if cache == nil {
		return nil
	}
	count, _ := strconv.Atoi(cache.Val("ptCount"))
	pts := cache.Children("pt")
	if count < len(pts) {
		count = len(pts)
	}
	out := make([]string, count)
	for i, pt := range pts {
		idx := i
		if v, err := strconv.Atoi(pt.Attr("idx")); err == nil && v >= 0 && v < count {
			idx = v
		}
		out[idx] = pt.Child("v").Text()
	}
	return out
}

// richText joins the a:t runs below n.
func richText(n *ooxml.Node) string {
	var parts []string
	for _, p := range n.Descendants("a:p") {
		parts = append(parts, p.InnerText("a:t"))
	}
	if len(parts) == 0 {
		return n.InnerText("a:t")
	}
	return strings.Join(parts, "\n")
}
