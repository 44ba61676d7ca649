package pptx

import (
	"archive/zip"
	"fmt"
	"strings"
)

func (w *PPTXWriter) writeSlide(zw *zip.Writer, slide *Slide, slideNum int) error {
	var shapesXML strings.Builder
	shapeID := 2 // 1 is reserved for the root group
	for _, shape := range slide.shapes {
		shapesXML.WriteString(w.writeShapeXML(shape, &shapeID))
	}

	bgXML := ""
	if slide.background != nil && slide.background.Type != FillNone {
		bgXML = "    <p:bg>\n      <p:bgPr>\n"
		bgXML += w.writeFillXML(slide.background)
		bgXML += "        <a:effectLst/>\n      </p:bgPr>\n    </p:bg>\n"
	}

	nameAttr := ""
	if slide.name != "" {
		nameAttr = fmt.Sprintf(` name="%s"`, xmlEscape(slide.name))
	}

	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">
  <p:cSld%s>
%s    <p:spTree>
      <p:nvGrpSpPr>
        <p:cNvPr id="1" name=""/>
        <p:cNvGrpSpPr/>
        <p:nvPr/>
      </p:nvGrpSpPr>
      <p:grpSpPr>
        <a:xfrm>
          <a:off x="0" y="0"/>
          <a:ext cx="0" cy="0"/>
          <a:chOff x="0" y="0"/>
          <a:chExt cx="0" cy="0"/>
        </a:xfrm>
      </p:grpSpPr>
%s    </p:spTree>
  </p:cSld>
  <p:clrMapOvr>
    <a:masterClrMapping/>
  </p:clrMapOvr>
</p:sld>`, nsDrawingML, nsOfficeDocRels, nsPresentationML, nameAttr, bgXML, shapesXML.String())

	return writeRawXMLToZip(zw, fmt.Sprintf("ppt/slides/slide%d.xml", slideNum), content)
}

func (w *PPTXWriter) writeSlideRels(zw *zip.Writer, slideNum int) error {
	rels := xmlRelationships{
		Xmlns: nsRelationships,
		Relationships: []xmlRelationship{
			{ID: "rId1", Type: relTypeSlideLayout, Target: "../slideLayouts/slideLayout1.xml"},
		},
	}
	return writeXMLToZip(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", slideNum), rels)
}

func (w *PPTXWriter) writeShapeXML(shape Shape, shapeID *int) string {
	switch s := shape.(type) {
	case *RichTextShape:
		return w.writeRichTextShapeXML(s, shapeID)
	case *AutoShape:
		return w.writeAutoShapeXML(s, shapeID)
	case *LineShape:
		return w.writeLineShapeXML(s, shapeID)
	case *GroupShape:
		return w.writeGroupShapeXML(s, shapeID)
	}
	return ""
}

// xfrmAttrs builds the attribute string for <a:xfrm> flips.
func xfrmAttrs(b *BaseShape) string {
	var sb strings.Builder
	if b.flipHorizontal {
		sb.WriteString(` flipH="1"`)
	}
	if b.flipVertical {
		sb.WriteString(` flipV="1"`)
	}
	return sb.String()
}

func nvPrXML(id int, name, descr string) string {
	descrAttr := ""
	if descr != "" {
		descrAttr = fmt.Sprintf(` descr="%s"`, xmlEscape(descr))
	}
	return fmt.Sprintf(`<p:cNvPr id="%d" name="%s"%s/>`, id, xmlEscape(name), descrAttr)
}

// --- Rich Text Shape XML ---

func (w *PPTXWriter) writeRichTextShapeXML(s *RichTextShape, shapeID *int) string {
	id := *shapeID
	*shapeID++

	name := s.name
	if name == "" {
		name = fmt.Sprintf("TextBox %d", id)
	}

	return fmt.Sprintf(`      <p:sp>
        <p:nvSpPr>
          %s
          <p:cNvSpPr txBox="1"/>
          <p:nvPr/>
        </p:nvSpPr>
        <p:spPr>
          <a:xfrm%s>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
          </a:xfrm>
          <a:prstGeom prst="rect">
            <a:avLst/>
          </a:prstGeom>
%s%s%s        </p:spPr>
        <p:txBody>
          <a:bodyPr wrap="%s"%s%s/>
          <a:lstStyle/>
%s        </p:txBody>
      </p:sp>
`, nvPrXML(id, name, s.description), xfrmAttrs(&s.BaseShape),
		s.offsetX, s.offsetY, s.width, s.height,
		w.writeFillXML(s.fill), w.writeBorderXML(s.border), w.writeShadowXML(s.shadow),
		boolToWrap(s.wordWrap), insetAttrs(s), textAnchorAttr(s.textAnchor),
		w.writeParagraphsXML(s.paragraphs))
}

func boolToWrap(wrap bool) string {
	if wrap {
		return "square"
	}
	return "none"
}

func insetAttrs(s *RichTextShape) string {
	if !s.insetsSet {
		return ""
	}
	return fmt.Sprintf(` lIns="%d" tIns="%d" rIns="%d" bIns="%d"`,
		s.insetLeft, s.insetTop, s.insetRight, s.insetBottom)
}

// textAnchorAttr returns the anchor attribute string for <a:bodyPr>.
func textAnchorAttr(anchor TextAnchorType) string {
	if anchor == TextAnchorNone {
		return ""
	}
	return fmt.Sprintf(` anchor="%s"`, string(anchor))
}

func (w *PPTXWriter) writeParagraphsXML(paragraphs []*Paragraph) string {
	var sb strings.Builder
	for _, para := range paragraphs {
		sb.WriteString(w.writeParagraphXML(para))
	}
	return sb.String()
}

func (w *PPTXWriter) writeParagraphXML(para *Paragraph) string {
	algn := ""
	if para.alignment != nil && para.alignment.Horizontal != "" {
		algn = fmt.Sprintf(` algn="%s"`, para.alignment.Horizontal)
	}

	var elementsXML strings.Builder
	for _, elem := range para.elements {
		switch e := elem.(type) {
		case *TextRun:
			elementsXML.WriteString(w.writeTextRunXML(e))
		case *BreakElement:
			elementsXML.WriteString("            <a:br/>\n")
		}
	}

	return fmt.Sprintf(`          <a:p>
            <a:pPr%s/>
%s          </a:p>
`, algn, elementsXML.String())
}

func (w *PPTXWriter) writeTextRunXML(tr *TextRun) string {
	font := tr.font
	if font == nil {
		font = NewFont()
	}
	attrs := fmt.Sprintf(` lang="ja-JP" altLang="en-US" sz="%d" dirty="0"`, font.Size*100)
	if font.Bold {
		attrs += ` b="1"`
	}
	if font.Italic {
		attrs += ` i="1"`
	}

	solidFill := ""
	if font.Color.ARGB != "" {
		solidFill = "\n                <a:solidFill>" + srgbClrXML(font.Color) + "</a:solidFill>"
	}

	latin := ""
	if font.Name != "" {
		latin = fmt.Sprintf(`
                <a:latin typeface="%s"/>`, xmlEscape(font.Name))
	}

	ea := ""
	if font.NameEA != "" {
		ea = fmt.Sprintf(`
                <a:ea typeface="%s"/>`, xmlEscape(font.NameEA))
	}

	return fmt.Sprintf(`            <a:r>
              <a:rPr%s>%s%s%s
              </a:rPr>
              <a:t>%s</a:t>
            </a:r>
`, attrs, solidFill, latin, ea, xmlEscape(tr.text))
}

// --- Auto Shape XML ---

func (w *PPTXWriter) writeAutoShapeXML(s *AutoShape, shapeID *int) string {
	id := *shapeID
	*shapeID++

	name := s.name
	if name == "" {
		name = fmt.Sprintf("Shape %d", id)
	}

	textXML := ""
	if len(s.paragraphs) > 0 {
		textXML = fmt.Sprintf(`
        <p:txBody>
          <a:bodyPr wrap="square" lIns="45720" tIns="22860" rIns="45720" bIns="22860"%s/>
          <a:lstStyle/>
%s        </p:txBody>`, textAnchorAttr(s.textAnchor), w.writeParagraphsXML(s.paragraphs))
	}

	return fmt.Sprintf(`      <p:sp>
        <p:nvSpPr>
          %s
          <p:cNvSpPr/>
          <p:nvPr/>
        </p:nvSpPr>
        <p:spPr>
          <a:xfrm%s>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
          </a:xfrm>
          <a:prstGeom prst="%s">
            <a:avLst/>
          </a:prstGeom>
%s%s%s        </p:spPr>%s
      </p:sp>
`, nvPrXML(id, name, s.description),
		xfrmAttrs(&s.BaseShape),
		s.offsetX, s.offsetY, s.width, s.height,
		s.shapeType,
		w.writeFillXML(s.fill), w.writeBorderXML(s.border), w.writeShadowXML(s.shadow),
		textXML)
}

// --- Line Shape XML ---

func lineEndXML(tag string, e *LineEnd) string {
	if e == nil || e.Type == ArrowNone || e.Type == "" {
		return ""
	}
	return fmt.Sprintf(`
            <a:%s type="%s" w="%s" len="%s"/>`, tag, e.Type, e.Width, e.Length)
}

func dashXML(style BorderStyle) string {
	switch style {
	case BorderDash:
		return `<a:prstDash val="dash"/>`
	case BorderDot:
		return `<a:prstDash val="sysDot"/>`
	}
	return ""
}

func (w *PPTXWriter) writeLineShapeXML(s *LineShape, shapeID *int) string {
	id := *shapeID
	*shapeID++

	name := s.name
	if name == "" {
		name = fmt.Sprintf("Line %d", id)
	}

	dash := dashXML(s.lineStyle)
	if dash != "" {
		dash = "\n            " + dash
	}

	return fmt.Sprintf(`      <p:cxnSp>
        <p:nvCxnSpPr>
          %s
          <p:cNvCxnSpPr/>
          <p:nvPr/>
        </p:nvCxnSpPr>
        <p:spPr>
          <a:xfrm%s>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
          </a:xfrm>
          <a:prstGeom prst="line">
            <a:avLst/>
          </a:prstGeom>
          <a:ln w="%d">
            <a:solidFill>%s</a:solidFill>%s%s%s
          </a:ln>
        </p:spPr>
      </p:cxnSp>
`, nvPrXML(id, name, s.description),
		xfrmAttrs(&s.BaseShape),
		s.offsetX, s.offsetY, s.width, s.height,
		s.lineWidthEMU,
		srgbClrXML(s.lineColor),
		dash, lineEndXML("headEnd", s.headEnd), lineEndXML("tailEnd", s.tailEnd))
}

// --- Group Shape XML ---

func (w *PPTXWriter) writeGroupShapeXML(g *GroupShape, shapeID *int) string {
	id := *shapeID
	*shapeID++

	name := g.name
	if name == "" {
		name = fmt.Sprintf("Group %d", id)
	}

	var childXML strings.Builder
	for _, shape := range g.shapes {
		childXML.WriteString(w.writeShapeXML(shape, shapeID))
	}

	// Children keep slide coordinates, so the child frame equals the group frame.
	return fmt.Sprintf(`      <p:grpSp>
        <p:nvGrpSpPr>
          %s
          <p:cNvGrpSpPr/>
          <p:nvPr/>
        </p:nvGrpSpPr>
        <p:grpSpPr>
          <a:xfrm>
            <a:off x="%d" y="%d"/>
            <a:ext cx="%d" cy="%d"/>
            <a:chOff x="%d" y="%d"/>
            <a:chExt cx="%d" cy="%d"/>
          </a:xfrm>
        </p:grpSpPr>
%s      </p:grpSp>
`, nvPrXML(id, name, g.description),
		g.offsetX, g.offsetY, g.width, g.height,
		g.offsetX, g.offsetY, g.width, g.height,
		childXML.String())
}

// --- Fill, border and effect helpers ---

func (w *PPTXWriter) writeFillXML(f *Fill) string {
	if f == nil {
		return ""
	}
	switch f.Type {
	case FillSolid:
		return "          <a:solidFill>" + srgbClrXML(f.Color) + "</a:solidFill>\n"
	default:
		return "          <a:noFill/>\n"
	}
}

func (w *PPTXWriter) writeBorderXML(b *Border) string {
	if b == nil {
		return ""
	}
	if b.Style == BorderNone {
		return "          <a:ln><a:noFill/></a:ln>\n"
	}
	return fmt.Sprintf("          <a:ln w=\"%d\"><a:solidFill>%s</a:solidFill>%s</a:ln>\n",
		b.Width, srgbClrXML(b.Color), dashXML(b.Style))
}

func (w *PPTXWriter) writeShadowXML(s *Shadow) string {
	if s == nil || !s.Visible {
		return ""
	}
	return fmt.Sprintf(`          <a:effectLst>
            <a:outerShdw blurRad="%d" dist="%d" dir="%d" algn="bl" rotWithShape="0">
              <a:srgbClr val="%s">
                <a:alpha val="%d"/>
              </a:srgbClr>
            </a:outerShdw>
          </a:effectLst>
`,
		int64(s.BlurRadius)*emuPerPoint,
		int64(s.Distance)*emuPerPoint,
		s.Direction*60000,
		colorRGB(s.Color),
		s.Alpha*1000)
}
