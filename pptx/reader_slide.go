package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"slices"
	"strconv"
)

func (r *PPTXReader) readSlide(path string) (*Slide, error) {
	data, err := r.readFile(path)
	if err != nil {
		return nil, err
	}

	slide := newSlide()
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "cSld":
			slide.name = attr(se, "name")
		case "bg":
			fill, err := parseBackground(dec)
			if err != nil {
				return nil, fmt.Errorf("failed to parse background in %s: %w", path, err)
			}
			slide.background = fill
		case "spTree":
			shapes, err := parseShapeTree(dec, &slide.skipped)
			if err != nil {
				return nil, fmt.Errorf("failed to parse shapes in %s: %w", path, err)
			}
			slide.shapes = shapes
		}
	}
	return slide, nil
}

// walkChildren calls visit for every element nested under the element whose
// start token was just read, and returns after its end token. visit reports
// whether it consumed the element (including its end token) itself.
func walkChildren(dec *xml.Decoder, visit func(xml.StartElement) (bool, error)) error {
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			consumed, err := visit(t)
			if err != nil {
				return err
			}
			if !consumed {
				depth++
			}
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func attrInt64(se xml.StartElement, name string) int64 {
	v, _ := strconv.ParseInt(attr(se, name), 10, 64)
	return v
}

func attrBool(se xml.StartElement, name string) bool {
	v := attr(se, name)
	return v == "1" || v == "true"
}

// schemeColors resolves the scheme colors used by the default theme.
var schemeColors = map[string]string{
	"tx1": "000000", "dk1": "000000",
	"bg1": "FFFFFF", "lt1": "FFFFFF",
	"tx2": "2C3E50", "dk2": "2C3E50",
	"bg2": "ECF0F1", "lt2": "ECF0F1",
}

// readColor reads the color inside a fill element such as <a:solidFill>.
func readColor(dec *xml.Decoder) (Color, error) {
	c := ColorBlack
	err := walkChildren(dec, func(se xml.StartElement) (bool, error) {
		switch se.Name.Local {
		case "srgbClr":
			c = NewColor(attr(se, "val"))
		case "schemeClr":
			if rgb, ok := schemeColors[attr(se, "val")]; ok {
				c = NewColor(rgb)
			}
		case "alpha":
			c = c.WithOpacity(float64(attrInt64(se, "val")) / 100000)
		}
		return false, nil
	})
	return c, err
}

func parseBackground(dec *xml.Decoder) (*Fill, error) {
	var fill *Fill
	err := walkChildren(dec, func(se xml.StartElement) (bool, error) {
		if se.Name.Local != "solidFill" {
			return false, nil
		}
		c, err := readColor(dec)
		if err != nil {
			return true, err
		}
		fill = NewFill().SetSolid(c)
		return true, nil
	})
	return fill, err
}

// drawable reports whether a shape tree child draws something the slide
// model has no type for: pictures, tables, charts, ink and alternate content.
func drawable(name string) bool {
	switch name {
	case "pic", "graphicFrame", "contentPart", "AlternateContent":
		return true
	}
	return false
}

// skip consumes an element and records its name when it was drawable.
func skip(dec *xml.Decoder, name string, skipped *[]string) error {
	if drawable(name) && !slices.Contains(*skipped, name) {
		*skipped = append(*skipped, name)
	}
	return dec.Skip()
}

func parseShapeTree(dec *xml.Decoder, skipped *[]string) ([]Shape, error) {
	var shapes []Shape
	err := walkChildren(dec, func(se xml.StartElement) (bool, error) {
		var (
			s   Shape
			err error
		)
		switch se.Name.Local {
		case "sp":
			s, err = parseSp(dec)
		case "cxnSp":
			s, err = parseCxnSp(dec)
		case "grpSp":
			s, err = parseGrpSp(dec, skipped)
		default:
			return true, skip(dec, se.Name.Local, skipped)
		}
		if err != nil {
			return true, err
		}
		if s != nil {
			shapes = append(shapes, s)
		}
		return true, nil
	})
	return shapes, err
}

// shapeProps collects the non-visual and spPr properties shared by sp and
// cxnSp elements.
type shapeProps struct {
	base    BaseShape
	txBox   bool
	prst    string
	ln      *Border
	lnSet   bool
	headEnd *LineEnd
	tailEnd *LineEnd
}

func (p *shapeProps) visitNonVisual(se xml.StartElement) {
	switch se.Name.Local {
	case "cNvPr":
		p.base.name = attr(se, "name")
		p.base.description = attr(se, "descr")
	case "cNvSpPr":
		p.txBox = attrBool(se, "txBox")
	}
}

func (p *shapeProps) parseSpPr(dec *xml.Decoder) error {
	return walkChildren(dec, func(se xml.StartElement) (bool, error) {
		switch se.Name.Local {
		case "xfrm":
			p.base.flipHorizontal = attrBool(se, "flipH")
			p.base.flipVertical = attrBool(se, "flipV")
		case "off":
			p.base.offsetX = attrInt64(se, "x")
			p.base.offsetY = attrInt64(se, "y")
		case "ext":
			p.base.width = attrInt64(se, "cx")
			p.base.height = attrInt64(se, "cy")
		case "prstGeom":
			p.prst = attr(se, "prst")
			return true, dec.Skip()
		case "solidFill":
			c, err := readColor(dec)
			if err != nil {
				return true, err
			}
			p.base.fill = NewFill().SetSolid(c)
			return true, nil
		case "noFill":
			p.base.fill = NewFill()
		case "ln":
			return true, p.parseLn(dec, se)
		case "effectLst":
			return true, p.parseEffects(dec)
		case "custGeom", "extLst", "scene3d", "sp3d":
			return true, dec.Skip()
		}
		return false, nil
	})
}

func (p *shapeProps) parseLn(dec *xml.Decoder, start xml.StartElement) error {
	b := &Border{Style: BorderSolid, Width: attrInt64(start, "w"), Color: ColorBlack}
	p.lnSet = true
	err := walkChildren(dec, func(se xml.StartElement) (bool, error) {
		switch se.Name.Local {
		case "solidFill":
			c, err := readColor(dec)
			b.Color = c
			return true, err
		case "noFill":
			b.Style = BorderNone
		case "prstDash":
			switch attr(se, "val") {
			case "dash", "lgDash", "sysDash":
				b.Style = BorderDash
			case "dot", "sysDot":
				b.Style = BorderDot
			}
		case "headEnd":
			p.headEnd = readLineEnd(se)
		case "tailEnd":
			p.tailEnd = readLineEnd(se)
		}
		return false, nil
	})
	p.ln = b
	return err
}

func readLineEnd(se xml.StartElement) *LineEnd {
	t := ArrowType(attr(se, "type"))
	if t == "" || t == ArrowNone {
		return nil
	}
	e := NewLineEnd(t)
	if w := attr(se, "w"); w != "" {
		e.Width = ArrowSize(w)
	}
	if l := attr(se, "len"); l != "" {
		e.Length = ArrowSize(l)
	}
	return e
}

func (p *shapeProps) parseEffects(dec *xml.Decoder) error {
	return walkChildren(dec, func(se xml.StartElement) (bool, error) {
		switch se.Name.Local {
		case "outerShdw":
			s := NewShadow().SetVisible(true)
			s.BlurRadius = int(attrInt64(se, "blurRad") / emuPerPoint)
			s.Distance = int(attrInt64(se, "dist") / emuPerPoint)
			s.Direction = int(attrInt64(se, "dir") / 60000)
			s.Alpha = 100
			p.base.shadow = s
		case "srgbClr":
			if p.base.shadow != nil {
				p.base.shadow.Color = NewColor(attr(se, "val"))
			}
		case "alpha":
			if p.base.shadow != nil {
				p.base.shadow.Alpha = int(attrInt64(se, "val") / 1000)
			}
		}
		return false, nil
	})
}

func parseSp(dec *xml.Decoder) (Shape, error) {
	props := &shapeProps{}
	var body *textBody
	err := walkChildren(dec, func(se xml.StartElement) (bool, error) {
		switch se.Name.Local {
		case "spPr":
			return true, props.parseSpPr(dec)
		case "txBody":
			b, err := parseTxBody(dec)
			body = b
			return true, err
		case "style", "extLst":
			return true, dec.Skip()
		}
		props.visitNonVisual(se)
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	if props.txBox || (props.prst == "" && body != nil) {
		rt := NewRichTextShape()
		rt.BaseShape = props.base
		if props.lnSet {
			rt.border = props.ln
		}
		if body != nil {
			rt.paragraphs = body.paragraphs
			rt.wordWrap = body.wrap
			rt.textAnchor = body.anchor
			if body.insetsSet {
				rt.SetInsets(body.insets[0], body.insets[1], body.insets[2], body.insets[3])
			}
		}
		if len(rt.paragraphs) == 0 {
			rt.paragraphs = []*Paragraph{NewParagraph()}
		}
		return rt, nil
	}

	as := NewAutoShape()
	as.BaseShape = props.base
	if props.prst != "" {
		as.shapeType = AutoShapeType(props.prst)
	}
	if props.lnSet {
		as.border = props.ln
	}
	if body != nil {
		as.textAnchor = body.anchor
		if hasText(body.paragraphs) {
			as.paragraphs = body.paragraphs
		}
	}
	return as, nil
}

func parseCxnSp(dec *xml.Decoder) (Shape, error) {
	props := &shapeProps{}
	err := walkChildren(dec, func(se xml.StartElement) (bool, error) {
		switch se.Name.Local {
		case "spPr":
			return true, props.parseSpPr(dec)
		case "style", "extLst":
			return true, dec.Skip()
		}
		props.visitNonVisual(se)
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	l := NewLineShape()
	l.BaseShape = props.base
	l.fill = nil
	if props.ln != nil {
		l.lineStyle = props.ln.Style
		l.lineColor = props.ln.Color
		if props.ln.Width > 0 {
			l.lineWidthEMU = props.ln.Width
		}
	}
	l.headEnd = props.headEnd
	l.tailEnd = props.tailEnd
	return l, nil
}

func parseGrpSp(dec *xml.Decoder, skipped *[]string) (Shape, error) {
	g := NewGroupShape()
	var chOffX, chOffY, chExtX, chExtY int64
	err := walkChildren(dec, func(se xml.StartElement) (bool, error) {
		var (
			s   Shape
			err error
		)
		switch se.Name.Local {
		case "cNvPr":
			g.name = attr(se, "name")
			g.description = attr(se, "descr")
			return false, nil
		case "grpSpPr":
			return true, walkChildren(dec, func(x xml.StartElement) (bool, error) {
				switch x.Name.Local {
				case "xfrm":
				case "off":
					g.offsetX, g.offsetY = attrInt64(x, "x"), attrInt64(x, "y")
				case "ext":
					g.width, g.height = attrInt64(x, "cx"), attrInt64(x, "cy")
				case "chOff":
					chOffX, chOffY = attrInt64(x, "x"), attrInt64(x, "y")
				case "chExt":
					chExtX, chExtY = attrInt64(x, "cx"), attrInt64(x, "cy")
				default:
					return true, dec.Skip()
				}
				return false, nil
			})
		case "sp":
			s, err = parseSp(dec)
		case "cxnSp":
			s, err = parseCxnSp(dec)
		case "grpSp":
			s, err = parseGrpSp(dec, skipped)
		case "nvGrpSpPr", "cNvGrpSpPr":
			return false, nil
		default:
			return true, skip(dec, se.Name.Local, skipped)
		}
		if err != nil {
			return true, err
		}
		if s != nil {
			g.shapes = append(g.shapes, s)
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	// Map children from the group's child frame onto slide coordinates.
	if chExtX > 0 && chExtY > 0 && (chOffX != g.offsetX || chOffY != g.offsetY || chExtX != g.width || chExtY != g.height) {
		sx := float64(g.width) / float64(chExtX)
		sy := float64(g.height) / float64(chExtY)
		for _, child := range g.shapes {
			transformShape(child, func(b *BaseShape) {
				b.offsetX = g.offsetX + int64(float64(b.offsetX-chOffX)*sx)
				b.offsetY = g.offsetY + int64(float64(b.offsetY-chOffY)*sy)
				b.width = int64(float64(b.width) * sx)
				b.height = int64(float64(b.height) * sy)
			})
		}
	}
	return g, nil
}

func transformShape(s Shape, fn func(*BaseShape)) {
	fn(s.base())
	if g, ok := s.(*GroupShape); ok {
		for _, child := range g.shapes {
			transformShape(child, fn)
		}
	}
}

type textBody struct {
	paragraphs []*Paragraph
	wrap       bool
	anchor     TextAnchorType
	insets     [4]int64 // left, top, right, bottom
	insetsSet  bool
}

func parseTxBody(dec *xml.Decoder) (*textBody, error) {
	body := &textBody{wrap: true}
	err := walkChildren(dec, func(se xml.StartElement) (bool, error) {
		switch se.Name.Local {
		case "bodyPr":
			body.wrap = attr(se, "wrap") != "none"
			body.anchor = TextAnchorType(attr(se, "anchor"))
			if attr(se, "lIns") != "" {
				body.insets = [4]int64{
					attrInt64(se, "lIns"), attrInt64(se, "tIns"),
					attrInt64(se, "rIns"), attrInt64(se, "bIns"),
				}
				body.insetsSet = true
			}
			return true, dec.Skip()
		case "p":
			p, err := parseParagraph(dec)
			if err != nil {
				return true, err
			}
			body.paragraphs = append(body.paragraphs, p)
			return true, nil
		}
		return true, dec.Skip()
	})
	return body, err
}

func parseParagraph(dec *xml.Decoder) (*Paragraph, error) {
	para := NewParagraph()
	err := walkChildren(dec, func(se xml.StartElement) (bool, error) {
		switch se.Name.Local {
		case "pPr":
			if algn := attr(se, "algn"); algn != "" {
				para.alignment.Horizontal = HorizontalAlignment(algn)
			}
			return true, dec.Skip()
		case "r", "fld":
			tr, err := parseRun(dec)
			if err != nil {
				return true, err
			}
			para.elements = append(para.elements, tr)
			return true, nil
		case "br":
			para.CreateBreak()
		}
		return true, dec.Skip()
	})
	return para, err
}

func parseRun(dec *xml.Decoder) (*TextRun, error) {
	tr := &TextRun{font: NewFont()}
	tr.font.Size = 18
	tr.font.Name = ""
	err := walkChildren(dec, func(se xml.StartElement) (bool, error) {
		switch se.Name.Local {
		case "rPr":
			if sz := attrInt64(se, "sz"); sz > 0 {
				tr.font.Size = int(sz / 100)
			}
			tr.font.Bold = attrBool(se, "b")
			tr.font.Italic = attrBool(se, "i")
			return false, nil
		case "solidFill":
			c, err := readColor(dec)
			tr.font.Color = c
			return true, err
		case "latin":
			tr.font.Name = attr(se, "typeface")
		case "ea":
			tr.font.NameEA = attr(se, "typeface")
		case "t":
			var text string
			if err := dec.DecodeElement(&text, &se); err != nil {
				return true, err
			}
			tr.text = text
			return true, nil
		default:
			return true, dec.Skip()
		}
		return false, nil
	})
	return tr, err
}

func hasText(paragraphs []*Paragraph) bool {
	return len(extractParagraphsText(paragraphs)) > 0
}
