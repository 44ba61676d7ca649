package studiomap

import (
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// WriteSVG renders m as a standalone SVG document in canvas points. Each
// layer becomes a <g id="<key>-layer-<name>">, or <g id="layer-<name>"> for
// a map without a key, and every command that belongs to a studio carries a
// data-studio attribute for the page script. All attribute values are
// escaped.
func WriteSVG(w io.Writer, m *Map, font string) error {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s" font-family="%s">`,
		num(m.Width), num(m.Height), num(m.Width), num(m.Height), html.EscapeString(font))
	b.WriteByte('\n')
	if m.Title != "" {
		fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(m.Title))
	}
	if m.Background != "" {
		fmt.Fprintf(&b, `<rect class="background" x="0" y="0" width="%s" height="%s" fill="%s"/>`,
			num(m.Width), num(m.Height), attr(m.Background))
		b.WriteByte('\n')
	}
	for _, layer := range m.Layers {
		fmt.Fprintf(&b, "<g id=\"%s\">\n", attr(layerID(m.Key, layer.Name)))
		for i, c := range layer.Commands {
			if err := svgCommand(&b, c); err != nil {
				return errors.Wrapf(err, "layer %s: command %d", layer.Name, i)
			}
		}
		b.WriteString("</g>\n")
	}
	b.WriteString("</svg>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func svgCommand(b *strings.Builder, c Command) error {
	switch c := c.(type) {
	case Rect:
		rx := ""
		if c.Rounded {
			rx = ` rx="4"`
		}
		name := ""
		if c.Name != "" {
			name = fmt.Sprintf(` class="%s"`, attr(c.Name))
		}
		fmt.Fprintf(b, `<rect%s x="%s" y="%s" width="%s" height="%s"%s fill="%s"%s/>`,
			name, num(c.X), num(c.Y), num(c.W), num(c.H), rx, svgFill(c.Fill), svgStroke(c.Stroke))
	case Line:
		fmt.Fprintf(b, `<line%s x1="%s" y1="%s" x2="%s" y2="%s"%s/>`,
			studioAttrs("studio-line", c.Studio),
			num(c.X1), num(c.Y1), num(c.X2), num(c.Y2), svgStroke(&c.Stroke))
		if c.Arrow {
			b.WriteByte('\n')
			b.WriteString(arrowHead(c))
		}
	case Dot:
		attrs := fmt.Sprintf(`%s fill="%s"%s%s`, studioAttrs("studio-dot", c.Studio),
			attr(c.Fill), opacityAttr(dotOpacity(c.Opacity)), svgStroke(c.Outline))
		switch c.Marker {
		case MarkerStar:
			fmt.Fprintf(b, `<polygon%s points="%s"/>`, attrs, starPoints(c.CX, c.CY, c.D/2))
		case MarkerDiamond:
			fmt.Fprintf(b, `<polygon%s points="%s"/>`, attrs, diamondPoints(c.CX, c.CY, c.D/2))
		default:
			fmt.Fprintf(b, `<circle%s cx="%s" cy="%s" r="%s"/>`, attrs, num(c.CX), num(c.CY), num(c.D/2))
		}
	case Label:
		anchor := "start"
		switch c.Anchor {
		case AnchorMiddle:
			anchor = "middle"
		case AnchorEnd:
			anchor = "end"
		}
		weight := ""
		if c.Bold {
			weight = ` font-weight="bold"`
		}
		lines := c.Lines()
		step := c.Size * lineHeight
		top := c.Y - step*float64(len(lines)-1)/2
		fmt.Fprintf(b, `<text%s x="%s" y="%s" font-size="%s" fill="%s" text-anchor="%s" dominant-baseline="central"%s>`,
			studioAttrs("studio-label", c.Studio), num(c.X), num(top), num(c.Size), attr(c.Color), anchor, weight)
		if len(lines) == 1 {
			b.WriteString(html.EscapeString(lines[0]))
		} else {
			for i, line := range lines {
				dy := "0"
				if i > 0 {
					dy = num(step)
				}
				fmt.Fprintf(b, `<tspan x="%s" dy="%s">%s</tspan>`, num(c.X), dy, html.EscapeString(line))
			}
		}
		b.WriteString("</text>")
	default:
		return errors.Errorf("unsupported command %T", c)
	}
	b.WriteByte('\n')
	return nil
}

func studioAttrs(class, studio string) string {
	if studio == "" {
		return ""
	}
	return fmt.Sprintf(` class="%s" data-studio="%s"`, class, attr(studio))
}

// attr escapes a value for a double-quoted attribute.
func attr(v string) string {
	return html.EscapeString(v)
}

func layerID(key, layer string) string {
	id := "layer-" + strings.ToLower(layer)
	if key == "" {
		return id
	}
	return key + "-" + id
}

func svgFill(fill string) string {
	if fill == "" {
		return "none"
	}
	return attr(fill)
}

func svgStroke(s *Stroke) string {
	if s == nil || s.Width <= 0 {
		return ""
	}
	out := fmt.Sprintf(` stroke="%s" stroke-width="%s"`, attr(s.Color), num(s.Width))
	if s.Dash {
		out += fmt.Sprintf(` stroke-dasharray="%s %s"`, num(s.Width*4), num(s.Width*3))
	}
	return out
}

func opacityAttr(o float64) string {
	if o >= 1 {
		return ""
	}
	return fmt.Sprintf(` fill-opacity="%s"`, num(o))
}

// arrowHead is a filled triangle whose tip sits on the line's end point.
func arrowHead(l Line) string {
	dx, dy := l.X2-l.X1, l.Y2-l.Y1
	length := math.Hypot(dx, dy)
	if length == 0 {
		return ""
	}
	ux, uy := dx/length, dy/length
	size := max(l.Stroke.Width*4, 5)
	bx, by := l.X2-ux*size, l.Y2-uy*size
	px, py := -uy*size/2, ux*size/2
	return fmt.Sprintf(`<polygon points="%s,%s %s,%s %s,%s" fill="%s"/>`,
		num(l.X2), num(l.Y2), num(bx+px), num(by+py), num(bx-px), num(by-py), attr(l.Stroke.Color))
}

// starPoints returns a five-pointed star with its top point straight up.
func starPoints(cx, cy, r float64) string {
	inner := r * 0.382
	pts := make([]string, 0, 10)
	for i := range 10 {
		radius := r
		if i%2 == 1 {
			radius = inner
		}
		a := -math.Pi/2 + float64(i)*math.Pi/5
		pts = append(pts, num(cx+radius*math.Cos(a))+","+num(cy+radius*math.Sin(a)))
	}
	return strings.Join(pts, " ")
}

// diamondPoints returns a square standing on one corner.
func diamondPoints(cx, cy, r float64) string {
	return fmt.Sprintf("%s,%s %s,%s %s,%s %s,%s",
		num(cx), num(cy-r), num(cx+r), num(cy), num(cx), num(cy+r), num(cx-r), num(cy))
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
