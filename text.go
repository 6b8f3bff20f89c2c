package hwp

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Control characters of PARA_TEXT. Codes below 32 are controls; they
// occupy one UTF-16 unit (char controls) or eight (inline and extended
// controls, which carry a 12-byte parameter block and repeat the code).
const (
	chUnusable      = 0
	chTab           = 9
	chLineBreak     = 10
	chParaBreak     = 13
	chHyphen        = 24
	chNonBreakSpace = 30
	chFixedSpace    = 31

	inlineControlUnits = 8
)

func isCharControl(c uint16) bool {
	return c == chUnusable || c == chLineBreak || c == chParaBreak || (c >= chHyphen && c <= chFixedSpace)
}

// decodeParaText converts a PARA_TEXT payload into plain text. Tabs and line
// breaks are kept as \t and \n, other controls are dropped.
func decodeParaText(rec Record) (string, error) {
	b := rec.Payload
	if len(b)%2 != 0 {
		return "", fmt.Errorf("%w: %s at offset %d has odd length %d", ErrMalformedRecord, rec.Tag, rec.Offset, len(b))
	}
	units := len(b) / 2
	out := make([]byte, 0, len(b))
	for i := 0; i < units; {
		c := binary.LittleEndian.Uint16(b[i*2:])
		if c >= 32 {
			out = append(out, b[i*2], b[i*2+1])
			i++
			continue
		}
		if isCharControl(c) {
			switch c {
			case chLineBreak:
				out = binary.LittleEndian.AppendUint16(out, '\n')
			case chHyphen:
				out = binary.LittleEndian.AppendUint16(out, '-')
			case chNonBreakSpace:
				out = binary.LittleEndian.AppendUint16(out, 0x00A0)
			case chFixedSpace:
				out = binary.LittleEndian.AppendUint16(out, ' ')
			}
			i++
			continue
		}
		if i+inlineControlUnits > units {
			return "", fmt.Errorf("%w: %s at offset %d: control %d truncated at unit %d", ErrMalformedRecord, rec.Tag, rec.Offset, c, i)
		}
		if c == chTab {
			out = binary.LittleEndian.AppendUint16(out, '\t')
		}
		i += inlineControlUnits
	}
	s, err := decodeUTF16(out)
	if err != nil {
		return "", fmt.Errorf("%w: %s at offset %d: %v", ErrMalformedRecord, rec.Tag, rec.Offset, err)
	}
	return s, nil
}

// PlainText returns the paragraph text followed by the text of the lists and
// table cells of its controls, one line per paragraph.
func (p Paragraph) PlainText() string {
	var sb strings.Builder
	p.writeText(&sb)
	return strings.TrimSuffix(sb.String(), "\n")
}

func (p Paragraph) writeText(sb *strings.Builder) {
	sb.WriteString(p.Text)
	sb.WriteByte('\n')
	for _, c := range p.Controls {
		if c.Table != nil {
			for _, cell := range c.Table.Cells {
				writeParagraphs(sb, cell.Paragraphs)
			}
		}
		for _, list := range c.Lists {
			writeParagraphs(sb, list)
		}
	}
}

func writeParagraphs(sb *strings.Builder, ps []Paragraph) {
	for _, p := range ps {
		p.writeText(sb)
	}
}

// Text returns the text of every paragraph of the section.
func (s Section) Text() string {
	var sb strings.Builder
	writeParagraphs(&sb, s.Paragraphs)
	return sb.String()
}

// Text returns the text of every section, separated by blank lines.
func (d *Document) Text() string {
	parts := make([]string, len(d.Sections))
	for i, s := range d.Sections {
		parts[i] = s.Text()
	}
	return strings.Join(parts, "\n")
}
