package hwp

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// DecodeSection decodes an already inflated BodyText/Section{N} stream.
// The returned Section has Index 0; Parse sets the real index.
func DecodeSection(data []byte) (Section, error) {
	return decodeSection(context.Background(), data, 0, zerolog.Nop())
}

func decodeSection(ctx context.Context, data []byte, maxRecord uint32, log zerolog.Logger) (Section, error) {
	recs, err := readRecords(ctx, data, maxRecord)
	if err != nil {
		return Section{}, err
	}
	roots, err := buildTree(recs)
	if err != nil {
		return Section{}, err
	}
	d := sectionDecoder{log: log}
	var s Section
	for _, n := range roots {
		v, err := decodeSectionRecord(n.Record)
		if err != nil {
			return Section{}, err
		}
		var hdr paraHeaderRecord
		switch r := v.(type) {
		case paraHeaderRecord:
			hdr = r
		case unknownRecord:
			d.skip(n)
			continue
		default:
			// Known paragraph parts must sit below a PARA_HEADER.
			return Section{}, fmt.Errorf("%w: %s at offset %d outside a paragraph", ErrMalformedRecord, n.Tag, n.Offset)
		}
		p, err := d.paragraph(n, hdr)
		if err != nil {
			return Section{}, err
		}
		s.Paragraphs = append(s.Paragraphs, p)
	}
	s.Definition = findSectionDef(s.Paragraphs)
	return s, nil
}

func findSectionDef(ps []Paragraph) *SectionDef {
	for _, p := range ps {
		for _, c := range p.Controls {
			if c.SectionDef != nil {
				return c.SectionDef
			}
		}
	}
	return nil
}

type sectionDecoder struct {
	log zerolog.Logger
}

func (d *sectionDecoder) skip(n *recordNode) {
	d.log.Trace().Stringer("tag", n.Tag).Uint32("size", n.Size).Int("offset", n.Offset).Msg("skipping section record")
}

func (d *sectionDecoder) paragraph(n *recordNode, hdr paraHeaderRecord) (Paragraph, error) {
	p := Paragraph{Header: hdr.ParaHeader}
	for _, ch := range n.children {
		v, err := decodeSectionRecord(ch.Record)
		if err != nil {
			return Paragraph{}, err
		}
		switch r := v.(type) {
		case paraTextRecord:
			p.Text = r.Text
		case paraCharShapeRecord:
			p.CharShapes = r.Refs
		case paraLineSegRecord:
			p.LineSegs = r.Segs
		case paraRangeTagRecord:
			p.RangeTags = r.Tags
		case ctrlHeaderRecord:
			c, err := d.control(ch, r)
			if err != nil {
				return Paragraph{}, err
			}
			p.Controls = append(p.Controls, c)
		default:
			d.skip(ch)
		}
	}
	return p, nil
}

func (d *sectionDecoder) control(n *recordNode, hdr ctrlHeaderRecord) (Control, error) {
	c := Control{ID: hdr.ID, Data: hdr.Data}
	var err error
	switch hdr.ID {
	case CtrlTable, CtrlShape, CtrlEquation:
		c.Object, err = readObjectCommon(n.Record, hdr.Data)
	case CtrlSectionDef:
		c.SectionDef, err = readSectionDef(n.Record, hdr.Data)
	}
	if err != nil {
		return Control{}, err
	}
	if err := d.controlChildren(&c, n.children); err != nil {
		return Control{}, err
	}
	return c, nil
}

// controlChildren folds the records below a control into it. Paragraphs
// belong to the closest preceding LIST_HEADER sibling: a table cell when
// the control has a table, otherwise an entry of Lists.
func (d *sectionDecoder) controlChildren(c *Control, nodes []*recordNode) error {
	var (
		cur   []Paragraph
		store func([]Paragraph)
	)
	flush := func() {
		if store != nil {
			store(cur)
		}
		cur, store = nil, nil
	}
	startList := func() {
		c.Lists = append(c.Lists, nil)
		idx := len(c.Lists) - 1
		store = func(ps []Paragraph) { c.Lists[idx] = ps }
	}
	for _, n := range nodes {
		v, err := decodeSectionRecord(n.Record)
		if err != nil {
			return err
		}
		switch r := v.(type) {
		case tableRecord:
			flush()
			t := r.Table
			c.Table = &t
		case listHeaderRecord:
			flush()
			if c.Table == nil {
				startList()
				continue
			}
			cell, err := readCellProps(n.Record, r)
			if err != nil {
				return err
			}
			c.Table.Cells = append(c.Table.Cells, cell)
			idx := len(c.Table.Cells) - 1
			store = func(ps []Paragraph) { c.Table.Cells[idx].Paragraphs = ps }
		case paraHeaderRecord:
			p, err := d.paragraph(n, r)
			if err != nil {
				return err
			}
			if store == nil {
				startList()
			}
			cur = append(cur, p)
		case pageDefRecord:
			if c.SectionDef != nil {
				pd := r.PageDef
				c.SectionDef.PageDef = &pd
			}
		case pictureRecord:
			pic := r.Picture
			c.Picture = &pic
		default:
			if len(n.children) == 0 {
				d.skip(n)
				continue
			}
			flush()
			if err := d.controlChildren(c, n.children); err != nil {
				return err
			}
		}
	}
	flush()
	return nil
}
