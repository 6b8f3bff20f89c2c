// Package hwptest builds HWP 5 files in memory for tests: OLE compound files,
// record streams and the payloads of the common record kinds.
package hwptest

import (
	"encoding/binary"
	"unicode/utf16"
)

// Node is a stream or storage of a compound file.
type Node struct {
	Name     string
	Data     []byte
	Children []*Node
	storage  bool
}

// Stream returns a stream node.
func Stream(name string, data []byte) *Node {
	return &Node{Name: name, Data: data}
}

// Storage returns a storage node holding children.
func Storage(name string, children ...*Node) *Node {
	return &Node{Name: name, Children: children, storage: true}
}

const (
	sectorSize     = 512
	miniSectorSize = 64
	miniCutoff     = 4096
	fatPerSector   = sectorSize / 4
	dirPerSector   = sectorSize / 128

	freeSect   uint32 = 0xFFFFFFFF
	endOfChain uint32 = 0xFFFFFFFE
	fatSect    uint32 = 0xFFFFFFFD
	noStream   uint32 = 0xFFFFFFFF

	typeStorage = 1
	typeStream  = 2
	typeRoot    = 5
)

type dirEntry struct {
	node  *Node
	typ   byte
	child uint32
	right uint32
	start uint32
	size  uint32
}

// CompoundFile writes a version 3 compound file with 512-byte sectors whose
// root storage holds entries. Streams shorter than 4096 bytes go to the mini
// stream. Siblings are chained through their right links only, which readers
// accept even though it is not a balanced tree.
func CompoundFile(entries ...*Node) []byte {
	dirs := []*dirEntry{{node: &Node{Name: "Root Entry"}, typ: typeRoot, child: noStream, right: noStream}}
	var add func(children []*Node) uint32
	add = func(children []*Node) uint32 {
		first := noStream
		var prev *dirEntry
		for _, n := range children {
			d := &dirEntry{node: n, typ: typeStream, child: noStream, right: noStream}
			idx := uint32(len(dirs))
			dirs = append(dirs, d)
			if n.storage {
				d.typ = typeStorage
				d.child = add(n.Children)
			}
			if prev == nil {
				first = idx
			} else {
				prev.right = idx
			}
			prev = d
		}
		return first
	}
	dirs[0].child = add(entries)

	// Mini stream layout.
	var mini []byte
	var miniFAT []uint32
	for _, d := range dirs {
		if d.typ != typeStream || len(d.node.Data) == 0 || len(d.node.Data) >= miniCutoff {
			continue
		}
		d.start = uint32(len(miniFAT))
		d.size = uint32(len(d.node.Data))
		n := sectorsFor(len(d.node.Data), miniSectorSize)
		for i := range n {
			next := d.start + uint32(i) + 1
			if i == n-1 {
				next = endOfChain
			}
			miniFAT = append(miniFAT, next)
		}
		mini = append(mini, pad(d.node.Data, miniSectorSize)...)
	}

	nDir := sectorsFor(len(dirs), dirPerSector)
	nMiniFAT := sectorsFor(len(miniFAT), fatPerSector)
	nMini := sectorsFor(len(mini), sectorSize)
	nBig := 0
	for _, d := range dirs {
		if d.typ == typeStream && len(d.node.Data) >= miniCutoff {
			nBig += sectorsFor(len(d.node.Data), sectorSize)
		}
	}
	nFAT := 1
	for nFAT*fatPerSector < nFAT+nDir+nMiniFAT+nMini+nBig {
		nFAT++
	}
	if nFAT > 109 {
		panic("hwptest: compound file too large")
	}

	fat := make([]uint32, nFAT*fatPerSector)
	for i := range fat {
		fat[i] = freeSect
	}
	next := uint32(0)
	chain := func(n int) uint32 {
		if n == 0 {
			return endOfChain
		}
		start := next
		for i := range n {
			if i == n-1 {
				fat[next] = endOfChain
			} else {
				fat[next] = next + 1
			}
			next++
		}
		return start
	}
	for range nFAT {
		fat[next] = fatSect
		next++
	}
	dirStart := chain(nDir)
	miniFATStart := chain(nMiniFAT)
	miniStart := chain(nMini)
	var big []byte
	for _, d := range dirs {
		if d.typ != typeStream || len(d.node.Data) < miniCutoff {
			continue
		}
		d.start = chain(sectorsFor(len(d.node.Data), sectorSize))
		d.size = uint32(len(d.node.Data))
		big = append(big, pad(d.node.Data, sectorSize)...)
	}
	for _, d := range dirs {
		if d.typ == typeStream && len(d.node.Data) == 0 {
			d.start = endOfChain
		}
	}
	dirs[0].start = miniStart
	dirs[0].size = uint32(len(mini))

	out := make([]byte, 0, sectorSize*(1+int(next)))
	out = append(out, header(nFAT, dirStart, miniFATStart, nMiniFAT)...)
	for _, v := range fat {
		out = binary.LittleEndian.AppendUint32(out, v)
	}
	dirBytes := make([]byte, 0, nDir*sectorSize)
	for _, d := range dirs {
		dirBytes = append(dirBytes, d.encode()...)
	}
	for len(dirBytes) < nDir*sectorSize {
		dirBytes = append(dirBytes, emptyDirEntry()...)
	}
	out = append(out, dirBytes...)
	miniFATBytes := make([]byte, 0, nMiniFAT*sectorSize)
	for _, v := range miniFAT {
		miniFATBytes = binary.LittleEndian.AppendUint32(miniFATBytes, v)
	}
	for len(miniFATBytes) < nMiniFAT*sectorSize {
		miniFATBytes = binary.LittleEndian.AppendUint32(miniFATBytes, freeSect)
	}
	out = append(out, miniFATBytes...)
	out = append(out, pad(mini, sectorSize)...)
	out = append(out, big...)
	return out
}

func header(nFAT int, dirStart, miniFATStart uint32, nMiniFAT int) []byte {
	h := make([]byte, sectorSize)
	copy(h, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	binary.LittleEndian.PutUint16(h[24:], 0x003E)
	binary.LittleEndian.PutUint16(h[26:], 3)
	binary.LittleEndian.PutUint16(h[28:], 0xFFFE)
	binary.LittleEndian.PutUint16(h[30:], 9)
	binary.LittleEndian.PutUint16(h[32:], 6)
	binary.LittleEndian.PutUint32(h[44:], uint32(nFAT))
	binary.LittleEndian.PutUint32(h[48:], dirStart)
	binary.LittleEndian.PutUint32(h[56:], miniCutoff)
	binary.LittleEndian.PutUint32(h[60:], miniFATStart)
	binary.LittleEndian.PutUint32(h[64:], uint32(nMiniFAT))
	binary.LittleEndian.PutUint32(h[68:], endOfChain)
	for i := range 109 {
		v := freeSect
		if i < nFAT {
			v = uint32(i)
		}
		binary.LittleEndian.PutUint32(h[76+i*4:], v)
	}
	return h
}

func (d *dirEntry) encode() []byte {
	b := make([]byte, 128)
	name := utf16.Encode([]rune(d.node.Name))
	if len(name) > 31 {
		panic("hwptest: entry name too long: " + d.node.Name)
	}
	for i, u := range name {
		binary.LittleEndian.PutUint16(b[i*2:], u)
	}
	binary.LittleEndian.PutUint16(b[64:], uint16((len(name)+1)*2))
	b[66] = d.typ
	b[67] = 1 // black
	binary.LittleEndian.PutUint32(b[68:], noStream)
	binary.LittleEndian.PutUint32(b[72:], d.right)
	binary.LittleEndian.PutUint32(b[76:], d.child)
	binary.LittleEndian.PutUint32(b[116:], d.start)
	binary.LittleEndian.PutUint32(b[120:], d.size)
	return b
}

func emptyDirEntry() []byte {
	b := make([]byte, 128)
	binary.LittleEndian.PutUint32(b[68:], noStream)
	binary.LittleEndian.PutUint32(b[72:], noStream)
	binary.LittleEndian.PutUint32(b[76:], noStream)
	return b
}

func sectorsFor(n, size int) int {
	return (n + size - 1) / size
}

func pad(b []byte, size int) []byte {
	n := sectorsFor(len(b), size) * size
	out := make([]byte, n)
	copy(out, b)
	return out
}
