// Package elftest builds minimal ELF64 shared objects in memory so tests can
// exercise dynamic-section parsing without shipping binary fixtures or
// depending on the host toolchain.
package elftest

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
)

// Object describes a synthetic shared object: its declared SONAME (optional)
// and its NEEDED entries.
type Object struct {
	Soname string
	Needed []string
}

// section header name offsets inside the shstrtab below.
const (
	shstrtab        = "\x00.dynstr\x00.dynamic\x00.shstrtab\x00"
	nameOffDynstr   = 1
	nameOffDynamic  = 9
	nameOffShstrtab = 18
)

// Build renders obj as a little-endian ELF64 (ET_DYN, EM_X86_64) with four
// sections: NULL, .dynstr, .dynamic and .shstrtab. The layout is the minimum
// debug/elf needs to resolve DT_SONAME and DT_NEEDED through the dynamic
// section's string table.
func Build(obj Object) []byte {
	// Dynamic string table. Offset 0 is the conventional empty string.
	dynstr := []byte{0}
	addString := func(s string) uint64 {
		off := uint64(len(dynstr))
		dynstr = append(dynstr, s...)
		dynstr = append(dynstr, 0)
		return off
	}

	type dyn struct {
		tag uint64
		val uint64
	}
	var dyns []dyn
	for _, n := range obj.Needed {
		dyns = append(dyns, dyn{uint64(elf.DT_NEEDED), addString(n)})
	}
	if obj.Soname != "" {
		dyns = append(dyns, dyn{uint64(elf.DT_SONAME), addString(obj.Soname)})
	}
	dyns = append(dyns, dyn{uint64(elf.DT_NULL), 0})

	dynamic := make([]byte, 0, len(dyns)*16)
	for _, d := range dyns {
		dynamic = binary.LittleEndian.AppendUint64(dynamic, d.tag)
		dynamic = binary.LittleEndian.AppendUint64(dynamic, d.val)
	}

	const ehsize = 64
	dynstrOff := uint64(ehsize)
	dynamicOff := align8(dynstrOff + uint64(len(dynstr)))
	shstrOff := dynamicOff + uint64(len(dynamic))
	shoff := align8(shstrOff + uint64(len(shstrtab)))

	var buf bytes.Buffer

	// ELF header.
	ident := [16]byte{0x7f, 'E', 'L', 'F',
		byte(elf.ELFCLASS64), byte(elf.ELFDATA2LSB), byte(elf.EV_CURRENT)}
	buf.Write(ident[:])
	writeLE(&buf, uint16(elf.ET_DYN))
	writeLE(&buf, uint16(elf.EM_X86_64))
	writeLE(&buf, uint32(elf.EV_CURRENT))
	writeLE(&buf, uint64(0)) // entry
	writeLE(&buf, uint64(0)) // phoff
	writeLE(&buf, shoff)
	writeLE(&buf, uint32(0))      // flags
	writeLE(&buf, uint16(ehsize)) // ehsize
	writeLE(&buf, uint16(0))      // phentsize
	writeLE(&buf, uint16(0))      // phnum
	writeLE(&buf, uint16(64))     // shentsize
	writeLE(&buf, uint16(4))      // shnum
	writeLE(&buf, uint16(3))      // shstrndx

	// Section contents.
	buf.Write(dynstr)
	pad(&buf, int(dynamicOff)-buf.Len())
	buf.Write(dynamic)
	buf.WriteString(shstrtab)
	pad(&buf, int(shoff)-buf.Len())

	// Section headers.
	writeSectionHeader(&buf, sectionHeader{}) // NULL
	writeSectionHeader(&buf, sectionHeader{
		name:      nameOffDynstr,
		shType:    uint32(elf.SHT_STRTAB),
		flags:     uint64(elf.SHF_ALLOC),
		offset:    dynstrOff,
		size:      uint64(len(dynstr)),
		addralign: 1,
	})
	writeSectionHeader(&buf, sectionHeader{
		name:      nameOffDynamic,
		shType:    uint32(elf.SHT_DYNAMIC),
		flags:     uint64(elf.SHF_ALLOC | elf.SHF_WRITE),
		offset:    dynamicOff,
		size:      uint64(len(dynamic)),
		link:      1, // .dynstr
		addralign: 8,
		entsize:   16,
	})
	writeSectionHeader(&buf, sectionHeader{
		name:      nameOffShstrtab,
		shType:    uint32(elf.SHT_STRTAB),
		offset:    shstrOff,
		size:      uint64(len(shstrtab)),
		addralign: 1,
	})

	return buf.Bytes()
}

type sectionHeader struct {
	name      uint32
	shType    uint32
	flags     uint64
	addr      uint64
	offset    uint64
	size      uint64
	link      uint32
	info      uint32
	addralign uint64
	entsize   uint64
}

func writeSectionHeader(buf *bytes.Buffer, sh sectionHeader) {
	writeLE(buf, sh.name)
	writeLE(buf, sh.shType)
	writeLE(buf, sh.flags)
	writeLE(buf, sh.addr)
	writeLE(buf, sh.offset)
	writeLE(buf, sh.size)
	writeLE(buf, sh.link)
	writeLE(buf, sh.info)
	writeLE(buf, sh.addralign)
	writeLE(buf, sh.entsize)
}

func writeLE(buf *bytes.Buffer, v any) {
	_ = binary.Write(buf, binary.LittleEndian, v)
}

func pad(buf *bytes.Buffer, n int) {
	buf.Write(make([]byte, n))
}

func align8(v uint64) uint64 {
	return (v + 7) &^ 7
}
