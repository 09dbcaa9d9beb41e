// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package symbianfile

import (
	"encoding/binary"
	"fmt"
	"io"
)

// archDirective maps a TCpu to the `.arch` directive the emitter fixes, per
// spec §4.6 ("the assembler header fixing .arch"). The emitter only targets
// ARM, since GNU assembler `.arch` values for the other TCpu variants this
// format predates have no meaningful modern target.
func archDirective(cpu TCpu) (string, error) {
	switch cpu {
	case ECpuArmV4:
		return "armv4t", nil
	case ECpuArmV5:
		return "armv5t", nil
	case ECpuArmV6:
		return "armv6", nil
	default:
		return "", fmt.Errorf("%w: no .arch mapping for CPU %s", ErrUnsupported, cpu)
	}
}

// wordRelocation classifies one 4-byte word of .text/.data for emission:
// either a plain literal or a section-rebase expression. Import symbol
// references are looked up separately, by buildImportSlotMap.
type wordRelocation int

const (
	wordLiteral wordRelocation = iota
	wordTextRebase
	wordDataRebase
)

// EmitAssembly writes GNU-assembler (.s) source for img to w: an .arch
// directive, the entry-point symbol, textmv/datamv rebase expressions, and
// one .4byte directive per 4-byte word of .text and .data, substituting
// symbol+addend or rebase expressions wherever a word's address matches a
// relocation or import entry, per spec §4.6.
func (img *E32Image) EmitAssembly(w io.Writer) error {
	arch, err := archDirective(img.Header.CpuIdentifier)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, ".arch %s\n", arch)
	fmt.Fprintf(w, ".global _entry\n")
	fmt.Fprintf(w, "_entry = textstart + %#x\n", img.Header.EntryPoint)
	fmt.Fprintf(w, "textmv = textstart - %#x\n", img.Header.CodeBase)
	fmt.Fprintf(w, "datamv = datastart - %#x\n", img.Header.DataBase)

	relocByOffset := make(map[uint32]wordRelocation, len(img.CodeRelocs.Entries)+len(img.DataRelocs.Entries))
	for _, e := range img.CodeRelocs.Entries {
		relocByOffset[e.Offset] = relocKind(e.Type)
	}
	for _, e := range img.DataRelocs.Entries {
		relocByOffset[e.Offset] = relocKind(e.Type)
	}

	importBySlot := buildImportSlotMap(img)

	fmt.Fprintf(w, "\n.section .text\ntextstart:\n")
	if err := emitWords(w, img.Code(), img.Header.CodeOffset, relocByOffset, importBySlot); err != nil {
		return err
	}

	if img.Header.DataSize > 0 {
		fmt.Fprintf(w, "\n.section .data\ndatastart:\n")
		if err := emitWords(w, img.Data(), img.Header.DataOffset, relocByOffset, importBySlot); err != nil {
			return err
		}
	}

	return nil
}

func relocKind(typ uint16) wordRelocation {
	switch typ {
	case relocTypeCode:
		return wordTextRebase
	case relocTypeData:
		return wordDataRebase
	default:
		return wordLiteral
	}
}

type importSlot struct {
	symbol string
	addend uint32
}

// buildImportSlotMap locates the import address table (the words at
// iTextSize..iCodeSize-1 of the code section, conventionally) and maps each
// slot's absolute file offset to a resolved symbol, in declaration order of
// the import blocks.
func buildImportSlotMap(img *E32Image) map[uint32]importSlot {
	out := map[uint32]importSlot{}
	offset := img.Header.CodeOffset + uint32(img.Header.TextSize)
	for bi := range img.Imports {
		block := &img.Imports[bi]
		for i := range block.Values {
			sym := ""
			if i < len(block.Resolved) {
				sym = block.Resolved[i]
			}
			if sym != "" {
				out[offset] = importSlot{symbol: sym, addend: block.Addend(i)}
			}
			offset += 4
		}
	}
	return out
}

func emitWords(w io.Writer, section []byte, baseOffset uint32, relocs map[uint32]wordRelocation, imports map[uint32]importSlot) error {
	for i := 0; i+4 <= len(section); i += 4 {
		word := binary.LittleEndian.Uint32(section[i : i+4])
		abs := baseOffset + uint32(i)

		if slot, ok := imports[abs]; ok {
			if slot.addend != 0 {
				fmt.Fprintf(w, ".4byte %s + %#x\n", slot.symbol, slot.addend)
			} else {
				fmt.Fprintf(w, ".4byte %s\n", slot.symbol)
			}
			continue
		}

		switch relocs[abs] {
		case wordTextRebase:
			fmt.Fprintf(w, ".4byte %#x + textmv\n", word)
		case wordDataRebase:
			fmt.Fprintf(w, ".4byte %#x + datamv\n", word)
		default:
			fmt.Fprintf(w, ".4byte %#x\n", word)
		}
	}
	return nil
}
