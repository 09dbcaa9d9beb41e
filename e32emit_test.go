// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package symbianfile

import (
	"strings"
	"testing"
)

func TestArchDirective(t *testing.T) {
	tests := []struct {
		cpu     TCpu
		want    string
		wantErr bool
	}{
		{ECpuArmV4, "armv4t", false},
		{ECpuArmV5, "armv5t", false},
		{ECpuArmV6, "armv6", false},
		{ECpuX86, "", true},
		{ECpuUnknown, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.cpu.String(), func(t *testing.T) {
			got, err := archDirective(tt.cpu)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("archDirective(%v) = nil error, want Unsupported", tt.cpu)
				}
				return
			}
			if err != nil {
				t.Fatalf("archDirective(%v) unexpected error: %v", tt.cpu, err)
			}
			if got != tt.want {
				t.Fatalf("archDirective(%v) = %q, want %q", tt.cpu, got, tt.want)
			}
		})
	}
}

func TestEmitAssemblyRebaseAndLiteral(t *testing.T) {
	img := &E32Image{
		Header: E32Header{
			CpuIdentifier: ECpuArmV5,
			EntryPoint:    0x10,
			CodeBase:      0x1000,
			DataBase:      0x2000,
			CodeOffset:    0,
			CodeSize:      12,
			TextSize:      12,
			DataSize:      0,
		},
		Body: []byte{
			0x11, 0x10, 0x00, 0x00, // literal word, no reloc
			0x00, 0x10, 0x00, 0x00, // code-rebased word
			0x00, 0x20, 0x00, 0x00, // data-rebased word
		},
		CodeRelocs: E32RelocSection{Entries: []E32Reloc{
			{Offset: 4, Type: relocTypeCode},
			{Offset: 8, Type: relocTypeData},
		}},
	}

	var sb strings.Builder
	if err := img.EmitAssembly(&sb); err != nil {
		t.Fatalf("EmitAssembly failed: %v", err)
	}
	out := sb.String()

	for _, want := range []string{
		".arch armv5t",
		"_entry = textstart + 0x10",
		"textmv = textstart - 0x1000",
		"datamv = datastart - 0x2000",
		".4byte 0x1011\n",
		".4byte 0x1000 + textmv",
		".4byte 0x2000 + datamv",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("EmitAssembly output missing %q, got:\n%s", want, out)
		}
	}
}

func TestEmitAssemblySkipsDataSectionWhenEmpty(t *testing.T) {
	img := &E32Image{
		Header: E32Header{
			CpuIdentifier: ECpuArmV4,
			CodeOffset:    0,
			CodeSize:      4,
			TextSize:      4,
			DataSize:      0,
		},
		Body: []byte{0, 0, 0, 0},
	}

	var sb strings.Builder
	if err := img.EmitAssembly(&sb); err != nil {
		t.Fatalf("EmitAssembly failed: %v", err)
	}
	if strings.Contains(sb.String(), ".section .data") {
		t.Errorf("EmitAssembly emitted a .data section for a DataSize=0 image")
	}
}

func TestEmitAssemblyRejectsX86(t *testing.T) {
	img := &E32Image{Header: E32Header{CpuIdentifier: ECpuX86}}
	var sb strings.Builder
	err := img.EmitAssembly(&sb)
	if err == nil {
		t.Fatal("EmitAssembly(x86) = nil error, want Unsupported")
	}
}
