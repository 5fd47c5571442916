package core

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
)

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{name: "plain ascii", input: []byte("Sol Ring\n"), want: "Sol Ring\n"},
		{name: "utf8 bom stripped", input: []byte("\xEF\xBB\xBFSol Ring"), want: "Sol Ring"},
		{name: "multibyte kept", input: []byte("Lim-Dûl's Vault"), want: "Lim-Dûl's Vault"},
		{name: "invalid byte replaced", input: []byte("Sol\xffRing"), want: "Sol�Ring"},
		{name: "utf16le with bom", input: []byte{0xFF, 0xFE, 'O', 0, 'p', 0, 't', 0}, want: "Opt"},
		{name: "empty", input: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeText(tt.input)
			if err != nil {
				t.Fatalf("DecodeText() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("DecodeText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadInputFile_Missing(t *testing.T) {
	_, err := ReadInputFile(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, ErrUnreadableInput) {
		t.Errorf("ReadInputFile() error = %v, want ErrUnreadableInput", err)
	}
}

func TestReadInput_BrokenWorkbook(t *testing.T) {
	_, err := ReadInput(bytes.NewReader([]byte("PK\x03\x04not really a zip")))
	if !errors.Is(err, ErrUnreadableInput) {
		t.Errorf("ReadInput() error = %v, want ErrUnreadableInput", err)
	}
}
