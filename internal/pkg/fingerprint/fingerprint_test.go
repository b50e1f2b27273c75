package fingerprint

import (
	"bytes"
	"strings"
	"testing"
)

func TestSum(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{
			name: "empty input",
			data: nil,
			want: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name: "known vector",
			data: []byte("abc"),
			want: "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sum(tt.data)
			if got != tt.want {
				t.Errorf("Sum() = %s, want %s", got, tt.want)
			}
			if len(got) != 64 || got != strings.ToLower(got) {
				t.Errorf("Sum() must be 64 lowercase hex chars, got %q", got)
			}
		})
	}
}

func TestSumReaderMatchesSum(t *testing.T) {
	data := []byte("sealed diploma bytes")
	fromReader, err := SumReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("SumReader() error = %v", err)
	}
	if fromReader != Sum(data) {
		t.Errorf("SumReader() = %s, Sum() = %s", fromReader, Sum(data))
	}
}

func TestSumDetectsSingleBitFlip(t *testing.T) {
	data := []byte("sealed diploma bytes")
	original := Sum(data)

	flipped := make([]byte, len(data))
	copy(flipped, data)
	flipped[0] ^= 0x01

	if Sum(flipped) == original {
		t.Error("flipping one bit must change the fingerprint")
	}
}
