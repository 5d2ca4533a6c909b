package audio

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func TestFloatToInt16(t *testing.T) {
	tests := []struct {
		name string
		in   float32
		want int16
	}{
		{"zero", 0.0, 0},
		{"full scale negative", -1.0, -32768},
		{"full scale positive", 1.0, 32767},
		{"half negative", -0.5, -16384},
		{"clamped above", 2.5, 32767},
		{"clamped below", -3.0, -32768},
		{"small positive", 0.0001, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FloatToInt16(tt.in); got != tt.want {
				t.Errorf("FloatToInt16(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFloatToInt16Range(t *testing.T) {
	// Sweep the legal input range; every output must fit int16 and
	// out-of-range inputs must equal their clamped counterparts.
	for i := -200; i <= 200; i++ {
		s := float32(i) / 100
		got := FloatToInt16(s)
		if got < -32768 || got > 32767 {
			t.Fatalf("FloatToInt16(%v) = %d out of int16 range", s, got)
		}

		clamped := s
		if clamped > 1 {
			clamped = 1
		} else if clamped < -1 {
			clamped = -1
		}
		if want := FloatToInt16(clamped); got != want {
			t.Errorf("FloatToInt16(%v) = %d, want clamped value %d", s, got, want)
		}
	}
}

func TestConvertBuffer(t *testing.T) {
	in := []float32{-1.0, 0.0, 1.0, 0.25}
	got := ConvertBuffer(in)
	want := []int16{-32768, 0, 32767, 8191}

	if len(got) != len(in) {
		t.Fatalf("ConvertBuffer length = %d, want %d", len(got), len(in))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ConvertBuffer[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestInt16BytesRoundTrip(t *testing.T) {
	samples := []int16{0, 1, -1, 32767, -32768, 12345}
	raw := Int16ToBytes(samples)
	if len(raw) != len(samples)*2 {
		t.Fatalf("Int16ToBytes length = %d, want %d", len(raw), len(samples)*2)
	}

	back, err := BytesToInt16(raw)
	if err != nil {
		t.Fatalf("BytesToInt16: %v", err)
	}
	for i := range samples {
		if back[i] != samples[i] {
			t.Errorf("round trip sample %d = %d, want %d", i, back[i], samples[i])
		}
	}
}

func TestBytesToInt16OddLength(t *testing.T) {
	if _, err := BytesToInt16([]byte{0x01, 0x02, 0x03}); !errors.Is(err, ErrDecodeFailed) {
		t.Errorf("BytesToInt16 odd length error = %v, want ErrDecodeFailed", err)
	}
}

func TestDecodeFloat32(t *testing.T) {
	samples := []float32{0.0, 0.5, -0.5, 1.0}
	raw := make([]byte, len(samples)*4)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(s))
	}

	got, err := DecodeFloat32(base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		t.Fatalf("DecodeFloat32: %v", err)
	}
	if len(got) != len(samples) {
		t.Fatalf("DecodeFloat32 length = %d, want %d", len(got), len(samples))
	}
	for i := range samples {
		if got[i] != samples[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], samples[i])
		}
	}
}

func TestDecodeFloat32Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"malformed base64", "not!!base64"},
		{"truncated buffer", base64.StdEncoding.EncodeToString([]byte{1, 2, 3, 4, 5})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeFloat32(tt.in); !errors.Is(err, ErrDecodeFailed) {
				t.Errorf("DecodeFloat32(%q) error = %v, want ErrDecodeFailed", tt.in, err)
			}
		})
	}
}
