package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
)

// FloatToInt16 converts a single float32 PCM sample to int16.
// The input is clamped to [-1.0, 1.0] first. Negative values scale by
// 32768 and non-negative values by 32767, so both ends of the signed
// range are reachable. Symmetric ±32767 scaling is a common substitute
// but loses -32768 and shifts the negative lattice; do not switch to it.
func FloatToInt16(s float32) int16 {
	if s > 1.0 {
		s = 1.0
	} else if s < -1.0 {
		s = -1.0
	}
	if s < 0 {
		return int16(s * 32768)
	}
	return int16(s * 32767)
}

// ConvertBuffer converts float32 samples to int16 element-wise,
// preserving order and length.
func ConvertBuffer(samples []float32) []int16 {
	out := make([]int16, len(samples))
	for i, s := range samples {
		out[i] = FloatToInt16(s)
	}
	return out
}

// Int16ToBytes serializes samples as little-endian int16.
func Int16ToBytes(samples []int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return buf
}

// BytesToInt16 reinterprets little-endian int16 bytes as samples.
// The byte count must be even.
func BytesToInt16(data []byte) ([]int16, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of int16 samples", ErrDecodeFailed, len(data))
	}
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return samples, nil
}

// DecodeFloat32 decodes a base64 buffer of little-endian float32 PCM
// samples, as returned by the synthesis SDK.
func DecodeFloat32(b64 string) ([]float32, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of float32 samples", ErrDecodeFailed, len(raw))
	}
	samples := make([]float32, len(raw)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return samples, nil
}
