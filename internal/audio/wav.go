package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// HeaderSize is the length of the canonical PCM WAV header.
const HeaderSize = 44

// Format describes the PCM layout of a WAV file. Everything this
// service produces is mono 16-bit; only the sample rate varies.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// DefaultFormat is the capture format: 16kHz mono 16-bit.
func DefaultFormat() Format {
	return Format{SampleRate: 16000, Channels: 1, BitsPerSample: 16}
}

// SynthesisFormat is the format for synthesized audio at the rate the
// synthesis backend reports, commonly 22050.
func SynthesisFormat(sampleRate int) Format {
	return Format{SampleRate: sampleRate, Channels: 1, BitsPerSample: 16}
}

// wavHeader mirrors the 44-byte canonical layout. All integer fields
// are little-endian on the wire.
type wavHeader struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // 36 + data length
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32 // SampleRate * NumChannels * BitsPerSample / 8
	BlockAlign    uint16 // NumChannels * BitsPerSample / 8
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // data length
}

// BuildHeader produces the canonical 44-byte WAV header for a data
// section of dataByteLength bytes. The length must be non-negative and
// leave room for the 36-byte header remainder inside uint32.
func BuildHeader(dataByteLength int, f Format) ([]byte, error) {
	if dataByteLength < 0 || uint64(dataByteLength) > math.MaxUint32-36 {
		return nil, fmt.Errorf("%w: data length %d not representable in a WAV header", ErrInvalidArgument, dataByteLength)
	}
	if f.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidArgument, f.SampleRate)
	}
	if f.Channels <= 0 {
		return nil, fmt.Errorf("%w: channel count must be positive, got %d", ErrInvalidArgument, f.Channels)
	}
	if f.BitsPerSample != 16 {
		return nil, fmt.Errorf("%w: only 16-bit PCM is supported, got %d", ErrInvalidArgument, f.BitsPerSample)
	}

	h := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + uint32(dataByteLength),
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   uint16(f.Channels),
		SampleRate:    uint32(f.SampleRate),
		ByteRate:      uint32(f.SampleRate) * uint32(f.Channels) * uint32(f.BitsPerSample) / 8,
		BlockAlign:    uint16(f.Channels) * uint16(f.BitsPerSample) / 8,
		BitsPerSample: uint16(f.BitsPerSample),
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: uint32(dataByteLength),
	}

	buf := bytes.NewBuffer(make([]byte, 0, HeaderSize))
	if err := binary.Write(buf, binary.LittleEndian, h); err != nil {
		return nil, fmt.Errorf("write WAV header: %w", err)
	}
	return buf.Bytes(), nil
}

// Encode builds a complete WAV buffer from int16 samples. The result is
// deterministic: the same samples and format always yield identical
// bytes. Encode performs no I/O.
func Encode(samples []int16, f Format) ([]byte, error) {
	return EncodeBytes(Int16ToBytes(samples), f)
}

// EncodeBytes builds a complete WAV buffer from raw little-endian int16
// PCM bytes, as delivered by the streaming capture source.
func EncodeBytes(pcm []byte, f Format) ([]byte, error) {
	header, err := BuildHeader(len(pcm), f)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, HeaderSize+len(pcm))
	out = append(out, header...)
	out = append(out, pcm...)
	return out, nil
}

// EncodeFromFloat converts float32 samples to int16 and encodes them.
func EncodeFromFloat(samples []float32, f Format) ([]byte, error) {
	return Encode(ConvertBuffer(samples), f)
}

// Decode parses a WAV buffer produced by Encode and returns the int16
// samples and sample rate.
func Decode(data []byte) ([]int16, int, error) {
	info, err := ReadInfo(data)
	if err != nil {
		return nil, 0, err
	}
	if info.AudioFormat != 1 {
		return nil, 0, fmt.Errorf("%w: unsupported audio format %d, only PCM is supported", ErrDecodeFailed, info.AudioFormat)
	}
	if info.BitsPerSample != 16 {
		return nil, 0, fmt.Errorf("%w: unsupported bit depth %d, only 16-bit is supported", ErrDecodeFailed, info.BitsPerSample)
	}
	if int(info.DataSize) > len(data)-HeaderSize {
		return nil, 0, fmt.Errorf("%w: data section truncated, header claims %d bytes but %d present", ErrDecodeFailed, info.DataSize, len(data)-HeaderSize)
	}
	samples, err := BytesToInt16(data[HeaderSize : HeaderSize+int(info.DataSize)])
	if err != nil {
		return nil, 0, err
	}
	return samples, int(info.SampleRate), nil
}

// Info summarizes a WAV header.
type Info struct {
	AudioFormat   uint16  `json:"audio_format"`
	SampleRate    uint32  `json:"sample_rate"`
	Channels      uint16  `json:"channels"`
	BitsPerSample uint16  `json:"bits_per_sample"`
	DataSize      uint32  `json:"data_size_bytes"`
	Duration      float64 `json:"duration_seconds"`
}

// ReadInfo validates the fixed header layout and extracts its fields.
func ReadInfo(data []byte) (*Info, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: need at least %d bytes, got %d", ErrDecodeFailed, HeaderSize, len(data))
	}
	if string(data[0:4]) != "RIFF" {
		return nil, fmt.Errorf("%w: missing RIFF marker", ErrDecodeFailed)
	}
	if string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: missing WAVE marker", ErrDecodeFailed)
	}
	if string(data[12:16]) != "fmt " {
		return nil, fmt.Errorf("%w: missing fmt chunk", ErrDecodeFailed)
	}
	if string(data[36:40]) != "data" {
		return nil, fmt.Errorf("%w: missing data chunk", ErrDecodeFailed)
	}

	info := &Info{
		AudioFormat:   binary.LittleEndian.Uint16(data[20:22]),
		Channels:      binary.LittleEndian.Uint16(data[22:24]),
		SampleRate:    binary.LittleEndian.Uint32(data[24:28]),
		BitsPerSample: binary.LittleEndian.Uint16(data[34:36]),
		DataSize:      binary.LittleEndian.Uint32(data[40:44]),
	}
	if info.SampleRate > 0 && info.BitsPerSample > 0 && info.Channels > 0 {
		bytesPerSample := uint32(info.BitsPerSample) / 8 * uint32(info.Channels)
		info.Duration = float64(info.DataSize/bytesPerSample) / float64(info.SampleRate)
	}
	return info, nil
}
