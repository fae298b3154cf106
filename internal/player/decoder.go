package player

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// pcm is a fully decoded track as interleaved signed 16-bit samples.
type pcm struct {
	samples  []int16
	rate     int
	channels int
}

// frames returns the number of sample frames (one sample per channel).
func (p pcm) frames() int {
	if p.channels <= 0 {
		return 0
	}
	return len(p.samples) / p.channels
}

type decodeFunc func(f *os.File) (pcm, error)

var decoders = map[string]decodeFunc{
	".mp3":  decodeMP3,
	".wav":  decodeWAV,
	".flac": decodeFLAC,
	".ogg":  decodeOGG,
}

// IsSupported reports whether path has an extension Load can decode.
func IsSupported(path string) bool {
	_, ok := decoders[strings.ToLower(filepath.Ext(path))]
	return ok
}

// SupportedExts returns the decodable extensions, sorted.
func SupportedExts() []string {
	exts := make([]string, 0, len(decoders))
	for ext := range decoders {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// decodeFile detects the format by file extension and decodes the whole file.
func decodeFile(f *os.File) (pcm, error) {
	ext := strings.ToLower(filepath.Ext(f.Name()))
	dec, ok := decoders[ext]
	if !ok {
		return pcm{}, fmt.Errorf("unsupported format: %s", ext)
	}
	p, err := dec(f)
	if err != nil {
		return pcm{}, err
	}
	if p.rate <= 0 || p.channels <= 0 {
		return pcm{}, fmt.Errorf("invalid stream: %d Hz, %d channels", p.rate, p.channels)
	}
	return p, nil
}

// --- MP3 ---

func decodeMP3(f *os.File) (pcm, error) {
	trim, err := readMP3Trim(f)
	if err != nil {
		return pcm{}, fmt.Errorf("reading MP3 header: %w", err)
	}
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return pcm{}, fmt.Errorf("decoding MP3: %w", err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return pcm{}, fmt.Errorf("decoding MP3: %w", err)
	}
	// go-mp3 always emits 16-bit little-endian stereo.
	return pcm{samples: trim.apply(int16LE(raw), 2), rate: dec.SampleRate(), channels: 2}, nil
}

// --- WAV ---

func decodeWAV(f *os.File) (pcm, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return pcm{}, fmt.Errorf("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return pcm{}, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	depth := int(dec.BitDepth)
	switch depth {
	case 8, 16, 24, 32:
	default:
		return pcm{}, fmt.Errorf("unsupported WAV bit depth: %d", depth)
	}

	// The reader sits at the start of the data chunk; anything after it is
	// trailing metadata.
	raw, err := io.ReadAll(io.LimitReader(f, dec.PCMLen()))
	if err != nil {
		return pcm{}, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	width := depth / 8
	out := make([]int16, len(raw)/width)
	for i := range out {
		off := i * width
		var sample int
		switch depth {
		case 8:
			// 8-bit WAV is unsigned
			sample = (int(raw[off]) - 128) << 8
		case 16:
			sample = int(int16(binary.LittleEndian.Uint16(raw[off:])))
		case 24:
			s := int32(raw[off]) | int32(raw[off+1])<<8 | int32(raw[off+2])<<16
			if s&0x800000 != 0 {
				s |= ^0xFFFFFF
			}
			sample = int(s >> 8)
		case 32:
			sample = int(int32(binary.LittleEndian.Uint32(raw[off:])) >> 16)
		}
		out[i] = clamp16(sample)
	}

	return pcm{samples: out, rate: int(dec.SampleRate), channels: int(dec.NumChans)}, nil
}

// --- FLAC ---

func decodeFLAC(f *os.File) (pcm, error) {
	stream, err := flac.New(f)
	if err != nil {
		return pcm{}, fmt.Errorf("decoding FLAC: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	bps := int(info.BitsPerSample)
	out := make([]int16, 0, int(info.NSamples)*channels)

	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return pcm{}, fmt.Errorf("decoding FLAC: %w", err)
		}

		n := int(frame.Subframes[0].NSamples)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				sample := int(frame.Subframes[ch].Samples[i])
				switch {
				case bps > 16:
					sample >>= bps - 16
				case bps < 16:
					sample <<= 16 - bps
				}
				out = append(out, clamp16(sample))
			}
		}
	}

	return pcm{samples: out, rate: int(info.SampleRate), channels: channels}, nil
}

// --- OGG Vorbis ---

func decodeOGG(f *os.File) (pcm, error) {
	samples, format, err := oggvorbis.ReadAll(f)
	if err != nil {
		return pcm{}, fmt.Errorf("decoding OGG: %w", err)
	}

	out := make([]int16, len(samples))
	for i, s := range samples {
		out[i] = clamp16(int(max(min(s, 1), -1) * 32767))
	}
	return pcm{samples: out, rate: format.SampleRate, channels: format.Channels}, nil
}

func int16LE(raw []byte) []int16 {
	out := make([]int16, len(raw)/2)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	return out
}

func clamp16(sample int) int16 {
	if sample > 32767 {
		return 32767
	}
	if sample < -32768 {
		return -32768
	}
	return int16(sample)
}
