package player

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// go-mp3 emits this many samples of decoder delay before the first real one.
const mp3DecoderDelaySamples = 529

// mp3Trim is the number of per-channel samples to drop from each end of a
// decoded MP3 so the PCM starts and stops where the encoder's input did.
type mp3Trim struct {
	start int
	end   int
}

// apply cuts the trim from interleaved samples. A trim longer than the
// stream leaves it untouched.
func (t mp3Trim) apply(samples []int16, channels int) []int16 {
	lo, hi := t.start*channels, len(samples)-t.end*channels
	if lo <= 0 && hi >= len(samples) || lo >= hi {
		return samples
	}
	return samples[max(lo, 0):min(hi, len(samples))]
}

// readMP3Trim reads the LAME encoder delay and padding from the Xing/Info
// frame. Files without one get a zero trim. The read offset of r is
// restored.
func readMP3Trim(r io.ReadSeeker) (mp3Trim, error) {
	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return mp3Trim{}, err
	}
	defer func() {
		_, _ = r.Seek(pos, io.SeekStart)
	}()

	frameOffset, err := firstMP3FrameOffset(r)
	if err != nil {
		return mp3Trim{}, nil
	}
	if _, err := r.Seek(frameOffset, io.SeekStart); err != nil {
		return mp3Trim{}, err
	}

	buf := make([]byte, 4+2+32+256)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF {
		return mp3Trim{}, nil
	}
	return parseMP3Trim(buf[:n]), nil
}

// parseMP3Trim reads the trim from the bytes of the first audio frame.
func parseMP3Trim(frame []byte) mp3Trim {
	skip, err := xingOffset(frame)
	if err != nil || skip >= len(frame) {
		return mp3Trim{}
	}
	delay, padding, ok := parseLAMEDelay(frame[skip:])
	if !ok {
		return mp3Trim{}
	}
	return mp3Trim{
		start: delay + mp3DecoderDelaySamples,
		end:   max(padding-mp3DecoderDelaySamples, 0),
	}
}

// firstMP3FrameOffset skips a leading ID3v2 tag.
func firstMP3FrameOffset(r io.ReadSeeker) (int64, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	header := make([]byte, 10)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, err
	}
	if !bytes.Equal(header[:3], []byte("ID3")) {
		return 0, nil
	}
	size := int(header[6]&0x7f)<<21 | int(header[7]&0x7f)<<14 | int(header[8]&0x7f)<<7 | int(header[9]&0x7f)
	if header[5]&0x10 != 0 {
		size += 10 // footer
	}
	return int64(10 + size), nil
}

// xingOffset returns where the Xing/Info tag starts inside a Layer III
// frame: after the header, the optional CRC and the side info.
func xingOffset(frame []byte) (int, error) {
	if len(frame) < 4 {
		return 0, fmt.Errorf("short mp3 header")
	}
	h := binary.BigEndian.Uint32(frame)
	if h>>21 != 0x7ff {
		return 0, fmt.Errorf("invalid mp3 sync")
	}

	version := (h >> 19) & 0x3
	layer := (h >> 17) & 0x3
	unprotected := (h>>16)&0x1 == 1
	mono := (h>>6)&0x3 == 0x3

	if layer != 0x1 {
		return 0, fmt.Errorf("not layer iii")
	}
	if version == 0x1 {
		return 0, fmt.Errorf("reserved mpeg version")
	}

	var side int
	switch mpeg1 := version == 0x3; {
	case mpeg1 && mono:
		side = 17
	case mpeg1:
		side = 32
	case mono:
		side = 9
	default:
		side = 17
	}

	off := 4 + side
	if !unprotected {
		off += 2
	}
	return off, nil
}

// parseLAMEDelay reads the 12-bit encoder delay and padding stored 21 bytes
// into the LAME extension that follows the Xing fields.
func parseLAMEDelay(b []byte) (delay, padding int, ok bool) {
	if len(b) < 8 {
		return 0, 0, false
	}
	if tag := string(b[:4]); tag != "Xing" && tag != "Info" {
		return 0, 0, false
	}

	flags := binary.BigEndian.Uint32(b[4:8])
	off := 8
	if flags&0x1 != 0 { // frames
		off += 4
	}
	if flags&0x2 != 0 { // bytes
		off += 4
	}
	if flags&0x4 != 0 { // TOC
		off += 100
	}
	if flags&0x8 != 0 { // quality
		off += 4
	}
	if len(b) < off+24 {
		return 0, 0, false
	}

	dp := b[off+21 : off+24]
	delay = int(dp[0])<<4 | int(dp[1]>>4)
	padding = int(dp[1]&0x0f)<<8 | int(dp[2])
	if delay == 0 && padding == 0 {
		return 0, 0, false
	}
	return delay, padding, true
}
