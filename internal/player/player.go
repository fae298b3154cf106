package player

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	bitDepth      = 2 // 16-bit = 2 bytes
	DefaultVolume = 0.5
	monitorPeriod = 50 * time.Millisecond
)

// countingReader wraps an io.Reader and tracks bytes read.
type countingReader struct {
	reader io.Reader
	pos    int64
	mu     sync.Mutex
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.reader.Read(p)
	cr.mu.Lock()
	cr.pos += int64(n)
	cr.mu.Unlock()
	return n, err
}

func (cr *countingReader) Pos() int64 {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return cr.pos
}

// output is the part of *oto.Player the Player drives.
type output interface {
	Play()
	Pause()
	IsPlaying() bool
	SetVolume(v float64)
	BufferedSize() int
	Close() error
}

// Player plays one decoded track and exposes its clock.
type Player struct {
	out         output
	counter     *countingReader
	total       int64
	bytesPerSec int
	duration    time.Duration
	volume      float64
	paused      bool
	done        chan struct{}
	stopMon     chan struct{}
	closed      bool
	mu          sync.Mutex
}

var (
	globalOtoCtx *oto.Context
	otoOnce      sync.Once
	otoInitErr   error
	otoRate      int
	otoChannels  int
)

// initOto creates the process-wide audio context. Oto allows only one, so
// every later track must share its format.
func initOto(rate, channels int) (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   rate,
			ChannelCount: channels,
			Format:       oto.FormatSignedInt16LE,
		}
		var ready chan struct{}
		globalOtoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
			otoRate, otoChannels = rate, channels
		}
	})
	if otoInitErr != nil {
		return nil, otoInitErr
	}
	if rate != otoRate || channels != otoChannels {
		return nil, fmt.Errorf("audio device opened at %d Hz/%d ch, track is %d Hz/%d ch", otoRate, otoChannels, rate, channels)
	}
	return globalOtoCtx, nil
}

// New starts playing t at the given volume.
func New(t *Track, volume float64) (*Player, error) {
	ctx, err := initOto(t.Rate, t.Channels)
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}

	cr := &countingReader{reader: bytes.NewReader(t.PCM)}
	op := ctx.NewPlayer(cr)
	p := newPlayer(op, cr, int64(len(t.PCM)), t.Rate*t.Channels*bitDepth, volume)
	op.Play()

	go p.monitor()
	return p, nil
}

func newPlayer(out output, cr *countingReader, total int64, bytesPerSec int, volume float64) *Player {
	volume = clampVolume(volume)
	out.SetVolume(volume)
	return &Player{
		out:         out,
		counter:     cr,
		total:       total,
		bytesPerSec: bytesPerSec,
		duration:    bytesToDuration(total, bytesPerSec),
		volume:      volume,
		done:        make(chan struct{}),
		stopMon:     make(chan struct{}),
	}
}

func (p *Player) monitor() {
	ticker := time.NewTicker(monitorPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-p.stopMon:
			return
		case <-ticker.C:
		}
		if p.finished() {
			close(p.done)
			return
		}
	}
}

// finished reports whether every byte has been read and played out.
func (p *Player) finished() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.paused {
		return false
	}
	return p.counter.Pos() >= p.total && p.out.BufferedSize() == 0 && !p.out.IsPlaying()
}

// Done returns a channel that closes when playback finishes.
func (p *Player) Done() <-chan struct{} {
	return p.done
}

// Complete reports whether the track has played to the end.
func (p *Player) Complete() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Playing reports whether audio is currently advancing.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.paused && !p.closed && !p.Complete()
}

// Pause pauses playback.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.out.Pause()
	p.paused = true
}

// Resume continues playback after Pause.
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.out.Play()
	p.paused = false
}

// TogglePause toggles between play and pause.
func (p *Player) TogglePause() {
	if p.Paused() {
		p.Resume()
	} else {
		p.Pause()
	}
}

// Paused returns whether playback is paused.
func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Position returns what has been heard so far: bytes handed to the device
// minus the ones still queued in its buffer.
func (p *Player) Position() time.Duration {
	heard := p.counter.Pos() - int64(p.out.BufferedSize())
	heard = min(max(heard, 0), p.total)
	return bytesToDuration(heard, p.bytesPerSec)
}

// Duration returns the total duration of the track.
func (p *Player) Duration() time.Duration {
	return p.duration
}

// Volume returns current volume (0.0 to 1.0).
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets volume (clamped to 0.0 - 1.0).
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = clampVolume(v)
	p.out.SetVolume(p.volume)
}

// Close stops playback and releases the device player. It is safe to call
// more than once.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	close(p.stopMon)
	p.out.Pause()
	p.out.Close()
}

func clampVolume(v float64) float64 {
	return min(max(v, 0), 1)
}

func bytesToDuration(n int64, bytesPerSec int) time.Duration {
	if bytesPerSec <= 0 {
		return 0
	}
	return time.Duration(float64(n) / float64(bytesPerSec) * float64(time.Second))
}
