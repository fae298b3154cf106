package analysis

import "time"

// Config bundles the startup analysis parameters.
type Config struct {
	FPS      float64
	Envelope EnvelopeConfig
}

// DefaultConfig returns the 60 frames/s spectrogram and the default envelope.
func DefaultConfig() Config {
	return Config{FPS: DefaultFPS, Envelope: DefaultEnvelopeConfig()}
}

// Result is everything the render loop reads. It never changes after Run.
type Result struct {
	Spectrogram *Spectrogram
	Envelope    Envelope
	Mapper      FrameMapper
	Duration    time.Duration
}

// Run analyzes buf once: spectrogram, envelope, and the mapper joining them.
func Run(buf SampleBuffer, cfg Config) (*Result, error) {
	spec, err := Analyze(buf, cfg.FPS)
	if err != nil {
		return nil, err
	}
	env, err := Smooth(buf, cfg.Envelope)
	if err != nil {
		return nil, err
	}
	return &Result{
		Spectrogram: spec,
		Envelope:    env,
		Mapper:      NewFrameMapper(buf, spec),
		Duration:    buf.Duration(),
	}, nil
}
