package inkwell

import (
	"github.com/inkwell-anim/inkwell/internal/mixer"
	"github.com/inkwell-anim/inkwell/internal/wavetable"
)

// Voice is a decoded or synthesized sample ready for mixing.
type Voice = mixer.Voice

// AudioBuffer is the render's sample accumulator.
type AudioBuffer = mixer.Buffer

// Waveform selects a synthesis waveform.
type Waveform = wavetable.Waveform

const (
	Sine     = wavetable.Sine
	Sawtooth = wavetable.Sawtooth
	Square   = wavetable.Square
	Triangle = wavetable.Triangle
)

// NoteFrequency maps a note name like "A4" to hertz (12-TET, A4 = 440 Hz).
func NoteFrequency(name string) (float64, error) {
	return wavetable.NoteFrequency(name)
}

// GenerateWave returns n samples spanning one period of the waveform.
func GenerateWave(kind Waveform, n int) []float64 {
	return wavetable.Generate(kind, n)
}

// Tone synthesizes a voice playing the named note for duration seconds.
func Tone(kind Waveform, note string, sampleRate int, duration float64) (*Voice, error) {
	tones := map[string][]float64{}
	if err := wavetable.BuildSamples(tones, kind, sampleRate, duration, []string{note}); err != nil {
		return nil, err
	}
	return mixer.VoiceFromSamples(tones[note]), nil
}

// VoiceFromSamples wraps raw samples in [-1, 1] as a voice.
func VoiceFromSamples(samples []float64) *Voice {
	return mixer.VoiceFromSamples(samples)
}

// Audio returns the render's audio buffer, or nil when audio is disabled.
func (a *Animation) Audio() *AudioBuffer { return a.buffer }

// LoadSample decodes a WAV file into a voice, cached by path for the
// render's lifetime.
func (a *Animation) LoadSample(path string) (*Voice, error) {
	if a.samples == nil {
		return nil, &UnsupportedAudioFormatError{Path: path, Reason: "audio is disabled for this render"}
	}
	return a.samples.LoadSample(path)
}

// MixAtFrame places a voice at the current frame's wall-clock time.
func (a *Animation) MixAtFrame(v *Voice, gain float64) {
	if a.buffer != nil {
		a.buffer.MixAtFrame(v, gain)
	}
}

// MixAt places a voice at an absolute time in seconds.
func (a *Animation) MixAt(v *Voice, seconds, gain float64) {
	if a.buffer != nil {
		a.buffer.MixAt(v, seconds, gain)
	}
}

// OnSixteenths places a voice on every sixteenth-note tick of the render's
// tempo whose pattern entry is true, cycling the pattern over the render
// length. Timing derives from the tempo alone; audio and video share only
// the render's origin.
func (a *Animation) OnSixteenths(v *Voice, pattern []bool, gain float64) {
	if a.buffer != nil {
		a.buffer.OnSixteenths(v, a.cfg.tempo, pattern, gain)
	}
}

// Reverb adds repeats delayed, decayed echoes of the audio buffer onto
// itself.
func (a *Animation) Reverb(delaySeconds, decay float64, repeats int) {
	if a.buffer != nil {
		a.buffer.Reverb(delaySeconds, decay, repeats)
	}
}
