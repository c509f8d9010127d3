package inkwell

import (
	"fmt"

	"github.com/inkwell-anim/inkwell/internal/encoder"
	"github.com/inkwell-anim/inkwell/internal/mixer"
	"github.com/inkwell-anim/inkwell/internal/wavetable"
)

// SurfaceError reports a drawing surface that was destroyed or became
// invalid mid-render. It aborts the frame sequence.
type SurfaceError struct {
	Op string
}

func (e *SurfaceError) Error() string {
	return fmt.Sprintf("render surface invalid during %s", e.Op)
}

// EncoderProcessError reports a child encoder process that exited
// abnormally. The Part field names the failed part; parts closed before the
// failure remain valid.
type EncoderProcessError = encoder.ProcessError

// UnknownNoteError reports a malformed note name passed to NoteFrequency.
type UnknownNoteError = wavetable.UnknownNoteError

// UnsupportedAudioFormatError reports a sample file whose encoding could not
// be decoded.
type UnsupportedAudioFormatError = mixer.UnsupportedFormatError
