package wavetable

import (
	"fmt"
	"math"
)

// UnknownNoteError reports a note name that could not be parsed.
type UnknownNoteError struct {
	Name string
}

func (e *UnknownNoteError) Error() string {
	return fmt.Sprintf("unknown note %q", e.Name)
}

// semitone offsets of the natural notes within an octave, from C.
var naturals = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// NoteFrequency maps a note name like "A4" or "C#3" to a frequency in hertz
// using 12-tone equal temperament referenced to A4 = 440 Hz. Accidentals are
// written as "#" (sharp) or "b" (flat).
func NoteFrequency(name string) (float64, error) {
	if len(name) < 2 {
		return 0, &UnknownNoteError{Name: name}
	}
	semi, ok := naturals[name[0]]
	if !ok {
		return 0, &UnknownNoteError{Name: name}
	}
	rest := name[1:]
	switch rest[0] {
	case '#':
		semi++
		rest = rest[1:]
	case 'b':
		semi--
		rest = rest[1:]
	}
	if len(rest) != 1 || rest[0] < '0' || rest[0] > '9' {
		return 0, &UnknownNoteError{Name: name}
	}
	octave := int(rest[0] - '0')
	midi := 12*(octave+1) + semi
	return 440 * math.Pow(2, float64(midi-69)/12), nil
}

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Notes maps every note name from octave 0 through 8 to its frequency.
var Notes = buildNotes()

func buildNotes() map[string]float64 {
	table := make(map[string]float64, 9*12)
	for octave := 0; octave <= 8; octave++ {
		for _, n := range noteNames {
			name := fmt.Sprintf("%s%d", n, octave)
			freq, err := NoteFrequency(name)
			if err != nil {
				panic(err)
			}
			table[name] = freq
		}
	}
	return table
}
