// Package pitch maps frequencies to piano keys and scientific pitch names.
package pitch

import (
	"math"
	"strconv"
)

const (
	// ConcertA is the standard A4 reference, in Hz.
	ConcertA = 440.0

	// ReferenceKey is the piano-key number of A4 on an 88-key keyboard.
	ReferenceKey = 49

	// c0Offset is the distance from A4 down to C0, in octaves (57 semitones).
	c0Offset = -4.75

	// maxKeyFromC0 bounds named pitches to C0..D#8.
	maxKeyFromC0 = 99
)

//nolint:gochecknoglobals // effectively const
var letterNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Pitch is the estimate for one frame.
type Pitch struct {
	Frequency float64
	Silent    bool   // no frequency was detected, Key and Name are meaningless
	Key       int    // piano-key number, A4 = 49
	Name      string // scientific name, empty outside C0..D#8
}

// Named reports whether the pitch has a scientific name.
func (p Pitch) Named() bool {
	return !p.Silent && p.Name != ""
}

// KeyValue returns the key as a float, negative infinity for silent frames.
func (p Pitch) KeyValue() float64 {
	if p.Silent {
		return math.Inf(-1)
	}

	return float64(p.Key)
}

func (p Pitch) String() string {
	switch {
	case p.Silent:
		return "silent"
	case p.Name == "":
		return "key " + strconv.Itoa(p.Key)
	default:
		return p.Name
	}
}

// Mapper converts frequencies relative to a reference A4.
type Mapper struct {
	Reference float64 // A4 in Hz; zero means ConcertA
}

// NewMapper returns a Mapper tuned to reference (A4, in Hz).
func NewMapper(reference float64) Mapper {
	return Mapper{Reference: reference}
}

func (m Mapper) reference() float64 {
	if m.Reference <= 0 {
		return ConcertA
	}

	return m.Reference
}

// Key returns the rounded piano-key number for freq. ok is false when freq is not positive.
func (m Mapper) Key(freq float64) (key int, ok bool) {
	if freq <= 0 {
		return 0, false
	}

	return int(math.RoundToEven(12*math.Log2(freq/m.reference()) + ReferenceKey)), true
}

// Name returns the scientific pitch name for freq, e.g. "A4". ok is false when freq is not
// positive or falls outside C0..D#8.
func (m Mapper) Name(freq float64) (name string, ok bool) {
	if freq <= 0 {
		return "", false
	}

	c0 := m.reference() * math.Pow(2, c0Offset)
	fromC0 := math.RoundToEven(12 * math.Log2(freq/c0))

	if fromC0 <= -1 || fromC0 > maxKeyFromC0 {
		return "", false
	}

	k := int(fromC0)

	return letterNames[k%12] + strconv.Itoa(k/12), true
}

// Label returns the tagged estimate for freq.
func (m Mapper) Label(freq float64) Pitch {
	key, ok := m.Key(freq)
	if !ok {
		return Pitch{Frequency: freq, Silent: true}
	}

	name, _ := m.Name(freq)

	return Pitch{Frequency: freq, Key: key, Name: name}
}

// Labels maps every frequency independently.
func (m Mapper) Labels(freqs []float64) []Pitch {
	out := make([]Pitch, len(freqs))
	for i, f := range freqs {
		out[i] = m.Label(f)
	}

	return out
}

// Names returns the scientific names in frame order, skipping silent and unnamed frames.
func Names(pitches []Pitch) []string {
	names := make([]string, 0, len(pitches))

	for _, p := range pitches {
		if p.Named() {
			names = append(names, p.Name)
		}
	}

	return names
}
