package audio

import (
	"io"
	"testing"
)

// sliceBuffer is a minimal SampleBuffer over a plain slice.
type sliceBuffer struct {
	data []float32
}

func (b *sliceBuffer) CopyAt(dst []float32, pos int) int {
	if pos < 0 || pos >= len(b.data) {
		return 0
	}
	return copy(dst, b.data[pos:])
}

func (b *sliceBuffer) Len() int { return len(b.data) }

func TestBufferSourceDuplicatesMonoToStereo(t *testing.T) {
	src := NewBufferSource(&sliceBuffer{data: []float32{0.1, 0.2, 0.3}})
	dst := make([]float32, 4)
	src.Process(dst)
	if dst[0] != 0.1 || dst[1] != 0.1 || dst[2] != 0.2 || dst[3] != 0.2 {
		t.Fatalf("unexpected stereo output %v", dst)
	}
	if src.Position() != 2 {
		t.Fatalf("playhead = %d, want 2", src.Position())
	}
}

func TestBufferSourceSilenceAtEnd(t *testing.T) {
	src := NewBufferSource(&sliceBuffer{data: []float32{1}})
	dst := make([]float32, 6)
	src.Process(dst)
	if dst[0] != 1 || dst[1] != 1 {
		t.Fatalf("expected first frame from buffer, got %v", dst[:2])
	}
	for _, v := range dst[2:] {
		if v != 0 {
			t.Fatalf("expected silence past the end, got %v", dst)
		}
	}
}

func TestBufferSourceSeesAppendedSamples(t *testing.T) {
	buf := &sliceBuffer{data: []float32{1}}
	src := NewBufferSource(buf)
	src.Process(make([]float32, 4))
	buf.data = append(buf.data, 2)
	dst := make([]float32, 2)
	src.Process(dst)
	if dst[0] != 2 {
		t.Fatalf("expected appended sample, got %v", dst)
	}
}

func TestBufferSourceFinished(t *testing.T) {
	src := NewBufferSource(&sliceBuffer{data: []float32{1, 2}})
	if src.Finished() {
		t.Fatal("source should not be finished before Finish")
	}
	src.Finish()
	if src.Finished() {
		t.Fatal("source should not be finished with samples remaining")
	}
	src.Process(make([]float32, 4))
	if !src.Finished() {
		t.Fatal("source should be finished once drained")
	}
}

func TestStreamReaderEncodesFloat32LE(t *testing.T) {
	src := NewBufferSource(&sliceBuffer{data: []float32{1}})
	r := NewStreamReader(src)
	p := make([]byte, 8)
	n, err := r.Read(p)
	if err != nil {
		t.Fatal(err)
	}
	if n != 8 {
		t.Fatalf("read %d bytes, want 8", n)
	}
	// 1.0 as float32 little-endian is 00 00 80 3f, in both channels.
	want := []byte{0, 0, 0x80, 0x3f, 0, 0, 0x80, 0x3f}
	for i := range want {
		if p[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, p[i], want[i])
		}
	}
}

func TestStreamReaderEOFWhenSourceFinishes(t *testing.T) {
	src := NewBufferSource(&sliceBuffer{data: []float32{1}})
	src.Finish()
	r := NewStreamReader(src)
	if _, err := r.Read(make([]byte, 16)); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}
