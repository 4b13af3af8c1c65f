package audio

import (
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DecodeWAV reads a PCM WAV file fully into memory.
func DecodeWAV(path string) (*Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("not a valid wav file: %s", path)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	s := &Stream{
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
		Samples:    buf.Data,
	}
	if s.BitDepth == 8 {
		// 8-bit PCM is stored unsigned with silence at 128
		for i, v := range s.Samples {
			s.Samples[i] = v - unsigned8Bias
		}
	}
	return s, nil
}

const unsigned8Bias = 128

// WriteWAV encodes s as a PCM WAV file at path.
func WriteWAV(path string, s *Stream) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	data := s.Samples
	if s.BitDepth == 8 {
		data = make([]int, len(s.Samples))
		for i, v := range s.Samples {
			data[i] = v + unsigned8Bias
		}
	}

	enc := wav.NewEncoder(f, s.SampleRate, s.BitDepth, s.Channels, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: s.Channels,
			SampleRate:  s.SampleRate,
		},
		Data:           data,
		SourceBitDepth: s.BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to finalize wav: %w", err)
	}
	return f.Close()
}

// WriteTempWAV writes s to a new temp file. The caller owns the returned
// cleanup func and must call it on every path.
func WriteTempWAV(s *Stream) (string, func(), error) {
	f, err := os.CreateTemp("", "scribe-segment-*.wav")
	if err != nil {
		return "", func() {}, err
	}
	path := f.Name()
	f.Close()

	cleanup := func() { os.Remove(path) }
	if err := WriteWAV(path, s); err != nil {
		cleanup()
		return "", func() {}, err
	}
	return path, cleanup, nil
}
