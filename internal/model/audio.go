package model

import "slices"

// AudioStream is a decoded reference to an audio file.
//
// The bytes are kept as-is; the store never re-encodes audio. Title and
// Artist are filled from ID3 tags when the source is an MP3.
type AudioStream struct {
	// Source is the path the stream was read from.
	Source string

	// Format is the lower-case file extension without the dot ("ogg", "mp3", "wav").
	Format string

	// Data holds the raw file contents.
	Data []byte

	Title  string
	Artist string
}

// Clone returns a deep copy. A nil stream stays nil.
func (s *AudioStream) Clone() *AudioStream {
	if s == nil {
		return nil
	}
	c := *s
	c.Data = slices.Clone(s.Data)
	return &c
}

// AudioRef is the live value of an audio stream reference part: the path of
// the referenced file and the stream decoded from it.
type AudioRef struct {
	Path   string
	Stream *AudioStream
}
