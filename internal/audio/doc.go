// Package audio inspects audio files referenced by audio stream parts.
//
// The store never re-encodes audio: a part copies the referenced file into
// the instance directory as-is. Probe decodes just enough to describe the
// stream in memory:
//
//	stream, err := audio.Probe(fsys, "/sounds/jump.mp3")
//	// stream.Format == "mp3"
//	// stream.Title, stream.Artist from the ID3v2 tag, if any
//
// Supported container detection: Ogg, MP3 (with or without ID3v2), WAV, FLAC.
package audio
