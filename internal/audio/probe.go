package audio

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/spf13/afero"

	"github.com/handiism/gamedata/internal/model"
)

// Format names reported by Sniff.
const (
	FormatOgg  = "ogg"
	FormatMP3  = "mp3"
	FormatWAV  = "wav"
	FormatFLAC = "flac"
)

// Sniff detects the container format from the first bytes of data.
// It returns "" when the format is not recognized.
func Sniff(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("OggS")):
		return FormatOgg
	case bytes.HasPrefix(data, []byte("ID3")):
		return FormatMP3
	case len(data) > 1 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		// MPEG frame sync without an ID3 header
		return FormatMP3
	case len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && string(data[8:12]) == "WAVE":
		return FormatWAV
	case bytes.HasPrefix(data, []byte("fLaC")):
		return FormatFLAC
	default:
		return ""
	}
}

// Probe reads the audio file at path into an AudioStream.
//
// The bytes are kept verbatim. The format is sniffed from the content and
// falls back to the file extension. For MP3 files carrying an ID3v2 tag,
// Title and Artist are filled from the TIT2 and TPE1 frames.
//
// Example:
//
//	stream, err := audio.Probe(fsys, "/GameData/Character/Hero/Voice.ogg")
//	fmt.Println(stream.Format, len(stream.Data))
func Probe(fsys afero.Fs, path string) (*model.AudioStream, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}

	format := Sniff(data)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}

	stream := &model.AudioStream{
		Source: path,
		Format: format,
		Data:   data,
	}

	if bytes.HasPrefix(data, []byte("ID3")) {
		tag, err := id3v2.ParseReader(bytes.NewReader(data), id3v2.Options{Parse: true})
		if err != nil {
			return nil, fmt.Errorf("parse id3 tag of %s: %w", path, err)
		}
		stream.Title = tag.Title()
		stream.Artist = tag.Artist()
	}

	return stream, nil
}
