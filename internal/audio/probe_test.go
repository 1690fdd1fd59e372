package audio

import (
	"bytes"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/spf13/afero"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"ogg", []byte("OggS\x00\x02"), FormatOgg},
		{"id3", []byte("ID3\x04\x00"), FormatMP3},
		{"mpeg sync", []byte{0xFF, 0xFB, 0x90, 0x00}, FormatMP3},
		{"wav", []byte("RIFF\x24\x00\x00\x00WAVEfmt "), FormatWAV},
		{"flac", []byte("fLaC\x00"), FormatFLAC},
		{"unknown", []byte("hello"), ""},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sniff(tt.data); got != tt.want {
				t.Errorf("Sniff() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProbe_FallsBackToExtension(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/sounds/beep.ogg", []byte("not really audio"), 0644); err != nil {
		t.Fatal(err)
	}

	stream, err := Probe(fsys, "/sounds/beep.ogg")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if stream.Format != "ogg" {
		t.Errorf("Format = %q, want ogg", stream.Format)
	}
	if stream.Source != "/sounds/beep.ogg" {
		t.Errorf("Source = %q", stream.Source)
	}
	if string(stream.Data) != "not really audio" {
		t.Errorf("Data was modified: %q", stream.Data)
	}
}

func TestProbe_ReadsID3Tags(t *testing.T) {
	tag := id3v2.NewEmptyTag()
	tag.SetVersion(4)
	tag.SetTitle("Battle Cry")
	tag.SetArtist("Hero")

	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	buf.Write([]byte{0xFF, 0xFB, 0x90, 0x00})

	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/sounds/cry.mp3", buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	stream, err := Probe(fsys, "/sounds/cry.mp3")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if stream.Format != FormatMP3 {
		t.Errorf("Format = %q, want mp3", stream.Format)
	}
	if stream.Title != "Battle Cry" || stream.Artist != "Hero" {
		t.Errorf("tags = (%q, %q), want (Battle Cry, Hero)", stream.Title, stream.Artist)
	}
}

func TestProbe_MissingFile(t *testing.T) {
	if _, err := Probe(afero.NewMemMapFs(), "/none.ogg"); err == nil {
		t.Error("Probe should fail for a missing file")
	}
}
