package catalog

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"
)

// Tags holds song information read from a file.
type Tags struct {
	Title  string
	Artist string
	Album  string
	Genre  string
	Year   int
}

// ReadTags reads ID3v2 tags from an MP3 file, falling back to the file name
// for the title.
func ReadTags(path string) Tags {
	var t Tags
	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		if tag, err := id3v2.Open(path, id3v2.Options{Parse: true}); err == nil {
			t = Tags{
				Title:  strings.TrimSpace(tag.Title()),
				Artist: strings.TrimSpace(tag.Artist()),
				Album:  strings.TrimSpace(tag.Album()),
				Genre:  strings.TrimSpace(tag.Genre()),
				Year:   parseYear(tag.Year()),
			}
			tag.Close()
		}
	}
	if t.Title == "" {
		t.Title = TitleFromPath(path)
	}
	return t
}

// TitleFromPath returns the file name without its extension.
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// parseYear accepts "2024" and ID3v2.4 dates such as "2024-05-01".
func parseYear(s string) int {
	s = strings.TrimSpace(s)
	if len(s) > 4 {
		s = s[:4]
	}
	y, err := strconv.Atoi(s)
	if err != nil || y < 0 {
		return 0
	}
	return y
}
