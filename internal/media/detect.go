package media

import (
	"path/filepath"
	"sort"
	"strings"
)

// decodableExts are the formats the player can decode.
var decodableExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".ogg":  true,
}

// uploadExts are the extensions accepted for imported files.
var uploadExts = map[string]bool{
	".mp3": true,
	".wav": true,
	".ogg": true,
	".m4a": true,
}

var uploadMIMEs = map[string]bool{
	"audio/mpeg": true,
	"audio/mp3":  true,
	"audio/wav":  true,
	"audio/ogg":  true,
	"audio/m4a":  true,
}

var playlistExts = map[string]bool{
	".m3u":  true,
	".m3u8": true,
	".pls":  true,
}

// IsSupportedExt reports whether the extension can be decoded and played.
func IsSupportedExt(ext string) bool {
	return decodableExts[strings.ToLower(ext)]
}

// IsUploadExt reports whether the extension is accepted for import.
func IsUploadExt(ext string) bool {
	return uploadExts[strings.ToLower(ext)]
}

// IsUploadMIME reports whether the MIME type is accepted for import.
// Parameters such as "; codecs=..." are ignored.
func IsUploadMIME(mime string) bool {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	return uploadMIMEs[mime]
}

// IsPlaylistExt returns true if the extension is a supported playlist format.
func IsPlaylistExt(ext string) bool {
	return playlistExts[strings.ToLower(ext)]
}

// IsRemote reports whether s is an http(s) URL.
func IsRemote(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Ext returns the lowercase extension of a path or URL, ignoring any query.
func Ext(s string) string {
	if i := strings.IndexAny(s, "?#"); i >= 0 && IsRemote(s) {
		s = s[:i]
	}
	return strings.ToLower(filepath.Ext(s))
}

// SupportedExtsList returns a human-readable list of playable formats.
func SupportedExtsList() string {
	return joinExts(decodableExts)
}

// UploadExtsList returns a human-readable list of importable formats.
func UploadExtsList() string {
	return joinExts(uploadExts)
}

func joinExts(set map[string]bool) string {
	exts := make([]string, 0, len(set))
	for ext := range set {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}
