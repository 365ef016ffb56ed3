// Package filetype classifies indexed paths by extension for the status report.
package filetype

import (
	"path/filepath"
	"strings"
)

// Kinds reported by Detect.
const (
	Audio    = "Audio"
	Video    = "Video"
	Image    = "Image"
	Document = "Document"
	Archive  = "Archive"
	Code     = "Source code"
	Data     = "Data"
	Other    = "Other"
)

// ExtensionToKind maps file extensions (without dot) to kinds.
var ExtensionToKind = map[string]string{
	// Audio
	"mp3": Audio, "flac": Audio, "wav": Audio, "ogg": Audio, "m4a": Audio, "aac": Audio, "opus": Audio,
	// Video
	"mp4": Video, "mkv": Video, "mov": Video, "avi": Video, "webm": Video, "m4v": Video,
	// Images
	"jpg": Image, "jpeg": Image, "png": Image, "gif": Image, "webp": Image, "heic": Image,
	"bmp": Image, "tiff": Image, "svg": Image, "raw": Image,
	// Documents
	"pdf": Document, "doc": Document, "docx": Document, "odt": Document, "rtf": Document,
	"xls": Document, "xlsx": Document, "ods": Document, "ppt": Document, "pptx": Document,
	"txt": Document, "md": Document, "epub": Document, "tex": Document,
	// Archives
	"zip": Archive, "tar": Archive, "gz": Archive, "tgz": Archive, "bz2": Archive,
	"xz": Archive, "7z": Archive, "rar": Archive, "zst": Archive,
	// Source code
	"go": Code, "rs": Code, "py": Code, "js": Code, "jsx": Code, "ts": Code, "tsx": Code,
	"java": Code, "kt": Code, "c": Code, "h": Code, "cpp": Code, "cc": Code, "hpp": Code,
	"cs": Code, "swift": Code, "rb": Code, "php": Code, "lua": Code, "sh": Code,
	"html": Code, "css": Code, "scss": Code, "vue": Code, "svelte": Code, "sql": Code,
	// Data / config
	"json": Data, "yaml": Data, "yml": Data, "toml": Data, "xml": Data, "csv": Data,
	"ini": Data, "sqlite": Data, "db": Data,
}

// Detect returns the kind of a file path based on its extension.
// Returns Other if the extension is not recognized.
func Detect(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		switch strings.ToLower(filepath.Base(path)) {
		case "makefile", "dockerfile", "gemfile", "rakefile":
			return Code
		case "readme", "license", "changelog":
			return Document
		}
		return Other
	}
	if kind, ok := ExtensionToKind[ext]; ok {
		return kind
	}
	return Other
}

// Counter tallies kinds over a stream of paths.
type Counter map[string]int

// Add counts path. It satisfies the callback of index.Store.Each.
func (c Counter) Add(path string) error {
	c[Detect(path)]++
	return nil
}
