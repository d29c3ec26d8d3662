// Package filex classifies file names into the closed set of storage
// categories used for listing filters and usage aggregation.
package filex

import (
	"path/filepath"
	"strings"
)

// The closed set of file categories. Anything unrecognized is TypeOther.
const (
	TypeImage    = "image"
	TypeDocument = "document"
	TypeVideo    = "video"
	TypeAudio    = "audio"
	TypeOther    = "other"
)

// Categories returns all known categories in a stable order.
func Categories() []string {
	return []string{TypeImage, TypeDocument, TypeVideo, TypeAudio, TypeOther}
}

// IsKnownType reports whether t is one of the five categories.
func IsKnownType(t string) bool {
	switch t {
	case TypeImage, TypeDocument, TypeVideo, TypeAudio, TypeOther:
		return true
	}
	return false
}

var extToType = map[string]string{
	// image
	"jpg": TypeImage, "jpeg": TypeImage, "png": TypeImage, "gif": TypeImage,
	"bmp": TypeImage, "svg": TypeImage, "webp": TypeImage, "heic": TypeImage,
	// document
	"pdf": TypeDocument, "doc": TypeDocument, "docx": TypeDocument,
	"xls": TypeDocument, "xlsx": TypeDocument, "ppt": TypeDocument,
	"pptx": TypeDocument, "txt": TypeDocument, "csv": TypeDocument,
	"rtf": TypeDocument, "md": TypeDocument, "odt": TypeDocument,
	"ods": TypeDocument, "html": TypeDocument, "htm": TypeDocument,
	// video
	"mp4": TypeVideo, "mov": TypeVideo, "avi": TypeVideo, "mkv": TypeVideo,
	"webm": TypeVideo, "flv": TypeVideo, "wmv": TypeVideo, "m4v": TypeVideo,
	// audio
	"mp3": TypeAudio, "wav": TypeAudio, "ogg": TypeAudio, "flac": TypeAudio,
	"aac": TypeAudio, "m4a": TypeAudio, "wma": TypeAudio,
}

// Detect returns the category and the lowercase extension (without the dot)
// for the given file name. Unknown or missing extensions map to TypeOther.
func Detect(name string) (fileType string, extension string) {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	ext = strings.ToLower(ext)
	if ext == "" {
		return TypeOther, ""
	}
	if t, ok := extToType[ext]; ok {
		return t, ext
	}
	return TypeOther, ext
}

// SplitBaseName returns the file name without its extension.
// "report.final.pdf" -> "report.final".
func SplitBaseName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
