package handler

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	mimeDirectory = "inode/directory"
	mimeFallback  = "text/plain"
)

var mimeByExtension = map[string]string{
	// text
	".txt":  "text/plain",
	".md":   "text/markdown",
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".csv":  "text/csv",

	// code
	".js":   "application/javascript",
	".mjs":  "application/javascript",
	".ts":   "application/typescript",
	".tsx":  "application/typescript",
	".jsx":  "text/jsx",
	".json": "application/json",
	".py":   "text/x-python",
	".java": "text/x-java",
	".c":    "text/x-c",
	".cpp":  "text/x-c++",
	".h":    "text/x-c",
	".hpp":  "text/x-c++",
	".rs":   "text/x-rust",
	".go":   "text/x-go",
	".rb":   "text/x-ruby",
	".php":  "text/x-php",
	".sh":   "text/x-sh",
	".bash": "text/x-sh",
	".zsh":  "text/x-sh",
	".fish": "text/x-sh",
	".ps1":  "text/x-powershell",
	".yaml": "text/yaml",
	".yml":  "text/yaml",
	".toml": "text/toml",
	".xml":  "text/xml",
	".sql":  "text/x-sql",

	// images
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
	".ico":  "image/x-icon",

	// documents
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",

	// archives
	".zip": "application/zip",
	".tar": "application/x-tar",
	".gz":  "application/gzip",
	".rar": "application/x-rar-compressed",
	".7z":  "application/x-7z-compressed",

	".log":    "text/plain",
	".conf":   "text/plain",
	".config": "text/plain",
	".ini":    "text/plain",
	".env":    "text/plain",
}

// mimeTypeForName classifies a file by its final extension alone. Unknown
// extensions report text/plain.
func mimeTypeForName(name string) string {
	if m, ok := mimeByExtension[strings.ToLower(filepath.Ext(name))]; ok {
		return m
	}
	return mimeFallback
}

// detectMimeType classifies a file on disk, sniffing the content when the
// extension is unknown.
func detectMimeType(path string) string {
	if m, ok := mimeByExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return m
	}
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return mimeFallback
	}
	// drop parameters such as "; charset=utf-8"
	m, _, _ := strings.Cut(mtype.String(), ";")
	return m
}

func isTextFile(mimeType string) bool {
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}
	switch mimeType {
	case "application/json",
		"application/javascript",
		"application/typescript",
		"application/xml",
		"application/x-yaml",
		"image/svg+xml":
		return true
	}
	return false
}

func isImageFile(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/") && mimeType != "image/svg+xml"
}
