package language

import (
	"path/filepath"
	"sort"
	"strings"
)

// Language is a supported language tag.
type Language string

const (
	Python     Language = "python"
	TypeScript Language = "typescript"
	JavaScript Language = "javascript"
	Java       Language = "java"
	CPP        Language = "cpp"
	CSharp     Language = "csharp"
	Go         Language = "go"
)

// Default is the fallback tag for unknown or missing extensions.
const Default = Python

// extensions is the fixed extension-to-tag table. Multiple extensions may
// map to the same tag (all native C/C++ variants collapse to cpp).
var extensions = map[string]Language{
	".py":   Python,
	".ts":   TypeScript,
	".tsx":  TypeScript,
	".js":   JavaScript,
	".jsx":  JavaScript,
	".java": Java,
	".cpp":  CPP,
	".cc":   CPP,
	".cxx":  CPP,
	".c":    CPP,
	".h":    CPP,
	".hpp":  CPP,
	".cs":   CSharp,
	".go":   Go,
}

// Classify returns the language tag for a filename, falling back to Default
// for unknown or absent extensions.
func Classify(filename string) Language {
	return ClassifyDefault(filename, Default)
}

// ClassifyDefault is Classify with a caller-chosen fallback tag.
func ClassifyDefault(filename string, fallback Language) Language {
	ext := strings.ToLower(filepath.Ext(filename))
	if lang, ok := extensions[ext]; ok {
		return lang
	}
	return fallback
}

// Parse converts a raw string into a Language tag. The second return value
// is false when the string names no supported language.
func Parse(s string) (Language, bool) {
	lang := Language(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Supported() {
		if lang == known {
			return lang, true
		}
	}
	return "", false
}

// Supported returns all language tags in the classification table,
// sorted for stable output.
func Supported() []Language {
	seen := make(map[Language]bool)
	var langs []Language
	for _, lang := range extensions {
		if !seen[lang] {
			seen[lang] = true
			langs = append(langs, lang)
		}
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// Extensions returns the file extensions mapped to the given tag, sorted.
func Extensions(lang Language) []string {
	var exts []string
	for ext, l := range extensions {
		if l == lang {
			exts = append(exts, ext)
		}
	}
	sort.Strings(exts)
	return exts
}
