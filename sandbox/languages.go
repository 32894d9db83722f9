package sandbox

import "fmt"

// Language identifies one of the supported runtimes
type Language string

// LanguageName constants
const (
	LanguagePHP    Language = "php"
	LanguagePython Language = "python"
	LanguageNodeJS Language = "nodejs"
	LanguageRuby   Language = "ruby"
	LanguageGo     Language = "go"
	LanguageCPP    Language = "cpp"
)

// mountPoint is where the staged source file appears inside every container.
const mountPoint = "/sandbox"

// langSpec describes how one language runs inside its container image
type langSpec struct {
	Extension string            // source file extension, without the dot
	Image     string            // default image, overridable per config
	Command   []string          // argv executed inside the container
	Env       map[string]string // extra environment for the runtime
}

// languageSpecs is the closed set of runnable languages. Compiled languages
// build into the container's writable /tmp since the source mount is
// read-only.
var languageSpecs = map[Language]langSpec{
	LanguagePHP: {
		Extension: "php",
		Image:     "php:8.3-cli-alpine",
		Command:   []string{"php", mountPoint + "/main.php"},
	},
	LanguagePython: {
		Extension: "py",
		Image:     "python:3.11-slim",
		Command:   []string{"python3", "-u", mountPoint + "/main.py"},
	},
	LanguageNodeJS: {
		Extension: "js",
		Image:     "node:20-alpine",
		Command:   []string{"node", mountPoint + "/main.js"},
	},
	LanguageRuby: {
		Extension: "rb",
		Image:     "ruby:3.3-alpine",
		Command:   []string{"ruby", mountPoint + "/main.rb"},
	},
	LanguageGo: {
		Extension: "go",
		Image:     "golang:1.23-alpine",
		Command:   []string{"sh", "-c", "go run " + mountPoint + "/main.go"},
		Env: map[string]string{
			"GOCACHE": "/tmp/gocache",
			"GOPATH":  "/tmp/gopath",
			"HOME":    "/tmp",
		},
	},
	LanguageCPP: {
		Extension: "cpp",
		Image:     "gcc:13",
		Command:   []string{"sh", "-c", "g++ -std=c++17 -O2 -o /tmp/app " + mountPoint + "/main.cpp && /tmp/app"},
	},
}

// supportedOrder keeps listings deterministic for tool schemas and the CLI.
var supportedOrder = []Language{
	LanguageCPP,
	LanguageGo,
	LanguageNodeJS,
	LanguagePHP,
	LanguagePython,
	LanguageRuby,
}

// SupportedLanguages returns every runnable language in stable order
func SupportedLanguages() []Language {
	langs := make([]Language, len(supportedOrder))
	copy(langs, supportedOrder)
	return langs
}

// IsSupported reports whether the sandbox can run the given language
func IsSupported(lang Language) bool {
	_, exists := languageSpecs[lang]
	return exists
}

// LanguageForExtension maps a source file extension (without the dot) to its
// language
func LanguageForExtension(ext string) (Language, bool) {
	for _, lang := range supportedOrder {
		if languageSpecs[lang].Extension == ext {
			return lang, true
		}
	}
	return "", false
}

// specForLanguage returns the variant spec for a language
func specForLanguage(lang Language) (langSpec, error) {
	spec, exists := languageSpecs[lang]
	if !exists {
		return langSpec{}, fmt.Errorf("unsupported language: %s", lang)
	}
	return spec, nil
}

// containerSourcePath returns the fixed in-container path the source file is
// mounted at for the given extension
func containerSourcePath(ext string) string {
	return mountPoint + "/main." + ext
}
