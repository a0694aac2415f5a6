package entity

import (
	"strings"
)

// LocationKind describes where a resolved server installation came from.
type LocationKind string

const (
	// LocationRemote means at least one file was downloaded during resolution.
	LocationRemote LocationKind = "REMOTE"
	// LocationCache means every file was already present and verified on disk.
	LocationCache LocationKind = "CACHE"
	// LocationOverride means the installation was supplied through environment variables.
	LocationOverride LocationKind = "OVERRIDE"
)

// Manifest is the remote document listing available language server builds.
type Manifest struct {
	ManifestSchemaVersion string            `json:"manifestSchemaVersion"`
	ArtifactID            string            `json:"artifactId"`
	Versions              []ArtifactVersion `json:"versions"`
}

// ArtifactVersion is a single released version of the language server.
type ArtifactVersion struct {
	ServerVersion string   `json:"serverVersion"`
	IsDelisted    bool     `json:"isDelisted"`
	Targets       []Target `json:"targets"`
}

// Target binds a platform and architecture to the files that make up the build.
type Target struct {
	Platform string    `json:"platform"`
	Arch     string    `json:"arch"`
	Contents []Content `json:"contents"`
}

// Content is a single downloadable file of a Target.
type Content struct {
	Filename string   `json:"filename"`
	URL      string   `json:"url"`
	Hashes   []string `json:"hashes"`
	Bytes    int64    `json:"bytes"`
}

// TargetFor returns the target matching platform and architecture, compared case-insensitively.
func (v ArtifactVersion) TargetFor(platform, arch string) (Target, bool) {
	for _, t := range v.Targets {
		if strings.EqualFold(t.Platform, platform) && strings.EqualFold(t.Arch, arch) {
			return t, true
		}
	}
	return Target{}, false
}

// IsZip reports whether the content should be extracted after download.
func (c Content) IsZip() bool {
	return strings.EqualFold(extension(c.Filename), ".zip")
}

// ExtractDirName returns the directory a zip content is extracted into, relative to the version directory.
func (c Content) ExtractDirName() string {
	return strings.TrimSuffix(c.Filename, extension(c.Filename))
}

func extension(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

// LspInstallResult is a resolved language server installation.
type LspInstallResult struct {
	Location          LocationKind `json:"location"`
	Version           string       `json:"version"`
	ServerDirectory   string       `json:"serverDirectory"`
	ClientDirectory   string       `json:"clientDirectory"`
	ServerCommand     string       `json:"serverCommand"`
	ServerCommandArgs string       `json:"serverCommandArgs"`
}
