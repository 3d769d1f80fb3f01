package release

import "fmt"

const (
	kibibyte = 1024
	mebibyte = kibibyte * kibibyte
)

// Summary describes a finished build for display.
type Summary struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Version     string `json:"version"`
	Description string `json:"description"`
	StorePath   string `json:"storePath"`
	GitHubPath  string `json:"githubPath"`
	OutputDir   string `json:"outputDir"`
}

// FormatSize renders a byte count with binary units: whole bytes below 1 KB,
// one decimal place for KB and MB.
func FormatSize(size int64) string {
	switch {
	case size < kibibyte:
		return fmt.Sprintf("%d B", size)
	case size < mebibyte:
		return fmt.Sprintf("%.1f KB", float64(size)/kibibyte)
	default:
		return fmt.Sprintf("%.1f MB", float64(size)/mebibyte)
	}
}
