package services

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/udaanlabs/pathshala-backend/internal/logger"
)

// StaticContentSource serves the immutable legacy curriculum dataset: one
// plain-text blob per language, re-read on demand so a replaced file is
// picked up without a restart. Blobs are not indexed by day; extraction
// happens at read time.
type StaticContentSource interface {
	Languages() []string
	DayContent(language string, day int) (string, error)
}

type staticManifest struct {
	Languages map[string]string `yaml:"languages"`
}

type staticContentSource struct {
	log   *logger.Logger
	files map[string]string
}

func NewStaticContentSource(baseLog *logger.Logger, manifestPath string) (StaticContentSource, error) {
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read static content manifest: %w", err)
	}
	var manifest staticManifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("parse static content manifest: %w", err)
	}
	if len(manifest.Languages) == 0 {
		return nil, fmt.Errorf("static content manifest %s lists no languages", manifestPath)
	}
	return &staticContentSource{
		log:   baseLog.With("service", "StaticContentSource"),
		files: manifest.Languages,
	}, nil
}

func (s *staticContentSource) Languages() []string {
	langs := make([]string, 0, len(s.files))
	for lang := range s.files {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

func (s *staticContentSource) DayContent(language string, day int) (string, error) {
	path, ok := s.files[strings.ToLower(strings.TrimSpace(language))]
	if !ok {
		return "", fmt.Errorf("no static content for language %q", language)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read static content for %s: %w", language, err)
	}

	section := extractDaySection(string(raw), day)
	if section == "" {
		return "", fmt.Errorf("day %d not present in static content for %s", day, language)
	}
	return section, nil
}

var anyDayMarker = regexp.MustCompile(`(?mi)^[ \t]*(?:day|session)[ \t]*[:#-]?[ \t]*\d+\b`)

// extractDaySection cuts the blob between the requested day's marker and
// the next day marker. When the blob carries no structured markers it
// falls back to a proximity window around the first standalone mention of
// the day number.
func extractDaySection(blob string, day int) string {
	marker := regexp.MustCompile(fmt.Sprintf(`(?mi)^[ \t]*(?:day|session)[ \t]*[:#-]?[ \t]*%d\b`, day))
	loc := marker.FindStringIndex(blob)
	if loc != nil {
		rest := blob[loc[0]:]
		// Skip past this marker's own line before hunting for the next one.
		bodyStart := strings.IndexByte(rest, '\n')
		if bodyStart < 0 {
			return strings.TrimSpace(rest)
		}
		if next := anyDayMarker.FindStringIndex(rest[bodyStart:]); next != nil {
			return strings.TrimSpace(rest[:bodyStart+next[0]])
		}
		return strings.TrimSpace(rest)
	}

	if anyDayMarker.MatchString(blob) {
		// Structured markers exist but this day has no section.
		return ""
	}

	return proximityWindow(blob, day)
}

// proximityWindow returns up to 30 lines starting at the line holding the
// first standalone occurrence of the day number.
func proximityWindow(blob string, day int) string {
	needle := regexp.MustCompile(fmt.Sprintf(`\b%d\b`, day))
	loc := needle.FindStringIndex(blob)
	if loc == nil {
		return ""
	}
	start := strings.LastIndexByte(blob[:loc[0]], '\n') + 1
	lines := strings.Split(blob[start:], "\n")
	if len(lines) > 30 {
		lines = lines[:30]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
