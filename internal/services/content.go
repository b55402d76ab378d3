package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	rediscache "github.com/udaanlabs/pathshala-backend/internal/clients/redis"
	"github.com/udaanlabs/pathshala-backend/internal/logger"
	"github.com/udaanlabs/pathshala-backend/internal/repos"
	"github.com/udaanlabs/pathshala-backend/internal/types"
)

const (
	SourceAuthored       = "authored"
	SourceStaticFallback = "static_fallback"
	SourceErrorFallback  = "error_fallback"

	contentKeyPrefix = "content:"

	// Authored content is editable and trusted to stay correct for an
	// hour; the static dataset gets half of that.
	authoredContentTTL = time.Hour
	staticContentTTL   = 30 * time.Minute
)

// ResolvedContent is the transient result of resolving (day, language).
// It is cached with a TTL but never persisted.
type ResolvedContent struct {
	Day         int       `json:"day"`
	Language    string    `json:"language"`
	Title       string    `json:"title,omitempty"`
	Body        string    `json:"body"`
	Source      string    `json:"source"`
	LastUpdated time.Time `json:"last_updated"`
}

type ContentService interface {
	// Resolve never returns an error: any failure degrades to an
	// error-fallback placeholder so delivery is never blocked.
	Resolve(ctx context.Context, day int, language string) ResolvedContent
	Invalidate(ctx context.Context, day *int, language *string) error
}

type contentService struct {
	db      *gorm.DB
	log     *logger.Logger
	dayRepo repos.CurriculumDayRepo
	static  StaticContentSource
	cache   rediscache.Cache
	clock   Clock
	tracer  trace.Tracer
}

func NewContentService(db *gorm.DB, baseLog *logger.Logger, dayRepo repos.CurriculumDayRepo, static StaticContentSource, cache rediscache.Cache, clock Clock) ContentService {
	return &contentService{
		db:      db,
		log:     baseLog.With("service", "ContentService"),
		dayRepo: dayRepo,
		static:  static,
		cache:   cache,
		clock:   clock,
		tracer:  otel.Tracer("content-service"),
	}
}

func contentCacheKey(language string, day int) string {
	return fmt.Sprintf("%s%s:%d", contentKeyPrefix, language, day)
}

func (s *contentService) Resolve(ctx context.Context, day int, language string) ResolvedContent {
	ctx, span := s.tracer.Start(ctx, "content.resolve",
		trace.WithAttributes(
			attribute.Int("content.day", day),
			attribute.String("content.language", language),
		))
	defer span.End()

	language = strings.ToLower(strings.TrimSpace(language))
	key := contentCacheKey(language, day)

	if cached, ok := s.cacheGet(ctx, key); ok {
		span.SetAttributes(attribute.String("content.source", cached.Source), attribute.Bool("content.cache_hit", true))
		return *cached
	}

	resolved := s.resolveUncached(ctx, day, language)
	span.SetAttributes(attribute.String("content.source", resolved.Source))

	switch resolved.Source {
	case SourceAuthored:
		s.cacheSet(ctx, key, resolved, authoredContentTTL)
	case SourceStaticFallback:
		s.cacheSet(ctx, key, resolved, staticContentTTL)
	}
	return resolved
}

func (s *contentService) resolveUncached(ctx context.Context, day int, language string) ResolvedContent {
	unit, err := s.dayRepo.GetPublished(ctx, nil, day, language)
	if err != nil {
		s.log.Error("authored content lookup failed", "day", day, "language", language, "error", err)
		return s.errorFallback(day, language)
	}

	if unit != nil && unit.ActiveForFacilitators && !unit.ForceFallback {
		// Usage tracking is best-effort; losing a count never blocks
		// delivery.
		if err := s.dayRepo.IncrementUsage(ctx, nil, unit.ID); err != nil {
			s.log.Warn("usage increment failed", "curriculum_day_id", unit.ID.String(), "error", err)
		}
		return ResolvedContent{
			Day:         day,
			Language:    language,
			Title:       unit.Title,
			Body:        renderCurriculumDay(unit),
			Source:      SourceAuthored,
			LastUpdated: unit.UpdatedAt,
		}
	}

	body, err := s.static.DayContent(language, day)
	if err != nil {
		s.log.Error("static content fallback failed", "day", day, "language", language, "error", err)
		return s.errorFallback(day, language)
	}
	return ResolvedContent{
		Day:         day,
		Language:    language,
		Body:        body,
		Source:      SourceStaticFallback,
		LastUpdated: s.clock.Now(),
	}
}

func (s *contentService) Invalidate(ctx context.Context, day *int, language *string) error {
	switch {
	case day != nil && language != nil:
		return s.cache.Delete(ctx, contentCacheKey(strings.ToLower(*language), *day))
	case language != nil:
		return s.cache.DeleteByPrefix(ctx, contentKeyPrefix+strings.ToLower(*language)+":")
	case day != nil:
		// The language set comes from the cache itself, not the static
		// manifest: authored-only languages are invalidated too.
		keys, err := s.cache.Keys(ctx, contentKeyPrefix)
		if err != nil {
			return err
		}
		suffix := fmt.Sprintf(":%d", *day)
		matched := make([]string, 0, len(keys))
		for _, key := range keys {
			if strings.HasSuffix(key, suffix) {
				matched = append(matched, key)
			}
		}
		return s.cache.Delete(ctx, matched...)
	default:
		return s.cache.DeleteByPrefix(ctx, contentKeyPrefix)
	}
}

func (s *contentService) cacheGet(ctx context.Context, key string) (*ResolvedContent, bool) {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("content cache read failed", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var resolved ResolvedContent
	if err := json.Unmarshal([]byte(raw), &resolved); err != nil {
		s.log.Warn("content cache entry corrupt, dropping", "key", key, "error", err)
		_ = s.cache.Delete(ctx, key)
		return nil, false
	}
	return &resolved, true
}

func (s *contentService) cacheSet(ctx context.Context, key string, resolved ResolvedContent, ttl time.Duration) {
	raw, err := json.Marshal(resolved)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), ttl); err != nil {
		s.log.Warn("content cache write failed", "key", key, "error", err)
	}
}

func (s *contentService) errorFallback(day int, language string) ResolvedContent {
	return ResolvedContent{
		Day:         day,
		Language:    language,
		Title:       fmt.Sprintf("Day %d", day),
		Body:        fmt.Sprintf("Content for day %d is temporarily unavailable. Please use your printed session guide and try again shortly.", day),
		Source:      SourceErrorFallback,
		LastUpdated: s.clock.Now(),
	}
}

// renderCurriculumDay flattens an authored unit into display text: title,
// summary, then each block's heading and body in order.
func renderCurriculumDay(unit *types.CurriculumDay) string {
	var b strings.Builder
	if unit.Title != "" {
		b.WriteString(unit.Title)
		b.WriteString("\n\n")
	}
	if unit.Summary != "" {
		b.WriteString(unit.Summary)
		b.WriteString("\n\n")
	}

	var blocks []struct {
		Heading string `json:"heading"`
		Body    string `json:"body"`
	}
	if len(unit.Blocks) > 0 {
		if err := json.Unmarshal(unit.Blocks, &blocks); err == nil {
			for _, block := range blocks {
				if block.Heading != "" {
					b.WriteString(block.Heading)
					b.WriteString("\n")
				}
				b.WriteString(block.Body)
				b.WriteString("\n\n")
			}
		}
	}
	return strings.TrimSpace(b.String())
}
