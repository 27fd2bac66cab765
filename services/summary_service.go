package services

import (
	"context"
	"encoding/base64"
	"event-lab/cache"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StreamEvent is one element of a summary stream. Every stream carries
// exactly one CacheInfo first, then Token events in text order, then
// exactly one End.
type StreamEvent interface {
	streamEvent()
}

type CacheInfo struct {
	Cached   bool   `json:"cached"`
	CacheKey string `json:"cacheKey"`
}

type Token struct {
	Text string `json:"token"`
}

type End struct {
	Complete bool `json:"complete"`
}

func (CacheInfo) streamEvent() {}
func (Token) streamEvent()     {}
func (End) streamEvent()       {}

// Summary is request-owned; only the underlying text survives across
// requests, inside the cache.
type Summary struct {
	EventID     uuid.UUID
	Text        string
	CacheKey    string
	GeneratedAt time.Time
}

type ISummaryService interface {
	GenerateSummary(ctx context.Context, eventID uuid.UUID, title, location string, startAt, endAt time.Time) (Summary, bool, <-chan StreamEvent)
}

// SummaryService synthesizes (or replays from cache) a textual summary
// for an event and exposes it as a paced token stream. It never touches
// the event store: descriptive fields are passed in by the caller.
type SummaryService struct {
	cache    cache.ICache
	log      *slog.Logger
	ttl      time.Duration
	minDelay time.Duration
	maxDelay time.Duration
	now      func() time.Time
}

func NewSummaryService(c cache.ICache, log *slog.Logger, ttl, minDelay, maxDelay time.Duration) *SummaryService {
	return &SummaryService{
		cache:    c,
		log:      log,
		ttl:      ttl,
		minDelay: minDelay,
		maxDelay: maxDelay,
		now:      time.Now,
	}
}

// Fingerprint derives the cache key from the descriptive tuple. The
// event id is deliberately excluded: two events with identical
// descriptive fields share one cached summary. Truncating the base64
// form to 16 chars keeps only the first 12 bytes of the tuple, so
// tuples sharing that prefix (long titles with a common start) collapse
// to one key and serve the same cached text.
func Fingerprint(title, location string, startAt, endAt time.Time) string {
	data := fmt.Sprintf("%s-%s-%s-%s",
		title,
		location,
		startAt.UTC().Format(time.RFC3339),
		endAt.UTC().Format(time.RFC3339),
	)
	encoded := base64.StdEncoding.EncodeToString([]byte(data))
	if len(encoded) > 16 {
		encoded = encoded[:16]
	}
	return encoded
}

// GenerateSummary returns the summary, whether it was a cache HIT, and
// the token stream. HIT vs MISS never changes the text for a given
// fingerprint: compute/retrieve is separated from streaming so the same
// text replays identically on every request.
func (s *SummaryService) GenerateSummary(ctx context.Context, eventID uuid.UUID, title, location string, startAt, endAt time.Time) (Summary, bool, <-chan StreamEvent) {
	key := Fingerprint(title, location, startAt, endAt)

	if text, ok := s.cache.Get(key); ok {
		s.log.Debug("Summary cache hit", "eventId", eventID, "cacheKey", key)
		return s.summary(eventID, text, key), true, s.stream(ctx, text, key, true)
	}

	text := composeSummary(title, location, startAt, endAt)
	s.cache.Set(key, text, s.ttl)
	s.log.Debug("Summary cache miss", "eventId", eventID, "cacheKey", key)
	return s.summary(eventID, text, key), false, s.stream(ctx, text, key, false)
}

func (s *SummaryService) summary(eventID uuid.UUID, text, key string) Summary {
	return Summary{
		EventID:     eventID,
		Text:        text,
		CacheKey:    key,
		GeneratedAt: s.now().UTC(),
	}
}

func composeSummary(title, location string, startAt, endAt time.Time) string {
	start := startAt.UTC().Format("January 2, 2006")
	end := endAt.UTC().Format("January 2, 2006")
	duration := "from " + start + " to " + end
	if start == end {
		duration = "on " + start
	}
	return fmt.Sprintf("Join us for %q taking place at %s %s. "+
		"This exciting event promises to bring together attendees for an unforgettable experience. "+
		"Whether you're looking to network, learn, or simply enjoy great company, this event offers something for everyone. "+
		"Mark your calendar and don't miss out on this opportunity to be part of something special.",
		title, location, duration)
}

// stream feeds a bounded channel from one goroutine per request: one
// cache-status event, word chunks of 2-5 tokens with jittered pacing,
// then a terminal event. Emission stops as soon as the consumer's
// context is cancelled, so a detached reader leaves no orphaned timers.
func (s *SummaryService) stream(ctx context.Context, text, key string, cached bool) <-chan StreamEvent {
	out := make(chan StreamEvent)
	go func() {
		defer close(out)
		if !s.send(ctx, out, CacheInfo{Cached: cached, CacheKey: key}) {
			return
		}
		words := strings.Split(text, " ")
		for i := 0; i < len(words); {
			size := 2 + rand.IntN(4)
			chunk := strings.Join(words[i:min(i+size, len(words))], " ")
			if i > 0 {
				chunk = " " + chunk
			}
			if !s.pause(ctx) {
				return
			}
			if !s.send(ctx, out, Token{Text: chunk}) {
				return
			}
			i += size
		}
		s.send(ctx, out, End{Complete: true})
	}()
	return out
}

func (s *SummaryService) send(ctx context.Context, out chan<- StreamEvent, e StreamEvent) bool {
	select {
	case out <- e:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *SummaryService) pause(ctx context.Context) bool {
	if s.maxDelay <= 0 {
		return ctx.Err() == nil
	}
	delay := s.minDelay
	if s.maxDelay > s.minDelay {
		delay += rand.N(s.maxDelay - s.minDelay)
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
