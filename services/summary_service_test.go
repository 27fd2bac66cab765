package services

import (
	"context"
	"event-lab/cache"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestSummaryService() *SummaryService {
	// Zero delays keep the stream instantaneous in tests.
	return NewSummaryService(cache.NewMemoryCache(), slog.Default(), time.Hour, 0, 0)
}

func collect(stream <-chan StreamEvent) []StreamEvent {
	var events []StreamEvent
	for e := range stream {
		events = append(events, e)
	}
	return events
}

func concatTokens(events []StreamEvent) string {
	var sb strings.Builder
	for _, e := range events {
		if token, ok := e.(Token); ok {
			sb.WriteString(token.Text)
		}
	}
	return sb.String()
}

func Test_Fingerprint_StableAndFieldSensitive(t *testing.T) {
	req := require.New(t)
	start := time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	a := Fingerprint("Gala", "Berlin", start, end)
	b := Fingerprint("Gala", "Berlin", start, end)
	req.Equal(a, b)
	req.LessOrEqual(len(a), 16)

	// The 16-char key covers only the first 12 bytes of the tuple, so
	// differences must land inside that window to matter.
	req.NotEqual(a, Fingerprint("Expo", "Berlin", start, end))
	req.NotEqual(a, Fingerprint("Gala", "Hamburg", start, end))
	req.NotEqual(Fingerprint("A", "B", start, end), Fingerprint("A", "B", start.AddDate(0, 1, 0), end))
}

func Test_Fingerprint_CollidesBeyondTruncationWindow(t *testing.T) {
	req := require.New(t)
	start := time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	// Tuples sharing a 12-byte prefix collapse to one key, no matter
	// how the later fields differ.
	a := Fingerprint("Launch party v1", "Berlin", start, end)
	b := Fingerprint("Launch party v2", "Hamburg", start.Add(time.Hour), end)
	req.Equal(a, b)
}

func Test_GenerateSummary_MissThenHit(t *testing.T) {
	req := require.New(t)
	service := newTestSummaryService()
	ctx := context.Background()
	id := uuid.New()
	start := time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	first, cached, stream := service.GenerateSummary(ctx, id, "Launch party", "Berlin", start, end)
	collect(stream)
	req.False(cached)
	req.NotEmpty(first.Text)
	req.Equal(id, first.EventID)

	second, cached, stream := service.GenerateSummary(ctx, id, "Launch party", "Berlin", start, end)
	collect(stream)
	req.True(cached)
	req.Equal(first.Text, second.Text, "HIT replays the cached text verbatim")
	req.Equal(first.CacheKey, second.CacheKey)
}

func Test_GenerateSummary_DatePhrases(t *testing.T) {
	req := require.New(t)
	service := newTestSummaryService()
	ctx := context.Background()
	start := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	sameDay, _, stream := service.GenerateSummary(ctx, uuid.New(), "Workshop", "Berlin", start, start.Add(4*time.Hour))
	collect(stream)
	req.Contains(sameDay.Text, "on October 1, 2026")
	req.NotContains(sameDay.Text, "from October")

	multiDay, _, stream := service.GenerateSummary(ctx, uuid.New(), "Conference", "Berlin", start, start.Add(48*time.Hour))
	collect(stream)
	req.Contains(multiDay.Text, "from October 1, 2026 to October 3, 2026")
}

func Test_Stream_OrderingAndConcatenation(t *testing.T) {
	req := require.New(t)
	service := newTestSummaryService()
	start := time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)

	summary, _, stream := service.GenerateSummary(context.Background(), uuid.New(), "Launch party", "Berlin", start, start.Add(2*time.Hour))
	events := collect(stream)

	req.GreaterOrEqual(len(events), 3)
	info, ok := events[0].(CacheInfo)
	req.True(ok, "cache-status event comes first")
	req.False(info.Cached)
	req.Equal(summary.CacheKey, info.CacheKey)

	end, ok := events[len(events)-1].(End)
	req.True(ok, "terminal event comes last")
	req.True(end.Complete)

	for _, e := range events[1 : len(events)-1] {
		_, ok := e.(Token)
		req.True(ok, "only token events between cache-info and end")
	}
	req.Equal(summary.Text, concatTokens(events), "tokens concatenate exactly to the text")
}

func Test_Stream_ReplaysIdenticallyOnHit(t *testing.T) {
	req := require.New(t)
	service := newTestSummaryService()
	ctx := context.Background()
	start := time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)

	_, _, stream := service.GenerateSummary(ctx, uuid.New(), "Launch party", "Berlin", start, start.Add(2*time.Hour))
	first := collect(stream)

	_, _, stream = service.GenerateSummary(ctx, uuid.New(), "Launch party", "Berlin", start, start.Add(2*time.Hour))
	second := collect(stream)

	info, ok := second[0].(CacheInfo)
	req.True(ok)
	req.True(info.Cached)
	req.Equal(concatTokens(first), concatTokens(second))
}

func Test_Stream_StopsOnCancellation(t *testing.T) {
	req := require.New(t)
	service := NewSummaryService(cache.NewMemoryCache(), slog.Default(), time.Hour, 20*time.Millisecond, 40*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	start := time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)

	_, _, stream := service.GenerateSummary(ctx, uuid.New(), "Launch party", "Berlin", start, start.Add(2*time.Hour))

	first, open := <-stream
	req.True(open)
	_, ok := first.(CacheInfo)
	req.True(ok)

	cancel()

	// The producer must stop emitting and close the channel; a few
	// in-flight tokens may still arrive, but never the terminal event.
	deadline := time.After(time.Second)
	for {
		select {
		case e, open := <-stream:
			if !open {
				return
			}
			_, isEnd := e.(End)
			req.False(isEnd, "no terminal event after the consumer detached")
		case <-deadline:
			t.Fatal("stream did not close after cancellation")
		}
	}
}
