// Package fireflies talks to the Fireflies.ai GraphQL API, the transcript
// source for the analysis pipeline.
package fireflies

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"salesintel/internal/transcript"
)

const DefaultAPIURL = "https://api.fireflies.ai/graphql"

// Page size for the transcript list query.
const pageLimit = 50

// Pause between list pages, matching the API's politeness expectations.
const pageDelay = 500 * time.Millisecond

const transcriptsQuery = `
query Transcripts($fromDate: Float, $toDate: Float, $limit: Int, $skip: Int) {
	transcripts(fromDate: $fromDate, toDate: $toDate, limit: $limit, skip: $skip) {
		id
		title
		date
		duration
		host_email
		organizer_email
		transcript_url
		participants
	}
}`

const transcriptDetailQuery = `
query Transcript($transcriptId: String!) {
	transcript(id: $transcriptId) {
		id
		title
		date
		duration
		host_email
		organizer_email
		transcript_url
		participants
		speakers {
			id
			name
			email
			duration
			word_count
		}
		sentences {
			index
			text
			speaker_id
			speaker_name
			start_time
			end_time
		}
	}
}`

// APIError is a non-transport failure reported by the API itself.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fireflies API error (status %d): %s", e.Status, e.Message)
}

type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
	maxElapsed time.Duration
}

// NewClient builds a client against the production API. The http client
// carries the module-wide external timeout.
func NewClient(apiKey string, httpClient *http.Client) *Client {
	return &Client{
		apiKey:     apiKey,
		apiURL:     DefaultAPIURL,
		httpClient: httpClient,
		maxElapsed: 45 * time.Second,
	}
}

// NewClientForURL is the test seam: same client, custom endpoint.
func NewClientForURL(apiKey, apiURL string, httpClient *http.Client) *Client {
	c := NewClient(apiKey, httpClient)
	c.apiURL = apiURL
	return c
}

// FetchTranscript fetches the full transcript (speakers and sentences)
// for one id. Returns nil when the API has no such transcript.
func (c *Client) FetchTranscript(ctx context.Context, id string) (*transcript.Transcript, error) {
	data, err := c.request(ctx, transcriptDetailQuery, map[string]any{"transcriptId": id})
	if err != nil {
		return nil, err
	}
	var payload struct {
		Transcript *transcriptPayload `json:"transcript"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parsing transcript %s: %w", id, err)
	}
	if payload.Transcript == nil {
		return nil, nil
	}
	t := payload.Transcript.toTranscript()
	return &t, nil
}

// FetchTranscriptsInRange lists transcripts with dates in [start, end).
// List results are summary-only: no speakers or sentences. Pagination is
// skip-based with a politeness pause between pages.
func (c *Client) FetchTranscriptsInRange(ctx context.Context, start, end time.Time) ([]transcript.Transcript, error) {
	var all []transcript.Transcript
	skip := 0
	for {
		data, err := c.request(ctx, transcriptsQuery, map[string]any{
			"fromDate": float64(start.UnixMilli()),
			"toDate":   float64(end.UnixMilli()),
			"limit":    pageLimit,
			"skip":     skip,
		})
		if err != nil {
			return nil, err
		}
		var payload struct {
			Transcripts []transcriptPayload `json:"transcripts"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("parsing transcript list: %w", err)
		}
		for _, p := range payload.Transcripts {
			all = append(all, p.toTranscript())
		}
		if len(payload.Transcripts) < pageLimit {
			return all, nil
		}
		skip += len(payload.Transcripts)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pageDelay):
		}
	}
}

// FetchNewTranscripts lists recent transcripts not yet known to the
// store. Looks back 30 days, which comfortably covers any scheduling gap.
func (c *Client) FetchNewTranscripts(ctx context.Context, knownIDs []string) ([]transcript.Transcript, error) {
	known := make(map[string]bool, len(knownIDs))
	for _, id := range knownIDs {
		known[id] = true
	}
	now := time.Now()
	all, err := c.FetchTranscriptsInRange(ctx, now.AddDate(0, 0, -30), now)
	if err != nil {
		return nil, err
	}
	var fresh []transcript.Transcript
	for _, t := range all {
		if !known[t.ID] {
			fresh = append(fresh, t)
		}
	}
	return fresh, nil
}

// request runs one GraphQL query with exponential-backoff retries.
// Client errors (4xx) and GraphQL-level errors are permanent.
func (c *Client) request(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	payload, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return nil, err
	}

	var result json.RawMessage
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			apiErr := &APIError{Status: resp.StatusCode, Message: string(body)}
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return backoff.Permanent(apiErr)
			}
			return apiErr
		}

		var envelope struct {
			Data   json.RawMessage `json:"data"`
			Errors []struct {
				Message string `json:"message"`
			} `json:"errors"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return fmt.Errorf("parsing GraphQL envelope: %w", err)
		}
		if len(envelope.Errors) > 0 {
			return backoff.Permanent(&APIError{Status: resp.StatusCode, Message: envelope.Errors[0].Message})
		}
		result = envelope.Data
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = c.maxElapsed
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return nil, err
	}
	return result, nil
}

type transcriptPayload struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Date           float64  `json:"date"` // epoch milliseconds
	Duration       float64  `json:"duration"`
	HostEmail      string   `json:"host_email"`
	OrganizerEmail string   `json:"organizer_email"`
	TranscriptURL  string   `json:"transcript_url"`
	Participants   []string `json:"participants"`
	Speakers       []struct {
		ID        json.Number `json:"id"`
		Name      string      `json:"name"`
		Email     string      `json:"email"`
		Duration  float64     `json:"duration"`
		WordCount int         `json:"word_count"`
	} `json:"speakers"`
	Sentences []struct {
		Index       int         `json:"index"`
		Text        string      `json:"text"`
		SpeakerID   json.Number `json:"speaker_id"`
		SpeakerName string      `json:"speaker_name"`
		StartTime   float64     `json:"start_time"` // seconds
		EndTime     float64     `json:"end_time"`
	} `json:"sentences"`
}

func (p *transcriptPayload) toTranscript() transcript.Transcript {
	t := transcript.Transcript{
		ID:              p.ID,
		Title:           p.Title,
		Date:            time.UnixMilli(int64(p.Date)).UTC(),
		DurationMinutes: int(p.Duration),
		HostEmail:       p.HostEmail,
		OrganizerEmail:  p.OrganizerEmail,
		Participants:    p.Participants,
		TranscriptURL:   p.TranscriptURL,
	}
	for _, sp := range p.Speakers {
		t.Speakers = append(t.Speakers, transcript.Speaker{
			ID:        sp.ID.String(),
			Name:      sp.Name,
			Email:     sp.Email,
			Duration:  sp.Duration,
			WordCount: sp.WordCount,
		})
	}
	for _, s := range p.Sentences {
		t.Sentences = append(t.Sentences, transcript.Utterance{
			Index:       s.Index,
			Speaker:     s.SpeakerName,
			SpeakerID:   s.SpeakerID.String(),
			Text:        s.Text,
			StartTimeMs: int64(s.StartTime * 1000),
			EndTimeMs:   int64(s.EndTime * 1000),
		})
	}
	return t
}
