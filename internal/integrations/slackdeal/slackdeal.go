// Package slackdeal reads deal chatter out of a Slack channel and posts
// pipeline run summaries back. Everything here degrades to a no-op when
// Slack is not configured so the analysis pipeline never depends on it.
package slackdeal

import (
	"context"
	"strings"

	"github.com/slack-go/slack"

	"salesintel/internal/logger"
)

// DealStatus is the best-effort stage read from channel history.
type DealStatus string

const (
	StatusNoRecord     DealStatus = "no_record"
	StatusClosedWon    DealStatus = "closed_won"
	StatusClosedLost   DealStatus = "closed_lost"
	StatusNegotiating  DealStatus = "negotiating"
	StatusProposalSent DealStatus = "proposal_sent"
	StatusMentioned    DealStatus = "mentioned"
)

// Stage keywords checked in order; the first hit on the newest matching
// message wins.
var statusKeywords = []struct {
	status   DealStatus
	keywords []string
}{
	{StatusClosedWon, []string{"closed won", "signed", "deal closed", "won the deal"}},
	{StatusClosedLost, []string{"closed lost", "went dark", "lost the deal", "passed on us"}},
	{StatusNegotiating, []string{"negotiating", "redlines", "pricing call", "countered"}},
	{StatusProposalSent, []string{"proposal sent", "sent the proposal", "quote sent", "sow sent"}},
}

const historyPageSize = 200

// historyAPI is the slice of slack.Client this package uses.
type historyAPI interface {
	GetConversationHistoryContext(ctx context.Context, params *slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	UploadFileV2Context(ctx context.Context, params slack.UploadFileV2Parameters) (*slack.FileSummary, error)
}

type Client struct {
	api             historyAPI
	dealsChannelID  string
	reportChannelID string
	log             *logger.Logger
}

// NewClient returns a client over the given bot API. Pass empty channel
// IDs to disable the corresponding feature.
func NewClient(api *slack.Client, dealsChannelID, reportChannelID string, log *logger.Logger) *Client {
	c := &Client{dealsChannelID: dealsChannelID, reportChannelID: reportChannelID, log: log}
	if api != nil {
		c.api = api
	}
	return c
}

// Disabled reports whether this client was built without a Slack API.
func (c *Client) Disabled() bool {
	return c == nil || c.api == nil
}

// LookupDealStatus scans the deals channel for the newest message that
// names the prospect, their website domain, or their brand, and maps its
// text onto a deal stage. Lookups never fail the pipeline: on any error
// the status is no_record.
func (c *Client) LookupDealStatus(ctx context.Context, prospectName, website, brand string) DealStatus {
	if c.Disabled() || c.dealsChannelID == "" {
		return StatusNoRecord
	}

	markers := dealMarkers(prospectName, website, brand)
	if len(markers) == 0 {
		return StatusNoRecord
	}

	cursor := ""
	for page := 0; page < 5; page++ {
		resp, err := c.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
			ChannelID: c.dealsChannelID,
			Limit:     historyPageSize,
			Cursor:    cursor,
		})
		if err != nil {
			c.log.Component("slackdeal").WithError(err).Warn("deal channel history fetch failed")
			return StatusNoRecord
		}

		// History arrives newest first, so the first match is the latest word.
		for _, msg := range resp.Messages {
			text := strings.ToLower(msg.Text)
			if !containsAny(text, markers) {
				continue
			}
			for _, sk := range statusKeywords {
				if containsAny(text, sk.keywords) {
					return sk.status
				}
			}
			return StatusMentioned
		}

		if !resp.HasMore || resp.ResponseMetaData.NextCursor == "" {
			break
		}
		cursor = resp.ResponseMetaData.NextCursor
	}
	return StatusNoRecord
}

// PostRunSummary drops a short run report into the report channel.
func (c *Client) PostRunSummary(ctx context.Context, text string) error {
	if c.Disabled() || c.reportChannelID == "" {
		return nil
	}
	_, _, err := c.api.PostMessageContext(ctx, c.reportChannelID,
		slack.MsgOptionText(text, false))
	return err
}

// UploadReport attaches a generated report file to the report channel.
func (c *Client) UploadReport(ctx context.Context, path, title string, size int) error {
	if c.Disabled() || c.reportChannelID == "" {
		return nil
	}
	_, err := c.api.UploadFileV2Context(ctx, slack.UploadFileV2Parameters{
		File:     path,
		FileSize: size,
		Title:    title,
		Channel:  c.reportChannelID,
	})
	return err
}

func dealMarkers(prospectName, website, brand string) []string {
	var markers []string
	add := func(m string) {
		m = strings.ToLower(strings.TrimSpace(m))
		if len(m) >= 3 {
			markers = append(markers, m)
		}
	}
	add(prospectName)
	add(website)
	add(brand)
	// Chatter says "Acme", not "acme.com"; the leading domain label is a
	// marker of its own.
	if host, _, found := strings.Cut(strings.ToLower(strings.TrimSpace(website)), "."); found {
		add(host)
	}
	return markers
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}
