// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package profiles records props activity on WordPress.org Profiles.
package profiles

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dotorg/slackprops/internal/models"
)

const (
	// Action is the Profiles AJAX action that records activity.
	Action = "wporg_handle_activity"
	// Source tags the activity as coming from Slack.
	Source = "slack"
	// ActivityPropsGiven is the activity kind for props.
	ActivityPropsGiven = "props_given"

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 64 << 10
)

// Client posts activity to the Profiles endpoint. The httpClient must
// already handle authentication and timeouts.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// NewClient creates a Profiles client for the given endpoint URL.
func NewClient(httpClient *http.Client, endpoint string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
	}
}

// encodeRecord builds the form body Profiles expects, with PHP-style array keys.
func encodeRecord(rec models.ActivityRecord) url.Values {
	form := url.Values{}
	form.Set("action", Action)
	form.Set("source", Source)
	form.Set("activity", ActivityPropsGiven)
	form.Set("giver_user[id]", strconv.FormatInt(rec.Giver.ID, 10))
	form.Set("giver_user[user_login]", rec.Giver.Login)
	for _, id := range rec.RecipientIDs {
		form.Add("recipient_ids[]", strconv.FormatInt(id, 10))
	}
	form.Set("url", rec.Permalink)
	form.Set("message_id", rec.MessageID)
	form.Set("message", rec.Message)
	return form
}

// Post sends the record and returns the raw response body. A non-2xx status
// is returned as an error together with the body.
func (c *Client) Post(ctx context.Context, rec models.ActivityRecord) (string, error) {
	body := encodeRecord(rec).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("post activity: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return string(raw), fmt.Errorf("profiles returned HTTP %d", resp.StatusCode)
	}

	return string(raw), nil
}
