package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Answer is the best-effort result of one assistant run. Sources and
// ParseFailures are extracted even when FinalText is empty; the caller is
// expected to substitute a fallback answer in that case.
type Answer struct {
	FinalText     string
	Sources       []Source
	ParseFailures int
}

type Client struct {
	httpClient *http.Client
	url        string
	projectID  string
	agentRef   string
	agentName  string
	threadID   string
}

func NewClient(url, projectID, agentRef, agentName, threadID string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		projectID:  projectID,
		agentRef:   agentRef,
		agentName:  agentName,
		threadID:   threadID,
	}
}

func (c *Client) IsAvailable() bool {
	return c.url != ""
}

type runRequest struct {
	AgentpackVersionRef projectRef `json:"agentpackVersionRef"`
	UserMessage         string     `json:"userMessage"`
	ThreadRef           threadRef  `json:"threadRef"`
}

type projectRef struct {
	ProjectID string `json:"projectId"`
}

type threadRef struct {
	UserExternalID    string `json:"userExternalId"`
	ThreadExternalID  string `json:"threadExternalId"`
	AgentExternalID   string `json:"agentExternalId"`
	AgentpackAgentRef string `json:"agentpackAgentRef"`
}

type runResponse struct {
	RunID struct {
		BasicLog struct {
			FinalText string `json:"finalText"`
		} `json:"basicLog"`
		Messages []runMessage `json:"messages"`
	} `json:"runId"`
	Messages []runMessage `json:"messages"`
}

type runMessage struct {
	Content flexString `json:"content"`
}

// flexString tolerates non-string content values in upstream payloads; any
// non-string JSON value decodes to the empty string.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*f = ""
		return nil
	}
	*f = flexString(s)
	return nil
}

// Fetch runs the user question through the external assistant and returns
// the final answer text plus any extracted sources. A nil error with an
// empty FinalText means the run completed but produced no usable answer.
func (c *Client) Fetch(ctx context.Context, userQuestion string, userID uint) (Answer, error) {
	if !c.IsAvailable() {
		return Answer{}, fmt.Errorf("assistant is not configured")
	}

	reqBody := runRequest{
		AgentpackVersionRef: projectRef{ProjectID: c.projectID},
		UserMessage:         userQuestion,
		ThreadRef: threadRef{
			UserExternalID:    strconv.FormatUint(uint64(userID), 10),
			ThreadExternalID:  c.threadID,
			AgentExternalID:   c.agentName,
			AgentpackAgentRef: c.agentRef,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return Answer{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/createRun", bytes.NewReader(jsonBody))
	if err != nil {
		return Answer{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Answer{}, fmt.Errorf("assistant request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Answer{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Answer{}, fmt.Errorf("assistant returned status %d: %s", resp.StatusCode, string(body))
	}

	var runResp runResponse
	if err := json.Unmarshal(body, &runResp); err != nil {
		return Answer{}, fmt.Errorf("failed to parse assistant response: %w", err)
	}

	answer := Answer{FinalText: runResp.RunID.BasicLog.FinalText}

	msgs := runResp.Messages
	if len(msgs) == 0 {
		msgs = runResp.RunID.Messages
	}
	for _, m := range msgs {
		sources, failures := ExtractSources(string(m.Content))
		answer.Sources = append(answer.Sources, sources...)
		answer.ParseFailures += failures
	}

	return answer, nil
}
