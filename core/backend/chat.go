package backend

import (
	"context"
	"net/http"
	"regexp"
)

type TutorQuestion struct {
	Question  string
	Subject   string
	Goal      string
	ClassStd  int
	SessionID string
}

// AskTutor sends a tutor-chat turn. Optional fields are omitted from the body
// entirely, the API treats empty strings as values.
func (c *Client) AskTutor(ctx context.Context, token string, q TutorQuestion) (interface{}, error) {
	body := map[string]interface{}{"question": q.Question}
	if q.Subject != "" {
		body["subject"] = q.Subject
	}
	if q.Goal != "" {
		body["goal"] = q.Goal
	}
	if q.ClassStd != 0 {
		body["class_std"] = q.ClassStd
	}
	if q.SessionID != "" {
		body["session_id"] = q.SessionID
	}
	var out interface{}
	if err := c.postJSON(ctx, "/api/aitutor/ask", token, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Chat sends an edu-chat turn.
func (c *Client) Chat(ctx context.Context, token, question, sessionID string) (interface{}, error) {
	body := map[string]interface{}{"question": question}
	if sessionID != "" {
		body["session_id"] = sessionID
	}
	var out interface{}
	if err := c.postJSON(ctx, "/api/educhat/chat", token, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

var youtubeURLRegex = regexp.MustCompile(`(?i)youtu\.be|youtube\.com`)

// LoadVideo asks the API to fetch and index a video transcript. Input that
// looks like a URL goes up as video_url, anything else as a bare video_id.
func (c *Client) LoadVideo(ctx context.Context, token, input string) (map[string]interface{}, error) {
	field := "video_id"
	if youtubeURLRegex.MatchString(input) {
		field = "video_url"
	}
	var out map[string]interface{}
	if err := c.postJSON(ctx, "/api/ytchat/load", token, map[string]string{field: input}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AskVideo asks a question about a loaded video. Unlike the other chat
// endpoints this one answers in plain text, not JSON.
func (c *Client) AskVideo(ctx context.Context, token, question, sessionID, videoID string) (string, error) {
	body := map[string]interface{}{"question": question}
	if sessionID != "" {
		body["session_id"] = sessionID
	} else if videoID != "" {
		body["video_id"] = videoID
	}
	data, err := marshalBody(body)
	if err != nil {
		return "", err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/ytchat/ask", token, "application/json", data)
	if err != nil {
		return "", err
	}
	raw, err := c.do(req)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Healthz reports the API's liveness status code. A transport failure means
// the API is unreachable, not degraded.
func (c *Client) Healthz(ctx context.Context) (int, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/healthz", "", "", nil)
	if err != nil {
		return 0, err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	return res.StatusCode, nil
}
