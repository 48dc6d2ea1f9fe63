package backend

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/pkg/errors"
)

type DoubtResult struct {
	ExtractedText string `json:"extracted_text"`
	Answer        string `json:"answer"`
	File          string `json:"file,omitempty"`
}

// SolveDoubt uploads a photographed question for OCR + answering.
func (c *Client) SolveDoubt(ctx context.Context, token, filename string, image io.Reader) (DoubtResult, error) {
	var out DoubtResult
	err := c.postMultipart(ctx, "/api/doubt/solve", token, &out, func(w *multipart.Writer) error {
		part, err := w.CreateFormFile("image", filename)
		if err != nil {
			return err
		}
		_, err = io.Copy(part, image)
		return err
	})
	return out, err
}

type EssayResult struct {
	Essay          string  `json:"essay"`
	PredictedScore float64 `json:"predicted_score"`
	Explanation    string  `json:"explanation"`
}

func (c *Client) AnalyzeEssay(ctx context.Context, token, essay string) (EssayResult, error) {
	var out EssayResult
	err := c.postJSON(ctx, "/api/essay/analyze", token, map[string]string{"essay": essay}, &out)
	return out, err
}

// GeneratePlan asks for a study plan. The payload shape varies by model and
// endpoint version; it is returned raw for the normalizer to sort out.
func (c *Client) GeneratePlan(ctx context.Context, token, subject string) (interface{}, error) {
	var out interface{}
	if err := c.postJSON(ctx, "/api/study/plan", token, map[string]string{"subject": subject}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SummarizeNotes uploads a notes file (or pasted text wrapped as one) with an
// optional steering prompt. The summary payload is returned raw.
func (c *Client) SummarizeNotes(ctx context.Context, token, filename string, file io.Reader, prompt string) (interface{}, error) {
	var out interface{}
	err := c.postMultipart(ctx, "/api/notes/summarize", token, &out, func(w *multipart.Writer) error {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			return err
		}
		if _, err = io.Copy(part, file); err != nil {
			return err
		}
		if prompt != "" {
			return w.WriteField("prompt", prompt)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) postMultipart(ctx context.Context, path, token string, out interface{}, fill func(*multipart.Writer) error) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := fill(w); err != nil {
		return errors.Wrapf(err, "building %s form", path)
	}
	if err := w.Close(); err != nil {
		return errors.Wrapf(err, "closing %s form", path)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, token, w.FormDataContentType(), &buf)
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}
