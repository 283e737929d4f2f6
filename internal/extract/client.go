package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vitaflowd/vitaflow/internal/model"
)

// ErrInterpretation marks an extraction the model could not turn into valid
// entries. The caller surfaces it as retryable and falls back to manual entry;
// nothing from a failed extraction is ever applied.
var ErrInterpretation = errors.New("extract: failed to interpret text")

var ErrEmptyInput = errors.New("extract: input text is empty")

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Client talks to a Gemini-compatible generateContent endpoint and maps
// free-text regimen descriptions to structured supplement inputs.
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, modelID, apiKey string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   modelID,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

const promptTemplate = `Analyze the following text which describes a health or supplement regimen.
Extract all supplements, medications, or vitamins mentioned.

For each item, identify:
- name: The name of the supplement.
- dosage: The amount to take (e.g., "500mg", "1 pill"). If not specified, put "As directed".
- frequency: When to take it (e.g., "Morning", "Daily", "After workout").
- reminderTime: If a specific time is mentioned, extract it in "HH:MM" 24-hour format. If no specific time, leave empty.
- notes: Any specific instructions (e.g., "Take with food").
- category: Classify as 'vitamin', 'medicine', 'protein', or 'other'.

Input text: %q`

// Extract sends the free text to the model and returns validated candidate
// items. The result is all-or-nothing: one invalid candidate fails the call.
func (c *Client) Extract(ctx context.Context, text string) ([]model.NewSupplementInput, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	if strings.TrimSpace(c.apiKey) == "" {
		return nil, errors.New("extract: api key is not configured")
	}

	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: fmt.Sprintf(promptTemplate, text)}}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   supplementArraySchema(),
		},
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInterpretation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrInterpretation, resp.StatusCode)
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrInterpretation, err)
	}

	jsonText := firstText(result)
	if strings.TrimSpace(jsonText) == "" {
		return []model.NewSupplementInput{}, nil
	}

	var inputs []model.NewSupplementInput
	if err := json.Unmarshal([]byte(jsonText), &inputs); err != nil {
		return nil, fmt.Errorf("%w: unparseable model output: %v", ErrInterpretation, err)
	}

	for i := range inputs {
		inputs[i].Category = model.NormalizeCategory(inputs[i].Category)
		if err := inputs[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInterpretation, err)
		}
	}
	return inputs, nil
}

func firstText(resp generateResponse) string {
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				return p.Text
			}
		}
	}
	return ""
}

func supplementArraySchema() *schema {
	return &schema{
		Type: "ARRAY",
		Items: &schema{
			Type: "OBJECT",
			Properties: map[string]schema{
				"name":         {Type: "STRING"},
				"dosage":       {Type: "STRING"},
				"frequency":    {Type: "STRING"},
				"reminderTime": {Type: "STRING"},
				"notes":        {Type: "STRING"},
				"category":     {Type: "STRING", Enum: []string{"vitamin", "medicine", "protein", "other"}},
			},
			Required: []string{"name", "category"},
		},
	}
}
