// Package gemini wraps the generative suggestion collaborator. Responses
// are constrained to a JSON array of movie records via a response schema,
// so parsing failures are rare and always recoverable upstream.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"cineshuffle-server/internal/model"
)

const DefaultModel = "gemini-2.5-flash"

type Client struct {
	client *genai.Client
	model  string
}

var movieSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":         {Type: genai.TypeString},
		"year":          {Type: genai.TypeString},
		"short_summary": {Type: genai.TypeString},
		"poster_url": {
			Type:        genai.TypeString,
			Description: "A valid URL for the movie poster if available, otherwise null.",
		},
	},
	Required: []string{"title", "year", "short_summary"},
}

func New(ctx context.Context, apiKey, modelName string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing Gemini API key")
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{client: c, model: modelName}, nil
}

func langInstruction(lang string) string {
	if lang == model.LangTR {
		return "Provide the movie titles in their original language (or common Turkish title) and provide the short_summary in Turkish."
	}
	return "Provide standard English titles and summaries."
}

// Suggest asks for 5-8 distinct real movies matching a free-text prompt.
func (c *Client) Suggest(ctx context.Context, prompt, lang string) ([]model.AIResponseMovie, error) {
	contents := fmt.Sprintf(
		"Suggest 5-8 distinct movies based on this request: %q. Ensure they are real movies. %s Return a JSON array.",
		prompt, langInstruction(lang),
	)
	return c.generate(ctx, contents)
}

// Search asks for the top matches for a title query. Used as the fallback
// for the manual-add flow when the primary metadata search yields nothing.
func (c *Client) Search(ctx context.Context, query, lang string) ([]model.AIResponseMovie, error) {
	extra := ""
	if lang == model.LangTR {
		extra = " Provide the short_summary in Turkish."
	}
	contents := fmt.Sprintf(
		"Search for real movies matching the title or query: %q. Return the top 5 most relevant results.%s Return a JSON array.",
		query, extra,
	)
	return c.generate(ctx, contents)
}

func (c *Client) generate(ctx context.Context, contents string) ([]model.AIResponseMovie, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		genai.Text(contents),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema: &genai.Schema{
				Type:  genai.TypeArray,
				Items: movieSchema,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return nil, nil
	}
	var out []model.AIResponseMovie
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("gemini response parse: %w", err)
	}
	return out, nil
}
