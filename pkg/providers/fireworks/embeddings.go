package fireworks

import (
	"context"
	"fmt"
	"net/http"

	"github.com/germanamz/mpipe/pkg/modeladapter"
	"github.com/germanamz/mpipe/pkg/providers/provider"
)

// EmbeddingsEndpoint is the production Fireworks embeddings URL.
const EmbeddingsEndpoint = "https://api.fireworks.ai/inference/v1/embeddings"

// Embeddings is a client for the Fireworks embeddings API. It is a leaf
// utility independent of the ask flow.
type Embeddings struct {
	modeladapter.ModelAdapter
}

// NewEmbeddings creates an embeddings client for the given endpoint, key,
// and model. A nil client falls back to http.DefaultClient.
func NewEmbeddings(endpoint, apiKey, model string, client *http.Client) *Embeddings {
	e := &Embeddings{
		ModelAdapter: modeladapter.New(endpoint, modeladapter.Auth{Key: apiKey}, client),
	}
	e.Provider = provider.Fireworks.String()
	e.Name = model

	return e
}

// NewEmbeddingsFromEnv creates an embeddings client against the production
// endpoint using the FIREWORKS_API_KEY environment variable.
func NewEmbeddingsFromEnv(model string) (*Embeddings, error) {
	key, ok := provider.Fireworks.Key()
	if !ok {
		return nil, &modeladapter.MissingKeyError{
			Provider: provider.Fireworks.String(),
			EnvVar:   provider.Fireworks.KeyEnv(),
		}
	}

	return NewEmbeddings(EmbeddingsEndpoint, key, model, nil), nil
}

// EmbedQuery embeds a single input string and returns the dense vector.
func (e *Embeddings) EmbedQuery(ctx context.Context, input string) ([]float64, error) {
	req := embeddingsRequest{Model: e.Name, Input: input}

	var resp embeddingsResponse
	if err := e.PostJSON(ctx, req, &resp); err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%s embeddings response contained no data", e.Provider)
	}

	return resp.Data[0].Embedding, nil
}

type embeddingsRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingsResponse struct {
	Data []embeddingsDatum `json:"data"`
}

type embeddingsDatum struct {
	Embedding []float64 `json:"embedding"`
}
