package relay

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"clillm/config"
	"clillm/internal/core"
	"clillm/internal/llmclient"
	"clillm/internal/profiles"
)

const chatCompletionsEndpoint = "/chat/completions"

// Remote relays prompts to an OpenAI-compatible chat completions API.
type Remote struct {
	client   *llmclient.Client
	apiKey   string
	profiles *profiles.Index
	settings *config.Settings
	logger   *slog.Logger
}

// RemoteOptions holds the dependencies of a Remote relay
type RemoteOptions struct {
	API      config.APIConfig
	Settings *config.Settings
	Profiles *profiles.Index
	// HTTPClient is used for every request; nil means http.DefaultClient
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewRemote creates a Remote relay.
func NewRemote(opts RemoteOptions) *Remote {
	r := &Remote{
		apiKey:   opts.API.APIKey,
		profiles: opts.Profiles,
		settings: opts.Settings,
		logger:   opts.Logger,
	}
	if r.settings == nil {
		r.settings = config.DefaultSettings()
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	r.client = llmclient.NewWithHTTPClient(opts.HTTPClient, llmclient.Config{BaseURL: opts.API.BaseURL}, r.setHeaders)
	return r
}

// setHeaders sets the required headers for API requests
func (r *Remote) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	if requestID := core.GetRequestID(req.Context()); requestID != "" {
		req.Header.Set("X-Client-Request-Id", requestID)
	}
}

// buildRequest resolves the profile of the variant's family into a system
// message and temperature.
func (r *Remote) buildRequest(variant core.ModelVariant, prompt string) (*core.ChatRequest, error) {
	id := profiles.FamilyID(variant.Family())
	role, ok := r.profiles.Role(id)
	if !ok {
		return nil, core.NewConfigMalformedError("no system prompt registered for "+id, nil)
	}
	temperature, ok := r.profiles.Temperature(id)
	if !ok {
		return nil, core.NewConfigMalformedError("no temperature registered for "+id, nil)
	}

	req := &core.ChatRequest{
		Model:       r.settings.UpstreamModel(variant),
		Temperature: &temperature,
		Messages: []core.Message{
			{Role: "system", Content: role},
			{Role: "user", Content: prompt},
		},
	}
	r.logger.Debug("built chat request",
		"model", req.Model,
		"variant", variant.String(),
		"profile", id,
		"temperature", temperature,
	)
	return req, nil
}

// Complete sends a non-streaming chat completion request
func (r *Remote) Complete(ctx context.Context, variant core.ModelVariant, prompt string) (string, error) {
	req, err := r.buildRequest(variant, prompt)
	if err != nil {
		return "", err
	}

	var resp core.ChatResponse
	err = r.client.Do(ctx, llmclient.Request{
		Method:   http.MethodPost,
		Endpoint: chatCompletionsEndpoint,
		Body:     req,
	}, &resp)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", core.NewRequestError(http.StatusBadGateway, "no choices in response", nil)
	}

	r.logger.Debug("completion finished",
		"id", resp.ID,
		"finish_reason", resp.Choices[0].FinishReason,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)
	return resp.Choices[0].Message.Content, nil
}

// Stream sends a streaming chat completion request and relays content deltas
func (r *Remote) Stream(ctx context.Context, variant core.ModelVariant, prompt string, onChunk core.ChunkFunc) error {
	req, err := r.buildRequest(variant, prompt)
	if err != nil {
		return err
	}

	body, err := r.client.DoStream(ctx, llmclient.Request{
		Method:   http.MethodPost,
		Endpoint: chatCompletionsEndpoint,
		Body:     req.WithStreaming(),
	})
	if err != nil {
		return asStreamError(0, err)
	}
	defer func() {
		_ = body.Close()
	}()

	stats, err := decodeStream(body, onChunk)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return core.NewStreamError(stats.delivered, "request canceled: "+ctxErr.Error(), ctxErr)
		}
		return err
	}

	r.logger.Debug("stream finished",
		"chunks", stats.delivered,
		"finish_reason", stats.finishReason,
		"reasoning_bytes", stats.reasoningBytes,
		"prompt_tokens", stats.usage.PromptTokens,
		"completion_tokens", stats.usage.CompletionTokens,
	)
	return nil
}

// asStreamError converts a request failure into a stream failure that
// records how much output was delivered.
func asStreamError(delivered int, err error) error {
	coreErr, ok := err.(*core.Error)
	if !ok || coreErr.Kind != core.KindRequestFailed {
		return err
	}
	streamErr := core.NewStreamError(delivered, strings.TrimPrefix(coreErr.Message, "request failed: "), coreErr.Err)
	streamErr.StatusCode = coreErr.StatusCode
	return streamErr
}
