package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// Config holds the classifier model configuration.
type Config struct {
	APIKey  string
	BaseURL string // Optional: for custom endpoints
	Model   string
}

type openaiRemote struct {
	client openai.Client
	model  string
}

// NewOpenAIRemote creates a Remote backed by the OpenAI chat API with a
// single forced tool call carrying the classification schema.
func NewOpenAIRemote(cfg Config) (Remote, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &openaiRemote{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

// classifyArguments is the tool-call payload the model fills in.
type classifyArguments struct {
	Tags       []string `json:"tags" jsonschema_description:"Normalized lower-case tags extracted from the text"`
	Role       string   `json:"role,omitempty" jsonschema_description:"Primary role when classifying a role description"`
	Urgency    string   `json:"urgency,omitempty" jsonschema:"enum=low,enum=medium,enum=high,enum=urgent"`
	Confidence float64  `json:"confidence" jsonschema_description:"Classification confidence between 0 and 1"`
}

var classifySchema = generateSchema(classifyArguments{})

const toolName = "classify_text"

var kindPrompts = map[Kind]string{
	KindRole:       "Classify the professional role described in the text.",
	KindIndustry:   "Classify the industries referenced in the text.",
	KindExpertise:  "Extract the expertise areas the author can help others with.",
	KindHelpTopics: "Extract the topics the author is asking for help with, and the urgency.",
}

func (r *openaiRemote) Classify(ctx context.Context, kind Kind, text string) (Classification, error) {
	prompt, ok := kindPrompts[kind]
	if !ok {
		return Classification{}, fmt.Errorf("unknown classification kind %q", kind)
	}

	var params shared.FunctionParameters
	data, _ := json.Marshal(classifySchema)
	_ = json.Unmarshal(data, &params)

	start := time.Now()
	resp, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: r.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt + " Always respond via the classify_text tool."),
			openai.UserMessage(text),
		},
		Tools: []openai.ChatCompletionToolParam{{
			Function: shared.FunctionDefinitionParam{
				Name:        toolName,
				Description: openai.String("Report the structured classification of the text"),
				Parameters:  params,
			},
		}},
		ToolChoice: openai.ChatCompletionToolChoiceOptionUnionParam{
			OfChatCompletionNamedToolChoice: &openai.ChatCompletionNamedToolChoiceParam{
				Function: openai.ChatCompletionNamedToolChoiceFunctionParam{Name: toolName},
			},
		},
		MaxCompletionTokens: openai.Int(512),
	})
	if err != nil {
		return Classification{}, fmt.Errorf("openai classify: %w", err)
	}

	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.ToolCalls) == 0 {
		return Classification{}, fmt.Errorf("no tool call in response")
	}

	var args classifyArguments
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.ToolCalls[0].Function.Arguments), &args); err != nil {
		return Classification{}, fmt.Errorf("parse tool arguments: %w", err)
	}

	slog.DebugContext(ctx, "text classified",
		"model", r.model,
		"kind", string(kind),
		"tags", len(args.Tags),
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	return Classification{
		Tags:       args.Tags,
		Role:       args.Role,
		Urgency:    args.Urgency,
		Confidence: args.Confidence,
	}, nil
}

func generateSchema(v any) any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return reflector.Reflect(v)
}
