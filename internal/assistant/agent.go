package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/petcare-clinic/petcare-backend/internal/auth"
	"github.com/petcare-clinic/petcare-backend/internal/pet"
	"github.com/petcare-clinic/petcare-backend/internal/pkg/apperror"
)

const (
	DefaultModel  = "gemini-1.5-flash"
	maxToolRounds = 5

	toolCheckAvailability = "check_availability"
	toolCalculatePrice    = "calculate_price"
	toolSearchPets        = "search_customer_pets"
)

var (
	ErrDisabled   = apperror.New(http.StatusServiceUnavailable, "the scheduling assistant is not configured")
	ErrEmptyInput = apperror.NewField(http.StatusBadRequest, "message", "message cannot be empty")
)

const systemInstruction = `You are PetCare's scheduling assistant for a veterinary clinic and pet shop.
Help customers book services for their pets.
Use search_customer_pets when the customer describes a pet, check_availability to find times
(weekday names, ISO dates, today/tomorrow, and morning/afternoon/evening periods are understood),
and calculate_price to quote prices by pet size (small, medium, large).
Show exact times and prices, mention how long the service takes, and ask which pet is meant
when more than one matches. Answer in Brazilian Portuguese.`

// chatSession is the subset of *genai.ChatSession the agent drives.
type chatSession interface {
	SendMessage(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type ToolExecution struct {
	Name      string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments"`
	Result    any            `json:"result"`
}

type Reply struct {
	Message       string          `json:"message"`
	ToolsExecuted []ToolExecution `json:"tools_executed"`
	Intent        string          `json:"intent_detected"`
	Confidence    float64         `json:"confidence_score"`
}

// Agent answers scheduling questions with Gemini function calling, running
// the Tools it asks for and feeding the results back.
type Agent struct {
	tools   *Tools
	newChat func() chatSession
	logger  *zap.Logger
	closeFn func() error
}

// NewGeminiAgent connects to the Gemini API with apiKey.
func NewGeminiAgent(ctx context.Context, apiKey, modelName string, tools *Tools, logger *zap.Logger) (*Agent, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	if modelName == "" {
		modelName = DefaultModel
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.3)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemInstruction)}}
	model.Tools = []*genai.Tool{{FunctionDeclarations: functionDeclarations()}}

	a := newAgent(tools, func() chatSession { return model.StartChat() }, logger)
	a.closeFn = client.Close
	return a, nil
}

func newAgent(tools *Tools, newChat func() chatSession, logger *zap.Logger) *Agent {
	return &Agent{tools: tools, newChat: newChat, logger: logger.Named("assistant.agent")}
}

// Close releases the underlying client. Safe on a nil Agent.
func (a *Agent) Close() error {
	if a == nil || a.closeFn == nil {
		return nil
	}
	return a.closeFn()
}

func functionDeclarations() []*genai.FunctionDeclaration {
	str := func(desc string) *genai.Schema { return &genai.Schema{Type: genai.TypeString, Description: desc} }
	integer := func(desc string) *genai.Schema { return &genai.Schema{Type: genai.TypeInteger, Description: desc} }

	return []*genai.FunctionDeclaration{
		{
			Name:        toolCheckAvailability,
			Description: "Check available appointment slots for a day and service.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"day":          str("Weekday name (saturday, sábado), today, tomorrow, or ISO date (2025-12-20)"),
					"period":       str("morning (manhã), afternoon (tarde) or evening (noite)"),
					"service_name": str("Service name, e.g. banho, tosa, consulta"),
				},
				Required: []string{"day"},
			},
		},
		{
			Name:        toolCalculatePrice,
			Description: "Calculate the price of a service for a pet size.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"service_name": str("Service name, e.g. banho, tosa, consulta"),
					"pet_size":     str("small (pequeno), medium (médio) or large (grande)"),
				},
				Required: []string{"service_name"},
			},
		},
		{
			Name:        toolSearchPets,
			Description: "Search the customer's pets by species, breed or age.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"species": str("dog, cat, bird or other (cachorro, gato, pássaro)"),
					"breed":   str("Breed name, partial match"),
					"age_min": integer("Minimum age in years"),
					"age_max": integer("Maximum age in years"),
				},
			},
		},
	}
}

// Run answers one customer message. Tool calls are bounded to a few rounds.
func (a *Agent) Run(ctx context.Context, requester auth.Principal, input string) (*Reply, error) {
	if a == nil {
		return nil, ErrDisabled
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}

	prompt := fmt.Sprintf("Customer request: %s\nCurrent date: %s\nCustomer ID: %s\n",
		input, a.tools.slots.Today().String(), requester.UserID)

	chat := a.newChat()
	resp, err := chat.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini send message: %w", err)
	}

	var executed []ToolExecution
	for round := 0; ; round++ {
		calls, text := splitResponse(resp)
		if len(calls) == 0 || round >= maxToolRounds {
			reply := &Reply{
				Message:       text,
				ToolsExecuted: executed,
				Intent:        detectIntent(input, executed),
				Confidence:    confidence(executed),
			}
			if reply.ToolsExecuted == nil {
				reply.ToolsExecuted = []ToolExecution{}
			}
			a.logger.Info("assistant reply",
				zap.Int("tools", len(executed)), zap.String("intent", reply.Intent), zap.Int("rounds", round))
			return reply, nil
		}

		responses := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			result := a.execute(ctx, requester, call.Name, call.Args)
			executed = append(executed, ToolExecution{Name: call.Name, Arguments: call.Args, Result: result})
			responses = append(responses, genai.FunctionResponse{Name: call.Name, Response: toMap(result)})
		}

		resp, err = chat.SendMessage(ctx, responses...)
		if err != nil {
			return nil, fmt.Errorf("gemini send tool results: %w", err)
		}
	}
}

func splitResponse(resp *genai.GenerateContentResponse) ([]genai.FunctionCall, string) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ""
	}

	var (
		calls []genai.FunctionCall
		text  strings.Builder
	)
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.FunctionCall:
			calls = append(calls, p)
		case genai.Text:
			text.WriteString(string(p))
		}
	}
	return calls, text.String()
}

// execute runs a tool and always returns something the model can read.
func (a *Agent) execute(ctx context.Context, requester auth.Principal, name string, args map[string]any) any {
	a.logger.Info("executing tool", zap.String("tool", name), zap.Any("arguments", args))

	var (
		result any
		err    error
	)
	switch name {
	case toolCheckAvailability:
		result, err = a.tools.CheckAvailability(ctx, argString(args, "day"), argString(args, "period"), argString(args, "service_name"))
	case toolCalculatePrice:
		result, err = a.tools.CalculatePrice(ctx, argString(args, "service_name"), argString(args, "pet_size"))
	case toolSearchPets:
		criteria := pet.SearchCriteria{
			Species: argString(args, "species"),
			Breed:   argString(args, "breed"),
			AgeMin:  argInt(args, "age_min"),
			AgeMax:  argInt(args, "age_max"),
		}
		if !requester.IsStaff {
			criteria.OwnerID = requester.UserID
		}
		result, err = a.tools.SearchCustomerPets(ctx, criteria)
	default:
		return map[string]any{"error": fmt.Sprintf("tool %s not found", name)}
	}

	if err != nil {
		a.logger.Error("tool execution failed", zap.String("tool", name), zap.Error(err))
		return map[string]any{"error": "tool failed, try again later"}
	}
	return result
}

func argString(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// argInt accepts JSON numbers, which arrive as float64.
func argInt(args map[string]any, key string) *int {
	switch v := args[key].(type) {
	case float64:
		n := int(v)
		return &n
	case int:
		return &v
	}
	return nil
}

func toMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return map[string]any{"result": string(raw)}
	}
	return m
}

var bookingKeywords = []string{"agendar", "marcar", "preciso", "quero", "reservar", "consulta", "book", "schedule"}

func detectIntent(input string, executed []ToolExecution) string {
	lower := strings.ToLower(input)
	for _, k := range bookingKeywords {
		if strings.Contains(lower, k) {
			return "book_appointment"
		}
	}
	for _, e := range executed {
		if e.Name == toolCheckAvailability {
			return "check_availability"
		}
	}
	return "unknown"
}

func hasError(result any) bool {
	switch r := result.(type) {
	case map[string]any:
		_, ok := r["error"]
		return ok
	case *AvailabilityResult:
		return r.Error != ""
	case *PriceResult:
		return r.Error != ""
	}
	return false
}

// confidence is the share of tool calls that succeeded, boosted when the
// assistant both identified the pet and looked up slots.
func confidence(executed []ToolExecution) float64 {
	if len(executed) == 0 {
		return 0.5
	}

	ok := 0
	names := map[string]bool{}
	for _, e := range executed {
		if !hasError(e.Result) {
			ok++
		}
		names[e.Name] = true
	}

	c := float64(ok) / float64(len(executed))
	if names[toolSearchPets] && names[toolCheckAvailability] {
		c += 0.2
		if c > 1 {
			c = 1
		}
	}
	return float64(int(c*100+0.5)) / 100
}
