// Package adapters provides implementations for external service integrations.
package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/richie-crm/planning-backend/internal/domain/entity"
)

// GeminiAdvisoryService implements the AdvisoryService using Google Gemini.
// The returned report is stored opaquely by the recommendation cache; a
// failed or cancelled call must leave the cache untouched, which the use
// case layer guarantees by only storing after a successful return.
type GeminiAdvisoryService struct {
	apiKey    string
	modelName string
}

// NewGeminiAdvisoryService creates a new Gemini advisory service instance.
func NewGeminiAdvisoryService(apiKey, modelName string) *GeminiAdvisoryService {
	if modelName == "" {
		modelName = "gemini-2.5-flash-lite"
	}
	return &GeminiAdvisoryService{
		apiKey:    apiKey,
		modelName: modelName,
	}
}

// IsAvailable checks if the advisory service is properly configured.
func (s *GeminiAdvisoryService) IsAvailable() bool {
	return s.apiKey != ""
}

// advisoryResponse mirrors the JSON structure the model is asked to emit.
type advisoryResponse struct {
	DebtStrategy  string   `json:"debt_strategy"`
	Warnings      []string `json:"warnings"`
	Opportunities []string `json:"opportunities"`
}

// Advise sends the deterministic plan to Gemini and returns its qualitative
// recommendation. The context carries the caller's timeout; a deadline hit
// surfaces as an error from GenerateContent.
func (s *GeminiAdvisoryService) Advise(ctx context.Context, plan *entity.Plan, profile *entity.ClientProfile) (*entity.AdvisoryReport, error) {
	if !s.IsAvailable() {
		return nil, fmt.Errorf("gemini advisory service is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(s.modelName)
	model.SetTemperature(0.3)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(s.buildPrompt(plan, profile)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate advisory content: %w", err)
	}

	report, err := s.parseResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse advisory response: %w", err)
	}

	return report, nil
}

// buildPrompt renders the plan into the advisory prompt.
func (s *GeminiAdvisoryService) buildPrompt(plan *entity.Plan, profile *entity.ClientProfile) string {
	var sb strings.Builder

	sb.WriteString(`You are a financial advisor reviewing a goal-based savings plan for a household.
Respond with a single JSON object and nothing else, using exactly these keys:
{"debt_strategy": string, "warnings": [string], "opportunities": [string]}

- "debt_strategy": one short paragraph on how the household should handle its monthly debt obligations alongside goal funding.
- "warnings": concrete risks in the plan (underfunded goals, timeline clashes, aggressive assumptions).
- "opportunities": concrete, actionable improvements (reprioritization, horizon changes, surplus adjustments).

Household:
`)
	fmt.Fprintf(&sb, "- risk tolerance: %s\n", profile.RiskTolerance)
	fmt.Fprintf(&sb, "- monthly income: %.2f, expenses: %.2f, debt obligations (EMI): %.2f\n",
		profile.TotalMonthlyIncome, profile.TotalMonthlyExpenses, profile.MonthlyEMI)
	fmt.Fprintf(&sb, "- monthly surplus available for goals: %.2f\n\n", plan.AvailableSurplus)

	sb.WriteString("Goals and computed funding requirements:\n")
	for _, g := range plan.Goals {
		fmt.Fprintf(&sb, "- %q (%s priority): target %.2f by %d, required monthly contribution %.2f",
			g.Title, g.Priority, g.TargetAmount, g.TargetYear, g.MonthlySIP)
		if g.Immediate {
			sb.WriteString(" (already due, needs immediate funding)")
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\nAllocation outcome (greedy, priority first): feasible=%v, total required %.2f, total funded %.2f, total shortfall %.2f\n",
		plan.Feasible, plan.TotalMonthlySIP, plan.TotalFunded, plan.TotalShortfall)

	for _, r := range plan.Allocations {
		fmt.Fprintf(&sb, "- goal %s: funded %.2f of required (ratio %.2f, shortfall %.2f)\n",
			r.GoalID, r.FundedAmount, r.FundingRatio, r.Shortfall)
	}

	if len(plan.Conflicts) > 0 {
		sb.WriteString("\nTimeline conflicts detected:\n")
		for _, c := range plan.Conflicts {
			fmt.Fprintf(&sb, "- goals %s need %.2f/month combined, %.2f over the available surplus\n",
				strings.Join(c.GoalIDs, ", "), c.CombinedMonthly, c.Shortfall)
		}
	}

	return sb.String()
}

// parseResponse extracts the advisory report from the model output.
func (s *GeminiAdvisoryService) parseResponse(resp *genai.GenerateContentResponse) (*entity.AdvisoryReport, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("empty response from model")
	}

	var raw strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			raw.WriteString(string(text))
		}
	}

	// Models occasionally wrap JSON in markdown fences despite the MIME type.
	cleaned := strings.TrimSpace(raw.String())
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var parsed advisoryResponse
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON from model: %w", err)
	}

	return &entity.AdvisoryReport{
		DebtStrategy:  parsed.DebtStrategy,
		Warnings:      parsed.Warnings,
		Opportunities: parsed.Opportunities,
	}, nil
}
