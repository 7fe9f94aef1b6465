package advisor

import (
	"aviation-ops/errors"
	"aviation-ops/manpower"
	"aviation-ops/metrics"
	"aviation-ops/models"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// =============================================================================
// GEMINI ADVISOR
// =============================================================================

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-pro"

// maxPromptTasks caps how many task rows are embedded in a prompt.
const maxPromptTasks = 200

// generator is the part of the genai client the advisor uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini implements Summarizer and Evaluator on the Gemini API.
type Gemini struct {
	gen     generator
	model   string
	cfg     manpower.Config
	timeout time.Duration
	logger  *zap.Logger
}

type Option func(*Gemini)

func WithModel(model string) Option {
	return func(g *Gemini) {
		if model != "" {
			g.model = model
		}
	}
}

// WithManpowerConfig sets the constants quoted in the summary prompt.
func WithManpowerConfig(cfg manpower.Config) Option {
	return func(g *Gemini) { g.cfg = cfg }
}

// WithTimeout bounds each model request. Zero leaves only the caller's deadline.
func WithTimeout(d time.Duration) Option {
	return func(g *Gemini) { g.timeout = d }
}

func WithLogger(logger *zap.Logger) Option {
	return func(g *Gemini) { g.logger = logger }
}

// NewGemini creates a Gemini advisor. An empty API key yields
// errors.ErrAdvisorUnavailable.
func NewGemini(ctx context.Context, apiKey string, opts ...Option) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.ErrAdvisorUnavailable
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGemini(client.Models, opts...), nil
}

func newGemini(gen generator, opts ...Option) *Gemini {
	g := &Gemini{
		gen:    gen,
		model:  DefaultModel,
		cfg:    manpower.DefaultConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Summarize asks the model for a narrative summary and its own per-zone
// manpower view. On any failure it returns FallbackSuggestion together with
// the error.
func (g *Gemini) Summarize(ctx context.Context, tasks []models.NormalizedTask, report *models.CalibratedReport, fileName string) (Suggestion, error) {
	prompt, err := summaryPrompt(tasks, report, fileName, g.cfg)
	if err != nil {
		return FallbackSuggestion(), err
	}

	var suggestion Suggestion
	if err := g.generateJSON(ctx, "summarize", prompt, suggestionSchema, &suggestion); err != nil {
		g.logger.Error("Error calculating manpower with Gemini", zap.String("file", fileName), zap.Error(err))
		return FallbackSuggestion(), err
	}
	if suggestion.ZoneManpower == nil {
		suggestion.ZoneManpower = []ZoneSuggestion{}
	}
	return suggestion, nil
}

// EvaluateWorkPack asks the model to review a work pack. On any failure it
// returns FallbackEvaluation together with the error.
func (g *Gemini) EvaluateWorkPack(ctx context.Context, pack models.WorkPack) (models.Evaluation, error) {
	prompt, err := evaluationPrompt(pack)
	if err != nil {
		return FallbackEvaluation(), err
	}

	var eval models.Evaluation
	if err := g.generateJSON(ctx, "evaluate", prompt, evaluationSchema, &eval); err != nil {
		g.logger.Error("Error evaluating work pack with Gemini", zap.String("work_pack", pack.ID), zap.Error(err))
		return FallbackEvaluation(), err
	}
	return normalizeEvaluation(eval), nil
}

func (g *Gemini) generateJSON(ctx context.Context, operation, prompt string, schema *genai.Schema, out any) error {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		metrics.AdvisorDurationSeconds.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}()

	resp, err := g.gen.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		metrics.AdvisorRequestsTotal.WithLabelValues(operation, "error").Inc()
		return fmt.Errorf("generate content: %w", err)
	}

	var text string
	if resp != nil {
		text = strings.TrimSpace(resp.Text())
	}
	if text == "" {
		metrics.AdvisorRequestsTotal.WithLabelValues(operation, "empty").Inc()
		return errors.ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		metrics.AdvisorRequestsTotal.WithLabelValues(operation, "invalid").Inc()
		return fmt.Errorf("decode model response: %w", err)
	}

	metrics.AdvisorRequestsTotal.WithLabelValues(operation, "success").Inc()
	return nil
}

func normalizeEvaluation(e models.Evaluation) models.Evaluation {
	e.OverallScore = min(max(e.OverallScore, 0), 10)
	for _, list := range []*[]string{&e.PositivePoints, &e.AreasForImprovement, &e.SuggestedModifications, &e.SafetyConcerns} {
		if *list == nil {
			*list = []string{}
		}
	}
	return e
}

// =============================================================================
// PROMPTS
// =============================================================================

type promptTask struct {
	Zone  string  `json:"zone"`
	Hours float64 `json:"hours"`
	Title string  `json:"title"`
}

func summaryPrompt(tasks []models.NormalizedTask, report *models.CalibratedReport, fileName string, cfg manpower.Config) (string, error) {
	sample := tasks
	if len(sample) > maxPromptTasks {
		sample = sample[:maxPromptTasks]
	}
	rows := make([]promptTask, len(sample))
	for i, t := range sample {
		rows[i] = promptTask{Zone: models.ZoneLabel(t.Zone), Hours: t.Hours, Title: t.Title}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode prompt tasks: %w", err)
	}

	var zones strings.Builder
	for _, z := range report.PerZone {
		fmt.Fprintf(&zones, "- zone %s (%.3f man-hours): %s\n", models.ZoneLabel(z.Zone), z.Hours, manpower.ManpowerLine(z.Counts))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert aviation maintenance planner. Summarize the maintenance work package in the file %q.\n\n", fileName)
	fmt.Fprintf(&b, "Here is a sample of %d of its %d tasks:\n```json\n%s\n```\n\n", len(rows), len(tasks), data)
	b.WriteString("Follow these steps:\n")
	fmt.Fprintf(&b, "1. Identify the major work items: any task whose title contains %s, or any task with a large man-hour value. Keep their descriptions in the original English.\n", quoteList(cfg.MajorItemKeywords))
	b.WriteString("2. Present the summary as a numbered list of those items.\n")
	b.WriteString("3. Group tasks by zone and give the manpower per zone using the personnel types B1, B2 (certifying staff), ME128 (airframe), EA (avionics), ME34 (engine), ME567 (systems), MEC (general mechanic) and CAB (cabin).\n")
	fmt.Fprintf(&b, "4. MEC must stay between %g and %g times the total of all other personnel.\n", cfg.MECRatioMin, cfg.MECRatioMax)
	fmt.Fprintf(&b, "5. The reference team is %s. Daily capacity is %.0f man-hours. State the duration of %d day(s) in the summary.\n\n",
		manpower.ManpowerLine(cfg.Target), manpower.DailyCapacity(cfg), report.EstimatedDurationDays)
	fmt.Fprintf(&b, "The calibrated calculation already gives these per-zone numbers (total %.3f man-hours):\n%s\n", report.TotalHours, zones.String())
	b.WriteString("Return the summary and your per-zone manpower in the specified JSON format.\n")
	return b.String(), nil
}

func evaluationPrompt(pack models.WorkPack) (string, error) {
	data, err := json.MarshalIndent(pack, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode work pack: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are an expert aircraft maintenance supervisor and safety officer. Evaluate the maintenance work pack below.\n\n")
	fmt.Fprintf(&b, "Work Pack Data:\n```json\n%s\n```\n\n", data)
	b.WriteString("Evaluate it on:\n")
	b.WriteString("1. Clarity and specificity: are the title, description and tasks unambiguous, and do they reference maintenance manuals (e.g. AMM)?\n")
	b.WriteString("2. Completeness: are safety precautions, pre/post-work checks or documentation updates missing?\n")
	b.WriteString("3. Logical flow: are the tasks in a sensible order?\n")
	b.WriteString("4. Safety: are hazards implied or overlooked, such as not disconnecting power, not depressurizing systems, or missing PPE?\n")
	b.WriteString("5. Best practices: does it follow aviation maintenance practice?\n\n")
	b.WriteString("Score it from 0 (very poor) to 10 (excellent). Return an empty safetyConcerns list if there are none. Return ONLY the JSON object conforming to the specified schema.\n")
	return b.String(), nil
}

func quoteList(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = fmt.Sprintf("'%s'", w)
	}
	return strings.Join(quoted, ", ")
}

// =============================================================================
// RESPONSE SCHEMAS
// =============================================================================

var suggestionSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"summary": {
			Type:        genai.TypeString,
			Description: "A summary of the work package with a numbered list of major items in their original English and the total duration in days.",
		},
		"zoneManpower": {
			Type:        genai.TypeArray,
			Description: "Required manpower per zone.",
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"zone": {Type: genai.TypeString, Description: "The zone division name or number."},
					"manpower": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"personnelType": {Type: genai.TypeString, Description: `The personnel type, e.g. "B1" or "MEC".`},
								"count":         {Type: genai.TypeInteger, Description: "Number of people of this type."},
							},
							Required: []string{"personnelType", "count"},
						},
					},
				},
				Required: []string{"zone", "manpower"},
			},
		},
	},
	Required: []string{"summary", "zoneManpower"},
}

func stringList(description string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Description: description, Items: &genai.Schema{Type: genai.TypeString}}
}

var evaluationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"overallScore":           {Type: genai.TypeInteger, Description: "Overall score from 0 to 10 for quality, clarity and safety. 10 is excellent."},
		"summary":                {Type: genai.TypeString, Description: "A one-sentence summary of the evaluation."},
		"positivePoints":         stringList("Specific positive aspects of the work pack."),
		"areasForImprovement":    stringList("Areas that could be clearer or more efficient."),
		"suggestedModifications": stringList("Concrete, actionable modifications."),
		"safetyConcerns":         stringList("Potential safety concerns or ambiguities."),
	},
	Required: []string{"overallScore", "summary", "positivePoints", "areasForImprovement", "suggestedModifications", "safetyConcerns"},
}
