package tools

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/HendryAvila/computor/internal/polynomial"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Test helpers ---

// makeReq builds a mcp.CallToolRequest with the given arguments.
func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// resultText extracts the text content from a tool result.
func resultText(r *mcp.CallToolResult) string {
	if r == nil || len(r.Content) == 0 {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// recordingObserver captures every result it is notified about.
type recordingObserver struct {
	mu      sync.Mutex
	results []*polynomial.SolutionResult
}

func (o *recordingObserver) OnSolve(r *polynomial.SolutionResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.results = append(o.results, r)
}

// --- SolveTool ---

func TestSolveTool_Definition(t *testing.T) {
	def := NewSolveTool(DefaultSettings()).Definition()
	if def.Name != "solve_equation" {
		t.Errorf("name = %q", def.Name)
	}
	if len(def.InputSchema.Required) != 1 || def.InputSchema.Required[0] != "equation" {
		t.Errorf("required = %v, want [equation]", def.InputSchema.Required)
	}
	for _, prop := range []string{"equation", "explain", "graph", "format"} {
		if _, ok := def.InputSchema.Properties[prop]; !ok {
			t.Errorf("missing property %q", prop)
		}
	}
}

func TestSolveTool_Text(t *testing.T) {
	tests := []struct {
		name     string
		equation string
		contains []string
	}{
		{"quadratic", "X^2 - 5 * X^1 + 4 = 0", []string{
			"Reduced form: 4 - 5 * X + X^2 = 0",
			"Polynomial degree: 2",
			"Discriminant: 9",
			"4\n1\n",
		}},
		{"linear", "5 * X^0 + 4 * X^1 = 4 * X^0", []string{"Polynomial degree: 1", "-1/4"}},
		{"complex", "X^2 + 1 = 0", []string{"0 + i", "0 - i"}},
		{"identity", "5 = 5", []string{"Infinite solutions"}},
		{"cubic", "X^3 + X = 0", []string{"Polynomial degree: 3", "can't solve"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := NewSolveTool(DefaultSettings())
			result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
				"equation": tt.equation,
			}))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.IsError {
				t.Fatalf("unexpected tool error: %s", resultText(result))
			}
			text := resultText(result)
			for _, want := range tt.contains {
				if !strings.Contains(text, want) {
					t.Errorf("missing %q:\n%s", want, text)
				}
			}
		})
	}
}

func TestSolveTool_InvalidEquation(t *testing.T) {
	tool := NewSolveTool(DefaultSettings())
	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"equation": "Y + 1 = 0",
	}))
	if err != nil {
		t.Fatalf("user errors must not be Go errors: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	if got := resultText(result); got != "Error: Invalid variable 'Y': only X is supported" {
		t.Errorf("text = %q", got)
	}
}

func TestSolveTool_MissingEquation(t *testing.T) {
	tool := NewSolveTool(DefaultSettings())
	for _, args := range []map[string]interface{}{nil, {"equation": "   "}} {
		result, _ := tool.Handle(context.Background(), makeReq(args))
		if !result.IsError {
			t.Errorf("args %v: expected error", args)
		}
	}
}

func TestSolveTool_UnknownFormat(t *testing.T) {
	tool := NewSolveTool(DefaultSettings())
	result, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"equation": "X = 1",
		"format":   "xml",
	}))
	if !result.IsError || !strings.Contains(resultText(result), "unknown format") {
		t.Errorf("expected format error, got %q", resultText(result))
	}
}

func TestSolveTool_JSON(t *testing.T) {
	tool := NewSolveTool(DefaultSettings())
	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"equation": "X^2 + 1 = 0",
		"format":   "json",
	}))
	if err != nil || result.IsError {
		t.Fatalf("unexpected failure: %v %s", err, resultText(result))
	}

	var got struct {
		Type             string               `json:"type"`
		Degree           int                  `json:"degree"`
		Discriminant     float64              `json:"discriminant"`
		ComplexSolutions []polynomial.Complex `json:"complex_solutions"`
	}
	if err := json.Unmarshal([]byte(resultText(result)), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, resultText(result))
	}
	if got.Type != string(polynomial.QuadraticComplexSolutions) || got.Degree != 2 || got.Discriminant != -4 {
		t.Errorf("decoded = %+v", got)
	}
	if len(got.ComplexSolutions) != 2 {
		t.Errorf("complex solutions = %v", got.ComplexSolutions)
	}
}

func TestSolveTool_JSONHugeCoefficients(t *testing.T) {
	e200 := "1" + strings.Repeat("0", 200)
	tool := NewSolveTool(DefaultSettings())
	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"equation": e200 + " * X^2 + " + e200 + " * X - " + e200 + " = 0",
		"format":   "json",
	}))
	if err != nil || result.IsError {
		t.Fatalf("unexpected failure: %v %s", err, resultText(result))
	}

	var got struct {
		Type          string    `json:"type"`
		Discriminant  float64   `json:"discriminant"`
		Scale         float64   `json:"discriminant_scale"`
		RealSolutions []float64 `json:"real_solutions"`
	}
	if err := json.Unmarshal([]byte(resultText(result)), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, resultText(result))
	}
	if got.Type != string(polynomial.QuadraticRealSolutions) || got.Discriminant != 5 || got.Scale != 1e200 {
		t.Errorf("decoded = %+v", got)
	}
	if len(got.RealSolutions) != 2 {
		t.Errorf("real solutions = %v", got.RealSolutions)
	}
}

func TestSolveTool_JSONInvalid(t *testing.T) {
	tool := NewSolveTool(DefaultSettings())
	result, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"equation": "= 3",
		"format":   "json",
	}))
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	if !strings.Contains(resultText(result), `"type": "invalid_equation"`) {
		t.Errorf("JSON body missing type:\n%s", resultText(result))
	}
}

func TestSolveTool_ExplainAndGraph(t *testing.T) {
	tool := NewSolveTool(Settings{MaxDenominator: 20, GraphWidth: 31, GraphHeight: 9})
	result, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"equation": "X^2 - 5 * X^1 + 4 = 0",
		"explain":  true,
		"graph":    true,
	}))
	text := resultText(result)
	for _, want := range []string{"## Steps", "Δ = b² - 4ac", "## Graph", "x: ["} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q:\n%s", want, text)
		}
	}
}

func TestSolveTool_NotifiesObserver(t *testing.T) {
	tool := NewSolveTool(DefaultSettings())
	obs := &recordingObserver{}
	tool.SetObserver(obs)

	for _, eq := range []string{"X = 1", "5/X = 1"} {
		if _, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"equation": eq})); err != nil {
			t.Fatalf("Handle(%q): %v", eq, err)
		}
	}
	// Missing arguments never reach the solver.
	_, _ = tool.Handle(context.Background(), makeReq(nil))

	if len(obs.results) != 2 {
		t.Fatalf("observer saw %d results, want 2", len(obs.results))
	}
	if obs.results[0].Type != polynomial.LinearSolution || obs.results[1].OK() {
		t.Errorf("unexpected results: %v, %v", obs.results[0].Type, obs.results[1].Type)
	}
}

func TestSolveTool_ConcurrentCalls(t *testing.T) {
	tool := NewSolveTool(DefaultSettings())
	obs := &recordingObserver{}
	tool.SetObserver(obs)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
				"equation": "X^2 - 4 = 0",
			}))
			if err != nil || result.IsError {
				t.Errorf("unexpected failure: %v %s", err, resultText(result))
			}
		}()
	}
	wg.Wait()
	if len(obs.results) != 16 {
		t.Errorf("observer saw %d results, want 16", len(obs.results))
	}
}

// --- ReduceTool ---

func TestReduceTool(t *testing.T) {
	tool := NewReduceTool(DefaultSettings())
	if tool.Definition().Name != "reduce_equation" {
		t.Errorf("name = %q", tool.Definition().Name)
	}

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"equation": "5 * X^0 + 4 * X^1 - 9.3 * X^2 = 1 * X^0",
	}))
	if err != nil || result.IsError {
		t.Fatalf("unexpected failure: %v %s", err, resultText(result))
	}
	text := resultText(result)
	for _, want := range []string{
		"Polynomial degree: 2",
		"Canonical: 4 * X^0 + 4 * X^1 - 9.3 * X^2 = 0",
		"- X^0: 4",
		"- X^1: 4",
		"- X^2: -93/10",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q:\n%s", want, text)
		}
	}
}

func TestReduceTool_ZeroPolynomial(t *testing.T) {
	tool := NewReduceTool(DefaultSettings())
	result, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"equation": "X = X",
	}))
	text := resultText(result)
	if !strings.Contains(text, "Reduced form: 0 = 0") || !strings.Contains(text, "Coefficients: none") {
		t.Errorf("unexpected text:\n%s", text)
	}
}

func TestReduceTool_Invalid(t *testing.T) {
	tool := NewReduceTool(DefaultSettings())
	result, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{
		"equation": "X^^2 = 0",
	}))
	if !result.IsError || !strings.HasPrefix(resultText(result), "Error: ") {
		t.Errorf("expected parse error, got %q", resultText(result))
	}
}
