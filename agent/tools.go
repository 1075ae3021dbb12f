package agent

import (
	"context"
	"fmt"
	"math"

	"github.com/etnz/points"
	"github.com/etnz/points/date"
	"google.golang.org/genai"
)

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func output(id, name string, v any) *genai.FunctionResponse {
	return &genai.FunctionResponse{ID: id, Name: name, Response: map[string]any{"output": v}}
}

// Snapshot returns the current portfolio.
type Snapshot func() []points.Program

// PortfolioTools returns the functions giving a model a read-only access to
// the portfolio. Each call reads a fresh snapshot.
func PortfolioTools(snapshot Snapshot, today func() date.Date) []Function {
	return []Function{
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "list_programs",
				Description: "List all loyalty programs of the user, with their type, balance, expiration date and benefits.",
				Response: &genai.Schema{
					Type:        genai.TypeArray,
					Description: "One summary per program.",
				},
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				return output(id, "list_programs", points.Summarize(snapshot()))
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "balance_by_type",
				Description: "Total balance of the user's programs per program type (Airline, Hotel, Credit Card, Other).",
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				totals := make(map[string]any)
				for _, tt := range points.BalanceByType(snapshot()) {
					totals[string(tt.Type)] = uint64(tt.Total)
				}
				return output(id, "balance_by_type", totals)
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "expiring",
				Description: "List the programs and benefits expiring within the next months.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"months": {
							Type:        genai.TypeInteger,
							Description: fmt.Sprintf("The horizon in months, %d by default.", points.DefaultHorizonMonths),
						},
					},
				},
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				months, err := intArg(args, "months", points.DefaultHorizonMonths)
				if err != nil {
					return failure(id, "expiring", err)
				}
				programs := snapshot()
				on := today()
				var benefits []string
				for _, pb := range points.ExpiringBenefits(programs, on, months) {
					benefits = append(benefits, fmt.Sprintf("%s: %s (expires %s)", pb.Program.Title(), pb.Benefit.Title, pb.Benefit.ExpirationDate))
				}
				return output(id, "expiring", map[string]any{
					"today":    on.String(),
					"programs": points.Summarize(points.Expiring(programs, on, months)),
					"benefits": benefits,
				})
			},
		},
	}
}

// intArg reads an optional integer argument, JSON numbers are float64.
func intArg(args map[string]any, name string, def int) (int, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return def, nil
	}
	switch x := v.(type) {
	case float64:
		if x != math.Trunc(x) || x < 0 {
			return 0, fmt.Errorf("%w: %q must be a positive integer, got %v", ErrInvalidArgument, name, x)
		}
		return int(x), nil
	case int:
		return x, nil
	case int64:
		return int(x), nil
	default:
		return 0, fmt.Errorf("%w: %q is not a number as expected but %T", ErrInvalidArgument, name, v)
	}
}
