package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/etnz/points/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// stubGenerator replays text replies in order.
type stubGenerator struct {
	replies []string
	err     error
	calls   int
}

func (s *stubGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if len(s.replies) == 0 {
		return nil, errors.New("no more replies")
	}
	text := s.replies[0]
	s.replies = s.replies[1:]
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}}}},
	}, nil
}

// withGemini makes the commands use stub instead of Gemini.
func withGemini(t *testing.T, stub *stubGenerator) {
	t.Helper()
	old := newGemini
	newGemini = func(context.Context) (*agent.Gemini, error) { return agent.NewWithGenerator(stub, cfg.Model), nil }
	t.Cleanup(func() { newGemini = old })
}

const flyingBlue = `{"programName":"Flying Blue","provider":"Air France","balance":50000.4,"currencyName":"Miles","type":"airline","expirationDate":"2027-03-31","benefits":["Lounge access"]}`

func TestPaste(t *testing.T) {
	out := testApp(t)
	withGemini(t, &stubGenerator{replies: []string{flyingBlue}})

	status, got := run(t, out, &pasteCmd{}, "Air France", "Flying Blue", "50k miles")
	if status != subcommands.ExitSuccess {
		t.Fatalf("paste returned %v", status)
	}
	if !strings.HasPrefix(got, "Added Air France Flying Blue with id ") || !strings.HasSuffix(got, ": 50,000 Miles\n") {
		t.Errorf("paste output = %q", got)
	}
	all := programs(t)
	if len(all) != 4 {
		t.Fatalf("%d programs after paste, want 4", len(all))
	}
	p := all[3]
	if p.Type != "Airline" || p.ExpirationDate.String() != "2027-03-31" || len(p.Benefits) != 1 || p.Benefits[0].Title != "Lounge access" {
		t.Errorf("pasted program = %+v", p)
	}
}

func TestPasteFromStdin(t *testing.T) {
	out := testApp(t)
	withGemini(t, &stubGenerator{replies: []string{flyingBlue}})
	stdin = strings.NewReader("Air France Flying Blue\n50k miles\n")

	if status, got := run(t, out, &pasteCmd{}, "-dry-run"); status != subcommands.ExitSuccess || !strings.Contains(got, "# Air France Flying Blue") {
		t.Errorf("paste -dry-run = %v %q", status, got)
	}
	if n := len(programs(t)); n != 3 {
		t.Errorf("paste -dry-run added a program, %d programs", n)
	}
}

func TestPasteFailures(t *testing.T) {
	tests := []struct {
		name  string
		stub  *stubGenerator
		input string
		want  subcommands.ExitStatus
	}{
		{"empty", &stubGenerator{}, "  ", subcommands.ExitUsageError},
		{"provider error", &stubGenerator{err: errors.New("quota exceeded")}, "Delta", subcommands.ExitFailure},
		{"not json", &stubGenerator{replies: []string{"I am not sure"}}, "Delta", subcommands.ExitFailure},
		{"negative balance", &stubGenerator{replies: []string{`{"programName":"SkyMiles","balance":-5}`}}, "Delta", subcommands.ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := testApp(t)
			withGemini(t, tt.stub)
			stdin = strings.NewReader(tt.input)
			if status, _ := run(t, out, &pasteCmd{}); status != tt.want {
				t.Errorf("paste returned %v, want %v", status, tt.want)
			}
			if n := len(programs(t)); n != 3 {
				t.Errorf("a failed paste changed the portfolio, %d programs", n)
			}
		})
	}
}

func TestAdvise(t *testing.T) {
	out := testApp(t)
	withGemini(t, &stubGenerator{replies: []string{"Book a **free night** before December."}})

	status, got := run(t, out, &adviseCmd{}, "What", "about", "Marriott?")
	if status != subcommands.ExitSuccess {
		t.Fatalf("advise returned %v", status)
	}
	if want := "Book a **free night** before December.\n"; got != want {
		t.Errorf("advise output = %q, want %q", got, want)
	}
}

func TestAdviseFallback(t *testing.T) {
	out := testApp(t)
	withGemini(t, &stubGenerator{err: errors.New("network is down")})

	status, got := run(t, out, &adviseCmd{}, "Hello?")
	if status != subcommands.ExitSuccess {
		t.Fatalf("advise returned %v", status)
	}
	if !strings.Contains(got, agent.FallbackAdvice) {
		t.Errorf("advise output = %q, want the fallback", got)
	}
}

func TestAdviseSession(t *testing.T) {
	out := testApp(t)
	stub := &stubGenerator{replies: []string{"Hi, you have 255,630 points.", "Marriott expires first."}}
	withGemini(t, stub)
	stdin = strings.NewReader("What expires first?\nbye\n")

	status, got := run(t, out, &adviseCmd{}, "-i", "Hello")
	if status != subcommands.ExitSuccess {
		t.Fatalf("advise -i returned %v", status)
	}
	for _, want := range []string{"advisor> Hello", "Hi, you have 255,630 points.", "Marriott expires first."} {
		if !strings.Contains(got, want) {
			t.Errorf("session output does not contain %q:\n%s", want, got)
		}
	}
	if stub.calls != 2 {
		t.Errorf("%d calls to Gemini, want 2", stub.calls)
	}
}
