package cmd

import (
	"strings"
	"testing"

	"github.com/google/subcommands"
)

func TestReports(t *testing.T) {
	tests := []struct {
		name string
		cmd  subcommands.Command
		args []string
		want []string
	}{
		{
			name: "list",
			cmd:  &listCmd{},
			want: []string{
				"| 1 | Chase Sapphire Reserve | Credit Card | 125,430 UR Points | Never | 3 |",
				"| 3 | Marriott Bonvoy | Hotel | 85,000 Points | 2025-12-31 | 1 |",
				"**Total:** 255,630",
			},
		},
		{
			name: "list by type",
			cmd:  &listCmd{},
			args: []string{"-type", "hotel"},
			want: []string{"# Programs (Hotel)", "**Total:** 85,000"},
		},
		{
			name: "dashboard",
			cmd:  &dashboardCmd{},
			want: []string{"| 255,630 | 1 | 1 cards |", "- **Marriott Bonvoy**: 2025-12-31"},
		},
		{
			name: "show",
			cmd:  &showCmd{},
			args: []string{"3"},
			want: []string{"# Marriott Bonvoy", "(91 days left) **expiring soon**", "| b5 | Free Night Award | Free Night | 1 | Never |"},
		},
		{
			name: "expiring",
			cmd:  &expiringCmd{},
			args: []string{"-months", "3"},
			want: []string{"# Expiring before 2026-01-01", "| Marriott Bonvoy | 85,000 Points | 2025-12-31 | 91 |"},
		},
		{
			name: "nothing expiring",
			cmd:  &expiringCmd{},
			args: []string{"-months", "2"},
			want: []string{"All points are safe!"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := testApp(t)
			status, got := run(t, out, tt.cmd, tt.args...)
			if status != subcommands.ExitSuccess {
				t.Fatalf("%s returned %v", tt.cmd.Name(), status)
			}
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("%s output does not contain %q:\n%s", tt.cmd.Name(), want, got)
				}
			}
		})
	}
}

func TestReportsErrors(t *testing.T) {
	tests := []struct {
		name string
		cmd  subcommands.Command
		args []string
		want subcommands.ExitStatus
	}{
		{"unknown type", &listCmd{}, []string{"-type", "train"}, subcommands.ExitUsageError},
		{"missing id", &showCmd{}, nil, subcommands.ExitUsageError},
		{"unknown id", &showCmd{}, []string{"42"}, subcommands.ExitFailure},
		{"dashboard args", &dashboardCmd{}, []string{"now"}, subcommands.ExitUsageError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := testApp(t)
			if status, _ := run(t, out, tt.cmd, tt.args...); status != tt.want {
				t.Errorf("%s %q returned %v, want %v", tt.cmd.Name(), tt.args, status, tt.want)
			}
		})
	}
}

func TestReportsDoNotPersist(t *testing.T) {
	out := testApp(t)
	run(t, out, &listCmd{})
	b, err := openBlobs()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Get(cfg.Key); err == nil {
		t.Error("list persisted the example programs")
	}
}

func TestTopic(t *testing.T) {
	out := testApp(t)

	status, got := run(t, out, &topicCmd{}, "-l")
	if status != subcommands.ExitSuccess || !strings.Contains(got, "storage") {
		t.Errorf("topic -l = %v %q", status, got)
	}
	status, got = run(t, out, &topicCmd{}, "dates")
	if status != subcommands.ExitSuccess || !strings.HasPrefix(got, "# Dates") {
		t.Errorf("topic dates = %v %q", status, got)
	}
	if status, _ := run(t, out, &topicCmd{}, "nope"); status != subcommands.ExitFailure {
		t.Errorf("topic nope = %v, want %v", status, subcommands.ExitFailure)
	}
}
