package points

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/etnz/points/date"
	"github.com/google/go-cmp/cmp"
)

func TestExportImport(t *testing.T) {
	value := USD(95)
	programs := Seed(testNow)
	programs[2].Benefits[0].Value = &value
	programs[2].Benefits[0].ExpirationDate = date.New(2026, 12, 31)
	programs[1].Notes = "Medallion status resets in February."

	for _, format := range []Format{JSON, YAML, TOML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Export(&buf, format, programs); err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			got, err := Import(&buf, format)
			if err != nil {
				t.Fatalf("Import() error = %v", err)
			}
			if diff := cmp.Diff(programs, got); diff != "" {
				t.Errorf("Import(Export()) mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodePrograms(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("EncodePrograms(nil) = %q, want []", got)
	}
	programs, err := DecodePrograms(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if programs == nil || len(programs) != 0 {
		t.Errorf("DecodePrograms() = %#v, want an empty list", programs)
	}
}

func TestDecodeDefaults(t *testing.T) {
	programs, err := DecodePrograms(strings.NewReader(`[{"id":"1","name":"Hilton Honors","provider":"Hilton","type":"Hotel","balance":1000,"currencyName":"Points","benefits":[{"id":"b1","title":"Gold","type":"Status"}],"lastUpdated":"2026-10-18T09:30:00Z"}]`))
	if err != nil {
		t.Fatalf("DecodePrograms() error = %v", err)
	}
	if got := programs[0].Benefits[0].Count; got != 1 {
		t.Errorf("Count = %d, want 1", got)
	}
}

func TestDecodeStrict(t *testing.T) {
	tests := []string{
		``,
		`{}`,
		`null`,
		`[{"id":"1","type":"Spaceship","benefits":[]}]`,
		`[{"id":"1","type":"Hotel","expirationDate":"soon","benefits":[]}]`,
		`[{"id":"","type":"Hotel","benefits":[]}]`,
	}
	for _, content := range tests {
		if _, err := DecodePrograms(strings.NewReader(content)); err == nil {
			t.Errorf("DecodePrograms(%q) succeeded, want an error", content)
		}
	}
	_, err := DecodePrograms(strings.NewReader(`[{"id":"1","type":"Spaceship","benefits":[]}]`))
	if !errors.Is(err, ErrInvalidProgram) {
		t.Errorf("DecodePrograms() error = %v, want ErrInvalidProgram", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", JSON, false},
		{"YAML", YAML, false},
		{"yml", YAML, false},
		{"toml", TOML, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
