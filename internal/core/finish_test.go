package core

import "testing"

func TestNormalizeFinish(t *testing.T) {
	tests := []struct {
		input string
		want  Finish
	}{
		{"", FinishUnset},
		{"   ", FinishUnset},
		{"*F*", FinishFoil},
		{"*f*", FinishFoil},
		{"[F]", FinishFoil},
		{"foil", FinishFoil},
		{"FOIL", FinishFoil},
		{"*E*", FinishEtched},
		{"[e]", FinishEtched},
		{"etched", FinishEtched},
		{"Etched", FinishEtched},
		{"nonfoil", FinishNonfoil},
		{"foiled", FinishUnset},
		{"glossy", FinishUnset},
		{"yes", FinishUnset},
	}

	for _, tt := range tests {
		if got := NormalizeFinish(tt.input); got != tt.want {
			t.Errorf("NormalizeFinish(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeFinish_Idempotent(t *testing.T) {
	markers := []string{"", "*F*", "[f]", "foil", "*E*", "[E]", "etched", "nonfoil", "garbage"}
	for _, m := range markers {
		once := NormalizeFinish(m)
		twice := NormalizeFinish(string(once))
		if once != twice {
			t.Errorf("NormalizeFinish(NormalizeFinish(%q)) = %q, want %q", m, twice, once)
		}
	}
}

func TestParseFinishVocabularies(t *testing.T) {
	flags := map[string]Finish{
		"yes":    FinishFoil,
		"TRUE":   FinishFoil,
		"1":      FinishFoil,
		"foil":   FinishFoil,
		"etched": FinishUnset,
		"no":     FinishUnset,
		"":       FinishUnset,
	}
	for in, want := range flags {
		if got := ParseFinishFlag(in); got != want {
			t.Errorf("ParseFinishFlag(%q) = %q, want %q", in, got, want)
		}
	}

	names := map[string]Finish{
		"foil":    FinishFoil,
		"Etched":  FinishEtched,
		"yes":     FinishUnset,
		"nonfoil": FinishUnset,
		"":        FinishUnset,
	}
	for in, want := range names {
		if got := ParseFinishName(in); got != want {
			t.Errorf("ParseFinishName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFinish_OrDefault(t *testing.T) {
	if got := FinishUnset.OrDefault(); got != FinishNonfoil {
		t.Errorf("FinishUnset.OrDefault() = %q, want nonfoil", got)
	}
	if got := FinishEtched.OrDefault(); got != FinishEtched {
		t.Errorf("FinishEtched.OrDefault() = %q, want etched", got)
	}
}
