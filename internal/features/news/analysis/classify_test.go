package analysis

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single category",
			text: "New benchmarks for speech recognition accuracy",
			want: []string{"nlp"},
		},
		{
			name: "overlapping categories in registry order",
			text: "An LLM served on GPU clusters for enterprise software teams",
			want: []string{"generative_ai", "ai_infrastructure", "enterprise_ai"},
		},
		{
			name: "no category",
			text: "Quarterly revenue grew in the retail segment",
			want: nil,
		},
		{
			name: "substring matching is intentional",
			text: "html tooling update", // "ml" inside "html"
			want: []string{"machine_learning"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Classify(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestCategoryRegistryWeights(t *testing.T) {
	for _, def := range Categories {
		if def.Weight < 0.8 || def.Weight > 1.0 {
			t.Errorf("category %s weight %v outside expected range", def.Name, def.Weight)
		}
		if len(def.Keywords) == 0 {
			t.Errorf("category %s has no keywords", def.Name)
		}
	}
}
