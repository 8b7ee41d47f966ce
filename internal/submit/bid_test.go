package submit

import "testing"

func TestParseBidFromBudget(t *testing.T) {
	tests := []struct {
		name     string
		budget   string
		expected float64
		ok       bool
	}{
		{name: "Fixed price", budget: "$250", expected: 250, ok: true},
		{name: "Fixed with comma", budget: "$1,500", expected: 1500, ok: true},
		{name: "Fixed with cents", budget: "$99.50", expected: 99.5, ok: true},
		{name: "Hourly range", budget: "$25-$50/hr", ok: false},
		{name: "Empty", budget: "", ok: false},
		{name: "Whitespace only", budget: "   ", ok: false},
		{name: "Fallback number in text", budget: "Budget: 300 USD", expected: 300, ok: true},
		{name: "No number at all", budget: "negotiable", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseBidFromBudget(tt.budget)
			if ok != tt.ok {
				t.Fatalf("ok: got %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.expected {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsHourlyBudget(t *testing.T) {
	if !IsHourlyBudget("$25-$50/hr") {
		t.Error("hourly range should be detected")
	}
	if IsHourlyBudget("$250") {
		t.Error("fixed price should not be hourly")
	}
	if IsHourlyBudget("") {
		t.Error("empty budget should not be hourly")
	}
}
