package planspec

import "testing"

func TestIsPayAsYouGo_TableTests(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "spaces", in: "Pay As You Go", want: true},
		{name: "hyphens", in: "pay-as-you-go", want: true},
		{name: "no separators", in: "PAYASYOUGO", want: true},
		{name: "mixed separators", in: "Pay-as you Go", want: true},
		{name: "plan id", in: "payg-pay-as-you-go-in", want: true},
		{name: "pro plan", in: "Pro", want: false},
		{name: "empty", in: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPayAsYouGo(tt.in); got != tt.want {
				t.Errorf("IsPayAsYouGo(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFeatureLimit_TableTests(t *testing.T) {
	tests := []struct {
		name      string
		features  []string
		want      int
		wantFound bool
	}{
		{
			name:      "single match",
			features:  []string{"Up to 50 hot jobs"},
			want:      50,
			wantFound: true,
		},
		{
			name:      "maximum across matches",
			features:  []string{"Up to 50 hot jobs", "Up to 300 hot jobs"},
			want:      300,
			wantFound: true,
		},
		{
			name:      "maximum not first",
			features:  []string{"Up to 300 hot jobs", "Up to 50 hot jobs"},
			want:      300,
			wantFound: true,
		},
		{
			name:      "case insensitive",
			features:  []string{"UP TO 25 HOT JOBS"},
			want:      25,
			wantFound: true,
		},
		{
			name:      "mixed with unrelated features",
			features:  []string{"Resume review", "Up to 10 hot jobs", "Priority support"},
			want:      10,
			wantFound: true,
		},
		{
			name:      "no matches",
			features:  []string{"Resume review", "Priority support"},
			want:      0,
			wantFound: false,
		},
		{
			name:      "empty list",
			features:  nil,
			want:      0,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := FeatureLimit(tt.features)
			if got != tt.want || found != tt.wantFound {
				t.Errorf("FeatureLimit(%v) = (%d, %v), want (%d, %v)",
					tt.features, got, found, tt.want, tt.wantFound)
			}
		})
	}
}

func TestIsPro(t *testing.T) {
	if !IsPro("Pro") || !IsPro("PRO Annual") {
		t.Error("expected pro plans to match")
	}
	if IsPro("Basic") {
		t.Error("Basic must not match pro pattern")
	}
}
