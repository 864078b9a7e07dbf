package masking

import "testing"

func TestMaskPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"+998 90 123 45 67", "****4567"},
		{"123", "****"},
	}
	for _, tt := range tests {
		if got := MaskPhone(tt.in); got != tt.want {
			t.Fatalf("MaskPhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMaskMetadataMasksNestedContactFields(t *testing.T) {
	in := map[string]any{
		"first_name":   "Ali",
		"phone_number": "+998901234567",
		"patch": map[string]any{
			"address": "Toshkent",
		},
	}
	out := MaskMetadata(in)

	if out["first_name"] != "Ali" {
		t.Fatalf("expected first_name untouched, got %v", out["first_name"])
	}
	if out["phone_number"] != "****4567" {
		t.Fatalf("expected masked phone, got %v", out["phone_number"])
	}
	patch, ok := out["patch"].(map[string]any)
	if !ok || patch["address"] != "****" {
		t.Fatalf("expected nested address masked, got %v", out["patch"])
	}
	if in["phone_number"] != "+998901234567" {
		t.Fatalf("input must not be mutated")
	}
}
