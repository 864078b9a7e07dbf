package masking

import "strings"

const maskToken = "****"

// sensitiveKeys are metadata fields carrying personal contact data.
var sensitiveKeys = map[string]struct{}{
	"phone_number": {},
	"phone":        {},
	"address":      {},
}

// MaskPhone keeps the last four digits of a phone number.
func MaskPhone(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}

	digits := make([]rune, 0, len(trimmed))
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) <= 4 {
		return maskToken
	}
	return maskToken + string(digits[len(digits)-4:])
}

// MaskMetadata returns a copy of the input with contact fields masked.
// Nested maps and slices are walked.
func MaskMetadata(input map[string]any) map[string]any {
	if len(input) == 0 {
		return nil
	}

	masked := make(map[string]any, len(input))
	for key, value := range input {
		trimmedKey := strings.TrimSpace(key)
		if trimmedKey == "" {
			continue
		}
		if _, ok := sensitiveKeys[strings.ToLower(trimmedKey)]; ok {
			masked[trimmedKey] = maskSensitive(value)
			continue
		}
		masked[trimmedKey] = walk(value)
	}

	if len(masked) == 0 {
		return nil
	}
	return masked
}

func maskSensitive(value any) any {
	switch cast := value.(type) {
	case string:
		return MaskPhone(cast)
	case *string:
		if cast == nil {
			return nil
		}
		return MaskPhone(*cast)
	case nil:
		return nil
	default:
		return maskToken
	}
}

func walk(value any) any {
	switch cast := value.(type) {
	case map[string]any:
		return MaskMetadata(cast)
	case []any:
		out := make([]any, 0, len(cast))
		for _, item := range cast {
			out = append(out, walk(item))
		}
		return out
	default:
		return value
	}
}
