package logger

import "testing"

func TestSanitizeKVsRedactsAndHashes(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"pet_id", "p-1",
		"owner_user_id", "u-1",
		"openai_api_key", "sk-abc",
		"odd",
	})
	if len(out) != 7 {
		t.Fatalf("want=7 got=%d", len(out))
	}
	if out[1] != "p-1" {
		t.Fatalf("pet_id should pass through, got=%v", out[1])
	}
	if s, _ := out[3].(string); len(s) != len("hash:")+12 {
		t.Fatalf("owner_user_id should be hashed, got=%v", out[3])
	}
	if out[5] != "[REDACTED]" {
		t.Fatalf("api key should be redacted, got=%v", out[5])
	}
	if out[6] != "odd" {
		t.Fatalf("dangling key should be kept, got=%v", out[6])
	}
}

func TestSanitizeNestedMap(t *testing.T) {
	out := sanitizeValue("payload", map[string]interface{}{"password": "x", "species": "DOG"})
	m, ok := out.(map[string]interface{})
	if !ok {
		t.Fatalf("want map got=%T", out)
	}
	if m["password"] != "[REDACTED]" || m["species"] != "DOG" {
		t.Fatalf("unexpected sanitize result: %v", m)
	}
}
