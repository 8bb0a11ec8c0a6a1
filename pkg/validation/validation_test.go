package validation

import "testing"

func TestValidateSessionID(t *testing.T) {
	valid := []string{"mysession", "session-01", "A_b-9", "x"}
	for _, id := range valid {
		if err := ValidateSessionID(id); err != nil {
			t.Errorf("ValidateSessionID(%q) = %v, want nil", id, err)
		}
	}

	invalid := []string{"", "  ", "has space", "dot.dot", "slash/up", "../escape", "sess\x00ion"}
	for _, id := range invalid {
		if err := ValidateSessionID(id); err == nil {
			t.Errorf("ValidateSessionID(%q) = nil, want error", id)
		}
	}

	long := make([]byte, 129)
	for i := range long {
		long[i] = 'a'
	}
	if err := ValidateSessionID(string(long)); err == nil {
		t.Error("ValidateSessionID accepted a 129-char id")
	}
}

func TestValidatePhone(t *testing.T) {
	valid := []string{"6281234567890", "+6281234567890", " 628123456 ", "123456"}
	for _, phone := range valid {
		if err := ValidatePhone(phone); err != nil {
			t.Errorf("ValidatePhone(%q) = %v, want nil", phone, err)
		}
	}

	invalid := []string{"", "0812345678", "+0812345678", "62812a4567", "12345", "+", "62 812"}
	for _, phone := range invalid {
		if err := ValidatePhone(phone); err == nil {
			t.Errorf("ValidatePhone(%q) = nil, want error", phone)
		}
	}
}

func TestValidateChatID(t *testing.T) {
	if err := ValidateChatID("6281234567890@c.us"); err != nil {
		t.Errorf("ValidateChatID = %v, want nil", err)
	}
	if err := ValidateChatID("   "); err == nil {
		t.Error("ValidateChatID accepted blank input")
	}
}

func TestValidateURL(t *testing.T) {
	valid := []string{"https://example.com/hook", "http://10.0.0.5:8080/cb?x=1"}
	for _, raw := range valid {
		if err := ValidateURL(raw); err != nil {
			t.Errorf("ValidateURL(%q) = %v, want nil", raw, err)
		}
	}

	invalid := []string{"", "   ", "not a url", "://missing-scheme"}
	for _, raw := range invalid {
		if err := ValidateURL(raw); err == nil {
			t.Errorf("ValidateURL(%q) = nil, want error", raw)
		}
	}
}
