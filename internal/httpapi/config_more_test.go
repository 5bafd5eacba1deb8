package httpapi

import "testing"

func TestSetMaxBodyBytes_DefaultWhenNonPositive(t *testing.T) {
	SetMaxBodyBytes(-1)
	if maxBodyBytes != 1<<20 {
		t.Fatalf("expected default 1MiB, got %d", maxBodyBytes)
	}
	SetMaxBodyBytes(0)
	if maxBodyBytes != 1<<20 {
		t.Fatalf("expected default 1MiB on zero, got %d", maxBodyBytes)
	}
}

func TestSetMaxBodyBytes_PositiveSetsValue(t *testing.T) {
	SetMaxBodyBytes(1234)
	if maxBodyBytes != 1234 {
		t.Fatalf("expected 1234, got %d", maxBodyBytes)
	}
	SetMaxBodyBytes(1 << 20)
}

func TestSetCORSOptions_StoresCopiesNotAliases(t *testing.T) {
	origins := []string{"http://a.example"}
	SetCORSOptions(true, origins, []string{"GET"}, []string{"Content-Type"})
	origins[0] = "mutated"
	if corsAllowedOrigins[0] == "mutated" {
		t.Fatalf("SetCORSOptions must copy its slice arguments")
	}
	SetCORSOptions(false, nil, nil, nil)
}
