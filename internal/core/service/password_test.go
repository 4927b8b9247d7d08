package service

import "testing"

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret123", 4)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "s3cret123" {
		t.Fatalf("expected password to be hashed")
	}
	if !VerifyPassword("s3cret123", hash) {
		t.Fatalf("expected matching password to verify")
	}
	if VerifyPassword("wrong", hash) {
		t.Fatalf("expected non-matching password to fail")
	}
}

func TestHashPassword_Salted(t *testing.T) {
	h1, err := HashPassword("same-password", 4)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	h2, err := HashPassword("same-password", 4)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected different salts to produce different hashes")
	}
}

func TestHashPassword_CostOutOfRange(t *testing.T) {
	hash, err := HashPassword("pw12345678", 99)
	if err != nil {
		t.Fatalf("expected fallback to default cost, got error: %v", err)
	}
	if !VerifyPassword("pw12345678", hash) {
		t.Fatalf("expected password to verify against fallback-cost hash")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	if VerifyPassword("anything", "not-a-bcrypt-hash") {
		t.Fatalf("expected malformed hash to fail verification")
	}
	if VerifyPassword("anything", "") {
		t.Fatalf("expected empty hash to fail verification")
	}
}
