package auth

import "testing"

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher()

	hash, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	if hash == "secret123" {
		t.Error("hash must not equal the password")
	}

	if !h.Verify("secret123", hash) {
		t.Error("correct password did not verify")
	}
	if h.Verify("wrong-password", hash) {
		t.Error("wrong password verified")
	}
}

func TestPasswordHasher_HashesAreSalted(t *testing.T) {
	h := NewPasswordHasher()

	first, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}
	second, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("failed to hash: %v", err)
	}

	if first == second {
		t.Error("two hashes of the same password must differ")
	}
}
