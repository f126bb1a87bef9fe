package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !Verify("s3cret", hash) {
		t.Fatal("expected password to verify")
	}
	if Verify("other", hash) {
		t.Fatal("expected wrong password to fail")
	}
}

func TestUnusable_DiffersEachCall(t *testing.T) {
	a, err := Unusable()
	if err != nil {
		t.Fatalf("unusable: %v", err)
	}
	b, err := Unusable()
	if err != nil {
		t.Fatalf("unusable: %v", err)
	}
	if a == "" || a == b {
		t.Fatalf("expected distinct non-empty hashes, got %q and %q", a, b)
	}
	if Verify("", a) {
		t.Fatal("empty password must not match the marker")
	}
}
