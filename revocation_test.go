package authfile

import "testing"

func TestRevocationKeyLayout(t *testing.T) {
	key := revocationKey("subject-1", "deadbeef")
	if key != "refresh_token:subject-1:deadbeef" {
		t.Fatalf("unexpected key layout: %q", key)
	}

	prefix := revocationPrefix("subject-1")
	if prefix != "refresh_token:subject-1:*" {
		t.Fatalf("unexpected scan pattern: %q", prefix)
	}
}
