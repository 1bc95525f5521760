package utils

import (
	"testing"

	"github.com/google/uuid"
)

func TestIsUUID(t *testing.T) {
	if !IsUUID(uuid.NewString()) {
		t.Fatalf("fresh uuid should be valid")
	}

	for _, s := range []string{"", "123", "507f1f77bcf86cd799439011", "urn:uuid:" + uuid.NewString(), "{" + uuid.NewString() + "}"} {
		if IsUUID(s) {
			t.Fatalf("%q should be rejected", s)
		}
	}
}
