package domain

import (
	"strings"
	"testing"
)

// Parsing never panics and returns either a round-trippable id or an error.
func FuzzParseAccountID(f *testing.F) {
	f.Add("")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("00000000-0000-0000-0000-000000000000")
	f.Add("not-a-uuid")
	f.Add("'; DROP TABLE profiles;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseAccountID(input)
		if err != nil {
			return
		}
		if id.IsNil() {
			t.Fatal("parsed a nil id without error")
		}
		again, err := ParseAccountID(id.String())
		if err != nil {
			t.Fatalf("round-trip failed: %v", err)
		}
		if again != id {
			t.Fatal("round-trip changed id")
		}
	})
}

func FuzzNormalizeIdentifier(f *testing.F) {
	f.Add("ayse")
	f.Add("  ayse.yilmaz  ")
	f.Add("ayse@example.com")
	f.Add("@")
	f.Add("")

	f.Fuzz(func(t *testing.T, input string) {
		out := NormalizeIdentifier(input, DefaultIdentifierDomain)
		if !strings.Contains(out, "@") {
			t.Fatalf("normalized %q has no @", out)
		}
		if NormalizeIdentifier(out, DefaultIdentifierDomain) != out {
			t.Fatalf("normalization not idempotent for %q", input)
		}
	})
}
