package token

import (
	"strings"
	"testing"
	"time"
)

func FuzzExtractBearer(f *testing.F) {
	codec, err := NewCodec(Config{
		TTL:           time.Minute,
		SigningMethod: MethodHS256,
		Secret:        []byte("fuzz-secret-fuzz-secret-fuzz-sec"),
	})
	if err != nil {
		f.Fatalf("new codec: %v", err)
	}

	f.Add("Bearer abc.def.ghi")
	f.Add("bearer x")
	f.Add("Bearer ")
	f.Add("")
	f.Add("Basic dXNlcjpwdw==")
	f.Add("BeArEr \t token")

	f.Fuzz(func(t *testing.T, header string) {
		tk, ok := codec.ExtractBearer(header)
		if !ok {
			if tk != "" {
				t.Fatalf("rejected header %q returned token %q", header, tk)
			}
			return
		}
		if tk == "" {
			t.Fatalf("accepted header %q returned empty token", header)
		}
		if strings.TrimSpace(tk) != tk {
			t.Fatalf("token %q carries surrounding whitespace", tk)
		}
		if !strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
			t.Fatalf("accepted header %q without bearer prefix", header)
		}
	})
}
