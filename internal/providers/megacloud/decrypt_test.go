package megacloud

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encryptSources is the inverse of decryptSources, used to build payloads.
func encryptSources(plain, clientKey, megaKey string) string {
	key := deriveKey(megaKey, clientKey)
	cols := len(key) + 1 // every layer key appends one digit

	buf := []byte(fmt.Sprintf("%04d%s", len(plain), plain))
	for len(buf)%cols != 0 {
		buf = append(buf, ' ')
	}
	for layer := 1; layer <= cipherLayers; layer++ {
		buf = wrapLayer(buf, key+strconv.Itoa(layer))
	}
	return base64.StdEncoding.EncodeToString(buf)
}

func wrapLayer(in []byte, key string) []byte {
	table := shuffledAlphabet(key)
	sub := make([]byte, len(in))
	for i, c := range in {
		sub[i] = table[c-32]
	}

	cols := len(key)
	rows := len(sub) / cols
	out := make([]byte, 0, len(sub))
	for _, col := range columnOrder(key) {
		for row := 0; row < rows; row++ {
			out = append(out, sub[row*cols+col])
		}
	}

	rng := seedFor(key)
	for i, c := range out {
		out[i] = alphabetAt(int(c-32) + rng.next(alphabetSize))
	}
	return out
}

func TestDecodeBase64(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"SGVsbG8=", "Hello"},
		{"V29ybGQ=", "World"},
		{"", ""},
		{"YQ==", "a"},
		{"YWI=", "ab"},
		{"YWJj", "abc"},
		{"YW Jj\n", "abc"},
	}

	for _, tt := range tests {
		got, err := decodeBase64(tt.input)
		if err != nil || string(got) != tt.want {
			t.Errorf("decodeBase64(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
		}
	}
}

func TestShuffledAlphabetDeterministic(t *testing.T) {
	a := shuffledAlphabet("testkey123")
	b := shuffledAlphabet("testkey123")
	if string(a) != string(b) {
		t.Error("shuffledAlphabet not deterministic")
	}
	if string(a) == string(shuffledAlphabet("differentkey")) {
		t.Error("shuffledAlphabet produced identical tables for different keys")
	}

	seen := map[byte]bool{}
	for _, c := range a {
		seen[c] = true
	}
	if len(seen) != alphabetSize {
		t.Errorf("shuffledAlphabet is not a permutation: %d distinct bytes", len(seen))
	}
}

func TestUntranspose(t *testing.T) {
	input := "Hello, World! This is a test."
	got := untranspose([]byte(input), "secret")
	if len(got) < len(input) || len(got)%len("secret") != 0 {
		t.Errorf("untranspose length = %d, want a multiple of 6 >= %d", len(got), len(input))
	}
	if string(untranspose([]byte(input), "")) != input {
		t.Error("untranspose with an empty key should be the identity")
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	key := deriveKey("megakey123", "clientkey456")
	if key != deriveKey("megakey123", "clientkey456") {
		t.Error("deriveKey not deterministic")
	}
	if key == "" {
		t.Fatal("deriveKey returned empty string")
	}
	for i := 0; i < len(key); i++ {
		if !printable(key[i]) {
			t.Errorf("deriveKey produced non-printable byte at index %d: %d", i, key[i])
		}
	}
	if deriveKey("", "") != "" {
		t.Error("deriveKey with no input should be empty")
	}
}

func TestDecryptSourcesEmptyInput(t *testing.T) {
	_, err := decryptSources("", "key", "megakey")
	assert.ErrorIs(t, err, errEmptyPlaintext)
}

func TestDecryptSourcesRoundTrip(t *testing.T) {
	plain := `[{"file":"https://cdn.example.com/master.m3u8","type":"hls"}]`
	payload := encryptSources(plain, "abc123XYZ", "megakey123")

	got, err := decryptSources(payload, "abc123XYZ", "megakey123")
	require.NoError(t, err)
	assert.Equal(t, plain, got)

	wrong, err := decryptSources(payload, "abc123XYZ", "otherkey")
	if err == nil {
		assert.NotEqual(t, plain, wrong)
	}
}

func TestDecryptSourcesBadBase64(t *testing.T) {
	_, err := decryptSources("not*base64", "key", "megakey")
	assert.Error(t, err)
}
