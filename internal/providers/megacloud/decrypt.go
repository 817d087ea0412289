package megacloud

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"math/big"
	"slices"
	"strconv"
	"strings"
)

const (
	cipherLayers = 3

	// alphabetSize is the printable ASCII range 32-126 the cipher works over.
	alphabetSize = 95

	keyXOR   = 247
	keyShift = 5
)

var errEmptyPlaintext = errors.New("decryption returned empty result")

// decryptSources undoes the layered cipher getSources applies to its
// sources when encrypted is true. The plaintext is a four digit length
// followed by the JSON sources array.
func decryptSources(payload, clientKey, megaKey string) (string, error) {
	buf, err := decodeBase64(payload)
	if err != nil {
		return "", fmt.Errorf("decoding payload: %w", err)
	}

	key := deriveKey(megaKey, clientKey)
	for layer := cipherLayers; layer > 0; layer-- {
		buf = unwrapLayer(buf, key+strconv.Itoa(layer))
	}

	if len(buf) < 4 {
		return "", errEmptyPlaintext
	}
	n, err := strconv.Atoi(string(buf[:4]))
	if err != nil || n <= 0 || 4+n > len(buf) {
		return "", errEmptyPlaintext
	}
	return string(buf[4 : 4+n]), nil
}

// decodeBase64 accepts padded or unpadded input with stray whitespace.
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimRight(strings.Join(strings.Fields(s), ""), "=")
	return base64.RawStdEncoding.DecodeString(s)
}

// unwrapLayer reverses one layer: the seeded shift, then the columnar
// transposition, then the shuffled substitution.
func unwrapLayer(in []byte, key string) []byte {
	rng := seedFor(key)
	out := make([]byte, len(in))
	for i, c := range in {
		if !printable(c) {
			out[i] = c
			continue
		}
		out[i] = alphabetAt(int(c-32) - rng.next(alphabetSize))
	}

	out = untranspose(out, key)

	var inverse [alphabetSize]byte
	for i, c := range shuffledAlphabet(key) {
		inverse[c-32] = byte(32 + i)
	}
	for i, c := range out {
		if printable(c) {
			out[i] = inverse[c-32]
		}
	}
	return out
}

// lcg is the linear congruential generator behind both the shift and
// the shuffle.
type lcg uint64

func seedFor(key string) lcg {
	var h uint64
	for i := 0; i < len(key); i++ {
		h = (h*31 + uint64(key[i])) & 0xffffffff
	}
	return lcg(h)
}

func (g *lcg) next(n int) int {
	*g = (*g*1103515245 + 12345) & 0x7fffffff
	return int(uint64(*g) % uint64(n))
}

func printable(c byte) bool {
	return c >= 32 && c < 32+alphabetSize
}

func alphabetAt(i int) byte {
	return byte(32 + ((i%alphabetSize)+alphabetSize)%alphabetSize)
}

// shuffledAlphabet is the substitution table: a seeded Fisher-Yates
// shuffle of the printable alphabet.
func shuffledAlphabet(key string) []byte {
	table := make([]byte, alphabetSize)
	for i := range table {
		table[i] = byte(32 + i)
	}
	rng := seedFor(key)
	for i := len(table) - 1; i > 0; i-- {
		j := rng.next(i + 1)
		table[i], table[j] = table[j], table[i]
	}
	return table
}

// columnOrder lists column indexes sorted by their key byte. Ties keep
// key order.
func columnOrder(key string) []int {
	order := make([]int, len(key))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return int(key[a]) - int(key[b])
	})
	return order
}

// untranspose fills the grid column by column in key order and reads it
// back row by row. Short input leaves trailing spaces.
func untranspose(src []byte, key string) []byte {
	cols := len(key)
	if cols == 0 {
		return src
	}
	rows := (len(src) + cols - 1) / cols
	grid := bytes.Repeat([]byte{' '}, rows*cols)

	n := 0
	for _, col := range columnOrder(key) {
		for row := 0; row < rows && n < len(src); row++ {
			grid[row*cols+col] = src[n]
			n++
		}
	}
	return grid
}

// deriveKey mixes the published MegaCloud key with the page's client key.
func deriveKey(megaKey, clientKey string) string {
	seed := megaKey + clientKey
	if seed == "" {
		return ""
	}

	// h = c + 31h + (h << 7) - h, left unbounded
	h := new(big.Int)
	for i := 0; i < len(seed); i++ {
		next := new(big.Int).Lsh(h, 7)
		next.Add(next, new(big.Int).Mul(h, big.NewInt(30)))
		next.Add(next, big.NewInt(int64(seed[i])))
		h = next
	}
	hash := h.Mod(h, big.NewInt(math.MaxInt64)).Int64()

	xored := make([]byte, len(seed))
	for i := 0; i < len(seed); i++ {
		xored[i] = seed[i] ^ keyXOR
	}
	pivot := (int(hash%int64(len(xored))) + keyShift) % len(xored)
	rotated := append(append(make([]byte, 0, len(xored)), xored[pivot:]...), xored[:pivot]...)

	leaf := []byte(clientKey)
	slices.Reverse(leaf)

	out := make([]byte, 0, len(rotated)+len(leaf))
	for i := 0; i < max(len(rotated), len(leaf)); i++ {
		if i < len(rotated) {
			out = append(out, rotated[i])
		}
		if i < len(leaf) {
			out = append(out, leaf[i])
		}
	}
	out = out[:min(len(out), 96+int(hash%33))]

	for i, c := range out {
		out[i] = byte(int(c)%alphabetSize + 32)
	}
	return string(out)
}
