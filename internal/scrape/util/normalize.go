package util

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

func NormalizeLocation(loc string) string {
	loc = CleanText(loc)
	if loc == "" {
		return ""
	}

	loc = strings.TrimPrefix(loc, "Location:")
	loc = strings.TrimPrefix(loc, "LOCATIONS:")
	loc = strings.TrimSpace(loc)

	parts := strings.Split(loc, ",")
	seen := map[string]bool{}
	var out []string
	for _, p := range parts {
		p = CleanText(p)
		if p == "" {
			continue
		}
		k := strings.ToLower(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return strings.Join(out, ", ")
}

// PostingID builds "<source>_<native>" or, without a native id, a short
// hash of the posting URL.
func PostingID(source, native, rawURL string) string {
	native = strings.TrimSpace(native)
	if native == "" {
		sum := md5.Sum([]byte(strings.TrimSpace(rawURL)))
		native = hex.EncodeToString(sum[:])[:8]
	}
	return source + "_" + native
}

// CardID hashes a card's identity fields into a short id, for cards that
// carry neither a native id nor a link of their own.
func CardID(parts ...string) string {
	sum := md5.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])[:8]
}
