package domain

import (
	"net/mail"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxUniqueAttempts bounds the retry-on-conflict loops that pick slugs and
// short codes.
const MaxUniqueAttempts = 8

// Slugify folds s to lowercase ASCII words joined by single hyphens.
// Accents are stripped; characters with no ASCII fold are dropped.
func Slugify(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(folded) {
		if r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// SequentialSlugAttempts is how many candidates SlugCandidate numbers in
// order before it switches to random suffixes.
const SequentialSlugAttempts = 4

// slugSuffixDigits is the length of the random tail used once the
// sequential candidates are taken.
const slugSuffixDigits = 6

// SlugCandidate returns the slug to try on the given attempt of a
// retry-on-conflict loop: the base itself first, then base-2, base-3 and
// base-4, then base-<random digits> so a crowded base never runs out.
func SlugCandidate(base string, attempt int) string {
	switch {
	case attempt <= 0:
		return base
	case attempt < SequentialSlugAttempts:
		return base + "-" + strconv.Itoa(attempt+1)
	}
	return base + "-" + NumericCode(slugSuffixDigits)
}

// NumericCode returns n random decimal digits.
func NumericCode(n int) string {
	var b strings.Builder
	b.Grow(n)
	for b.Len() < n {
		id := uuid.New()
		for i, c := range id {
			// bytes 6 and 8 carry the version and variant bits
			if i == 6 || i == 8 {
				continue
			}
			if b.Len() == n {
				break
			}
			b.WriteByte('0' + c%10)
		}
	}
	return b.String()
}

// NormalizeEmail lowercases and validates a bare address.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", NewValidationf("invalid email %q", email)
	}
	return email, nil
}

// UsernameFromEmail derives the default username: the local part of the
// address.
func UsernameFromEmail(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found {
		return ""
	}
	return local
}

// FullNameFromUsername is the default profile name when none was given.
func FullNameFromUsername(username string) string {
	return username
}
