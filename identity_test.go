package main

import (
	"math/rand"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedIdentityGenerator(seed int64, now time.Time) *IdentityGenerator {
	return &IdentityGenerator{
		rng: rand.New(rand.NewSource(seed)),
		now: func() time.Time { return now },
	}
}

func TestIdentityEmailFormat(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	g := fixedIdentityGenerator(42, now)

	email := g.IdentityEmail()

	re := regexp.MustCompile(`^gcrun[a-z0-9]{6}(\d+)@inboxrelay\.net$`)
	m := re.FindStringSubmatch(email)
	require.NotNil(t, m, "email %q does not match expected shape", email)
	assert.Equal(t, "1787997600", m[1]) // injected clock, not wall time
}

func TestFullNameDrawsFromCandidateLists(t *testing.T) {
	g := NewIdentityGenerator()

	for range 50 {
		name := g.FullName()
		parts := strings.SplitN(name, " ", 2)
		require.Len(t, parts, 2)
		assert.Contains(t, firstNames, parts[0])
		assert.Contains(t, lastNames, parts[1])
	}
}

func TestSubmissionEmailDerivation(t *testing.T) {
	g := NewIdentityGenerator()

	email := g.SubmissionEmail("James Smith")

	local, domain, ok := strings.Cut(email, "@")
	require.True(t, ok)
	assert.Contains(t, submissionDomains, domain)
	assert.Regexp(t, `^jamessmith[0-9a-f]{8}$`, local)
	assert.NotContains(t, email, " ")
	assert.Equal(t, strings.ToLower(email), email)
}

func TestSubmissionEmailsAreDistinctEnough(t *testing.T) {
	g := NewIdentityGenerator()

	seen := make(map[string]bool)
	for range 100 {
		email := g.SubmissionEmail(g.FullName())
		assert.False(t, seen[email], "duplicate submission email %q", email)
		seen[email] = true
	}
}
