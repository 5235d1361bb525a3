package main

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const (
	// identityLocalPrefix and identityDomain form the bot's own correspondence
	// address. It is never submitted to the target directly, only echoed back
	// base64-encoded in the request_signature field.
	identityLocalPrefix = "gcrun"
	identityDomain      = "inboxrelay.net"

	identitySuffixLen  = 6
	submissionHexBytes = 4
)

var firstNames = []string{
	"James", "Mary", "Robert", "Patricia", "John", "Jennifer",
	"Michael", "Linda", "David", "Elizabeth", "William", "Susan",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia",
	"Miller", "Davis", "Rodriguez", "Martinez", "Wilson", "Anderson",
}

var submissionDomains = []string{
	"gmail.com", "yahoo.com", "outlook.com", "hotmail.com",
}

const alnum = "abcdefghijklmnopqrstuvwxyz0123456789"

// IdentityGenerator produces randomized human-looking names and emails used
// as form input. The random source and clock are injected so tests can pin
// them down.
type IdentityGenerator struct {
	rng *rand.Rand
	now func() time.Time
}

func NewIdentityGenerator() *IdentityGenerator {
	return &IdentityGenerator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

// IdentityEmail creates the session's own correspondence address:
// prefix + random alphanumeric suffix + unix timestamp + fixed domain.
func (g *IdentityGenerator) IdentityEmail() string {
	suffix := make([]byte, identitySuffixLen)
	for i := range suffix {
		suffix[i] = alnum[g.rng.Intn(len(alnum))]
	}
	return fmt.Sprintf("%s%s%d@%s", identityLocalPrefix, suffix, g.now().Unix(), identityDomain)
}

// FullName draws one first and one last name uniformly at random.
// Collisions across calls are expected and acceptable.
func (g *IdentityGenerator) FullName() string {
	first := firstNames[g.rng.Intn(len(firstNames))]
	last := lastNames[g.rng.Intn(len(lastNames))]
	return first + " " + last
}

// SubmissionEmail derives the externally submitted address from a generated
// name: spaces stripped, lower-cased, random hex suffix, random domain.
func (g *IdentityGenerator) SubmissionEmail(name string) string {
	username := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	hex := make([]byte, submissionHexBytes)
	g.rng.Read(hex)
	domain := submissionDomains[g.rng.Intn(len(submissionDomains))]
	return fmt.Sprintf("%s%x@%s", username, hex, domain)
}
