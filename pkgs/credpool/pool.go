package credpool

import (
	"errors"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

////////////////////////////////////////////////////////////////////////////////

// ENV_API_KEYS holds a comma-separated list of API credentials.
const ENV_API_KEYS = "STOCKPULSE_API_KEYS"

// ErrNoCredentials is returned when no usable credential is configured.
// Remote-dependent operations must refuse to start in that case.
var ErrNoCredentials = errors.New("no API credentials configured")

////////////////////////////////////////////////////////////////////////////////

// Credential is a single API key granting access to the remote
// embedding/chat service.
type Credential string

// Masked returns a loggable form of the credential (last four characters).
func (c Credential) Masked() string {
	s := string(c)
	if len(s) <= 4 {
		return "..." + s
	}
	return "..." + s[len(s)-4:]
}

////////////////////////////////////////////////////////////////////////////////

// Pool holds an ordered list of interchangeable credentials. Each worker of a
// parallel job is bound to exactly one credential for the job's lifetime, so
// no credential ever serves two in-flight calls.
type Pool struct {
	credentials []Credential
}

// New creates a pool from the given keys. Blank entries are dropped; an empty
// result is a configuration error.
func New(keys []string) (*Pool, error) {
	credentials := make([]Credential, 0, len(keys))
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		credentials = append(credentials, Credential(key))
	}
	if len(credentials) == 0 {
		return nil, ErrNoCredentials
	}

	log.WithField("count", len(credentials)).Debug("credential pool initialized")
	return &Pool{credentials: credentials}, nil
}

// FromEnv builds a pool from the comma-separated ENV_API_KEYS variable.
func FromEnv() (*Pool, error) {
	raw := os.Getenv(ENV_API_KEYS)
	if raw == "" {
		return nil, ErrNoCredentials
	}
	return New(strings.Split(raw, ","))
}

////////////////////////////////////////////////////////////////////////////////

// Size returns the number of credentials in the pool.
func (p *Pool) Size() int {
	return len(p.credentials)
}

// WorkerCount returns the worker count for a job with the given number of
// tasks: min(credentials, tasks).
func (p *Pool) WorkerCount(tasks int) int {
	if tasks < len(p.credentials) {
		return tasks
	}
	return len(p.credentials)
}

// Assign returns n credentials assigned round-robin. Assignment is static per
// worker, decided once at pool-construction time of the job, never
// re-randomized per call.
func (p *Pool) Assign(n int) []Credential {
	assigned := make([]Credential, n)
	for i := 0; i < n; i++ {
		assigned[i] = p.credentials[i%len(p.credentials)]
	}
	return assigned
}

// First returns the first credential, for one-off calls outside a worker job
// (e.g. embedding the query text).
func (p *Pool) First() Credential {
	return p.credentials[0]
}

// At returns the credential at index i modulo the pool size.
func (p *Pool) At(i int) Credential {
	return p.credentials[i%len(p.credentials)]
}
