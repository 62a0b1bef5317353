package middleware

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-authgate/apigate/internal/auth"
	"github.com/go-authgate/apigate/internal/core"
	"github.com/go-authgate/apigate/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Response bodies
const (
	msgMissingBearer = "Missing bearer token"
	msgMissingBasic  = "Missing basic token"
	msgUnauthorized  = "Unauthorized request"
	msgInternalError = "Internal server error"
)

// Gate outcome labels
const (
	outcomeAllowed  = "allowed"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

const defaultRealm = "apigate"

// GateOption configures a gate middleware.
type GateOption func(*gate)

// WithDirectoryTimeout bounds the directory work of a single request.
// Zero leaves the request context as the only deadline.
func WithDirectoryTimeout(d time.Duration) GateOption {
	return func(g *gate) {
		g.timeout = d
	}
}

// WithRecorder reports gate decisions to m.
func WithRecorder(m core.Recorder) GateOption {
	return func(g *gate) {
		if m != nil {
			g.metrics = m
		}
	}
}

// WithRealm sets the realm advertised in WWW-Authenticate.
func WithRealm(realm string) GateOption {
	return func(g *gate) {
		g.realm = realm
	}
}

type gate struct {
	kind       auth.CredentialKind
	missingMsg string
	challenge  string
	dispatcher *auth.Dispatcher
	timeout    time.Duration
	metrics    core.Recorder
	realm      string
}

// RequireBearer protects a route with bearer token authentication.
func RequireBearer(v *auth.BearerVerifier, opts ...GateOption) gin.HandlerFunc {
	g := newGate(auth.CredentialBearer, msgMissingBearer, v.Strategy(), opts...)
	g.challenge = `Bearer realm="` + g.realm + `"`
	return g.handle
}

// RequireBasic protects a route with basic authentication.
func RequireBasic(v *auth.BasicVerifier, opts ...GateOption) gin.HandlerFunc {
	g := newGate(auth.CredentialBasic, msgMissingBasic, v.Strategy(), opts...)
	g.challenge = `Basic realm="` + g.realm + `", charset="UTF-8"`
	return g.handle
}

func newGate(
	kind auth.CredentialKind,
	missingMsg string,
	strategy auth.Strategy,
	opts ...GateOption,
) *gate {
	g := &gate{
		kind:       kind,
		missingMsg: missingMsg,
		dispatcher: auth.NewDispatcher().Register(kind, strategy),
		metrics:    metrics.NewNoopMetrics(),
		realm:      defaultRealm,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *gate) handle(c *gin.Context) {
	start := time.Now()
	scheme := g.kind.String()

	cred := auth.ExtractCredential(c.GetHeader("Authorization"))

	// The expected scheme belongs to the route; anything else counts as absent.
	if cred.Kind != g.kind {
		g.deny(c, scheme, auth.ReasonMissingCredential, "", g.missingMsg, start)
		return
	}

	result, err := g.resolve(c.Request.Context(), cred)
	if err != nil {
		log.Printf("[Gate] %s %s: %s authentication failed: %v",
			c.Request.Method, c.Request.URL.Path, scheme, err)
		g.metrics.RecordAuthAttempt(scheme, outcomeError, time.Since(start))
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": msgInternalError})
		return
	}

	if !result.Authenticated() {
		g.deny(c, scheme, result.Reason, result.Subject, msgUnauthorized, start)
		return
	}

	c.Set(ContextKeyUser, result.Identity)
	c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), result.Identity))
	g.metrics.RecordAuthAttempt(scheme, outcomeAllowed, time.Since(start))

	c.Next()
}

func (g *gate) resolve(ctx context.Context, cred auth.Credential) (auth.Result, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	return g.dispatcher.Resolve(ctx, cred)
}

func (g *gate) deny(
	c *gin.Context,
	scheme string,
	reason auth.RejectReason,
	subject, message string,
	start time.Time,
) {
	log.Printf("[Gate] Rejected %s credential on %s %s from %s (subject=%q, reason=%s)",
		scheme, c.Request.Method, c.Request.URL.Path, c.ClientIP(), subject, reason)

	g.metrics.RecordAuthRejected(scheme, reason.String())
	g.metrics.RecordAuthAttempt(scheme, outcomeRejected, time.Since(start))

	c.Header("WWW-Authenticate", g.challenge)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}
