package identity

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/digital-directions/stagegate/pkg/handlers"
	"github.com/digital-directions/stagegate/pkg/lifecycle"
)

// System verifies bearer tokens and resolves the calling actor.
type System interface {
	// Start registers a startup hook that discovers the OIDC provider.
	Start(lc *lifecycle.Coordinator) error
	// Authenticate verifies a raw bearer token and resolves its actor.
	Authenticate(ctx context.Context, rawToken string) (*Actor, error)
	// Middleware returns HTTP middleware that authenticates every request
	// and injects the actor into the request context.
	Middleware() func(http.Handler) http.Handler
}

type system struct {
	cfg    *Config
	logger *slog.Logger

	mu       sync.RWMutex
	verifier *oidc.IDTokenVerifier
}

// New creates an identity system from the given configuration.
// Provider discovery is deferred until Start so the service can boot
// before the identity provider is reachable.
func New(cfg *Config, logger *slog.Logger) System {
	return &system{
		cfg:    cfg,
		logger: logger.With("system", "identity"),
	}
}

func (s *system) Start(lc *lifecycle.Coordinator) error {
	if s.cfg.Disabled {
		s.logger.Warn("token verification disabled")
		return nil
	}

	lc.OnStartup(func() {
		provider, err := oidc.NewProvider(lc.Context(), s.cfg.Issuer)
		if err != nil {
			s.logger.Error("oidc discovery failed", "issuer", s.cfg.Issuer, "error", err)
			return
		}

		verifier := provider.Verifier(&oidc.Config{ClientID: s.cfg.ClientID})

		s.mu.Lock()
		s.verifier = verifier
		s.mu.Unlock()

		s.logger.Info("oidc provider ready", "issuer", s.cfg.Issuer)
	})

	return nil
}

func (s *system) Authenticate(ctx context.Context, rawToken string) (*Actor, error) {
	if s.cfg.Disabled {
		return devActor(), nil
	}

	s.mu.RLock()
	verifier := s.verifier
	s.mu.RUnlock()

	if verifier == nil {
		return nil, ErrNotReady
	}

	token, err := verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return s.resolveActor(token)
}

func (s *system) resolveActor(token *oidc.IDToken) (*Actor, error) {
	var claims map[string]any
	if err := token.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	actor := &Actor{
		UserID: token.Subject,
		Email:  stringClaim(claims, "email"),
		Name:   stringClaim(claims, "name"),
	}

	switch Party(stringClaim(claims, s.cfg.PartyClaim)) {
	case PartyDelivery:
		actor.Party = PartyDelivery
	case PartyClient:
		actor.Party = PartyClient
		actor.ClientID = stringClaim(claims, s.cfg.ClientIDClaim)
		if actor.ClientID == "" {
			return nil, fmt.Errorf("%w: client token missing %s claim", ErrInvalidToken, s.cfg.ClientIDClaim)
		}
	default:
		return nil, fmt.Errorf("%w: missing or unknown %s claim", ErrInvalidToken, s.cfg.PartyClaim)
	}

	return actor, nil
}

func (s *system) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := bearerToken(r)
			if err != nil {
				handlers.RespondError(w, s.logger, MapHTTPStatus(err), err)
				return
			}

			actor, err := s.Authenticate(r.Context(), raw)
			if err != nil {
				handlers.RespondError(w, s.logger, MapHTTPStatus(err), err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), *actor)))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrNoToken
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

func stringClaim(claims map[string]any, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

// devActor stands in for a verified delivery team member when verification
// is disabled.
func devActor() *Actor {
	return &Actor{
		UserID: "dev",
		Email:  "dev@localhost",
		Name:   "Local Developer",
		Party:  PartyDelivery,
	}
}
