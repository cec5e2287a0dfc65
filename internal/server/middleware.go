package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quitq-dev/quitq/internal/guard"
	"github.com/quitq-dev/quitq/internal/session"
)

const stateKey = "session_state"

func setState(c *gin.Context, st session.State) {
	c.Set(stateKey, st)
}

// GetState returns the session snapshot the guard authorised the request with
func GetState(c *gin.Context) (session.State, bool) {
	v, exists := c.Get(stateKey)
	if !exists {
		return session.State{}, false
	}

	st, ok := v.(session.State)
	return st, ok
}

// guardMiddleware runs the route guard before a protected view. The snapshot
// it decided on is handed to the handler so the page renders the same identity.
func (s *Server) guardMiddleware(req guard.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		st := s.session.State()
		outcome := guard.Decide(st, req)

		s.logger.Debug().
			Str("path", c.Request.URL.Path).
			Str("outcome", outcome.String()).
			Msg("Route guard")

		switch outcome {
		case guard.Pending:
			c.Header("Retry-After", "1")
			c.HTML(http.StatusServiceUnavailable, "loading.html", gin.H{"Path": c.Request.URL.RequestURI()})
			c.Abort()
		case guard.RedirectLogin, guard.RedirectHome:
			c.Redirect(http.StatusSeeOther, outcome.Target())
			c.Abort()
		default:
			setState(c, st)
			c.Next()
		}
	}
}

// crossOriginMiddleware rejects unsafe requests sent by another site, going by
// Sec-Fetch-Site and Origin. Requests without either header are let through.
func (s *Server) crossOriginMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.csrf.Check(c.Request); err != nil {
			s.logger.Warn().
				Err(err).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Str("origin", c.GetHeader("Origin")).
				Msg("Rejected cross-origin request")
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
