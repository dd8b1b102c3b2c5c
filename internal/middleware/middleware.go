package middleware

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/0x13a/jobstream/internal/metrics"
	"github.com/0x13a/jobstream/internal/user"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"
)

const sessionName = "____js"

func HTTPSMiddleware(next http.Handler, env string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if env != "dev" && r.Header.Get("X-Forwarded-Proto") != "https" {
			target := "https://" + r.Host + r.URL.Path
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func LoggingMiddleware(next http.Handler, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info().
			Str("Host", r.Host).
			Str("method", r.Method).
			Stringer("url", r.URL).
			Str("x-forwarded-for", r.Header.Get("x-forwarded-for")).
			Msg("req")
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack keeps websocket upgrades working behind the recorder.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// MetricsMiddleware records request durations labelled by mux route template.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	})
}

func HeadersMiddleware(next http.Handler, env string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if env != "dev" {
			w.Header().Set("X-Frame-Options", "deny")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			w.Header().Set("Referrer-Policy", "origin")
		}
		next.ServeHTTP(w, r)
	})
}

type UserJWT struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      user.Role `json:"role"`
	CompanyID string    `json:"company_id,omitempty"`
	ProfileID string    `json:"profile_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	jwt.StandardClaims
}

func (c *UserJWT) Actor() user.Actor {
	return user.Actor{
		UserID:    c.UserID,
		Name:      c.Name,
		Role:      c.Role,
		CompanyID: c.CompanyID,
		ProfileID: c.ProfileID,
	}
}

// NewUserJWT signs claims for u valid for ttl.
func NewUserJWT(u user.User, ttl time.Duration, jwtKey []byte) (string, error) {
	now := time.Now().UTC()
	claims := UserJWT{
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.FirstName,
		Role:      u.Role,
		CompanyID: u.CompanyID,
		ProfileID: u.ProfileID,
		CreatedAt: now,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtKey)
}

func UserAuthenticatedMiddleware(sessionStore *sessions.CookieStore, jwtKey []byte, next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := GetUserFromJWT(r, sessionStore, jwtKey); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"kind":"UNAUTHENTICATED","code":"UNAUTHENTICATED","message":"authentication required"}`))
			return
		}
		next(w, r)
	})
}

// GetUserFromJWT reads the token from the Authorization bearer header, then
// from the session cookie.
func GetUserFromJWT(r *http.Request, sessionStore *sessions.CookieStore, jwtKey []byte) (*UserJWT, error) {
	tk := BearerToken(r)
	if tk == "" {
		sess, err := sessionStore.Get(r, sessionName)
		if err != nil {
			return nil, errors.New("could not find cookie")
		}
		var ok bool
		tk, ok = sess.Values["jwt"].(string)
		if !ok {
			return nil, errors.New("could not find jwt in session")
		}
	}
	token, err := jwt.ParseWithClaims(tk, &UserJWT{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("token is invalid or expired")
	}
	claims, ok := token.Claims.(*UserJWT)
	if !ok {
		return nil, errors.New("could not convert jwt claims to UserJWT")
	}
	if claims.UserID == "" || !claims.Role.Valid() {
		return nil, errors.New("token is missing user id or role")
	}
	return claims, nil
}

// SaveJWT stores tk in the session cookie for browser clients.
func SaveJWT(w http.ResponseWriter, r *http.Request, sessionStore *sessions.CookieStore, tk string) error {
	sess, err := sessionStore.Get(r, sessionName)
	if err != nil {
		return err
	}
	sess.Values["jwt"] = tk
	return sess.Save(r, w)
}

// BearerToken returns the token of an "Authorization: Bearer" header, if any.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
