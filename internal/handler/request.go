package handler

import (
	"encoding/json"
	"html"
	"net/http"
	"strconv"

	"github.com/0x13a/jobstream/internal/apperror"
	"github.com/0x13a/jobstream/internal/middleware"
	"github.com/0x13a/jobstream/internal/server"
	"github.com/0x13a/jobstream/internal/user"

	"github.com/microcosm-cc/bluemonday"
)

// limits json request bodies to 64kb
const maxBodySize = 64 * 1024

var textPolicy = bluemonday.StrictPolicy()

// stripTags removes markup from user text. Bodies are stored and served as
// plain JSON strings, so the entities bluemonday escapes are decoded again.
func stripTags(s string) string {
	return html.UnescapeString(textPolicy.Sanitize(s))
}

// actorFrom writes a 401 and returns false when the request carries no valid token.
func actorFrom(svr server.Server, w http.ResponseWriter, r *http.Request) (user.Actor, bool) {
	claims, err := middleware.GetUserFromJWT(r, svr.SessionStore, svr.GetJWTSigningKey())
	if err != nil {
		svr.Error(w, apperror.Unauthenticated("authentication required"), "")
		return user.Actor{}, false
	}
	return claims.Actor(), true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.Invalid("request is invalid")
	}
	return nil
}

// pageParams reads page and size, both optional. A missing size is 0 so the
// callee applies its configured default.
func pageParams(r *http.Request) (page, size int, err error) {
	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, apperror.Invalid("page must be a number")
		}
	}
	if v := q.Get("size"); v != "" {
		size, err = strconv.Atoi(v)
		if err != nil {
			return 0, 0, apperror.Invalid("size must be a number")
		}
	}
	return page, size, nil
}
