package session

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const (
	deviceIDKey contextKey = "device_id"
	tokenKey    contextKey = "bearer_token"
)

// DeviceCookie identifies the anonymous session across requests and
// reloads; it is the key the local cart record lives under.
const DeviceCookie = "cf_device"

// Middleware resolves the device id (minting a cookie on first contact)
// and extracts the bearer token, placing both in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deviceID := deviceIDFromRequest(r)
		if deviceID == "" {
			deviceID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     DeviceCookie,
				Value:    deviceID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), deviceIDKey, deviceID)
		if token := bearerFromRequest(r); token != "" {
			ctx = context.WithValue(ctx, tokenKey, token)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func deviceIDFromRequest(r *http.Request) string {
	if id := r.Header.Get("X-Device-Id"); id != "" {
		return id
	}
	if cookie, err := r.Cookie(DeviceCookie); err == nil {
		return cookie.Value
	}
	return ""
}

func bearerFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// DeviceID returns the device id resolved by Middleware.
func DeviceID(ctx context.Context) string {
	id, _ := ctx.Value(deviceIDKey).(string)
	return id
}

// BearerToken returns the bearer token carried on the request, if any.
func BearerToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
