package middlewares

import (
	"context"
	"log"
	"net/http"

	"github.com/TekNegr/Projet-Ecommerce/app/helpers"
	"github.com/TekNegr/Projet-Ecommerce/app/repositories"
	"github.com/TekNegr/Projet-Ecommerce/app/utils/sessions"
)

// SessionContextMiddleware lifts the session's user id and cart id into the
// request context so handlers never touch the cookie store directly.
func SessionContextMiddleware(store sessions.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if userID := store.GetUserID(r); userID != "" {
				ctx = context.WithValue(ctx, helpers.ContextKeyUserID, userID)
			}

			cartID, err := store.GetOrCreateCartID(w, r)
			if err != nil {
				log.Printf("SessionContextMiddleware: failed to get cart id: %v", err)
			} else {
				ctx = context.WithValue(ctx, helpers.ContextKeyCartID, cartID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests without an authenticated session.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := helpers.UserIDFromContext(r); !ok {
			http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole loads the user and rejects requests whose user lacks the role.
// Admins pass every role gate.
func RequireRole(userRepo repositories.UserRepository, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := helpers.UserIDFromContext(r)
			if !ok {
				http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
				return
			}

			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil || user == nil {
				log.Printf("RequireRole: failed to load user %s: %v", userID, err)
				http.Error(w, `{"error":"authentication required"}`, http.StatusUnauthorized)
				return
			}

			if user.Role != role && !user.IsAdmin() {
				http.Error(w, `{"error":"insufficient permissions"}`, http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), helpers.ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("%s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
