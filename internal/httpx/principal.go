package httpx

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shambadirect/shamba-market.git/internal/domain"
)

type principalKey struct{}

// RequirePrincipal membaca identitas dari header X-User-Id / X-User-Role.
// Verifikasi sesi/token terjadi di gateway di depan service ini; di sini
// kita cuma butuh {id, role} dan menolak request tanpa identitas.
func RequirePrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-User-Id")
		role := domain.Role(r.Header.Get("X-User-Role"))
		if id == "" || !role.Valid() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(envelope{Success: false, Error: "authentication required"})
			return
		}
		ctx := context.WithValue(r.Context(), principalKey{}, domain.Principal{ID: id, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func principalFrom(r *http.Request) domain.Principal {
	p, _ := r.Context().Value(principalKey{}).(domain.Principal)
	return p
}
