package middleware

import (
	"net/http"
	"strconv"

	"clinic-booking/internal/domain/entity"
	"clinic-booking/pkg/response"

	"github.com/gorilla/mux"
)

// RequireDoctorOwnership guards routes carrying a doctor {id} path variable:
// the caller must be the doctor-role account linked to that doctor. Admins
// bypass the check.
func RequireDoctorOwnership(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := GetRoleFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "Role information not found")
			return
		}
		if role == entity.RoleAdmin {
			next.ServeHTTP(w, r)
			return
		}

		doctorID, err := strconv.Atoi(mux.Vars(r)["id"])
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
			return
		}

		ownDoctorID, ok := GetDoctorIDFromContext(r.Context())
		if !ok || ownDoctorID != doctorID {
			response.Forbidden(w, "Not your resource")
			return
		}

		next.ServeHTTP(w, r)
	})
}
