package http

import (
	"encoding/json"
	"net/http"

	"github.com/velles/review-cycle-service/internal/domain"
)

type boardUserDTO struct {
	ID         string   `json:"id"`
	Username   string   `json:"username"`
	Permission string   `json:"permission"`
	RoleNames  []string `json:"role_names,omitempty"`
}

type upsertUsersRequest struct {
	Users []boardUserDTO `json:"users"`
}

type upsertUsersResponse struct {
	Upserted int `json:"upserted"`
}

// HandleUsersUpsert receives the board layer's member snapshot. The caller is
// the trusted board backend, so no permission gate applies here.
func (s *Server) HandleUsersUpsert(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req upsertUsersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeDomainError(w, http.StatusBadRequest, domain.ErrorCodeValidation, "invalid JSON body")
		return
	}

	users := make([]domain.BoardUser, 0, len(req.Users))
	for _, u := range req.Users {
		users = append(users, domain.BoardUser{
			ID:         u.ID,
			Username:   u.Username,
			Permission: domain.Permission(u.Permission),
			RoleNames:  u.RoleNames,
		})
	}

	if err := s.app.Access.UpsertUsers(r.Context(), users); err != nil {
		s.handleError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, upsertUsersResponse{
		Upserted: len(users),
	})
}
