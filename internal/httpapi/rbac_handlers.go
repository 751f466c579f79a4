package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"systemaide.org/internal/audit"
	"systemaide.org/internal/auth"
)

type createUserRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	MiddleInitial string `json:"middleInitial"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Role          string `json:"role"`
}

type updateUserRequest struct {
	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	MiddleInitial *string `json:"middleInitial"`
	Email         *string `json:"email"`
	Password      *string `json:"password"`
	Role          *string `json:"role"`
	Status        *string `json:"status"`
}

type createRoleRequest struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type updateRoleRequest struct {
	Name        *string  `json:"name"`
	Permissions []string `json:"permissions"`
}

type permissionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updatePermissionRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.auth.ListUsers(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, users)
}

func (a *API) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	user, err := a.auth.CreateUser(r.Context(), auth.CreateUserInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		MiddleInitial: req.MiddleInitial,
		Email:         req.Email,
		Password:      req.Password,
		Role:          req.Role,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "user.create", map[string]any{"email": user.Email})
	writeData(w, http.StatusCreated, user)
}

func (a *API) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := a.auth.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

func (a *API) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	user, err := a.auth.UpdateUser(r.Context(), mux.Vars(r)["id"], auth.UpdateUserInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		MiddleInitial: req.MiddleInitial,
		Email:         req.Email,
		Password:      req.Password,
		Role:          req.Role,
		Status:        req.Status,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "user.update", map[string]any{"id": user.ID})
	writeData(w, http.StatusOK, user)
}

func (a *API) handleBlockUser(w http.ResponseWriter, r *http.Request) {
	user, err := a.auth.BlockUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "user.block", map[string]any{"id": user.ID})
	writeData(w, http.StatusOK, user)
}

func (a *API) handleUnblockUser(w http.ResponseWriter, r *http.Request) {
	user, err := a.auth.UnblockUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "user.unblock", map[string]any{"id": user.ID})
	writeData(w, http.StatusOK, user)
}

func (a *API) handleListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := a.auth.ListRoles(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, roles)
}

func (a *API) handleCreateRole(w http.ResponseWriter, r *http.Request) {
	var req createRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	role, err := a.auth.CreateRole(r.Context(), req.Name, req.Permissions)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "role.create", map[string]any{"name": role.Name})
	writeData(w, http.StatusCreated, role)
}

func (a *API) handleGetRole(w http.ResponseWriter, r *http.Request) {
	role, err := a.auth.GetRole(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, role)
}

func (a *API) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	var req updateRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	role, err := a.auth.UpdateRole(r.Context(), mux.Vars(r)["id"], req.Name, req.Permissions)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "role.update", map[string]any{"id": role.ID})
	writeData(w, http.StatusOK, role)
}

func (a *API) handleDeleteRole(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.auth.DeleteRole(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "role.delete", map[string]any{"id": id})
	writeMessage(w, http.StatusOK, "role deleted")
}

func (a *API) handleListPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := a.auth.ListPermissions(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, perms)
}

func (a *API) handleCreatePermission(w http.ResponseWriter, r *http.Request) {
	var req permissionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	perm, err := a.auth.CreatePermission(r.Context(), req.Name, req.Description)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "permission.create", map[string]any{"name": perm.Name})
	writeData(w, http.StatusCreated, perm)
}

func (a *API) handleGetPermission(w http.ResponseWriter, r *http.Request) {
	perm, err := a.auth.GetPermission(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, perm)
}

func (a *API) handleUpdatePermission(w http.ResponseWriter, r *http.Request) {
	var req updatePermissionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	perm, err := a.auth.UpdatePermission(r.Context(), mux.Vars(r)["id"], req.Name, req.Description)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "permission.update", map[string]any{"id": perm.ID})
	writeData(w, http.StatusOK, perm)
}

func (a *API) handleDeletePermission(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.auth.DeletePermission(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "permission.delete", map[string]any{"id": id})
	writeMessage(w, http.StatusOK, "permission deleted")
}
