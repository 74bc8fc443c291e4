package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"accountd.org/internal/account"
	"accountd.org/internal/audit"
	"accountd.org/internal/auth"
)

type createAccountRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type updateAccountRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password,omitempty"`
}

type listAccountsResponse struct {
	Items []*account.Account `json:"items"`
	Total int                `json:"total"`
}

const maxListLimit = 1000

func (a *API) handleAccountsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.createAccount(w, r)
	case http.MethodGet:
		a.listAccounts(w, r)
	default:
		methodNotAllowed(w, r, http.MethodPost, http.MethodGet)
	}
}

func (a *API) handleAccountResource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/accounts/")
	id = strings.Trim(id, "/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		respondUnauthenticated(w, r, "missing bearer token")
		return
	}
	// Ownership is checked before existence so a foreign id never reveals
	// whether an account lives behind it.
	if err := auth.AuthorizeSelf(identity, id); err != nil {
		writeError(w, r, http.StatusForbidden, "forbidden")
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.getAccount(w, r, id)
	case http.MethodPut:
		a.fullUpdateAccount(w, r, id)
	case http.MethodPatch:
		a.partialUpdateAccount(w, r, id)
	case http.MethodDelete:
		a.deleteAccount(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete)
	}
}

func (a *API) createAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	acc, err := a.directory.Create(r.Context(), account.CreateInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		handleAccountError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "account.created", map[string]any{
		"account_id": acc.ID,
		"email":      acc.Email,
	})
	w.Header().Set("Location", fmt.Sprintf("/v1/accounts/%s", acc.ID))
	writeJSON(w, http.StatusCreated, acc)
}

func (a *API) listAccounts(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.IdentityFromContext(r.Context()); !ok {
		respondUnauthenticated(w, r, "missing bearer token")
		return
	}

	q := r.URL.Query()
	limit, err := parseNonNegativeInt(q.Get("limit"), "limit", 0, maxListLimit)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	offset, err := parseNonNegativeInt(q.Get("offset"), "offset", 0, 1<<30)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	order := strings.ToLower(strings.TrimSpace(q.Get("order")))
	if order != "" && order != "asc" && order != "desc" {
		writeError(w, r, http.StatusBadRequest, "order must be asc or desc")
		return
	}

	items, total, err := a.directory.List(r.Context(), account.ListOptions{
		Limit:  limit,
		Offset: offset,
		Sort:   account.SortKey(strings.TrimSpace(q.Get("sort"))),
		Desc:   order == "desc",
	})
	if err != nil {
		handleAccountError(w, r, err)
		return
	}
	if items == nil {
		items = []*account.Account{}
	}
	writeJSON(w, http.StatusOK, listAccountsResponse{Items: items, Total: total})
}

func (a *API) getAccount(w http.ResponseWriter, r *http.Request, id string) {
	acc, err := a.directory.FindByID(r.Context(), id)
	if err != nil {
		handleAccountError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, acc)
}

func (a *API) fullUpdateAccount(w http.ResponseWriter, r *http.Request, id string) {
	var req updateAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	acc, err := a.directory.FullUpdate(r.Context(), id, account.UpdateInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		handleAccountError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "account.updated", map[string]any{
		"account_id": acc.ID,
	})
	writeJSON(w, http.StatusOK, acc)
}

func (a *API) partialUpdateAccount(w http.ResponseWriter, r *http.Request, id string) {
	var patch account.Patch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if patch.Empty() {
		writeError(w, r, http.StatusBadRequest, "patch supplies no fields")
		return
	}

	acc, err := a.directory.PartialUpdate(r.Context(), id, patch)
	if err != nil {
		handleAccountError(w, r, err)
		return
	}

	_ = audit.LogEvent(r.Context(), "account.updated", map[string]any{
		"account_id": acc.ID,
	})
	writeJSON(w, http.StatusOK, acc)
}

func (a *API) deleteAccount(w http.ResponseWriter, r *http.Request, id string) {
	if err := a.directory.Delete(r.Context(), id); err != nil {
		handleAccountError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "account.deleted", map[string]any{
		"account_id": id,
	})
	w.WriteHeader(http.StatusNoContent)
}

func handleAccountError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, account.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, account.ErrEmailTaken):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, account.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
