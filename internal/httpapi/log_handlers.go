package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"systemaide.org/internal/audit"
	"systemaide.org/internal/auth"
	"systemaide.org/internal/books"
)

type createLogRequest struct {
	Kind          string `json:"transaction"`
	TransactionID string `json:"transactionId"`
	Action        string `json:"action"`
	Remarks       string `json:"remarks"`
}

func (a *API) handleListLogs(w http.ResponseWriter, r *http.Request) {
	entries, err := a.logs.List(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, entries)
}

func (a *API) handleListDeletedLogs(w http.ResponseWriter, r *http.Request) {
	entries, err := a.logs.ListDeleted(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, entries)
}

func (a *API) handleListLogsByKind(w http.ResponseWriter, r *http.Request) {
	kind := books.JournalKind(mux.Vars(r)["transactionType"])
	entries, err := a.logs.ListByKind(r.Context(), kind)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, entries)
}

func (a *API) handleListLogsByTransaction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind := books.JournalKind(vars["transactionType"])
	entries, err := a.logs.ListByTransaction(r.Context(), kind, vars["transactionId"])
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, entries)
}

func (a *API) handleGetLog(w http.ResponseWriter, r *http.Request) {
	entry, err := a.logs.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, entry)
}

// handleCreateLog appends a log entry on behalf of the signed-in user.
// The actor is always the principal; the body cannot impersonate.
func (a *API) handleCreateLog(w http.ResponseWriter, r *http.Request) {
	var req createLogRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	actorID := ""
	if p, ok := auth.PrincipalFromContext(r.Context()); ok && p.User != nil {
		actorID = p.User.ID
	}
	entry, err := a.logs.Record(r.Context(), audit.RecordInput{
		Kind:          books.JournalKind(req.Kind),
		TransactionID: req.TransactionID,
		Action:        audit.Action(req.Action),
		Remarks:       req.Remarks,
		ActorID:       actorID,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, entry)
}

func (a *API) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.logs.Delete(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "transactionlog.delete", map[string]any{"id": id})
	writeMessage(w, http.StatusOK, "transaction log deleted")
}

func (a *API) handleRestoreLog(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.logs.Restore(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "transactionlog.restore", map[string]any{"id": id})
	writeMessage(w, http.StatusOK, "transaction log restored")
}
