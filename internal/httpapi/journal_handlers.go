package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"systemaide.org/internal/audit"
	"systemaide.org/internal/auth"
	"systemaide.org/internal/books"
)

type journalRequest struct {
	Date             string  `json:"date"`
	LocationID       string  `json:"location"`
	AgentID          string  `json:"agent"`
	AccountID        string  `json:"cashAccount"`
	RefNo            string  `json:"refNo"`
	CheckNo          string  `json:"checkNo"`
	Address          string  `json:"address"`
	TIN              string  `json:"tin"`
	Amount           float64 `json:"amount"`
	Particular       string  `json:"particular"`
	TransactionLines string  `json:"transactionLines"`
	Remarks          string  `json:"remarks"`
}

type journalUpdateRequest struct {
	Date             *string  `json:"date"`
	LocationID       *string  `json:"location"`
	AgentID          *string  `json:"agent"`
	AccountID        *string  `json:"cashAccount"`
	RefNo            *string  `json:"refNo"`
	CheckNo          *string  `json:"checkNo"`
	Address          *string  `json:"address"`
	TIN              *string  `json:"tin"`
	Amount           *float64 `json:"amount"`
	Particular       *string  `json:"particular"`
	TransactionLines *string  `json:"transactionLines"`
	Remarks          string   `json:"remarks"`
}

// parseDate accepts the two shapes the frontend sends.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, want RFC3339 or YYYY-MM-DD", raw)
}

func (a *API) handleListJournals(w http.ResponseWriter, r *http.Request, kind books.JournalKind) {
	journals, err := a.books.ListJournals(r.Context(), kind)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, journals)
}

func (a *API) handleListDeletedJournals(w http.ResponseWriter, r *http.Request, kind books.JournalKind) {
	journals, err := a.books.ListDeletedJournals(r.Context(), kind)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, journals)
}

func (a *API) handleGetJournal(w http.ResponseWriter, r *http.Request, kind books.JournalKind) {
	journal, err := a.books.GetJournal(r.Context(), kind, mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, journal)
}

func (a *API) handleCreateJournal(w http.ResponseWriter, r *http.Request, kind books.JournalKind) {
	var req journalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	journal, err := a.books.CreateJournal(r.Context(), kind, books.JournalInput{
		Date:             date,
		LocationID:       req.LocationID,
		AgentID:          req.AgentID,
		AccountID:        req.AccountID,
		RefNo:            req.RefNo,
		CheckNo:          req.CheckNo,
		Address:          req.Address,
		TIN:              req.TIN,
		Amount:           req.Amount,
		Particular:       req.Particular,
		TransactionLines: req.TransactionLines,
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.recordJournalAudit(r.Context(), kind, journal.ID, audit.ActionCreate, req.Remarks)
	writeData(w, http.StatusCreated, journal)
}

func (a *API) handleUpdateJournal(w http.ResponseWriter, r *http.Request, kind books.JournalKind) {
	var req journalUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	upd := books.JournalUpdate{
		LocationID:       req.LocationID,
		AgentID:          req.AgentID,
		AccountID:        req.AccountID,
		RefNo:            req.RefNo,
		CheckNo:          req.CheckNo,
		Address:          req.Address,
		TIN:              req.TIN,
		Amount:           req.Amount,
		Particular:       req.Particular,
		TransactionLines: req.TransactionLines,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		upd.Date = &date
	}
	journal, err := a.books.UpdateJournal(r.Context(), kind, mux.Vars(r)["id"], upd)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.recordJournalAudit(r.Context(), kind, journal.ID, audit.ActionUpdate, req.Remarks)
	writeData(w, http.StatusOK, journal)
}

func (a *API) handleDeleteJournal(w http.ResponseWriter, r *http.Request, kind books.JournalKind) {
	id := mux.Vars(r)["id"]
	if err := a.books.DeleteJournal(r.Context(), kind, id); err != nil {
		a.fail(w, r, err)
		return
	}
	a.recordJournalAudit(r.Context(), kind, id, audit.ActionDelete, "")
	writeMessage(w, http.StatusOK, "transaction deleted")
}

func (a *API) handleRestoreJournal(w http.ResponseWriter, r *http.Request, kind books.JournalKind) {
	id := mux.Vars(r)["id"]
	if err := a.books.RestoreJournal(r.Context(), kind, id); err != nil {
		a.fail(w, r, err)
		return
	}
	a.recordJournalAudit(r.Context(), kind, id, audit.ActionRestore, "")
	writeMessage(w, http.StatusOK, "transaction restored")
}

// recordJournalAudit appends a transaction-log entry for a journal
// mutation. A failed append never fails the request; it is logged and
// the response proceeds.
func (a *API) recordJournalAudit(ctx context.Context, kind books.JournalKind, txID string, action audit.Action, remarks string) {
	if a.logs == nil {
		return
	}
	actorID := ""
	if p, ok := auth.PrincipalFromContext(ctx); ok && p.User != nil {
		actorID = p.User.ID
	}
	if remarks == "" {
		remarks = string(action)
	}
	if _, err := a.logs.Record(ctx, audit.RecordInput{
		Kind:          kind,
		TransactionID: txID,
		Action:        action,
		Remarks:       remarks,
		ActorID:       actorID,
	}); err != nil {
		_ = audit.LogEvent(ctx, "transactionlog.record_failed", map[string]any{
			"transaction": string(kind),
			"id":          txID,
			"error":       err.Error(),
		})
	}
}
