package controllers

import (
	"net/http"
	"strconv"
	"time"

	dbpkg "accesscontrol/db"
	"accesscontrol/models"
	"accesscontrol/services"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

type AccessRequestPayload struct {
	ModuleIDs     []int64 `json:"module_ids"`
	Justification string  `json:"justification"`
	Urgent        bool    `json:"urgent"`
}

type CancelPayload struct {
	Reason string `json:"reason"`
}

// requestView é a resposta padrão de solicitação, com módulos e histórico.
type requestView struct {
	models.AccessRequest
	Modules []models.Module         `json:"modules"`
	History []models.RequestHistory `json:"history,omitempty"`
}

func toRequestView(db *gorm.DB, request models.AccessRequest, withHistory bool) (requestView, error) {
	view := requestView{AccessRequest: request}

	modules, err := services.RequestModulesOf(db, request.ID)
	if err != nil {
		return view, err
	}
	view.Modules = modules

	if withHistory {
		history, err := services.RequestHistoryOf(db, request.ID)
		if err != nil {
			return view, err
		}
		view.History = history
	}
	return view, nil
}

// POST /api/requests
func CreateAccessRequest(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	var payload AccessRequestPayload
	if err := c.Bind(&payload); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	request, err := services.CreateRequest(db, user.ID, payload.ModuleIDs, payload.Justification, payload.Urgent)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	view, err := toRequestView(db, *request, false)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"request": view})
}

// GET /api/requests
func GetAccessRequests(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	requests, err := services.ListRequestsByUser(db, user.ID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	views := make([]requestView, 0, len(requests))
	for _, request := range requests {
		view, err := toRequestView(db, request, false)
		if err != nil {
			RespondError(c, err.Error(), http.StatusInternalServerError)
			return
		}
		views = append(views, view)
	}
	RespondSuccess(c, gin.H{"requests": views})
}

// GET /api/requests/filter
func FilterAccessRequests(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	filter := services.RequestFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}
	if v := c.Query("urgent"); v != "" {
		urgent := v == "true" || v == "1"
		filter.Urgent = &urgent
	}
	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			RespondError(c, "start_date inválido (use yyyy-MM-dd)", http.StatusBadRequest)
			return
		}
		filter.StartDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			RespondError(c, "end_date inválido (use yyyy-MM-dd)", http.StatusBadRequest)
			return
		}
		filter.EndDate = &t
	}
	filter.Page, _ = strconv.Atoi(c.Query("page"))
	filter.PerPage, _ = strconv.Atoi(c.Query("per_page"))

	requests, total, err := services.FilterRequests(db, user.ID, filter)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	views := make([]requestView, 0, len(requests))
	for _, request := range requests {
		view, err := toRequestView(db, request, false)
		if err != nil {
			RespondError(c, err.Error(), http.StatusInternalServerError)
			return
		}
		views = append(views, view)
	}
	RespondSuccess(c, gin.H{"requests": views, "total": total})
}

// GET /api/requests/:id
func GetAccessRequestByID(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	request, err := services.FindRequest(db, id, user.ID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	view, err := toRequestView(db, *request, true)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"request": view})
}

// POST /api/requests/:id/cancel
func CancelAccessRequest(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	var payload CancelPayload
	if err := c.Bind(&payload); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	request, err := services.CancelRequest(db, id, user.ID, payload.Reason)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	view, err := toRequestView(db, *request, true)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"request": view})
}

// POST /api/requests/:id/renew
func RenewAccessRequest(c *gin.Context) {
	user, ok := GetUserLogged(c)
	if !ok {
		RespondError(c, "unauthorized", http.StatusUnauthorized)
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	// posse antes de renovar, como no cancelamento
	if _, err := services.FindRequest(db, id, user.ID); err != nil {
		RespondServiceError(c, err)
		return
	}

	request, err := services.RenewRequest(db, id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	view, err := toRequestView(db, *request, true)
	if err != nil {
		RespondError(c, err.Error(), http.StatusInternalServerError)
		return
	}
	RespondSuccess(c, gin.H{"request": view})
}

// DELETE /api/requests/:id (admin)
func DeleteAccessRequest(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	db := dbpkg.DBInstance(c)
	if db == nil {
		RespondError(c, "db não configurado no contexto", http.StatusInternalServerError)
		return
	}

	if err := services.DeleteRequest(db, id); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"status": "deleted"})
}
