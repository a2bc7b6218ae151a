package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"catena/internal/repository"
	"catena/internal/service"
)

type RequestHandler struct {
	Repo    repository.Repository
	Service *service.RequestLifecycleService
}

func (h *RequestHandler) Register(r *gin.Engine) {
	g := r.Group("/api/v1/requests")
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.GET("/:id/history", h.history)
	g.POST("/:id/confirm", h.confirmSupply)
	g.POST("/:id/documents", h.addDocument)
	g.POST("/:id/complete", h.completeDelivery)
}

type createRequestRequest struct {
	AgreementID uint64 `json:"agreement_id" binding:"required"`

	RequestDate  time.Time `json:"request_date" binding:"required"`
	DeliveryDate time.Time `json:"delivery_date" binding:"required"`
	MABT         time.Time `json:"mabt"`

	Volume               decimal.Decimal `json:"volume" binding:"required"`
	FuelType             string          `json:"fuel_type" binding:"required"`
	QualitySpecification string          `json:"quality_specification"`
	DeliveryLocation     string          `json:"delivery_location"`
	DeliveryMethod       string          `json:"delivery_method"`
}

func (h *RequestHandler) create(c *gin.Context) {
	var req createRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	request, err := h.Service.CreateRequest(c.Request.Context(), service.CreateRequestInput{
		AgreementID:          req.AgreementID,
		RequestDate:          req.RequestDate,
		DeliveryDate:         req.DeliveryDate,
		MABT:                 req.MABT,
		Volume:               req.Volume,
		FuelType:             req.FuelType,
		QualitySpecification: req.QualitySpecification,
		DeliveryLocation:     req.DeliveryLocation,
		DeliveryMethod:       req.DeliveryMethod,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, request, nil)
}

func (h *RequestHandler) list(c *gin.Context) {
	params := repository.ListRequestsParams{
		Limit:       intQuery(c, "limit", 50),
		Offset:      intQuery(c, "offset", 0),
		AgreementID: uint64QueryPtr(c, "agreement_id"),
		State:       strQueryPtr(c, "state"),
		OrderBy:     "created_at",
		Asc:         boolPtr(false),
	}
	items, err := h.Repo.ListRequests(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountRequests(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(params.Limit, params.Offset, total))
}

func (h *RequestHandler) get(c *gin.Context) {
	id := uint64QueryParam(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	request, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, request, nil)
}

func (h *RequestHandler) history(c *gin.Context) {
	id := uint64QueryParam(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	revisions, err := h.Service.History(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, revisions, map[string]any{"count": len(revisions)})
}

func (h *RequestHandler) confirmSupply(c *gin.Context) {
	id := uint64QueryParam(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	request, err := h.Service.ConfirmSupply(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, request, nil)
}

type addDocumentRequest struct {
	Kind string `json:"kind" binding:"required"`
	Hash string `json:"hash" binding:"required"`
	URL  string `json:"url" binding:"required"`
}

func (h *RequestHandler) addDocument(c *gin.Context) {
	id := uint64QueryParam(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req addDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	request, err := h.Service.AddDocument(c.Request.Context(), id, req.Kind, req.Hash, req.URL)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, request, nil)
}

type completeDeliveryRequest struct {
	DeliveryLocation     string          `json:"delivery_location"`
	FuelType             string          `json:"fuel_type" binding:"required"`
	Volume               decimal.Decimal `json:"volume" binding:"required"`
	QualitySpecification string          `json:"quality_specification"`
}

func (h *RequestHandler) completeDelivery(c *gin.Context) {
	id := uint64QueryParam(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req completeDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	request, err := h.Service.CompleteDelivery(c.Request.Context(), id, service.CompleteDeliveryInput{
		DeliveryLocation:     req.DeliveryLocation,
		FuelType:             req.FuelType,
		Volume:               req.Volume,
		QualitySpecification: req.QualitySpecification,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, request, nil)
}

func intQuery(c *gin.Context, key string, def int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

func strQueryPtr(c *gin.Context, key string) *string {
	if val := strings.TrimSpace(c.Query(key)); val != "" {
		return &val
	}
	return nil
}

func uint64QueryPtr(c *gin.Context, key string) *uint64 {
	if val := strings.TrimSpace(c.Query(key)); val != "" {
		if id, err := strconv.ParseUint(val, 10, 64); err == nil && id > 0 {
			return &id
		}
	}
	return nil
}

func uint64QueryParam(c *gin.Context, key string) uint64 {
	val := strings.TrimSpace(c.Param(key))
	if val == "" {
		return 0
	}
	var out uint64
	for i := 0; i < len(val); i++ {
		ch := val[i]
		if ch < '0' || ch > '9' {
			return 0
		}
		out = out*10 + uint64(ch-'0')
	}
	return out
}

func boolPtr(v bool) *bool { return &v }

func paginationMeta(limit, offset int, total int64) map[string]any {
	if limit <= 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	hasNext := int64(offset+limit) < total
	return map[string]any{
		"limit":    limit,
		"offset":   offset,
		"total":    total,
		"has_next": hasNext,
	}
}
