package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"catena/internal/repository"
	"catena/internal/service"
)

type UpliftHandler struct {
	Repo    repository.Repository
	Service *service.UpliftService
}

func (h *UpliftHandler) Register(r *gin.Engine) {
	g := r.Group("/api/v1/uplifts")
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("/:id/confirm-collection", h.confirmCollection)
	g.POST("/:id/documents", h.addDocument)
	g.POST("/:id/locations", h.addLocation)
	g.GET("/:id/locations", h.listLocations)
}

type createUpliftRequest struct {
	RequestID uint64 `json:"request_id" binding:"required"`

	PickupTime time.Time `json:"pickup_time"`
	MABD       time.Time `json:"mabd"`

	Volume               decimal.Decimal `json:"volume" binding:"required"`
	Origin               string          `json:"origin"`
	Destination          string          `json:"destination"`
	FuelType             string          `json:"fuel_type"`
	QualitySpecification string          `json:"quality_specification"`

	TransportCompany string `json:"transport_company"`
	ManufacturerID   string `json:"manufacturer_id"`
	TransporterID    string `json:"transporter_id"`
}

func (h *UpliftHandler) create(c *gin.Context) {
	var req createUpliftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	order, err := h.Service.Create(c.Request.Context(), service.CreateUpliftOrderInput{
		RequestID:            req.RequestID,
		PickupTime:           req.PickupTime,
		MABD:                 req.MABD,
		Volume:               req.Volume,
		Origin:               req.Origin,
		Destination:          req.Destination,
		FuelType:             req.FuelType,
		QualitySpecification: req.QualitySpecification,
		TransportCompany:     req.TransportCompany,
		ManufacturerID:       req.ManufacturerID,
		TransporterID:        req.TransporterID,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, order, nil)
}

func (h *UpliftHandler) list(c *gin.Context) {
	params := repository.ListUpliftOrdersParams{
		Limit:     intQuery(c, "limit", 50),
		Offset:    intQuery(c, "offset", 0),
		RequestID: uint64QueryPtr(c, "request_id"),
		OrderBy:   "created_at",
		Asc:       boolPtr(false),
	}
	items, err := h.Repo.ListUpliftOrders(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountUpliftOrders(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(params.Limit, params.Offset, total))
}

func (h *UpliftHandler) get(c *gin.Context) {
	id := uint64QueryParam(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	order, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, order, nil)
}

func (h *UpliftHandler) confirmCollection(c *gin.Context) {
	id := uint64QueryParam(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	order, err := h.Service.ConfirmCollectionDate(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, order, nil)
}

func (h *UpliftHandler) addDocument(c *gin.Context) {
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
	order, err := h.Service.AddDocument(c.Request.Context(), id, req.Kind, req.Hash, req.URL)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, order, nil)
}

type addLocationRequest struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

func (h *UpliftHandler) addLocation(c *gin.Context) {
	id := uint64QueryParam(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req addLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	ping, err := h.Service.AddLocationPing(c.Request.Context(), id, req.Longitude, req.Latitude)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, ping, nil)
}

func (h *UpliftHandler) listLocations(c *gin.Context) {
	id := uint64QueryParam(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	pings, err := h.Service.LocationHistory(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, pings, map[string]any{"count": len(pings)})
}
