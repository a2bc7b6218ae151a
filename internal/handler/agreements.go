package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"catena/internal/repository"
	"catena/internal/service"
)

type AgreementHandler struct {
	Repo    repository.Repository
	Service *service.AgreementService
}

func (h *AgreementHandler) Register(r *gin.Engine) {
	g := r.Group("/api/v1/agreements")
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("/:id/sign", h.sign)
	g.POST("/:id/contract", h.attachContract)
}

type createAgreementRequest struct {
	CustomerID    string `json:"customer_id" binding:"required"`
	DistributorID string `json:"distributor_id" binding:"required"`

	EffectiveDate time.Time `json:"effective_date" binding:"required"`
	ExpiryDate    time.Time `json:"expiry_date" binding:"required"`
	PriceSetDate  time.Time `json:"price_set_date"`

	RequestDatePrior   int             `json:"request_date_prior"`
	SupplyFailTime     string          `json:"supply_fail_time"`
	AnnualBaseQuantity decimal.Decimal `json:"annual_base_quantity"`
	PenaltyPercentage  decimal.Decimal `json:"penalty_percentage"`
	CapPercentage      decimal.Decimal `json:"cap_percentage"`

	QualitySpecification string         `json:"quality_specification"`
	SiteTable            datatypes.JSON `json:"site_table"`
	PriceTable           datatypes.JSON `json:"price_table"`
	RebateTable          datatypes.JSON `json:"rebate_table"`
}

func (h *AgreementHandler) create(c *gin.Context) {
	var req createAgreementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	agreement, err := h.Service.Create(c.Request.Context(), service.CreateAgreementInput{
		CustomerID:           req.CustomerID,
		DistributorID:        req.DistributorID,
		EffectiveDate:        req.EffectiveDate,
		ExpiryDate:           req.ExpiryDate,
		PriceSetDate:         req.PriceSetDate,
		RequestDatePrior:     req.RequestDatePrior,
		SupplyFailTime:       req.SupplyFailTime,
		AnnualBaseQuantity:   req.AnnualBaseQuantity,
		PenaltyPercentage:    req.PenaltyPercentage,
		CapPercentage:        req.CapPercentage,
		QualitySpecification: req.QualitySpecification,
		SiteTable:            req.SiteTable,
		PriceTable:           req.PriceTable,
		RebateTable:          req.RebateTable,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, agreement, nil)
}

func (h *AgreementHandler) list(c *gin.Context) {
	params := repository.ListAgreementsParams{
		Limit:         intQuery(c, "limit", 50),
		Offset:        intQuery(c, "offset", 0),
		State:         strQueryPtr(c, "state"),
		CustomerID:    strQueryPtr(c, "customer_id"),
		DistributorID: strQueryPtr(c, "distributor_id"),
		OrderBy:       "created_at",
		Asc:           boolPtr(false),
	}
	items, err := h.Repo.ListAgreements(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountAgreements(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(params.Limit, params.Offset, total))
}

func (h *AgreementHandler) get(c *gin.Context) {
	id := uint64QueryParam(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	agreement, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, agreement, nil)
}

type signAgreementRequest struct {
	Party string `json:"party" binding:"required"`
}

func (h *AgreementHandler) sign(c *gin.Context) {
	id := uint64QueryParam(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req signAgreementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	agreement, err := h.Service.Sign(c.Request.Context(), id, req.Party)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, agreement, nil)
}

type attachContractRequest struct {
	ContractID string `json:"contract_id" binding:"required"`
	ResourceID string `json:"resource_id"`
}

func (h *AgreementHandler) attachContract(c *gin.Context) {
	id := uint64QueryParam(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var req attachContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	agreement, err := h.Service.AttachContractBinding(c.Request.Context(), id, req.ContractID, req.ResourceID)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, agreement, nil)
}
