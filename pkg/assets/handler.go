package assets

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"assetdeck/pkg/date"
	"assetdeck/pkg/response"
	"assetdeck/pkg/session"
)

type AssetHandler struct {
	service AssetService
	now     func() time.Time
}

func NewAssetHandler(service AssetService) *AssetHandler {
	return &AssetHandler{service: service, now: time.Now}
}

func (h *AssetHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/assets", h.listAssets)
	router.POST("/assets", h.createAsset)
	router.GET("/assets/folders", h.listFolders)
	router.GET("/assets/:id", h.getAsset)
	router.PUT("/assets/:id", h.updateAsset)
	router.DELETE("/assets/:id", h.deleteAsset)
	router.GET("/overview", h.overview)
}

type assetRequest struct {
	Name           string   `json:"name" example:"shop.com"`
	Type           string   `json:"type" example:"dominio"`
	Status         string   `json:"status" example:"online"`
	Cost           float64  `json:"cost" example:"12.5"`
	ExpirationDate string   `json:"expirationDate" example:"2030-01-01"`
	Tags           []string `json:"tags"`
}

func (r assetRequest) toInput() (AssetInput, error) {
	exp, err := date.Parse(r.ExpirationDate)
	if err != nil {
		return AssetInput{}, &ValidationError{Field: "expirationDate", Message: "invalid date"}
	}
	return AssetInput{
		Name:           r.Name,
		Type:           AssetType(r.Type),
		Status:         AssetStatus(r.Status),
		Cost:           r.Cost,
		ExpirationDate: exp,
		Tags:           r.Tags,
	}, nil
}

// @Summary      List assets
// @Description  Lists the signed-in account's assets in insertion order
// @Tags         assets
// @Produce      json
// @Param        q       query  string  false  "Case-insensitive match on name or tag"
// @Param        type    query  string  false  "Asset type"
// @Param        status  query  string  false  "Asset status"
// @Success      200  {object}  response.APIResponse{data=[]AssetView}
// @Failure      400  {object}  response.APIResponse
// @Failure      401  {object}  response.APIResponse
// @Router       /assets [get]
func (h *AssetHandler) listAssets(c *gin.Context) {
	filters := AssetFilters{
		Query:  c.Query("q"),
		Type:   AssetType(c.Query("type")),
		Status: AssetStatus(c.Query("status")),
	}

	list, err := h.service.ListAssets(c.Request.Context(), filters)
	if err != nil {
		h.sendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "assets fetched", NewAssetViews(list, h.now()))
}

// @Summary      Create an asset
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        request body assetRequest true "Asset"
// @Success      201  {object}  response.APIResponse{data=AssetView}
// @Failure      400  {object}  response.APIResponse
// @Failure      401  {object}  response.APIResponse
// @Failure      503  {object}  response.APIResponse
// @Router       /assets [post]
func (h *AssetHandler) createAsset(c *gin.Context) {
	var req assetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.sendError(c, err)
		return
	}

	created, err := h.service.CreateAsset(c.Request.Context(), input)
	if err != nil {
		h.sendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusCreated, true, "asset created", NewAssetView(created, h.now()))
}

// @Summary      Get an asset
// @Tags         assets
// @Produce      json
// @Param        id   path      string  true  "Asset ID"
// @Success      200  {object}  response.APIResponse{data=AssetView}
// @Failure      401  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Router       /assets/{id} [get]
func (h *AssetHandler) getAsset(c *gin.Context) {
	a, err := h.service.GetAsset(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.sendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "asset fetched", NewAssetView(a, h.now()))
}

// @Summary      Update an asset
// @Description  Replaces the editable fields. id, owner and createdAt are kept.
// @Tags         assets
// @Accept       json
// @Produce      json
// @Param        id       path  string        true  "Asset ID"
// @Param        request  body  assetRequest  true  "Asset"
// @Success      200  {object}  response.APIResponse{data=AssetView}
// @Failure      400  {object}  response.APIResponse
// @Failure      404  {object}  response.APIResponse
// @Failure      503  {object}  response.APIResponse
// @Router       /assets/{id} [put]
func (h *AssetHandler) updateAsset(c *gin.Context) {
	var req assetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendAPIResponse(c, http.StatusBadRequest, false, "invalid request payload", nil)
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.sendError(c, err)
		return
	}

	updated, err := h.service.UpdateAsset(c.Request.Context(), Asset{
		ID:             c.Param("id"),
		Name:           input.Name,
		Type:           input.Type,
		Status:         input.Status,
		Cost:           input.Cost,
		ExpirationDate: input.ExpirationDate,
		Tags:           input.Tags,
	})
	if err != nil {
		h.sendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "asset updated", NewAssetView(updated, h.now()))
}

// @Summary      Delete an asset
// @Description  Unknown ids succeed without changes
// @Tags         assets
// @Produce      json
// @Param        id   path      string  true  "Asset ID"
// @Success      200  {object}  response.APIResponse
// @Failure      401  {object}  response.APIResponse
// @Failure      503  {object}  response.APIResponse
// @Router       /assets/{id} [delete]
func (h *AssetHandler) deleteAsset(c *gin.Context) {
	if err := h.service.DeleteAsset(c.Request.Context(), c.Param("id")); err != nil {
		h.sendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "asset deleted", nil)
}

// @Summary      Asset folders
// @Description  One folder per asset type, empty ones included
// @Tags         assets
// @Produce      json
// @Success      200  {object}  response.APIResponse{data=[]Folder}
// @Failure      401  {object}  response.APIResponse
// @Router       /assets/folders [get]
func (h *AssetHandler) listFolders(c *gin.Context) {
	folders, err := h.service.Folders(c.Request.Context())
	if err != nil {
		h.sendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "folders fetched", folders)
}

// @Summary      Dashboard overview
// @Description  Status counts, total cost, structure readiness and urgent expirations
// @Tags         assets
// @Produce      json
// @Success      200  {object}  response.APIResponse{data=Overview}
// @Failure      401  {object}  response.APIResponse
// @Router       /overview [get]
func (h *AssetHandler) overview(c *gin.Context) {
	o, err := h.service.Overview(c.Request.Context())
	if err != nil {
		h.sendError(c, err)
		return
	}
	response.SendAPIResponse(c, http.StatusOK, true, "overview fetched", o)
}

func (h *AssetHandler) sendError(c *gin.Context, err error) {
	var verr *ValidationError
	var perr *PersistenceError
	switch {
	case errors.As(err, &verr):
		response.SendFieldErrors(c, http.StatusBadRequest, "validation failed", map[string]string{verr.Field: verr.Message})
	case errors.Is(err, session.ErrNotAuthenticated):
		response.SendAPIResponse(c, http.StatusUnauthorized, false, "sign in required", nil)
	case errors.Is(err, ErrAssetNotFound):
		response.SendAPIResponse(c, http.StatusNotFound, false, "asset not found", nil)
	case errors.As(err, &perr):
		response.SendAPIResponse(c, http.StatusServiceUnavailable, false, "changes may not be saved", nil)
	default:
		response.SendAPIResponse(c, http.StatusInternalServerError, false, err.Error(), nil)
	}
}
