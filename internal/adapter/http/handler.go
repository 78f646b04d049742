package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"soloville/internal/app/action"
	"soloville/internal/app/citizen"
	"soloville/internal/app/craft"
	"soloville/internal/app/dwelling"
	"soloville/internal/app/history"
	"soloville/internal/app/ledger"
	"soloville/internal/app/ports"
	"soloville/internal/domain/village"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const actorHeader = "X-Actor"

type Handler struct {
	CitizenUC  citizen.UseCase
	ActionUC   action.UseCase
	CraftUC    craft.UseCase
	DwellingUC dwelling.UseCase
	HistoryUC  history.UseCase
	Ledger     ledger.Ledger
	KPI        kpiSnapshotProvider
	Limiter    *CitizenLimiter

	// AllowOrigin is the CORS origin; empty allows any.
	AllowOrigin string
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(h.AllowOrigin), requestIDMiddleware())

	api := s.Group("/api")
	api.POST("/citizens", h.register)
	api.GET("/citizens", h.listCitizens)
	api.GET("/recipes/:product", h.recipe)

	c := api.Group("/citizens/:name")
	c.GET("", h.status)
	c.GET("/balances/:resource", h.balance)
	c.GET("/history", h.history)
	c.GET("/craft/:product", h.canCraft)

	limited := c.Group("", h.Limiter.middleware())
	limited.DELETE("", h.deleteCitizen)
	limited.PATCH("", h.update)
	limited.POST("/actions/:code", h.perform)
	limited.POST("/craft/:product", h.craft)
	limited.POST("/dwelling/upgrade", h.upgrade)
	limited.POST("/well", h.visitWell)
	limited.PUT("/tools/:tool", h.grantTool)

	s.GET("/ops/kpi", h.kpi)
}

type registerRequest struct {
	Name string `json:"name"`
}

// operationRequest is the optional body of every mutating economy call.
type operationRequest struct {
	RequestKey string `json:"request_key"`
}

type updateRequest struct {
	DwellingLevel *int `json:"dwelling_level"`
	Rank          *int `json:"rank"`
}

type toolRequest struct {
	Has *bool `json:"has"`
}

func (h Handler) register(c context.Context, ctx *app.RequestContext) {
	var req registerRequest
	if err := decodeJSON(ctx, &req); err != nil {
		writeError(ctx, village.ErrInvalidRequest)
		return
	}
	out, err := h.CitizenUC.Register(c, req.Name, actorFrom(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, out)
}

func (h Handler) listCitizens(c context.Context, ctx *app.RequestContext) {
	limit, err := queryLimit(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	out, err := h.CitizenUC.List(c, limit)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"citizens": out})
}

func (h Handler) status(c context.Context, ctx *app.RequestContext) {
	out, err := h.CitizenUC.Status(c, ctx.Param("name"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) deleteCitizen(c context.Context, ctx *app.RequestContext) {
	if err := h.CitizenUC.Delete(c, ctx.Param("name"), actorFrom(ctx)); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.SetStatusCode(consts.StatusNoContent)
}

func (h Handler) update(c context.Context, ctx *app.RequestContext) {
	var req updateRequest
	if err := decodeJSON(ctx, &req); err != nil {
		writeError(ctx, village.ErrInvalidRequest)
		return
	}
	// energy and well timestamps are owned by the economy operations
	if hasJSONField(ctx.Request.Body(), "energy") || hasJSONField(ctx.Request.Body(), "well_visited_at") {
		writeError(ctx, village.ErrInvalidPatch)
		return
	}
	var patch village.CitizenPatch
	if req.DwellingLevel != nil {
		patch = patch.DwellingLevel(*req.DwellingLevel)
	}
	if req.Rank != nil {
		patch = patch.Rank(*req.Rank)
	}
	out, err := h.CitizenUC.Update(c, ctx.Param("name"), patch, actorFrom(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) perform(c context.Context, ctx *app.RequestContext) {
	var req operationRequest
	if err := decodeJSON(ctx, &req); err != nil {
		writeError(ctx, village.ErrInvalidRequest)
		return
	}
	out, err := h.ActionUC.Perform(c, action.Request{
		CitizenName: ctx.Param("name"),
		ActionCode:  ctx.Param("code"),
		RequestKey:  req.RequestKey,
		Actor:       actorFrom(ctx),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) craft(c context.Context, ctx *app.RequestContext) {
	var req operationRequest
	if err := decodeJSON(ctx, &req); err != nil {
		writeError(ctx, village.ErrInvalidRequest)
		return
	}
	out, err := h.CraftUC.Craft(c, craft.Request{
		CitizenName: ctx.Param("name"),
		ProductCode: ctx.Param("product"),
		RequestKey:  req.RequestKey,
		Actor:       actorFrom(ctx),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) canCraft(c context.Context, ctx *app.RequestContext) {
	out, err := h.CraftUC.CanCraft(c, ctx.Param("name"), ctx.Param("product"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) upgrade(c context.Context, ctx *app.RequestContext) {
	var req operationRequest
	if err := decodeJSON(ctx, &req); err != nil {
		writeError(ctx, village.ErrInvalidRequest)
		return
	}
	out, err := h.DwellingUC.Upgrade(c, dwelling.Request{
		CitizenName: ctx.Param("name"),
		RequestKey:  req.RequestKey,
		Actor:       actorFrom(ctx),
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) visitWell(c context.Context, ctx *app.RequestContext) {
	out, err := h.CitizenUC.VisitWell(c, ctx.Param("name"), actorFrom(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) grantTool(c context.Context, ctx *app.RequestContext) {
	var req toolRequest
	if err := decodeJSON(ctx, &req); err != nil {
		writeError(ctx, village.ErrInvalidRequest)
		return
	}
	has := true
	if req.Has != nil {
		has = *req.Has
	}
	name, tool := ctx.Param("name"), ctx.Param("tool")
	if err := h.CitizenUC.GrantTool(c, name, tool, has, actorFrom(ctx)); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{
		"citizen": name,
		"tool":    strings.ToLower(strings.TrimSpace(tool)),
		"has":     has,
	})
}

func (h Handler) balance(c context.Context, ctx *app.RequestContext) {
	name, code := ctx.Param("name"), ctx.Param("resource")
	qty, err := h.Ledger.BalanceOf(c, name, code)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{
		"citizen":  name,
		"resource": code,
		"quantity": qty,
	})
}

func (h Handler) history(c context.Context, ctx *app.RequestContext) {
	limit, err := queryLimit(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	out, err := h.HistoryUC.List(c, history.Request{CitizenName: ctx.Param("name"), Limit: limit})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) recipe(c context.Context, ctx *app.RequestContext) {
	product := ctx.Param("product")
	text, err := h.CraftUC.Describe(c, product)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]string{
		"product":     product,
		"description": text,
	})
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		ctx.JSON(consts.StatusOK, map[string]any{})
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

// queryLimit parses ?limit=; absent means zero, which the use cases default.
func queryLimit(ctx *app.RequestContext) (int, error) {
	raw := strings.TrimSpace(ctx.Query("limit"))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, village.ErrInvalidRequest
	}
	return v, nil
}

func actorFrom(ctx *app.RequestContext) string {
	return strings.TrimSpace(string(ctx.GetHeader(actorHeader)))
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func hasJSONField(body []byte, key string) bool {
	if len(body) == 0 {
		return false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return false
	}
	_, ok := m[key]
	return ok
}

func writeError(ctx *app.RequestContext, err error) {
	var shortErr *village.InsufficientResourcesError
	switch {
	case errors.As(err, &shortErr):
		writeErrorDetails(ctx, consts.StatusConflict, "insufficient_resources", err.Error(), map[string]any{
			"missing": shortErr.Missing,
		})
	case errors.Is(err, ErrRateLimited):
		writeErrorBody(ctx, consts.StatusTooManyRequests, "rate_limited", err.Error())
	case errors.Is(err, village.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, village.ErrInvalidPatch):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_patch", err.Error())
	case errors.Is(err, village.ErrCitizenNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "citizen_not_found", err.Error())
	case errors.Is(err, village.ErrActionNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "action_not_found", err.Error())
	case errors.Is(err, village.ErrResourceNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "resource_not_found", err.Error())
	case errors.Is(err, village.ErrToolNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "tool_not_found", err.Error())
	case errors.Is(err, village.ErrProductNotFabricable):
		writeErrorBody(ctx, consts.StatusUnprocessableEntity, "product_not_fabricable", err.Error())
	case errors.Is(err, village.ErrCitizenExists):
		writeErrorBody(ctx, consts.StatusConflict, "citizen_exists", err.Error())
	case errors.Is(err, village.ErrInsufficientEnergy):
		writeErrorBody(ctx, consts.StatusConflict, "insufficient_energy", err.Error())
	case errors.Is(err, village.ErrInsufficientResources):
		writeErrorBody(ctx, consts.StatusConflict, "insufficient_resources", err.Error())
	case errors.Is(err, village.ErrDwellingMaxLevel):
		writeErrorBody(ctx, consts.StatusConflict, "dwelling_max_level", err.Error())
	case errors.Is(err, ports.ErrStorageFailure):
		writeErrorBody(ctx, consts.StatusInternalServerError, "storage_failure", "storage failure")
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func writeErrorDetails(ctx *app.RequestContext, status int, code, message string, details map[string]any) {
	ctx.JSON(status, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
