package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/pixil98/go-farm/internal/farm"
)

type Handler struct {
	Farms *Registry
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	farms := s.Group("/api/farms")
	farms.POST("", h.create)
	farms.GET("/:id", h.get)
	farms.POST("/:id/actions", h.act)
	farms.DELETE("/:id", h.remove)
}

type createRequest struct {
	Resume string `json:"resume,omitempty"`
}

type createResponse struct {
	ID    string    `json:"id"`
	State StateView `json:"state"`
}

type actionRequest struct {
	Type  string `json:"type"`
	DRow  int    `json:"drow,omitempty"`
	DCol  int    `json:"dcol,omitempty"`
	Row   *int   `json:"row,omitempty"`
	Col   *int   `json:"col,omitempty"`
	Plant string `json:"plant,omitempty"`
	Slot  int    `json:"slot,omitempty"`
}

type actionResponse struct {
	State  StateView   `json:"state"`
	Reaped *farm.Plant `json:"reaped,omitempty"`
	// Won is set on the action that crossed the win threshold.
	Won bool `json:"won"`
}

func (h Handler) create(c context.Context, ctx *app.RequestContext) {
	var body createRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	id, view, err := h.Farms.Create(c, body.Resume)
	if err != nil {
		writeError(c, ctx, err)
		return
	}

	ctx.JSON(consts.StatusCreated, createResponse{ID: id, State: view})
}

func (h Handler) get(c context.Context, ctx *app.RequestContext) {
	view, err := h.Farms.Do(c, ctx.Param("id"), nil)
	if err != nil {
		writeError(c, ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, view)
}

func (h Handler) act(c context.Context, ctx *app.RequestContext) {
	var body actionRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	var resp actionResponse
	view, err := h.Farms.Do(c, ctx.Param("id"), func(g *farm.Game) error {
		before, _ := g.History().Depth()

		reaped, err := apply(c, g, body)
		if err != nil {
			return err
		}

		after, _ := g.History().Depth()
		resp.Reaped = reaped
		resp.Won = after > before && g.JustWon()
		return nil
	})
	if err != nil {
		writeError(c, ctx, err)
		return
	}

	resp.State = view
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) remove(c context.Context, ctx *app.RequestContext) {
	if err := h.Farms.Close(c, ctx.Param("id")); err != nil {
		writeError(c, ctx, err)
		return
	}

	ctx.SetStatusCode(consts.StatusNoContent)
}

// apply runs one action. It returns the harvested plant for reap.
func apply(ctx context.Context, g *farm.Game, req actionRequest) (*farm.Plant, error) {
	if req.Slot < 0 {
		return nil, fmt.Errorf("%w: slots are numbered from 1", ErrInvalidInput)
	}

	switch req.Type {
	case "move":
		if req.DRow == 0 && req.DCol == 0 {
			return nil, fmt.Errorf("%w: move needs drow or dcol", ErrInvalidInput)
		}
		return nil, g.Move(ctx, req.DRow, req.DCol)
	case "move_to":
		if req.Row == nil || req.Col == nil {
			return nil, fmt.Errorf("%w: move_to needs row and col", ErrInvalidInput)
		}
		return nil, g.MoveTo(ctx, farm.GridPoint{Row: *req.Row, Col: *req.Col})
	case "sow":
		return nil, g.Sow(ctx)
	case "reap":
		p, err := g.Reap(ctx)
		if err != nil {
			return nil, err
		}
		return &p, nil
	case "select":
		t, err := farm.ParsePlantType(req.Plant)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
		}
		return nil, g.SelectInventoryPlant(ctx, t)
	case "advance":
		g.AdvanceDay(ctx)
		return nil, nil
	case "undo":
		return nil, g.Undo(ctx)
	case "redo":
		return nil, g.Redo(ctx)
	case "save":
		g.SetSlot(req.Slot)
		return nil, g.Save(ctx, 0)
	case "load":
		g.SetSlot(req.Slot)
		_, err := g.Load(ctx, 0)
		return nil, err
	case "erase":
		g.SetSlot(req.Slot)
		return nil, g.Erase(ctx, 0)
	case "new":
		g.NewGame(ctx)
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: unknown action type %q", ErrInvalidInput, req.Type)
	}
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

type errorMapping struct {
	err    error
	status int
	code   string
}

// errorMappings is checked in order; the first match wins.
var errorMappings = []errorMapping{
	{ErrInvalidInput, consts.StatusBadRequest, "invalid_input"},
	{ErrFarmNotFound, consts.StatusNotFound, "farm_not_found"},
	{ErrFarmInUse, consts.StatusConflict, "farm_in_use"},
	{farm.ErrSlotEmpty, consts.StatusNotFound, "slot_empty"},
	{farm.ErrNothingToErase, consts.StatusNotFound, "nothing_to_erase"},
	{farm.ErrOutOfBounds, consts.StatusConflict, "out_of_bounds"},
	{farm.ErrNoSelection, consts.StatusConflict, "no_selection"},
	{farm.ErrCellOccupied, consts.StatusConflict, "cell_occupied"},
	{farm.ErrNoSeeds, consts.StatusConflict, "no_seeds"},
	{farm.ErrNoPlant, consts.StatusConflict, "no_plant"},
	{farm.ErrFirstState, consts.StatusConflict, "first_state"},
	{farm.ErrLastState, consts.StatusConflict, "last_state"},
	{farm.ErrBug, consts.StatusInternalServerError, "bug"},
	{farm.ErrSaveVerify, consts.StatusInternalServerError, "save_verify_failed"},
	{farm.ErrEraseVerify, consts.StatusInternalServerError, "erase_verify_failed"},
	{farm.ErrCorruptRecord, consts.StatusInternalServerError, "corrupt_record"},
}

func writeError(c context.Context, ctx *app.RequestContext, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			if m.status >= consts.StatusInternalServerError {
				slog.ErrorContext(c, "farm request failed", "code", m.code, "error", err)
			}
			writeErrorBody(ctx, m.status, m.code, err.Error())
			return
		}
	}

	slog.ErrorContext(c, "farm request failed", "error", err)
	writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
