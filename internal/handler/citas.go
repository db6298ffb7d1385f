package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"citas-admin/internal/middleware"
	"citas-admin/internal/notify"
	"citas-admin/internal/remote"
)

// CitaHandler proxies record operations to the forms backend and
// broadcasts advisory notifications after successful mutations.
type CitaHandler struct {
	Citas  *remote.CitaAPI
	Bridge *notify.Bridge
}

func NewCitaHandler(citas *remote.CitaAPI, bridge *notify.Bridge) *CitaHandler {
	return &CitaHandler{Citas: citas, Bridge: bridge}
}

// Create accepts a public submission; applicants file records without an
// account, so this endpoint sits outside the authenticated group.
func (h *CitaHandler) Create(c echo.Context) error {
	var req remote.CreateCitaRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ok, err := h.Citas.Create(c.Request().Context(), req)
	if err != nil {
		return apiError(c, err)
	}
	h.announce(c, fmt.Sprintf("new %s received from %s", req.Type, req.Name))
	return c.JSON(http.StatusCreated, echo.Map{"success": ok})
}

// List pages through records. ?owner=me narrows the listing to records
// assigned to the calling operator.
func (h *CitaHandler) List(c echo.Context) error {
	page := queryInt(c, "page", 1)
	size := queryInt(c, "pageSize", 10)
	searchBy := c.QueryParam("searchBy")

	var ownerID *int64
	if c.QueryParam("owner") == "me" {
		id, _ := middleware.CurrentIdentity(c)
		ownerID = &id.ID
	}

	result, err := h.Citas.GetAll(c.Request().Context(), page, size, searchBy, ownerID)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// Get fetches one record.
func (h *CitaHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	cita, err := h.Citas.GetByID(c.Request().Context(), id)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"form": cita})
}

// History fetches a record's audit trail.
func (h *CitaHandler) History(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	history, err := h.Citas.GetHistoryByID(c.Request().Context(), id)
	if err != nil {
		return apiError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"historyForm": history})
}

// Update applies a partial update; the operator's username travels as the
// audit author.
func (h *CitaHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req remote.UpdateCitaRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.ID = id

	operator, _ := middleware.CurrentIdentity(c)
	ok, err := h.Citas.Update(c.Request().Context(), req, operator.Username, "")
	if err != nil {
		return apiError(c, err)
	}
	h.announce(c, fmt.Sprintf("record %d updated by %s", id, operator.Username))
	return c.JSON(http.StatusOK, echo.Map{"success": ok})
}

// Assign puts the record in the calling operator's pool; only they will
// see it in their owner-scoped listing afterwards.
func (h *CitaHandler) Assign(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	operator, _ := middleware.CurrentIdentity(c)

	ok, err := h.Citas.Update(c.Request().Context(), remote.UpdateCitaRequest{
		ID:     id,
		UserID: remote.Some(operator.ID),
	}, operator.Username, "")
	if err != nil {
		return apiError(c, err)
	}
	h.announce(c, fmt.Sprintf("record %d assigned to %s", id, operator.Username))
	return c.JSON(http.StatusOK, echo.Map{"success": ok})
}

// Release returns the record to the general pool by clearing its owner;
// only the ownership field changes.
func (h *CitaHandler) Release(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	operator, _ := middleware.CurrentIdentity(c)

	ok, err := h.Citas.Update(c.Request().Context(), remote.UpdateCitaRequest{
		ID:     id,
		UserID: remote.Null[int64](),
	}, operator.Username, "")
	if err != nil {
		return apiError(c, err)
	}
	h.announce(c, fmt.Sprintf("record %d released by %s", id, operator.Username))
	return c.JSON(http.StatusOK, echo.Map{"success": ok})
}

// Delete removes a record.
func (h *CitaHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ok, err := h.Citas.Delete(c.Request().Context(), id)
	if err != nil {
		return apiError(c, err)
	}
	h.announce(c, fmt.Sprintf("record %d deleted", id))
	return c.JSON(http.StatusOK, echo.Map{"success": ok})
}

// announce is fire-and-forget: a failed broadcast is logged by the bridge
// and never affects the response.
func (h *CitaHandler) announce(c echo.Context, message string) {
	_ = h.Bridge.Publish(c.Request().Context(), message)
}

func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func queryInt(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
