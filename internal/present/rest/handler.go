package rest

import (
	"io"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/agencyvault/agencyvault/internal/domain"
	"github.com/agencyvault/agencyvault/internal/present/rest/middleware"
	"github.com/agencyvault/agencyvault/internal/present/rest/presenter"
	"github.com/agencyvault/agencyvault/internal/usecase"
)

type Handler struct {
	document     *usecase.DocumentUsecase
	invitation   *usecase.InvitationUsecase
	renewal      *usecase.RenewalUsecase
	event        *usecase.EventUsecase
	notification *usecase.NotificationUsecase
}

func NewHandler(
	document *usecase.DocumentUsecase,
	invitation *usecase.InvitationUsecase,
	renewal *usecase.RenewalUsecase,
	event *usecase.EventUsecase,
	notification *usecase.NotificationUsecase,
) *Handler {
	return &Handler{
		document:     document,
		invitation:   invitation,
		renewal:      renewal,
		event:        event,
		notification: notification,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, auth *middleware.AuthMiddleware) {
	api := e.Group("/api", auth.RequireActor)

	api.POST("/documents", h.handleDocumentUpload)
	api.GET("/documents", h.handleDocumentList)
	api.GET("/documents/:id", h.handleDocumentGet)
	api.DELETE("/documents/:id", h.handleDocumentDelete)
	api.POST("/documents/:id/request-signature", h.handleRequestSignature)
	api.PUT("/documents/:id/mark-signed", h.handleMarkSigned)
	api.PUT("/documents/:id/status", h.handleDocumentStatus)

	api.POST("/invitations/send", h.handleInvitationSend)
	api.POST("/invitations/accept", h.handleInvitationAccept)
	api.GET("/invitations/sent", h.handleInvitationsSent)
	api.GET("/invitations/pending", h.handleInvitationsPending)
	api.PUT("/invitations/:id/revoke", h.handleInvitationRevoke)

	api.POST("/renewals", h.handleRenewalCreate)
	api.GET("/renewals/upcoming", h.handleRenewalsUpcoming)
	api.GET("/renewals/:id", h.handleRenewalGet)
	api.PUT("/renewals/:id", h.handleRenewalUpdate)
	api.DELETE("/renewals/:id", h.handleRenewalDelete)

	api.POST("/events", h.handleEventCreate)
	api.GET("/events", h.handleEventList)
	api.GET("/events/:id", h.handleEventGet)
	api.PUT("/events/:id", h.handleEventUpdate)
	api.DELETE("/events/:id", h.handleEventDelete)

	api.GET("/notifications", h.handleNotificationList)
	api.PUT("/notifications/:id/read", h.handleNotificationRead)
	api.DELETE("/notifications/clear-all", h.handleNotificationClearAll)
	api.DELETE("/notifications/:id", h.handleNotificationDelete)

	api.GET("/users/me", h.handleUsersMe)
}

func actorFrom(c echo.Context) domain.User {
	actor, _ := c.Request().Context().Value(domain.ActorCtxKey).(domain.User)
	return actor
}

// parseDate accepts both RFC3339 timestamps and bare dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func (h *Handler) handleDocumentUpload(c echo.Context) error {
	ctx := c.Request().Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return presenter.BadRequestMessage(c, "no file uploaded")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return presenter.BadRequest(c, err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	input := usecase.UploadInput{
		FileName: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Data:     data,
		Category: c.FormValue("category"),
	}
	if v := c.FormValue("expirationDate"); v != "" {
		parsed, err := parseDate(v)
		if err != nil {
			return presenter.BadRequestMessage(c, "invalid expirationDate")
		}
		input.ExpirationDate = &parsed
	}

	doc, err := h.document.Upload(ctx, actorFrom(c), input)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, doc)
}

func (h *Handler) handleDocumentList(c echo.Context) error {
	docs, err := h.document.List(c.Request().Context(), actorFrom(c))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, docs)
}

func (h *Handler) handleDocumentGet(c echo.Context) error {
	doc, err := h.document.Get(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, doc)
}

func (h *Handler) handleDocumentDelete(c echo.Context) error {
	err := h.document.Delete(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleRequestSignature(c echo.Context) error {
	var req struct {
		RecipientID string `json:"recipientId"`
		Message     string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	doc, err := h.document.RequestSignature(c.Request().Context(), actorFrom(c), c.Param("id"), req.RecipientID, req.Message)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, doc)
}

func (h *Handler) handleMarkSigned(c echo.Context) error {
	doc, err := h.document.MarkSigned(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, doc)
}

func (h *Handler) handleDocumentStatus(c echo.Context) error {
	var req struct {
		Status domain.DocumentStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	doc, err := h.document.UpdateStatus(c.Request().Context(), actorFrom(c), c.Param("id"), req.Status)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, doc)
}

func (h *Handler) handleInvitationSend(c echo.Context) error {
	var req struct {
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	inv, err := h.invitation.Send(c.Request().Context(), actorFrom(c), req.Email, req.Message)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, inv)
}

func (h *Handler) handleInvitationAccept(c echo.Context) error {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}
	if req.Token == "" {
		return presenter.BadRequestMessage(c, "token is required")
	}

	inv, err := h.invitation.Accept(c.Request().Context(), actorFrom(c), req.Token)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, inv)
}

func (h *Handler) handleInvitationsSent(c echo.Context) error {
	invs, err := h.invitation.ListSent(c.Request().Context(), actorFrom(c))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, invs)
}

func (h *Handler) handleInvitationsPending(c echo.Context) error {
	invs, err := h.invitation.ListPending(c.Request().Context(), actorFrom(c))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, invs)
}

func (h *Handler) handleInvitationRevoke(c echo.Context) error {
	inv, err := h.invitation.Revoke(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, inv)
}

func (h *Handler) handleRenewalCreate(c echo.Context) error {
	var req struct {
		UserID                string               `json:"userId"`
		ItemType              string               `json:"itemType"`
		ItemName              string               `json:"itemName"`
		CurrentExpirationDate string               `json:"currentExpirationDate"`
		NewExpirationDate     *string              `json:"newExpirationDate"`
		DocumentID            *string              `json:"documentId"`
		Status                domain.RenewalStatus `json:"status"`
		Notes                 string               `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	input := usecase.RenewalCreateInput{
		UserID:     req.UserID,
		ItemType:   req.ItemType,
		ItemName:   req.ItemName,
		DocumentID: req.DocumentID,
		Status:     req.Status,
		Notes:      req.Notes,
	}
	if req.CurrentExpirationDate != "" {
		parsed, err := parseDate(req.CurrentExpirationDate)
		if err != nil {
			return presenter.BadRequestMessage(c, "invalid currentExpirationDate")
		}
		input.CurrentExpirationDate = parsed
	}
	if req.NewExpirationDate != nil {
		parsed, err := parseDate(*req.NewExpirationDate)
		if err != nil {
			return presenter.BadRequestMessage(c, "invalid newExpirationDate")
		}
		input.NewExpirationDate = &parsed
	}

	r, err := h.renewal.Create(c.Request().Context(), actorFrom(c), input)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, r)
}

func (h *Handler) handleRenewalsUpcoming(c echo.Context) error {
	rs, err := h.renewal.GetUpcoming(c.Request().Context(), actorFrom(c))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, rs)
}

func (h *Handler) handleRenewalGet(c echo.Context) error {
	r, err := h.renewal.Get(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, r)
}

func (h *Handler) handleRenewalUpdate(c echo.Context) error {
	var req struct {
		ItemType              *string               `json:"itemType"`
		ItemName              *string               `json:"itemName"`
		CurrentExpirationDate *string               `json:"currentExpirationDate"`
		NewExpirationDate     *string               `json:"newExpirationDate"`
		DocumentID            *string               `json:"documentId"`
		Status                *domain.RenewalStatus `json:"status"`
		Notes                 *string               `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	input := usecase.RenewalUpdateInput{
		ItemType:   req.ItemType,
		ItemName:   req.ItemName,
		DocumentID: req.DocumentID,
		Status:     req.Status,
		Notes:      req.Notes,
	}
	if req.CurrentExpirationDate != nil {
		parsed, err := parseDate(*req.CurrentExpirationDate)
		if err != nil {
			return presenter.BadRequestMessage(c, "invalid currentExpirationDate")
		}
		input.CurrentExpirationDate = &parsed
	}
	if req.NewExpirationDate != nil {
		parsed, err := parseDate(*req.NewExpirationDate)
		if err != nil {
			return presenter.BadRequestMessage(c, "invalid newExpirationDate")
		}
		input.NewExpirationDate = &parsed
	}

	r, err := h.renewal.Update(c.Request().Context(), actorFrom(c), c.Param("id"), input)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, r)
}

func (h *Handler) handleRenewalDelete(c echo.Context) error {
	err := h.renewal.Delete(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

type eventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	AllDay      bool      `json:"allDay"`
	Location    string    `json:"location"`
}

func (r eventRequest) toInput() usecase.EventInput {
	return usecase.EventInput{
		Title:       r.Title,
		Description: r.Description,
		Start:       r.Start,
		End:         r.End,
		AllDay:      r.AllDay,
		Location:    r.Location,
	}
}

func (h *Handler) handleEventCreate(c echo.Context) error {
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	ev, err := h.event.Create(c.Request().Context(), actorFrom(c), req.toInput())
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, ev)
}

func (h *Handler) handleEventList(c echo.Context) error {
	evs, err := h.event.List(c.Request().Context(), actorFrom(c))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, evs)
}

func (h *Handler) handleEventGet(c echo.Context) error {
	ev, err := h.event.Get(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, ev)
}

func (h *Handler) handleEventUpdate(c echo.Context) error {
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	ev, err := h.event.Update(c.Request().Context(), actorFrom(c), c.Param("id"), req.toInput())
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, ev)
}

func (h *Handler) handleEventDelete(c echo.Context) error {
	err := h.event.Delete(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleNotificationList(c echo.Context) error {
	ns, err := h.notification.List(c.Request().Context(), actorFrom(c))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, ns)
}

func (h *Handler) handleNotificationRead(c echo.Context) error {
	n, err := h.notification.MarkRead(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, n)
}

func (h *Handler) handleNotificationClearAll(c echo.Context) error {
	err := h.notification.ClearAll(c.Request().Context(), actorFrom(c))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleNotificationDelete(c echo.Context) error {
	err := h.notification.Delete(c.Request().Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleUsersMe(c echo.Context) error {
	return presenter.OK(c, actorFrom(c))
}
