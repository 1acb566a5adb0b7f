package entreprise

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/entreprise-registry/internal/observability"
	"github.com/odyssey-erp/entreprise-registry/internal/platform/httpx"
)

const (
	maxFormBytes  = 1 << 20
	maxFormMemory = 1 << 20
	nameField     = "Name"
)

// Handler serves the v1 entreprise endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
	metrics   *observability.Metrics
}

// NewHandler constructs a Handler instance. metrics may be nil.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
		metrics:   metrics,
	}
}

// MountRoutes registers the v1 routes. Registration accepts every method so that
// non-POST requests still get the JSON envelope.
func (h *Handler) MountRoutes(r chi.Router) {
	r.HandleFunc("/registerEntreprise", h.Register)
	r.HandleFunc("/registerEntreprise.php", h.Register)
	r.Get("/entreprises", h.List)
	r.Get("/entreprises/{id}", h.Show)
}

// Register handles POST /v1/registerEntreprise.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	created, err := h.register(w, r)
	h.respondRegistration(w, created, err)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) (Entreprise, error) {
	if r.Method != http.MethodPost {
		return Entreprise{}, ErrInvalidMethod
	}
	req, err := h.bindRegistration(w, r)
	if err != nil {
		return Entreprise{}, err
	}
	return h.service.Register(r.Context(), req, middleware.GetReqID(r.Context()))
}

func (h *Handler) respondRegistration(w http.ResponseWriter, created Entreprise, err error) {
	switch {
	case err == nil:
		h.metrics.ObserveRegistration(ResultCreated.String())
		h.logger.Info("entreprise registered", slog.Int64("id", created.ID))
		httpx.OK(w, http.StatusCreated, MessageRegistered)
	case errors.Is(err, ErrInvalidMethod):
		h.metrics.ObserveRegistration("invalid_method")
		w.Header().Set("Allow", http.MethodPost)
		httpx.Fail(w, http.StatusMethodNotAllowed, MessageInvalidRequest)
	case errors.Is(err, ErrMissingField):
		h.metrics.ObserveRegistration("missing_field")
		httpx.Fail(w, http.StatusBadRequest, MessageMissingFields)
	case errors.Is(err, ErrPersistence):
		h.metrics.ObserveRegistration(ResultFailed.String())
		h.logger.Error("register entreprise failed", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, MessageFailed)
	default:
		h.metrics.ObserveRegistration(ResultUnknown.String())
		h.logger.Error("register entreprise returned unknown result", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, MessageFailed)
	}
}

// bindRegistration reads the Name field from a urlencoded or multipart body.
func (h *Handler) bindRegistration(w http.ResponseWriter, r *http.Request) (RegistrationRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.logger.Warn("parse registration form", slog.Any("error", err))
		return RegistrationRequest{}, ErrMissingField
	}
	values, present := r.PostForm[nameField]
	if !present || len(values) == 0 {
		return RegistrationRequest{}, ErrMissingField
	}
	req := RegistrationRequest{Name: NormalizeName(values[0])}
	if err := h.validator.Struct(req); err != nil {
		return RegistrationRequest{}, ErrMissingField
	}
	return req, nil
}

// List handles GET /v1/entreprises.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	page, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list entreprises failed", slog.Any("error", err))
		httpx.RespondError(w, err, MessageNotFound)
		return
	}
	httpx.JSON(w, http.StatusOK, struct {
		Error bool `json:"error"`
		Page
	}{Page: page})
}

// Show handles GET /v1/entreprises/{id}.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid entreprise ID")
		return
	}

	e, err := h.service.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, httpx.ErrNotFound) {
			h.logger.Error("get entreprise failed", slog.Any("error", err), slog.Int64("id", id))
		}
		httpx.RespondError(w, err, MessageNotFound)
		return
	}
	httpx.JSON(w, http.StatusOK, struct {
		Error      bool       `json:"error"`
		Entreprise Entreprise `json:"entreprise"`
	}{Entreprise: e})
}
