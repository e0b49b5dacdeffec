package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/officechores/duty-api/entity"
	"github.com/officechores/duty-api/repository"
)

// DutyStore is the data access the duty endpoints need.
type DutyStore interface {
	List(ctx context.Context, limit int) ([]entity.DutyResponse, error)
	MostRecentByType(ctx context.Context, dutyType entity.DutyType) (*entity.DutyResponse, error)
	SetCompleted(ctx context.Context, id int, dutyType entity.DutyType, completed bool) error
}

// MemberStore is the data access the roster endpoints need.
type MemberStore interface {
	ListActive(ctx context.Context, coffeeDrinkersOnly bool) ([]entity.Member, error)
	Create(ctx context.Context, p entity.NewMemberPayload) error
	Update(ctx context.Context, p entity.UpdateMemberPayload) error
	Deactivate(ctx context.Context, id int) error
}

// RecentDutyCache caches the most recent duty per type. May be nil when no
// cache is configured.
type RecentDutyCache interface {
	Get(ctx context.Context, dutyType entity.DutyType) (*entity.DutyResponse, error)
	Set(ctx context.Context, dutyType entity.DutyType, duty *entity.DutyResponse) error
	Invalidate(ctx context.Context, dutyType entity.DutyType) error
}

type Handler struct {
	dutyStore   DutyStore
	memberStore MemberStore
	recentCache RecentDutyCache
}

func NewHandler(dutyStore DutyStore, memberStore MemberStore, recentCache RecentDutyCache) *Handler {
	return &Handler{
		dutyStore:   dutyStore,
		memberStore: memberStore,
		recentCache: recentCache,
	}
}

// NewRouter wires the full HTTP surface.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/duties", h.ListDuties)
		r.Post("/duties/complete", h.CompleteDuty)
		r.Post("/duties/uncomplete", h.UncompleteDuty)
		r.Get("/duties/recent", h.RecentDuty)

		r.Get("/members", h.ListMembers)
		r.Post("/members", h.AddMember)
		r.Put("/members", h.UpdateMember)
		r.Delete("/members", h.DeactivateMember)
	})

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondStoreError maps typed repository errors to HTTP statuses.
// notFoundMsg and conflictMsg fill the 404 and 409 bodies; everything else
// is a generic 500.
func (h *Handler) respondStoreError(w http.ResponseWriter, err error, notFoundMsg, conflictMsg string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondError(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, repository.ErrDuplicateUsername):
		respondError(w, http.StatusConflict, conflictMsg)
	default:
		slog.Error("store operation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report violations by their json field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// decodePayload reads the request body into dst and validates it. A false
// return means an error response has already been written.
func decodePayload(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "No data provided")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}

	return true
}

// validationMessage lists every violated field, not just the first.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Problem validating payload"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}

	return "Problem validating payload: " + strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "number":
		return fmt.Sprintf("%s must be a number", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
