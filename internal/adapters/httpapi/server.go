package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sandys-snack-club/snack-club-api/internal/app/apperr"
	"github.com/sandys-snack-club/snack-club-api/internal/app/catalog"
	"github.com/sandys-snack-club/snack-club-api/internal/app/identity"
	"github.com/sandys-snack-club/snack-club-api/internal/app/snackrequest"
	"github.com/sandys-snack-club/snack-club-api/internal/app/subscription"
	"github.com/sandys-snack-club/snack-club-api/internal/app/summary"
	"github.com/sandys-snack-club/snack-club-api/internal/domain"
	clockport "github.com/sandys-snack-club/snack-club-api/internal/ports/out/clock"
)

const maxBodyBytes = 1 << 20

// Server is the HTTP adapter over the app services. Request bodies are
// decoded into strict per-endpoint schemas before any business logic runs.
type Server struct {
	Identity      *identity.Service
	Subscriptions *subscription.Service
	Requests      *snackrequest.Service
	Catalog       *catalog.Service
	Summary       *summary.Service

	Clock clockport.Clock
}

func NewServer(ids *identity.Service, subs *subscription.Service, reqs *snackrequest.Service, cat *catalog.Service, sum *summary.Service, clk clockport.Clock) *Server {
	return &Server{
		Identity:      ids,
		Subscriptions: subs,
		Requests:      reqs,
		Catalog:       cat,
		Summary:       sum,
		Clock:         clk,
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil || len(body) == 0 {
		writeError(w, r, http.StatusBadRequest, apperr.CodeValidation, "missing request body", nil)
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeError(w, r, http.StatusBadRequest, apperr.CodeValidation, "malformed JSON body", nil)
		return false
	}
	return true
}

func (s *Server) actor(w http.ResponseWriter, r *http.Request) (domain.Profile, bool) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, apperr.CodeUnauthenticated, "missing session", nil)
	}
	return actor, ok
}

// statusFilterFromQuery splits the comma-separated status query parameter.
// Unknown values are left in; the service drops them.
func statusFilterFromQuery(r *http.Request) []string {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// --- snack requests ---

func (s *Server) ListSnackRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	reqs, err := s.Requests.List(r.Context(), actor, statusFilterFromQuery(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toSnackRequestDTOs(reqs))
}

func (s *Server) CreateSnackRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	var body createRequestBody
	if !decodeBody(w, r, &body) {
		return
	}
	created, err := s.Requests.Create(r.Context(), actor, snackrequest.CreateInput{
		SnackName: body.SnackName,
		Details:   body.Details,
		Source:    body.Source,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toSnackRequestDTO(created))
}

func (s *Server) TransitionSnackRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	var body transitionRequestBody
	if !decodeBody(w, r, &body) {
		return
	}
	id := domain.RequestID(chi.URLParam(r, "id"))
	updated, err := s.Requests.Transition(r.Context(), actor, id, body.Status)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toSnackRequestDTO(updated))
}

// --- subscription status ---

func (s *Server) GetMySubscription(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	period := domain.PeriodKeyFor(s.Clock.Now())
	rec, err := s.Subscriptions.Get(r.Context(), actor, actor.ID, period)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toSubscriptionDTO(rec))
}

func (s *Server) ApplySubscriptionAction(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	var body subscriptionActionBody
	if !decodeBody(w, r, &body) {
		return
	}
	period := domain.PeriodKeyFor(s.Clock.Now())
	rec, err := s.Subscriptions.ApplyAction(r.Context(), actor, domain.ProfileID(body.UserID), period, body.Action)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toSubscriptionDTO(rec))
}

func (s *Server) SetPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	var body paymentBody
	if !decodeBody(w, r, &body) {
		return
	}
	member := domain.ProfileID(chi.URLParam(r, "userId"))
	if member == "" {
		writeError(w, r, http.StatusBadRequest, apperr.CodeValidation, "missing userId", nil)
		return
	}
	period := domain.PeriodKeyFor(s.Clock.Now())
	rec, err := s.Subscriptions.SetPaid(r.Context(), actor, member, period, body.Paid, body.Note)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toSubscriptionDTO(rec))
}

// --- profile ---

func (s *Server) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	// The auth middleware already resolved (and if needed bootstrapped) the
	// profile; this endpoint just echoes it back.
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, toProfileDTO(actor))
}

func (s *Server) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	var body updateProfileBody
	if !decodeBody(w, r, &body) {
		return
	}

	in := identity.UpdateProfileInput{}
	if body.DisplayName.IsSpecified() {
		if body.DisplayName.IsNull() {
			in.DisplayName = identity.Null[string]()
		} else if v, err := body.DisplayName.Get(); err == nil {
			in.DisplayName = identity.Some(v)
		}
	}
	if body.DietaryNote.IsSpecified() {
		if body.DietaryNote.IsNull() {
			in.DietaryNote = identity.Null[string]()
		} else if v, err := body.DietaryNote.Get(); err == nil {
			in.DietaryNote = identity.Some(v)
		}
	}

	updated, err := s.Identity.UpdateMyProfile(r.Context(), actor.ID, in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toProfileDTO(updated))
}

// --- catalog ---

func (s *Server) ListSnacks(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.actor(w, r); !ok {
		return
	}
	items, err := s.Catalog.ListSnacks(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]catalogItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toCatalogItemDTO(item))
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) AddSnack(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	var body addSnackBody
	if !decodeBody(w, r, &body) {
		return
	}
	item, err := s.Catalog.AddSnack(r.Context(), actor, catalog.AddSnackInput{
		Name:        body.Name,
		Description: body.Description,
		PhotoRef:    body.PhotoURL,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toCatalogItemDTO(item))
}

// --- read views ---

func (s *Server) AdminSummary(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	period := domain.PeriodKeyFor(s.Clock.Now())
	if m := r.URL.Query().Get("month"); m != "" {
		period = domain.PeriodKey(m)
	}
	sum, err := s.Summary.AdminSummary(r.Context(), actor, period)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toAdminSummaryDTO(sum))
}

// AdminRequests is the triage board view: all members' requests, regardless
// of requester, with the same status filter as the member-facing list.
func (s *Server) AdminRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	reqs, err := s.Summary.AdminRequestView(r.Context(), actor, statusFilterFromQuery(r))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toSnackRequestDTOs(reqs))
}

func (s *Server) MemberDashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	period := domain.PeriodKeyFor(s.Clock.Now())
	dash, err := s.Summary.MemberDashboard(r.Context(), actor, period)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toDashboardDTO(dash))
}
