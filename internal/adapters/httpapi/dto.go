package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/sandys-snack-club/snack-club-api/internal/app/summary"
	"github.com/sandys-snack-club/snack-club-api/internal/domain"
)

// --- request bodies ---

type createRequestBody struct {
	SnackName string `json:"snackName"`
	Details   string `json:"details,omitempty"`
	Source    string `json:"source,omitempty"`
}

type transitionRequestBody struct {
	Status string `json:"status"`
}

type subscriptionActionBody struct {
	Action string `json:"action"`
	UserID string `json:"userId,omitempty"`
}

type paymentBody struct {
	Paid bool    `json:"paid"`
	Note *string `json:"note,omitempty"`
}

type updateProfileBody struct {
	DisplayName nullable.Nullable[string] `json:"displayName,omitempty"`
	DietaryNote nullable.Nullable[string] `json:"dietaryNote,omitempty"`
}

type addSnackBody struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PhotoURL    string `json:"photoUrl,omitempty"`
}

// --- response bodies ---

type profileDTO struct {
	ID          string              `json:"id"`
	Email       openapi_types.Email `json:"email"`
	DisplayName string              `json:"displayName"`
	DietaryNote *string             `json:"dietaryNote"`
	Role        string              `json:"role"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

func toProfileDTO(p domain.Profile) profileDTO {
	return profileDTO{
		ID:          string(p.ID),
		Email:       openapi_types.Email(p.Email),
		DisplayName: p.DisplayName,
		DietaryNote: p.DietaryNote,
		Role:        string(p.Role),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type subscriptionDTO struct {
	UserID     string     `json:"userId"`
	Month      string     `json:"month"`
	Status     string     `json:"status"`
	Paid       bool       `json:"paid"`
	Paused     bool       `json:"paused"`
	PausedAt   *time.Time `json:"pausedAt"`
	Canceled   bool       `json:"canceled"`
	CanceledAt *time.Time `json:"canceledAt"`
	Note       *string    `json:"note"`
}

func toSubscriptionDTO(rec domain.SubscriptionRecord) subscriptionDTO {
	return subscriptionDTO{
		UserID:     string(rec.MemberID),
		Month:      string(rec.Period),
		Status:     string(rec.Status()),
		Paid:       rec.Paid,
		Paused:     rec.Paused,
		PausedAt:   rec.PausedAt,
		Canceled:   rec.Canceled,
		CanceledAt: rec.CanceledAt,
		Note:       rec.Note,
	}
}

type requesterDTO struct {
	DisplayName string              `json:"displayName"`
	Email       openapi_types.Email `json:"email"`
}

type snackRequestDTO struct {
	ID        string        `json:"id"`
	Requester *requesterDTO `json:"requester"`
	SnackName string        `json:"snackName"`
	Details   *string       `json:"details"`
	Source    *string       `json:"source"`
	Status    string        `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func toSnackRequestDTO(req domain.RequestWithRequester) snackRequestDTO {
	dto := snackRequestDTO{
		ID:        string(req.ID),
		SnackName: req.SnackName,
		Details:   req.Details,
		Source:    req.Source,
		Status:    string(req.Status),
		CreatedAt: req.CreatedAt,
		UpdatedAt: req.UpdatedAt,
	}
	if req.Requester != nil {
		dto.Requester = &requesterDTO{
			DisplayName: req.Requester.DisplayName,
			Email:       openapi_types.Email(req.Requester.Email),
		}
	}
	return dto
}

func toSnackRequestDTOs(reqs []domain.RequestWithRequester) []snackRequestDTO {
	out := make([]snackRequestDTO, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, toSnackRequestDTO(req))
	}
	return out
}

type catalogItemDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	PhotoURL    *string   `json:"photoUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toCatalogItemDTO(item domain.CatalogItem) catalogItemDTO {
	return catalogItemDTO{
		ID:          string(item.ID),
		Name:        item.Name,
		Description: item.Description,
		PhotoURL:    item.PhotoRef,
		CreatedAt:   item.CreatedAt,
	}
}

type memberRowDTO struct {
	Profile      profileDTO      `json:"profile"`
	Subscription subscriptionDTO `json:"subscription"`
}

type adminSummaryDTO struct {
	Month          string         `json:"month"`
	Members        []memberRowDTO `json:"members"`
	TotalMembers   int            `json:"totalMembers"`
	PaidMembers    int            `json:"paidMembers"`
	PendingMembers int            `json:"pendingMembers"`
	PaymentRate    int            `json:"paymentRate"`
	CatalogCount   int            `json:"catalogCount"`
}

type dashboardDTO struct {
	Subscription subscriptionDTO  `json:"subscription"`
	Snacks       []catalogItemDTO `json:"snacks"`
}

func toDashboardDTO(d summary.MemberDashboard) dashboardDTO {
	snacks := make([]catalogItemDTO, 0, len(d.Snacks))
	for _, item := range d.Snacks {
		snacks = append(snacks, toCatalogItemDTO(item))
	}
	return dashboardDTO{
		Subscription: toSubscriptionDTO(d.Subscription),
		Snacks:       snacks,
	}
}

func toAdminSummaryDTO(s summary.AdminSummary) adminSummaryDTO {
	rows := make([]memberRowDTO, 0, len(s.Members))
	for _, row := range s.Members {
		rows = append(rows, memberRowDTO{
			Profile:      toProfileDTO(row.Profile),
			Subscription: toSubscriptionDTO(row.Subscription),
		})
	}
	return adminSummaryDTO{
		Month:          string(s.Period),
		Members:        rows,
		TotalMembers:   s.TotalMembers,
		PaidMembers:    s.PaidMembers,
		PendingMembers: s.PendingMembers,
		PaymentRate:    s.PaymentRate,
		CatalogCount:   s.CatalogCount,
	}
}
