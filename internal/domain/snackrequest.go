package domain

import "time"

// RequestStatus is the triage lifecycle state of a snack request.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestAccepted  RequestStatus = "accepted"
	RequestFulfilled RequestStatus = "fulfilled"
	RequestDeclined  RequestStatus = "declined"
)

// AllRequestStatuses lists every valid status in display order.
var AllRequestStatuses = []RequestStatus{
	RequestPending,
	RequestAccepted,
	RequestFulfilled,
	RequestDeclined,
}

// ParseRequestStatus maps a wire value onto the status enum.
// Unknown values are rejected, never coerced.
func ParseRequestStatus(s string) (RequestStatus, bool) {
	switch RequestStatus(s) {
	case RequestPending, RequestAccepted, RequestFulfilled, RequestDeclined:
		return RequestStatus(s), true
	}
	return "", false
}

// requestTransitions is the exhaustive triage transition table.
// Any (from, to) pair not listed here is invalid.
var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestPending:   {RequestAccepted, RequestFulfilled, RequestDeclined},
	RequestAccepted:  {RequestFulfilled, RequestPending, RequestDeclined},
	RequestFulfilled: {RequestPending},
	RequestDeclined:  {RequestPending},
}

// CanTransitionRequest reports whether a request may move from one status to
// another per the triage table.
func CanTransitionRequest(from, to RequestStatus) bool {
	for _, next := range requestTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Input bounds for member-supplied request fields.
const (
	MaxSnackNameLength = 120
	MaxTextFieldLength = 500
)

// SnackRequest is a member's ask for an item to be added to the catalog.
// RequesterID is immutable after creation; Status only moves via the triage
// transition table, and UpdatedAt advances on every status write.
type SnackRequest struct {
	ID          RequestID
	RequesterID ProfileID

	SnackName string
	Details   *string
	Source    *string

	Status RequestStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RequesterRef is the profile summary embedded alongside a request in read
// views. It is nil when the requester profile row is missing.
type RequesterRef struct {
	DisplayName string
	Email       string
}

// RequestWithRequester pairs a request with its requester summary for read
// surfaces.
type RequestWithRequester struct {
	SnackRequest
	Requester *RequesterRef
}
