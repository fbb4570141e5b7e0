// Package authz is the authorization gate. It classifies a resolved profile
// against a requested action and target. It is a pure function with no side
// effects; every state-machine entry point calls it before mutating.
package authz

import "github.com/sandys-snack-club/snack-club-api/internal/domain"

// Action enumerates everything the gate can be asked about.
type Action string

const (
	// ActionReadOwn covers reading one's own subscription record or request list.
	ActionReadOwn Action = "read_own"
	// ActionReadAll covers reading another member's data or listing all
	// members/requests.
	ActionReadAll Action = "read_all"
	// ActionTransitionRequest covers mutating a snack request's status.
	ActionTransitionRequest Action = "transition_request"
	// ActionMutateSubscription covers pause/cancel/reactivate on a
	// subscription record.
	ActionMutateSubscription Action = "mutate_subscription"
	// ActionMarkPayment covers toggling the paid flag on any record.
	ActionMarkPayment Action = "mark_payment"
	// ActionManageCatalog covers adding items to the shared catalog.
	ActionManageCatalog Action = "manage_catalog"
)

// ReasonInsufficientRole is the only deny reason the gate produces.
const ReasonInsufficientRole = "InsufficientRole"

// Decision is the gate's verdict.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision        { return Decision{Allowed: true} }
func deny(r string) Decision { return Decision{Reason: r} }

// Authorize decides whether actor may perform action against target.
//
// Rules, evaluated in order:
//  1. reading one's own data is always allowed
//  2. reading others' data requires admin
//  3. transitioning a request requires admin
//  4. mutating another member's subscription requires admin
//  5. mutating one's own subscription is allowed unconditionally
//
// A same-identity target always takes the self-service rule, even when the
// actor is an admin.
func Authorize(actor domain.Profile, action Action, target domain.ProfileID) Decision {
	self := target == "" || target == actor.ID

	switch action {
	case ActionReadOwn:
		return allow()
	case ActionReadAll:
		if actor.IsAdmin() {
			return allow()
		}
		return deny(ReasonInsufficientRole)
	case ActionTransitionRequest, ActionMarkPayment, ActionManageCatalog:
		if actor.IsAdmin() {
			return allow()
		}
		return deny(ReasonInsufficientRole)
	case ActionMutateSubscription:
		if self || actor.IsAdmin() {
			return allow()
		}
		return deny(ReasonInsufficientRole)
	default:
		return deny(ReasonInsufficientRole)
	}
}
