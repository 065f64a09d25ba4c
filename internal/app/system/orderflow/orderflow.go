// internal/app/system/orderflow/orderflow.go

// Package orderflow encodes the order delivery state machine as an explicit
// transition table: current status × actor role → allowed next statuses.
// Every status write goes through Validate, so an out-of-order jump
// (pendente straight to entregue, say) is rejected server-side instead of
// trusting the caller to follow the UI's sequence.
//
// Ownership (is this actually your order?) is checked separately by the
// orders feature; this package only answers whether the move itself is legal
// for the role.
package orderflow

import (
	"errors"

	"github.com/kitandahub/kitanda/internal/domain/models"
)

var (
	// ErrUnknownStatus is returned for a status outside the state machine.
	ErrUnknownStatus = errors.New("unknown order status")
	// ErrIllegalTransition is returned when next is not reachable from current.
	ErrIllegalTransition = errors.New("illegal order status transition")
	// ErrRoleNotAllowed is returned when the transition exists but the actor's
	// role may not perform it.
	ErrRoleNotAllowed = errors.New("role may not perform this transition")
)

type transition struct {
	next  string
	roles []string
}

// table lists the forward transitions. Cancellation is handled separately in
// Validate because it is reachable from every non-terminal status.
var table = map[string][]transition{
	models.StatusPendente: {
		// Admission into the delivery flow: the assigned lojista accepts the
		// order, or an admin pushes it through.
		{models.StatusAguardarLojista, []string{models.RoleLojista, models.RoleAdmin}},
	},
	models.StatusAguardarLojista: {
		// Ready for courier pickup.
		{models.StatusProntoParaRecolha, []string{models.RoleLojista}},
		// Self-delivery: the lojista skips pickup and stamps themselves as
		// courier (the orders feature writes courier_id alongside).
		{models.StatusACaminho, []string{models.RoleLojista}},
	},
	models.StatusProntoParaRecolha: {
		{models.StatusACaminho, []string{models.RoleCourier, models.RoleAdmin}},
	},
	models.StatusACaminho: {
		// The deliverer claims done; the client still has to confirm, so this
		// never jumps straight to entregue.
		{models.StatusAguardandoConfirm, []string{models.RoleCourier, models.RoleLojista}},
	},
	models.StatusAguardandoConfirm: {
		// The only success-terminal transition, and the only one gated purely
		// by client ownership.
		{models.StatusEntregue, []string{models.RoleClient}},
	},
	models.StatusEntregue:  {},
	models.StatusCancelado: {},
}

// rolesAllowedToCancel may cancel any non-terminal order they are party to.
var rolesAllowedToCancel = []string{models.RoleClient, models.RoleLojista, models.RoleAdmin}

// Known reports whether status is part of the state machine.
func Known(status string) bool {
	_, ok := table[status]
	return ok
}

// IsTerminal reports whether no further transitions leave status.
func IsTerminal(status string) bool {
	return status == models.StatusEntregue || status == models.StatusCancelado
}

// Validate checks that an actor with the given role may move an order from
// current to next. It returns nil when the move is legal, ErrUnknownStatus,
// ErrIllegalTransition, or ErrRoleNotAllowed otherwise.
func Validate(current, next, role string) error {
	if !Known(current) || !Known(next) {
		return ErrUnknownStatus
	}

	if next == models.StatusCancelado {
		if IsTerminal(current) {
			return ErrIllegalTransition
		}
		if !contains(rolesAllowedToCancel, role) {
			return ErrRoleNotAllowed
		}
		return nil
	}

	found := false
	for _, t := range table[current] {
		if t.next != next {
			continue
		}
		found = true
		if contains(t.roles, role) {
			return nil
		}
	}
	if found {
		return ErrRoleNotAllowed
	}
	return ErrIllegalTransition
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
