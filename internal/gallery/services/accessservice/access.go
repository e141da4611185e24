package accessservice

import (
	"errors"

	"github.com/Antonov75/gallery_service/internal/gallery/domain/models"
	"github.com/google/uuid"
)

var (
	ErrEmailNotVerified = errors.New("email is not verified")
	ErrForbidden        = errors.New("operation is not allowed")
)

// Owned is any resource carrying an owner pivot.
type Owned interface {
	Owner() uuid.UUID
}

// Grant proves that Authorize passed for one action on behalf of one
// user. Mutating service entry points demand a Grant, so they cannot be
// reached without the access check. The zero Grant permits nothing.
type Grant struct {
	action  models.Action
	userID  uuid.UUID
	granted bool
}

func (g Grant) Permits(a models.Action) bool {
	return g.granted && g.action == a
}

func (g Grant) UserID() uuid.UUID {
	return g.userID
}

// Authorize evaluates action for user. With item == nil this is the
// general shape used for creation: the user must be verified and the
// role must grant the action. With an item it is the operation shape:
// superuser status, a role grant, and ownership are each sufficient
// alone.
//
// The verification check runs first in both shapes so an unverified
// identity never learns whether it would have been permitted.
func Authorize(action models.Action, user models.User, item Owned) (Grant, error) {
	if !user.IsVerified {
		return Grant{}, ErrEmailNotVerified
	}

	if item == nil {
		if !user.Permission.Allows(action) {
			return Grant{}, ErrForbidden
		}

		return grant(action, user), nil
	}

	if user.IsSuperuser || user.Permission.Allows(action) || user.ID == item.Owner() {
		return grant(action, user), nil
	}

	return Grant{}, ErrForbidden
}

func grant(action models.Action, user models.User) Grant {
	return Grant{
		action:  action,
		userID:  user.ID,
		granted: true,
	}
}
