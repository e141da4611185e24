package models

import (
	"time"

	"github.com/google/uuid"
)

// Action names one capability-gated operation. The set is closed:
// anything outside the declared constants is never granted.
type Action string

const (
	ActionAddImage      Action = "add_image"
	ActionUpdateImage   Action = "update_image"
	ActionDeleteImage   Action = "delete_image"
	ActionAddTag        Action = "add_tag"
	ActionUpdateTag     Action = "update_tag"
	ActionDeleteTag     Action = "delete_tag"
	ActionAddComment    Action = "add_comment"
	ActionUpdateComment Action = "update_comment"
	ActionDeleteComment Action = "delete_comment"
)

// Permission is one seeded role with its capability flags.
// Rows are seed data; request flow never creates or mutates them.
type Permission struct {
	ID               int    `json:"id"`
	RoleName         string `json:"role_name"`          //nolint:tagliatelle
	CanAddImage      bool   `json:"can_add_image"`      //nolint:tagliatelle
	CanUpdateImage   bool   `json:"can_update_image"`   //nolint:tagliatelle
	CanDeleteImage   bool   `json:"can_delete_image"`   //nolint:tagliatelle
	CanAddTag        bool   `json:"can_add_tag"`        //nolint:tagliatelle
	CanUpdateTag     bool   `json:"can_update_tag"`     //nolint:tagliatelle
	CanDeleteTag     bool   `json:"can_delete_tag"`     //nolint:tagliatelle
	CanAddComment    bool   `json:"can_add_comment"`    //nolint:tagliatelle
	CanUpdateComment bool   `json:"can_update_comment"` //nolint:tagliatelle
	CanDeleteComment bool   `json:"can_delete_comment"` //nolint:tagliatelle
}

// Allows reports whether the role grants action. Total over Action:
// an unknown action is never granted.
func (p Permission) Allows(a Action) bool {
	switch a {
	case ActionAddImage:
		return p.CanAddImage
	case ActionUpdateImage:
		return p.CanUpdateImage
	case ActionDeleteImage:
		return p.CanDeleteImage
	case ActionAddTag:
		return p.CanAddTag
	case ActionUpdateTag:
		return p.CanUpdateTag
	case ActionDeleteTag:
		return p.CanDeleteTag
	case ActionAddComment:
		return p.CanAddComment
	case ActionUpdateComment:
		return p.CanUpdateComment
	case ActionDeleteComment:
		return p.CanDeleteComment
	default:
		return false
	}
}

type User struct {
	ID           uuid.UUID  `json:"user_id"` //nolint:tagliatelle
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	IsVerified   bool       `json:"is_verified"`  //nolint:tagliatelle
	IsSuperuser  bool       `json:"is_superuser"` //nolint:tagliatelle
	AccessLevel  int        `json:"access_level"` //nolint:tagliatelle
	Permission   Permission `json:"permission"`
	CreatedAt    time.Time  `json:"created_at"` //nolint:tagliatelle
}
