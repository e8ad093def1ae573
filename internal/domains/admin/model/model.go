package model

import (
	"time"

	"hotel/shared/model"
)

const (
	TableName  = "admins"
	EntityName = "admin"

	FieldID        = "id"
	FieldUsername  = "username"
	FieldLastLogin = "last_login"
)

// Admin is a back office account. Admins are provisioned by migration only.
type Admin struct {
	ID        string     `db:"id"`
	Username  string     `db:"username"`
	Password  string     `db:"password"`
	Name      string     `db:"name"`
	LastLogin *time.Time `db:"last_login"`
	model.Metadata
}
