package models

import "errors"

var (
	ErrInvalidForm          = errors.New("submitted form is invalid")
	ErrNoOrganization       = errors.New("requested organization does not exist")
	ErrOrganizationCreation = errors.New("organization could not be created")
	ErrIdentityCreation     = errors.New("user identity could not be created")
	ErrMembershipCreation   = errors.New("user could not be added to organization")
	ErrDuplicate            = errors.New("record already exists")
	ErrReference            = errors.New("referenced record does not exist")
)
