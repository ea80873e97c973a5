package domain

import "errors"

var (
	ErrNameRequired         = errors.New("organization name is required")
	ErrOwnerRequired        = errors.New("organization owner is required")
	ErrSlugRequired         = errors.New("organization slug is required")
	ErrSlugTaken            = errors.New("organization slug is taken")
	ErrOwnerHasOrganization = errors.New("user already belongs to an organization")
	ErrNotFound             = errors.New("organization not found")
	ErrInvalidExtension     = errors.New("trial extension must be at least one day")
	ErrCustomerRefRequired  = errors.New("payment customer reference is required")
)
