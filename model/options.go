package model

import (
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-basemodel/entity"
)

// Soft-delete defaults: rows are active while "invalid" is "N".
const (
	DefaultSoftDeleteField    = "invalid"
	DefaultSoftDeleteActive   = "N"
	DefaultSoftDeleteInactive = "Y"
)

// SoftDeletePolicy names the status column and the values that mark a row
// active or deleted.
type SoftDeletePolicy struct {
	Field    string `json:"field" yaml:"field"`
	Active   string `json:"active" yaml:"active"`
	Inactive string `json:"inactive" yaml:"inactive"`
}

// DefaultSoftDeletePolicy returns {invalid, N, Y}.
func DefaultSoftDeletePolicy() SoftDeletePolicy {
	return SoftDeletePolicy{
		Field:    DefaultSoftDeleteField,
		Active:   DefaultSoftDeleteActive,
		Inactive: DefaultSoftDeleteInactive,
	}
}

// withDefaults fills every empty member from DefaultSoftDeletePolicy.
func (p SoftDeletePolicy) withDefaults() SoftDeletePolicy {
	def := DefaultSoftDeletePolicy()
	if p.Field == "" {
		p.Field = def.Field
	}
	if p.Active == "" {
		p.Active = def.Active
	}
	if p.Inactive == "" {
		p.Inactive = def.Inactive
	}
	return p
}

// Validate checks that all members are set and the two markers differ.
func (p SoftDeletePolicy) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Field, validation.Required),
		validation.Field(&p.Active, validation.Required),
		validation.Field(&p.Inactive, validation.Required, validation.NotIn(p.Active)),
	)
}

// Options configures a Model.
type Options struct {
	// Entity is the store handle. Required.
	Entity entity.Entity
	// DisableSoftDelete makes Delete destructive and drops the active-row
	// predicate from reads.
	DisableSoftDelete bool
	// SoftDelete overrides the default policy; empty members keep defaults.
	SoftDelete SoftDeletePolicy
	// Cacher, when set, routes store calls through the cache proxy.
	Cacher entity.Cacher
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Validate checks the options after defaults are applied.
func (o Options) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Entity, validation.Required),
		validation.Field(&o.SoftDelete),
	)
}
