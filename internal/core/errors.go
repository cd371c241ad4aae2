package core

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"target-platform/internal/types"
)

type ErrorKind string

const (
	KindUnknownEnvironment       ErrorKind = "unknown_environment"
	KindInvalidDefinition        ErrorKind = "invalid_definition"
	KindRepositoryUnavailable    ErrorKind = "repository_unavailable"
	KindUnsatisfiable            ErrorKind = "unsatisfiable"
	KindCancelled                ErrorKind = "cancelled"
	KindLocationResolutionFailed ErrorKind = "location_resolution_failed"
)

// Sentinels for errors.Is. Any *ResolutionError of the same kind matches.
var (
	ErrUnknownEnvironment       = &ResolutionError{Kind: KindUnknownEnvironment}
	ErrInvalidDefinition        = &ResolutionError{Kind: KindInvalidDefinition}
	ErrRepositoryUnavailable    = &ResolutionError{Kind: KindRepositoryUnavailable}
	ErrUnsatisfiable            = &ResolutionError{Kind: KindUnsatisfiable}
	ErrCancelled                = &ResolutionError{Kind: KindCancelled}
	ErrLocationResolutionFailed = &ResolutionError{Kind: KindLocationResolutionFailed}
)

// ResolutionError is the error type of the resolution engine. The context
// fields are optional and only set where they apply.
type ResolutionError struct {
	Kind          ErrorKind
	Msg           string
	LocationIndex int
	LocationName  string
	Repository    string
	Requirement   *types.Requirement
	RequiringUnit string
	Cause         error
}

func (e *ResolutionError) Error() string {
	var parts []string
	switch e.Kind {
	case KindLocationResolutionFailed:
		label := fmt.Sprintf("location %d", e.LocationIndex)
		if e.LocationName != "" {
			label = fmt.Sprintf("%s (%s)", label, e.LocationName)
		}
		parts = append(parts, label+" failed")
	default:
		parts = append(parts, string(e.Kind))
	}
	if e.Msg != "" {
		parts = append(parts, e.Msg)
	}
	if e.Repository != "" {
		parts = append(parts, "repository "+e.Repository)
	}
	if e.Requirement != nil {
		if e.RequiringUnit != "" {
			parts = append(parts, fmt.Sprintf("%s requires %s", e.RequiringUnit, e.Requirement))
		} else {
			parts = append(parts, "requirement "+e.Requirement.String())
		}
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *ResolutionError) Unwrap() error {
	return e.Cause
}

func (e *ResolutionError) Is(target error) bool {
	t, ok := target.(*ResolutionError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Innermost follows LocationResolutionFailed wrappers down to the error
// that actually stopped the location.
func (e *ResolutionError) Innermost() *ResolutionError {
	current := e
	for current.Kind == KindLocationResolutionFailed {
		inner, ok := current.Cause.(*ResolutionError)
		if !ok {
			break
		}
		current = inner
	}
	return current
}

// Code maps the kind onto the errbuilder code space used across the CLI.
// A location failure reports the code of its cause.
func (e *ResolutionError) Code() errbuilder.ErrCode {
	switch e.Kind {
	case KindUnknownEnvironment:
		return errbuilder.CodeNotFound
	case KindInvalidDefinition:
		return errbuilder.CodeInvalidArgument
	case KindUnsatisfiable:
		return errbuilder.CodeFailedPrecondition
	case KindLocationResolutionFailed:
		if inner, ok := e.Cause.(*ResolutionError); ok {
			return inner.Code()
		}
		if e.Cause != nil {
			return errbuilder.CodeOf(e.Cause)
		}
		return errbuilder.CodeInternal
	default:
		return errbuilder.CodeInternal
	}
}

func unknownEnvironment(name string) error {
	return &ResolutionError{
		Kind: KindUnknownEnvironment,
		Msg:  fmt.Sprintf("execution environment %q is not in the profile table", name),
	}
}

func invalidDefinition(msg string, cause error) error {
	return &ResolutionError{Kind: KindInvalidDefinition, Msg: msg, Cause: cause}
}

func repositoryUnavailable(ref types.RepositoryRef, cause error) error {
	return &ResolutionError{
		Kind:       KindRepositoryUnavailable,
		Repository: ref.String(),
		Cause:      cause,
	}
}

func unsatisfiable(msg string, requiringUnit string, req *types.Requirement) error {
	return &ResolutionError{
		Kind:          KindUnsatisfiable,
		Msg:           msg,
		Requirement:   req,
		RequiringUnit: requiringUnit,
	}
}

func cancelled(cause error) error {
	return &ResolutionError{Kind: KindCancelled, Cause: cause}
}

func locationFailed(index int, loc types.Location, cause error) error {
	return &ResolutionError{
		Kind:          KindLocationResolutionFailed,
		LocationIndex: index,
		LocationName:  loc.Name,
		Cause:         cause,
	}
}
