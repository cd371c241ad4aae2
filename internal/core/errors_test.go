package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"

	"target-platform/internal/types"
)

func TestResolutionErrorCodes(t *testing.T) {
	loc := types.Location{Name: "main"}
	cases := []struct {
		name string
		err  *ResolutionError
		want errbuilder.ErrCode
	}{
		{"unknown environment", unknownEnvironment("X").(*ResolutionError), errbuilder.CodeNotFound},
		{"invalid definition", invalidDefinition("bad", nil).(*ResolutionError), errbuilder.CodeInvalidArgument},
		{"repository unavailable", repositoryUnavailable(types.RepositoryRef{Location: "r"}, nil).(*ResolutionError), errbuilder.CodeInternal},
		{"unsatisfiable", unsatisfiable("x", "", nil).(*ResolutionError), errbuilder.CodeFailedPrecondition},
		{"cancelled", cancelled(context.Canceled).(*ResolutionError), errbuilder.CodeInternal},
		{"location inherits", locationFailed(0, loc, unsatisfiable("x", "", nil)).(*ResolutionError), errbuilder.CodeFailedPrecondition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.err.Code())
		})
	}
}

func TestResolutionErrorIsThroughWrapping(t *testing.T) {
	inner := unsatisfiable("no provider", "app/1.0.0", &types.Requirement{Namespace: "package", Name: "p"})
	outer := fmt.Errorf("resolve: %w", locationFailed(2, types.Location{Name: "main"}, inner))

	assert.True(t, errors.Is(outer, ErrUnsatisfiable))
	assert.True(t, errors.Is(outer, ErrLocationResolutionFailed))
	assert.False(t, errors.Is(outer, ErrRepositoryUnavailable))
	assert.Equal(t,
		"resolve: location 2 (main) failed: unsatisfiable: no provider: app/1.0.0 requires package:p",
		outer.Error())
}

func TestResolutionErrorWithoutLocationName(t *testing.T) {
	err := locationFailed(0, types.Location{}, cancelled(context.Canceled))
	assert.Equal(t, "location 0 failed: cancelled: context canceled", err.Error())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestResolutionErrorInnermost(t *testing.T) {
	inner := unsatisfiable("no unit matches seed", "", nil)
	wrapped := locationFailed(2, types.Location{Name: "extras"}, inner).(*ResolutionError)
	assert.Equal(t, KindUnsatisfiable, wrapped.Innermost().Kind)

	opaque := locationFailed(0, types.Location{}, errors.New("boom")).(*ResolutionError)
	assert.Equal(t, KindLocationResolutionFailed, opaque.Innermost().Kind)
}
