package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Strategy("unknown strategy"), http.StatusBadRequest},
		{NotFound("no such item"), http.StatusNotFound},
		{ConstraintConflict("duplicate key"), http.StatusConflict},
		{CycleDetected("a -> b -> a"), http.StatusUnprocessableEntity},
		{DepthExceeded("too deep"), http.StatusUnprocessableEntity},
		{Store(errors.New("connection refused")), http.StatusInternalServerError},
		{errors.New("untyped"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Status(c.err), "error: %v", c.err)
	}
}

func TestStoreNeverLeaksCause(t *testing.T) {
	cause := errors.New("pq: password authentication failed for user admin")
	err := Store(cause)

	env := From(err)
	assert.False(t, env.Success)
	assert.Equal(t, CodeStore, env.Code)
	assert.NotContains(t, env.Detail, "password")

	// The cause stays reachable for server-side logging.
	assert.True(t, errors.Is(err, cause))
}

func TestFromWrappedError(t *testing.T) {
	err := fmt.Errorf("calculating cost: %w", CycleDetected("item X is its own ancestor"))

	assert.Equal(t, CodeCycleDetected, CodeOf(err))
	env := From(err)
	assert.Equal(t, CodeCycleDetected, env.Code)
	assert.Equal(t, "item X is its own ancestor", env.Detail)
}

func TestFromUntypedErrorIsOpaque(t *testing.T) {
	env := From(errors.New("driver: bad connection"))

	assert.Equal(t, CodeStore, env.Code)
	assert.Equal(t, "internal error", env.Detail)
}
