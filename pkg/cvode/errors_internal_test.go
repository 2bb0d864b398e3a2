package cvode

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odelab/cvode-go/internal/bindings"
)

func TestStepErrorMapsNativeFlags(t *testing.T) {
	cases := []struct {
		flag int
		want error
	}{
		{bindings.FlagTooMuchWork, ErrTooMuchWork},
		{bindings.FlagTooMuchAcc, ErrTooMuchAccuracy},
		{bindings.FlagErrFailure, ErrStepFailure},
		{bindings.FlagConvFailure, ErrConvergenceFailure},
		{bindings.FlagRhsFuncFail, ErrUnrecoverableRhs},
		{bindings.FlagFirstRhsErr, ErrUnrecoverableRhs},
		{bindings.FlagUnrecRhsErr, ErrUnrecoverableRhs},
		{bindings.FlagReptdRhsErr, ErrRepeatedRhsFailures},
		{bindings.FlagSensRhsFail, ErrUnrecoverableRhs},
		{bindings.FlagUnrecSensErr, ErrUnrecoverableRhs},
		{bindings.FlagReptdSensErr, ErrRepeatedRhsFailures},
		{bindings.FlagTooClose, ErrTooClose},
		{bindings.FlagLSetupFail, ErrNative},
		{bindings.FlagMemFail, ErrNative},
	}
	for _, tc := range cases {
		err := stepError("CVode", tc.flag)
		require.ErrorIs(t, err, tc.want, "flag %d", tc.flag)
		require.Contains(t, err.Error(), "CVode")
	}
}

func TestRemapInit(t *testing.T) {
	require.NoError(t, remapInit(nil))

	err := remapInit(bindings.ErrNotBuilt)
	require.ErrorIs(t, err, ErrNotBuilt)
	require.False(t, errors.Is(err, ErrInit))

	err = remapInit(&bindings.CallError{Func: "CVodeCreate"})
	require.ErrorIs(t, err, ErrInit)
	require.Contains(t, err.Error(), "CVodeCreate")
}

func TestRhsResultEncoding(t *testing.T) {
	require.Equal(t, 0, int(RhsOK))
	require.Equal(t, 5, int(Recoverable(5)))
	require.Equal(t, -5, int(Unrecoverable(5)))
}
