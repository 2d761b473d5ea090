package async

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCancellationSignal_EmitDeliversOnlyNewBits(t *testing.T) {
	sig := NewCancellationSignal()
	slot := sig.Slot()

	var delivered []CancellationType
	slot.OnCancel(func(bits CancellationType) {
		delivered = append(delivered, bits)
	})

	sig.Emit(CancelPartial)
	sig.Emit(CancelPartial) // idempotent, no new bits
	sig.Emit(CancelPartial | CancelTerminal)

	require.Equal(t, []CancellationType{CancelPartial, CancelTerminal}, delivered)
	require.True(t, slot.Cancelled().Has(CancelTerminal))
	require.True(t, slot.Cancelled().Has(CancelPartial))
}

func TestCancellationSlot_FilterForwardsRejectedBitsToParent(t *testing.T) {
	parentSig := NewCancellationSignal()
	parentSlot := parentSig.Slot()

	var parentSeen CancellationType
	parentSlot.OnCancel(func(bits CancellationType) {
		parentSeen |= bits
	})

	childSig := NewCancellationSignal()
	childSlot := childSig.Slot()
	childSlot.SetParent(parentSlot)
	childSlot.SetFilter(EnableTerminalCancellation) // only accepts Terminal

	var childSeen CancellationType
	childSlot.OnCancel(func(bits CancellationType) {
		childSeen |= bits
	})

	childSig.Emit(CancelPartial | CancelTerminal)

	require.Equal(t, CancelTerminal, childSeen)
	require.Equal(t, CancelPartial, parentSeen)
}

func TestCancellationSlot_ResetClearsTriggeredState(t *testing.T) {
	sig := NewCancellationSignal()
	slot := sig.Slot()

	sig.Emit(CancelTotal)
	require.True(t, slot.Cancelled().Any(cancelAll))

	slot.Reset()
	require.Equal(t, CancelNone, slot.Cancelled())
	require.NoError(t, slot.ThrowIfCancelled())
}

func TestCancellationSlot_DoneChannelClosesOnce(t *testing.T) {
	sig := NewCancellationSignal()
	slot := sig.Slot()

	sig.Emit(CancelTerminal)
	<-slot.Done()
	sig.Emit(CancelTerminal) // idempotent re-emit must not panic on double-close
	<-slot.Done()
}

func TestCancellationSlot_ThrowIfCancelled(t *testing.T) {
	sig := NewCancellationSignal()
	slot := sig.Slot()

	require.NoError(t, slot.ThrowIfCancelled())

	sig.Emit(CancelPartial)
	err := slot.ThrowIfCancelled()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrCancelled)
}

func TestCancellationSignal_SlotReplacesPrevious(t *testing.T) {
	sig := NewCancellationSignal()
	first := sig.Slot()
	second := sig.Slot()

	var firstCalled, secondCalled bool
	first.OnCancel(func(CancellationType) { firstCalled = true })
	second.OnCancel(func(CancellationType) { secondCalled = true })

	sig.Emit(CancelTerminal)

	require.False(t, firstCalled)
	require.True(t, secondCalled)
}
