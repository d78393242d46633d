package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequenceAdvancesOncePerCall(t *testing.T) {
	var seq sequence
	never := func(int) bool { return false }

	assert.Equal(t, 1, seq.nextOfferID(never))
	assert.Equal(t, 2, seq.nextOfferID(never))
	assert.Equal(t, 1, seq.nextOrderID(never))
	assert.Equal(t, 1, seq.nextTransactionID(never))
	assert.Equal(t, 2, seq.nextTransactionID(never))
}

func TestSequenceProbesPastTakenIDs(t *testing.T) {
	var seq sequence
	taken := map[int]bool{1: true, 2: true, 4: true}

	id := seq.nextOfferID(func(v int) bool { return taken[v] })
	assert.Equal(t, 3, id)

	// The counter advanced once, not to the probed id: the next call
	// starts from 2 and probes upward again.
	id = seq.nextOfferID(func(v int) bool { return taken[v] })
	assert.Equal(t, 3, id)
}
