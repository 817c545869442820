package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRSSIRingFillAndEvict(t *testing.T) {
	r := NewRSSIRing(5)
	assert.Equal(t, 0, r.Len())
	assert.Nil(t, r.Values())
	assert.Equal(t, 0, r.Last())

	for _, v := range []int{-60, -61, -62} {
		r.Push(v)
	}
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []int{-60, -61, -62}, r.Values())
	assert.Equal(t, -62, r.Last())

	r.Push(-63)
	r.Push(-64)
	r.Push(-65) // evicts -60
	r.Push(-66) // evicts -61
	assert.Equal(t, 5, r.Len())
	assert.Equal(t, []int{-62, -63, -64, -65, -66}, r.Values())
	assert.Equal(t, -66, r.Last())
}

func TestRSSIRingClone(t *testing.T) {
	r := NewRSSIRing(3)
	r.Push(-70)
	r.Push(-71)

	cp := r.Clone()
	r.Push(-72)
	r.Push(-73)

	assert.Equal(t, []int{-70, -71}, cp.Values())
	assert.Equal(t, []int{-71, -72, -73}, r.Values())
}
