package set

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBits(t *testing.T) {
	s := MakeBits[int]()

	assert.Equal(t, 0, s.Size())
	assert.Equal(t, -1, s.First())

	s.Set(200)
	s.Set(3)
	s.Set(70)

	assert.True(t, s.IsSet(3))
	assert.True(t, s.IsSet(70))
	assert.True(t, s.IsSet(200))
	assert.False(t, s.IsSet(4))
	assert.False(t, s.IsSet(1000))
	assert.False(t, s.IsSet(-1))
	assert.Equal(t, 3, s.Size())
	assert.Equal(t, 3, s.First())

	var got []int
	s.Range(func(k int) bool {
		got = append(got, k)
		return true
	})

	assert.Equal(t, []int{3, 70, 200}, got)
}

func TestBitsCopySubstract(t *testing.T) {
	a := MakeBits[int]()
	a.Set(1)
	a.Set(2)
	a.Set(130)

	c := a.Copy()
	c.Set(300)

	assert.Equal(t, 4, c.Size())
	assert.Equal(t, 3, a.Size(), "copy must not alias")

	c.Substract(a)

	assert.Equal(t, 1, c.Size())
	assert.Equal(t, 300, c.First())

	b := MakeBits[int]()
	b.Set(2)

	b.Substract(c)
	assert.True(t, b.IsSet(2), "shorter set is left as is")
}

func TestBitsTlogAppend(t *testing.T) {
	var s Bits[int]

	assert.NotEmpty(t, s.TlogAppend(nil))

	s.Set(5)

	assert.NotEmpty(t, s.TlogAppend(nil))
}
