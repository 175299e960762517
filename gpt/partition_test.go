package gpt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Partition
		want bool
	}{
		{"identical", Partition{Start: 10, End: 20}, Partition{Start: 10, End: 20}, true},
		{"contained", Partition{Start: 10, End: 100}, Partition{Start: 40, End: 50}, true},
		{"partial front", Partition{Start: 10, End: 50}, Partition{Start: 40, End: 80}, true},
		{"partial back", Partition{Start: 40, End: 80}, Partition{Start: 10, End: 50}, true},
		{"shared endpoint", Partition{Start: 10, End: 20}, Partition{Start: 20, End: 30}, true},
		{"disjoint", Partition{Start: 10, End: 20}, Partition{Start: 21, End: 30}, false},
		{"disjoint far", Partition{Start: 2048, End: 4095}, Partition{Start: 8192, End: 16383}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a), "overlap must be symmetric")
		})
	}
}

func TestOverlapsRange(t *testing.T) {
	p := Partition{Start: 100, End: 200}
	assert.True(t, p.OverlapsRange(0, 100))
	assert.True(t, p.OverlapsRange(150, 160))
	assert.True(t, p.OverlapsRange(200, 300))
	assert.False(t, p.OverlapsRange(0, 99))
	assert.False(t, p.OverlapsRange(201, 300))
}

func TestOverlapsAny(t *testing.T) {
	parts := []Partition{
		{Start: 100, End: 200},
		{Start: 300, End: 400},
	}
	assert.True(t, Partition{Start: 150, End: 350}.OverlapsAny(parts))
	assert.True(t, Partition{Start: 400, End: 500}.OverlapsAny(parts))
	assert.False(t, Partition{Start: 201, End: 299}.OverlapsAny(parts))
	assert.False(t, Partition{Start: 201, End: 299}.OverlapsAny(nil))
}

func TestSizes(t *testing.T) {
	p := Partition{Start: 2048, End: 4096}
	assert.Equal(t, uint64(2048), p.Size())
	assert.Equal(t, uint64(2048*512), p.ByteSize(512))
	assert.Equal(t, uint64(2048*4096), p.ByteSize(4096))
	assert.True(t, p.Fits(2048))
	assert.True(t, p.Fits(4000))
	assert.False(t, p.Fits(2047))
}
