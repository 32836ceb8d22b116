package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids(pkgs []Package) []string {
	out := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, p.ID)
	}
	return out
}

func TestCarousel_WrapsAndSlides(t *testing.T) {
	c := NewCarousel([]Package{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"}}, 3)

	assert.Equal(t, []string{"a", "b", "c"}, ids(c.Visible()))
	cur, ok := c.Current()
	assert.True(t, ok)
	assert.Equal(t, "a", cur.ID)

	c.Prev()
	assert.Equal(t, 4, c.Index())
	assert.Equal(t, []string{"c", "d", "e"}, ids(c.Visible()))
	assert.Equal(t, 2, c.Selected())

	c.Next()
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, []string{"a", "b", "c"}, ids(c.Visible()))

	c.Next()
	c.Next()
	c.Next()
	assert.Equal(t, 3, c.Index())
	assert.Equal(t, []string{"b", "c", "d"}, ids(c.Visible()))
	assert.Equal(t, 2, c.Selected())

	c.Prev()
	c.Prev()
	assert.Equal(t, 1, c.Index())
	assert.Equal(t, []string{"b", "c", "d"}, ids(c.Visible()))
	assert.Equal(t, 0, c.Selected())
}

func TestCarousel_FewerThanVisible(t *testing.T) {
	c := NewCarousel([]Package{{ID: "a"}, {ID: "b"}}, 3)
	assert.Equal(t, []string{"a", "b"}, ids(c.Visible()))

	c.Prev()
	assert.Equal(t, 1, c.Index())
	assert.Equal(t, []string{"a", "b"}, ids(c.Visible()))
}

func TestCarousel_Empty(t *testing.T) {
	c := NewCarousel(nil, 0)
	c.Next()
	c.Prev()

	_, ok := c.Current()
	assert.False(t, ok)
	assert.Empty(t, c.Visible())
}

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp 125.000", FormatRupiah(125000))
	assert.Equal(t, "Rp 0", FormatRupiah(0))
}
