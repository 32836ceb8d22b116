package entity

// Carousel pages through packages a window at a time. Moving past either end
// wraps around.
type Carousel struct {
	items   []Package
	visible int
	index   int
	offset  int
}

func NewCarousel(items []Package, visible int) *Carousel {
	if visible < 1 {
		visible = 1
	}
	return &Carousel{items: items, visible: visible}
}

func (c *Carousel) Len() int { return len(c.items) }

// Index is the position of the current package in the full list.
func (c *Carousel) Index() int { return c.index }

// Selected is the position of the current package inside Visible.
func (c *Carousel) Selected() int { return c.index - c.offset }

func (c *Carousel) Current() (Package, bool) {
	if len(c.items) == 0 {
		return Package{}, false
	}
	return c.items[c.index], true
}

func (c *Carousel) Visible() []Package {
	end := min(c.offset+c.visible, len(c.items))
	return c.items[c.offset:end]
}

func (c *Carousel) Next() {
	n := len(c.items)
	if n == 0 {
		return
	}

	c.index = (c.index + 1) % n
	switch {
	case c.index == 0:
		c.offset = 0
	case c.index >= c.offset+c.visible:
		c.offset = c.index - c.visible + 1
	}
}

func (c *Carousel) Prev() {
	n := len(c.items)
	if n == 0 {
		return
	}

	c.index = (c.index - 1 + n) % n
	switch {
	case c.index == n-1:
		c.offset = max(0, n-c.visible)
	case c.index < c.offset:
		c.offset = c.index
	}
}
