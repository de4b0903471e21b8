package domain

import "sort"

// Cart maps a menu item id to the desired quantity. Quantities are always >= 1;
// an entry that would drop to zero is removed instead.
type Cart map[int]int

// AddToCart returns a copy of c with qty more of dish id. Non-positive qty leaves
// the cart unchanged.
func AddToCart(c Cart, id, qty int) Cart {
	next := c.clone()
	if qty <= 0 || id <= 0 {
		return next
	}
	next[id] += qty
	return next
}

// RemoveOne returns a copy of c with one unit of dish id taken away.
func RemoveOne(c Cart, id int) Cart {
	next := c.clone()
	qty, ok := next[id]
	if !ok {
		return next
	}
	if qty <= 1 {
		delete(next, id)
	} else {
		next[id] = qty - 1
	}
	return next
}

// Drop returns a copy of c without dish id regardless of its quantity.
func Drop(c Cart, id int) Cart {
	next := c.clone()
	delete(next, id)
	return next
}

func ClearCart() Cart {
	return Cart{}
}

func (c Cart) Count() int {
	n := 0
	for _, qty := range c {
		n += qty
	}
	return n
}

func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// IDs returns the dish ids in ascending order.
func (c Cart) IDs() []int {
	ids := make([]int, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (c Cart) clone() Cart {
	next := make(Cart, len(c))
	for id, qty := range c {
		next[id] = qty
	}
	return next
}
