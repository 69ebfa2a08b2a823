package pson

import (
	"github.com/protoson/pson/arena"
)

// Containers are singly linked, append-only sequences. Appending walks from
// the head, so it is O(n) in the current length; the format targets small
// transient messages that are built once and iterated once, not large
// documents under random access. There is no removal and no reverse
// traversal.

type node[T any] struct {
	item T
	next *node[T]
}

type list[T any] struct {
	head *node[T]
}

// createItem appends a zero item at the tail and returns a pointer to it
// for the caller to populate.
func (l *list[T]) createItem() *T {
	n := &node[T]{}
	if l.head == nil {
		l.head = n
	} else {
		last := l.head
		for last.next != nil {
			last = last.next
		}
		last.next = n
	}
	return &n.item
}

func (l *list[T]) len() int {
	n := 0
	for cur := l.head; cur != nil; cur = cur.next {
		n++
	}
	return n
}

type cursor[T any] struct {
	cur *node[T]
}

// Valid reports whether the cursor is on an item.
func (c *cursor[T]) Valid() bool {
	return c.cur != nil
}

// Next advances the cursor and reports whether it moved.
func (c *cursor[T]) Next() bool {
	if c.cur == nil {
		return false
	}
	c.cur = c.cur.next
	return true
}

func (c *cursor[T]) item() *T {
	return &c.cur.item
}

// Pair is a named value, the item type of Object. The name is stored
// NUL-terminated in allocator memory.
type Pair struct {
	name []byte
	val  Value
}

// Name returns the pair's name.
func (p *Pair) Name() string {
	if len(p.name) == 0 {
		return ""
	}
	return string(p.name[:len(p.name)-1])
}

// Value returns the pair's value.
func (p *Pair) Value() *Value {
	return &p.val
}

// nameEquals compares the stored name against s without copying.
func (p *Pair) nameEquals(s string) bool {
	return len(p.name) == len(s)+1 && string(p.name[:len(s)]) == s
}

// setName stores a NUL-terminated copy of name in allocator memory.
func (p *Pair) setName(name string, alloc arena.Allocator) {
	buf := alloc.Allocate(len(name) + 1)
	copy(buf, name)
	buf[len(name)] = 0
	p.name = buf
}

// Object is an ordered sequence of named values. Field lookup is a linear
// scan over the pair list.
type Object struct {
	alloc arena.Allocator
	items list[Pair]
}

// Len returns the number of pairs.
func (o *Object) Len() int {
	return o.items.len()
}

// Get returns the value stored under name, or false when no pair matches.
func (o *Object) Get(name string) (*Value, bool) {
	for it := o.Items(); it.Valid(); it.Next() {
		if it.Pair().nameEquals(name) {
			return it.Pair().Value(), true
		}
	}
	return nil, false
}

// Field returns the value stored under name, appending a new null pair when
// none exists. Assigning through the returned value is the update path:
// writing the same name twice mutates one pair instead of duplicating it.
func (o *Object) Field(name string) *Value {
	if v, ok := o.Get(name); ok {
		return v
	}
	p := o.append()
	p.setName(name, o.alloc)
	return &p.val
}

// append creates a new tail pair without checking for duplicates. The
// decoder uses it directly; deduplication happens only through Field.
func (o *Object) append() *Pair {
	p := o.items.createItem()
	p.val.alloc = o.alloc
	return p
}

// Items returns a forward-only cursor over the pairs in insertion order.
func (o *Object) Items() ObjectIterator {
	return ObjectIterator{cursor[Pair]{o.items.head}}
}

// ObjectIterator walks an Object's pairs front to back.
type ObjectIterator struct {
	cursor[Pair]
}

// Pair returns the pair under the cursor.
func (it *ObjectIterator) Pair() *Pair {
	return it.item()
}

// Array is an ordered sequence of values. Appending never deduplicates.
type Array struct {
	alloc arena.Allocator
	items list[Value]
}

// Len returns the number of values.
func (a *Array) Len() int {
	return a.items.len()
}

// Add appends a new null value at the tail and returns it for the caller to
// populate.
func (a *Array) Add() *Value {
	v := a.items.createItem()
	v.alloc = a.alloc
	return v
}

// Values returns a forward-only cursor over the values in insertion order.
func (a *Array) Values() ArrayIterator {
	return ArrayIterator{cursor[Value]{a.items.head}}
}

// ArrayIterator walks an Array's values front to back.
type ArrayIterator struct {
	cursor[Value]
}

// Value returns the value under the cursor.
func (it *ArrayIterator) Value() *Value {
	return it.item()
}
