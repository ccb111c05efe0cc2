package policy

import "testing"

// testNode is a minimal Node implementation for exercising List.
type testNode struct {
	k    string
	v    int
	h    uint64
	prev Node[string, int]
	next Node[string, int]
	tag  uint8
	mark bool
}

func (n *testNode) Key() string     { return n.k }
func (n *testNode) Value() *int     { return &n.v }
func (n *testNode) KeyHash() uint64 { return n.h }

func (n *testNode) Prev() Node[string, int]     { return n.prev }
func (n *testNode) SetPrev(p Node[string, int]) { n.prev = p }
func (n *testNode) Next() Node[string, int]     { return n.next }
func (n *testNode) SetNext(x Node[string, int]) { n.next = x }

func (n *testNode) Tag() uint8     { return n.tag }
func (n *testNode) SetTag(t uint8) { n.tag = t }
func (n *testNode) Mark() bool     { return n.mark }
func (n *testNode) SetMark(m bool) { n.mark = m }

// keysBackToFront collects keys walking from the back toward the front.
func keysBackToFront(l *List[string, int]) []string {
	var out []string
	for n := l.Back(); n != nil; n = n.Prev() {
		out = append(out, n.(*testNode).k)
	}
	return out
}

func TestList_PushFrontOrder(t *testing.T) {
	t.Parallel()

	var l List[string, int]
	a, b, c := &testNode{k: "a"}, &testNode{k: "b"}, &testNode{k: "c"}
	l.PushFront(a)
	l.PushFront(b)
	l.PushFront(c)

	if l.Len() != 3 {
		t.Fatalf("len = %d, want 3", l.Len())
	}
	if got := keysBackToFront(&l); got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("back-to-front order = %v", got)
	}
	if l.Front().(*testNode).k != "c" || l.Back().(*testNode).k != "a" {
		t.Fatalf("front/back = %s/%s", l.Front().(*testNode).k, l.Back().(*testNode).k)
	}
}

func TestList_MoveToFront(t *testing.T) {
	t.Parallel()

	var l List[string, int]
	a, b, c := &testNode{k: "a"}, &testNode{k: "b"}, &testNode{k: "c"}
	l.PushFront(a)
	l.PushFront(b)
	l.PushFront(c)

	l.MoveToFront(a) // back -> front
	if got := keysBackToFront(&l); got[0] != "b" || got[2] != "a" {
		t.Fatalf("after MoveToFront(a): %v", got)
	}
	l.MoveToFront(a) // already front: no-op
	if l.Front() != Node[string, int](a) || l.Len() != 3 {
		t.Fatal("MoveToFront of front must be a no-op")
	}
}

func TestList_RemoveAndPopBack(t *testing.T) {
	t.Parallel()

	var l List[string, int]
	a, b, c := &testNode{k: "a"}, &testNode{k: "b"}, &testNode{k: "c"}
	l.PushFront(a)
	l.PushFront(b)
	l.PushFront(c)

	l.Remove(b) // middle
	if got := keysBackToFront(&l); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("after Remove(b): %v", got)
	}
	if b.prev != nil || b.next != nil {
		t.Fatal("removed node must have cleared links")
	}

	if n := l.PopBack(); n.(*testNode).k != "a" {
		t.Fatalf("PopBack = %s, want a", n.(*testNode).k)
	}
	if n := l.PopBack(); n.(*testNode).k != "c" {
		t.Fatalf("PopBack = %s, want c", n.(*testNode).k)
	}
	if l.PopBack() != nil || l.Len() != 0 {
		t.Fatal("empty list must PopBack nil with len 0")
	}
}

func TestList_SingleNode(t *testing.T) {
	t.Parallel()

	var l List[string, int]
	a := &testNode{k: "a"}
	l.PushBack(a)
	if l.Front() != Node[string, int](a) || l.Back() != Node[string, int](a) {
		t.Fatal("single node must be both front and back")
	}
	l.Remove(a)
	if l.Front() != nil || l.Back() != nil || l.Len() != 0 {
		t.Fatal("list must be empty after removing the only node")
	}
}

// Unlinking a node that is not in the list is a programming error and
// must fail fast.
func TestList_RemoveDetachedPanics(t *testing.T) {
	t.Parallel()

	var l List[string, int]
	l.PushFront(&testNode{k: "a"})

	defer func() {
		if recover() == nil {
			t.Fatal("Remove of detached node must panic")
		}
	}()
	l.Remove(&testNode{k: "ghost"})
}
