package event

import (
	"reflect"
	"slices"
	"sort"
)

// registry maps an event type to its listeners, highest priority first.
// Buckets are copy-on-write: a slice handed out by bucket is never modified,
// so dispatches iterate their snapshot without holding any lock.
// registry is not safe for concurrent use; Dispatcher guards it.
type registry struct {
	buckets map[reflect.Type][]*listener
}

func newRegistry() registry {
	return registry{buckets: make(map[reflect.Type][]*listener)}
}

// insert places l after every entry whose priority is >= l.priority,
// keeping equal priorities in registration order.
func (r *registry) insert(l *listener) {
	old := r.buckets[l.id.rt]
	i := sort.Search(len(old), func(i int) bool {
		return old[i].priority < l.priority
	})
	r.buckets[l.id.rt] = slices.Concat(old[:i], []*listener{l}, old[i:])
}

// remove deletes the entry with id and reports whether it was present.
func (r *registry) remove(id ListenerID) bool {
	old := r.buckets[id.rt]
	for i, l := range old {
		if l.id != id {
			continue
		}
		if len(old) == 1 {
			delete(r.buckets, id.rt)
		} else {
			r.buckets[id.rt] = slices.Concat(old[:i], old[i+1:])
		}
		return true
	}
	return false
}

func (r *registry) bucket(rt reflect.Type) []*listener {
	return r.buckets[rt]
}

func (r *registry) count(rt reflect.Type) int {
	return len(r.buckets[rt])
}

func (r *registry) total() int {
	n := 0
	for _, b := range r.buckets {
		n += len(b)
	}
	return n
}

func (r *registry) clear() {
	r.buckets = make(map[reflect.Type][]*listener)
}
