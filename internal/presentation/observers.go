package presentation

type observer struct {
	id int
	fn func()
}

type observers struct {
	next int
	list []observer
}

func (o *observers) add(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	o.next++
	id := o.next
	o.list = append(o.list, observer{id: id, fn: fn})
	return func() { o.remove(id) }
}

func (o *observers) remove(id int) {
	for i, ob := range o.list {
		if ob.id == id {
			o.list = append(o.list[:i:i], o.list[i+1:]...)
			return
		}
	}
}

// fire runs a snapshot so observers may unsubscribe while firing.
func (o *observers) fire() {
	for _, ob := range append([]observer(nil), o.list...) {
		ob.fn()
	}
}

func (o *observers) len() int { return len(o.list) }
