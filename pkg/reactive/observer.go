package reactive

// Observer is the hidden marker attached to an observed container. It owns
// the container Dep used for key additions, deletions and array mutations.
type Observer struct {
	rt      *Runtime
	value   any
	dep     *Dep
	vmCount int
}

// Dep returns the container Dep.
func (ob *Observer) Dep() *Dep {
	return ob.dep
}

// Value returns the observed container.
func (ob *Observer) Value() any {
	return ob.value
}

// ReleaseRoot decrements the root-instance count.
func (ob *Observer) ReleaseRoot() {
	if ob.vmCount > 0 {
		ob.vmCount--
	}
}

// Observe attaches an Observer to value. It returns the existing observer
// when value is already observed, and nil for non-containers, frozen
// containers, or while observation is toggled off. asRoot marks the
// container as an instance's root data.
func (rt *Runtime) Observe(value any, asRoot bool) *Observer {
	var ob *Observer
	switch v := value.(type) {
	case *Object:
		if v == nil {
			return nil
		}
		if v.ob != nil {
			ob = v.ob
		} else if rt.shouldObserve && !v.frozen {
			ob = &Observer{rt: rt, value: v, dep: rt.NewDep()}
			v.ob = ob
			ob.walk(v)
		}
	case *Array:
		if v == nil {
			return nil
		}
		if v.ob != nil {
			ob = v.ob
		} else if rt.shouldObserve && !v.frozen {
			ob = &Observer{rt: rt, value: v, dep: rt.NewDep()}
			v.ob = ob
			ob.observeArray(v.items)
		}
	default:
		return nil
	}
	if asRoot && ob != nil {
		ob.vmCount++
	}
	return ob
}

func (ob *Observer) walk(o *Object) {
	for _, k := range o.keys {
		e := o.entries[k]
		if e.acc != nil {
			continue
		}
		ob.rt.defineReactive(o, k, e.val, false, nil)
	}
}

func (ob *Observer) observeArray(items []any) {
	for _, v := range items {
		ob.rt.Observe(v, false)
	}
}

// accessor is the tracked getter/setter pair installed on an observed field.
type accessor struct {
	rt           *Runtime
	dep          *Dep
	val          any
	childOb      *Observer
	shallow      bool
	customSetter func()
}

func (a *accessor) get() any {
	if a.rt.target != nil {
		a.dep.Depend()
		if a.childOb != nil {
			a.childOb.dep.Depend()
			if arr, ok := a.val.(*Array); ok {
				dependArray(arr)
			}
		}
	}
	return a.val
}

func (a *accessor) set(newVal any) {
	newVal = toContainer(newVal)
	if sameValue(a.val, newVal) {
		return
	}
	if a.customSetter != nil {
		a.customSetter()
	}
	a.val = newVal
	if !a.shallow {
		a.childOb = a.rt.Observe(newVal, false)
	}
	a.dep.Notify()
}

// dependArray registers the active watcher on every observed element of an
// array, recursively, since element reads cannot be intercepted.
func dependArray(arr *Array) {
	for _, e := range arr.items {
		switch c := e.(type) {
		case *Object:
			if c.ob != nil {
				c.ob.dep.Depend()
			}
		case *Array:
			if c.ob != nil {
				c.ob.dep.Depend()
			}
			dependArray(c)
		}
	}
}

// DefineReactive installs a tracked field key on obj holding val. A shallow
// field does not observe its value. Fields on frozen objects are left alone.
func (rt *Runtime) DefineReactive(obj *Object, key string, val any, shallow bool) {
	rt.defineReactive(obj, key, val, shallow, nil)
}

// DefineReactiveWithSetter is DefineReactive with a hook invoked before each
// effective write, used to warn about writes to read-only instance fields.
func (rt *Runtime) DefineReactiveWithSetter(obj *Object, key string, val any, shallow bool, customSetter func()) {
	rt.defineReactive(obj, key, val, shallow, customSetter)
}

func (rt *Runtime) defineReactive(obj *Object, key string, val any, shallow bool, customSetter func()) {
	if obj == nil || obj.frozen {
		return
	}
	val = toContainer(val)
	acc := &accessor{
		rt:           rt,
		dep:          rt.NewDep(),
		val:          val,
		shallow:      shallow,
		customSetter: customSetter,
	}
	if !shallow {
		acc.childOb = rt.Observe(val, false)
	}
	if obj.entries == nil {
		obj.entries = make(map[string]*entry)
	}
	e, ok := obj.entries[key]
	if !ok {
		obj.keys = append(obj.keys, key)
		e = &entry{}
		obj.entries[key] = e
	}
	e.val = nil
	e.acc = acc
}

// FieldDep returns the Dep of the tracked field key, or nil.
func (o *Object) FieldDep(key string) *Dep {
	if e, ok := o.entries[key]; ok && e.acc != nil {
		return e.acc.dep
	}
	return nil
}
