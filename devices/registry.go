package devices

import "fmt"

// Registry holds the robot's devices in load order.
type Registry struct {
	order []Device
	byID  map[string]Device
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]Device)}
}

// Register adds d. Ids must be unique and exactly two characters.
func (r *Registry) Register(d Device) error {
	if err := validID(d.ID()); err != nil {
		return err
	}
	if _, dup := r.byID[d.ID()]; dup {
		return fmt.Errorf("%w: duplicate device id %q", ErrConfig, d.ID())
	}
	r.order = append(r.order, d)
	r.byID[d.ID()] = d
	return nil
}

// Lookup finds a device by id.
func (r *Registry) Lookup(id string) (Device, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// All returns the devices in load order. The slice is shared.
func (r *Registry) All() []Device { return r.order }

// Update runs the per-frame update of every Updater.
func (r *Registry) Update(env *Environment) {
	for _, d := range r.order {
		if u, ok := d.(Updater); ok {
			u.Update(env)
		}
	}
}
