package driver

// Option configures a Driver.
type Option func(*Driver)

// Observer is called after every completed cycle.
type Observer func(Snapshot) error

// WithMaxCycles bounds the number of cycles a Driver will execute. Zero
// means unbounded.
func WithMaxCycles(n int) Option {
	return func(d *Driver) {
		d.maxCycles = n
	}
}

// WithWorkers sets the number of workers ticking cells in parallel.
func WithWorkers(n int) Option {
	return func(d *Driver) {
		d.workers = n
	}
}

// WithObserver registers a per-cycle observer. Observers run in registration
// order; an observer error stops the run.
func WithObserver(o Observer) Option {
	return func(d *Driver) {
		d.observers = append(d.observers, o)
	}
}
