// Package update advances primitive state across one clock edge.
//
// Every stateful cell computes its next state from the current state and its
// settled inputs. Next states are written into a back buffer and the buffers
// are swapped only after every cell succeeded, so no cell ever observes
// another cell's next state. Cells can be ticked by a bounded pool of
// workers; the outcome does not depend on the worker count.
package update
