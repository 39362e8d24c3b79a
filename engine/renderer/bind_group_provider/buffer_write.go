package bind_group_provider

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-shadow/engine/device"
)

// BufferWrite describes a single GPU buffer write operation targeting a specific binding
// on a BindGroupProvider at a byte offset relative to the start of the bound range.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// ApplyWrites queues every write on the device in order. The writes land before any command
// buffer submitted afterwards.
//
// Parameters:
//   - dev: the device whose queue receives the writes
//   - writes: the writes to apply
//
// Returns:
//   - error: the first write that fails, wrapped with its provider and binding
func ApplyWrites(dev device.Device, writes ...BufferWrite) error {
	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			return fmt.Errorf("%s binding %d: no buffer bound", w.Provider.Label(), w.Binding)
		}
		if err := dev.WriteBuffer(buf, w.Provider.BufferOffset(w.Binding)+w.Offset, w.Data); err != nil {
			return fmt.Errorf("%s binding %d: %w", w.Provider.Label(), w.Binding, err)
		}
	}
	return nil
}
