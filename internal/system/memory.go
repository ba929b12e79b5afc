package system

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"
)

// MemoryGuard checks available system memory before large batch runs.
// The policy is skip-with-warning: callers log and continue with fewer
// workers rather than failing outright.
type MemoryGuard struct {
	minFreeBytes uint64
}

// NewMemoryGuard takes the threshold in megabytes. Zero disables the guard.
func NewMemoryGuard(minFreeMB uint64) *MemoryGuard {
	return &MemoryGuard{minFreeBytes: minFreeMB * 1024 * 1024}
}

// Check reports available memory and whether it clears the threshold.
func (g *MemoryGuard) Check() (availableMB uint64, ok bool, err error) {
	if g.minFreeBytes == 0 {
		return 0, true, nil
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, false, fmt.Errorf("failed to read memory stats: %w", err)
	}

	return vm.Available / (1024 * 1024), vm.Available >= g.minFreeBytes, nil
}
