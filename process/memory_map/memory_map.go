package memory_map

import (
	"fmt"
	"sort"
	"strings"
)

// MemoryMapItem represents a memory region in a process's address space
type MemoryMapItem struct {
	Address uint64 // The starting address of the memory region
	Size    uint   // The size of the memory region in bytes
	Perms   string // Permissions (e.g., "r-xp" for read, execute, private)
	Path    string `json:",omitempty"` // Backing file or module, if any
}

// String returns a string representation of the memory map item
func (mmItem MemoryMapItem) String() string {
	return fmt.Sprintf("Address: %x, Size: %d, Perms: %s, Path: %s", mmItem.Address, mmItem.Size, mmItem.Perms, mmItem.Path)
}

func (mmItem MemoryMapItem) IsReadable() bool {
	return len(mmItem.Perms) > 0 && mmItem.Perms[0] == 'r'
}

func (mmItem MemoryMapItem) IsWritable() bool {
	return len(mmItem.Perms) > 1 && mmItem.Perms[1] == 'w'
}

// MemoryMap defines the interface for operations related to a process's memory map
type MemoryMap interface {
	// ReadMemoryMap reads and parses the memory map for a process
	ReadMemoryMap(pid int) ([]MemoryMapItem, error)

	// IsReadablePerms checks if a memory region has read permissions
	IsReadablePerms(perms string) bool
}

// Sort orders the map by address, required by FindRegion
func Sort(mm []MemoryMapItem) {
	sort.Slice(mm, func(i, j int) bool {
		return mm[i].Address < mm[j].Address
	})
}

// FindRegion returns the region containing addr. memoryMap must be sorted.
func FindRegion(addr uint64, memoryMap []MemoryMapItem) *MemoryMapItem {
	i := sort.Search(len(memoryMap), func(i int) bool {
		return memoryMap[i].Address+uint64(memoryMap[i].Size) > addr
	})
	if i < len(memoryMap) && memoryMap[i].Address <= addr {
		return &memoryMap[i]
	}

	return nil
}

// ContainsRange reports whether [addr, addr+size) lies inside one readable region.
func ContainsRange(addr uint64, size uint, memoryMap []MemoryMapItem) bool {
	item := FindRegion(addr, memoryMap)
	if item == nil || !item.IsReadable() {
		return false
	}
	return addr+uint64(size) <= item.Address+uint64(item.Size)
}

// ModuleBase returns the lowest mapped address whose backing file is the named module.
// The comparison is on the file's base name and ignores case.
func ModuleBase(module string, memoryMap []MemoryMapItem) (uint64, bool) {
	var (
		base  uint64
		found bool
	)
	for _, item := range memoryMap {
		if item.Path == "" || !strings.EqualFold(baseName(item.Path), module) {
			continue
		}
		if !found || item.Address < base {
			base = item.Address
			found = true
		}
	}
	return base, found
}

// baseName strips both slash styles so dumps taken on either OS compare the same
func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
