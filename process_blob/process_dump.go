package process_blob

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"memstate/process"
	"memstate/process/memory_map"
)

const (
	metadataFile  = "metadata.json"
	memoryMapFile = "process_memory_map.json"
)

// ProcessDump implements process.Process over a sparse set of memory regions,
// either loaded from a saved dump or assembled in memory.
type ProcessDump struct {
	PID       process.ProcessID
	Name      string
	MemoryMap []memory_map.MemoryMapItem
	Blobs     map[uint64][]byte                       // Address -> Data
	Modules   map[string]process.ProcessMemoryAddress // lower-case module name -> base

	mu     sync.Mutex
	closed bool
}

var _ process.Process = (*ProcessDump)(nil)

type dumpMetadata struct {
	PID     process.ProcessID                       `json:"pid"`
	Name    string                                  `json:"name"`
	Modules map[string]process.ProcessMemoryAddress `json:"modules,omitempty"`
}

// NewProcessDump creates a new ProcessDump instance
func NewProcessDump() *ProcessDump {
	return &ProcessDump{
		Blobs:   make(map[uint64][]byte),
		Modules: make(map[string]process.ProcessMemoryAddress),
	}
}

// AddRegion maps data at addr as a readable region. Regions must not overlap.
func (p *ProcessDump) AddRegion(addr process.ProcessMemoryAddress, data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.MemoryMap = append(p.MemoryMap, memory_map.MemoryMapItem{
		Address: uint64(addr),
		Size:    uint(len(data)),
		Perms:   "r--p",
	})
	memory_map.Sort(p.MemoryMap)
	p.Blobs[uint64(addr)] = data
}

// SetModule records the base address reported for module
func (p *ProcessDump) SetModule(module string, base process.ProcessMemoryAddress) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Modules[strings.ToLower(module)] = base
}

func (p *ProcessDump) Open(pid process.ProcessID) error {
	return fmt.Errorf("Open not supported for ProcessDump, use Load")
}

// Close drops the image; reads after Close behave like reads from an exited process
func (p *ProcessDump) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Blobs = nil
	p.MemoryMap = nil
	p.closed = true
	return nil
}

func (p *ProcessDump) GetPID() process.ProcessID {
	return p.PID
}

func (p *ProcessDump) UpdateMemoryMap() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return process.ErrProcessExited
	}
	return nil // Memory map is static in a dump
}

func (p *ProcessDump) IsValidAddress(addr process.ProcessMemoryAddress) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	item := memory_map.FindRegion(uint64(addr), p.MemoryMap)
	return item != nil && item.IsReadable()
}

func (p *ProcessDump) GetMemoryMap() ([]memory_map.MemoryMapItem, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	result := make([]memory_map.MemoryMapItem, len(p.MemoryMap))
	copy(result, p.MemoryMap)
	return result, nil
}

func (p *ProcessDump) ModuleBaseAddress(module string, width process.BitWidth) (process.ProcessMemoryAddress, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, process.ErrProcessExited
	}
	if base, ok := p.Modules[strings.ToLower(module)]; ok {
		return base, nil
	}
	if base, ok := memory_map.ModuleBase(module, p.MemoryMap); ok {
		return process.ProcessMemoryAddress(base), nil
	}
	return 0, fmt.Errorf("%w: %s", process.ErrModuleNotFound, module)
}

func (p *ProcessDump) ReadMemory(addr process.ProcessMemoryAddress, size process.ProcessMemorySize) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, process.ErrProcessExited
	}

	// Find the region containing the address
	region := memory_map.FindRegion(uint64(addr), p.MemoryMap)
	if region == nil {
		return nil, process.ErrAddressNotMapped
	}

	// Check if we have data for this region
	data, ok := p.Blobs[region.Address]
	if !ok {
		return nil, fmt.Errorf("no data for region 0x%x: %w", region.Address, process.ErrAddressNotMapped)
	}

	offset := uint64(addr) - region.Address
	if offset+uint64(size) > uint64(len(data)) {
		return nil, fmt.Errorf("read of %d bytes at %s exceeds region data bounds: %w", size, addr.ToString(), process.ErrAddressNotMapped)
	}

	result := make([]byte, size)
	copy(result, data[offset:offset+uint64(size)])
	return result, nil
}

func blobFileName(region memory_map.MemoryMapItem) string {
	return fmt.Sprintf("blob_0x%x_%d.bin", region.Address, region.Size)
}

// Save writes the dump in the directory layout understood by Load
func (p *ProcessDump) Save(dirname string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := os.MkdirAll(dirname, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	metadataJSON, err := json.MarshalIndent(dumpMetadata{PID: p.PID, Name: p.Name, Modules: p.Modules}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dirname, metadataFile), metadataJSON, 0644); err != nil {
		return fmt.Errorf("failed to write metadata file: %w", err)
	}

	memoryMapJSON, err := json.MarshalIndent(p.MemoryMap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal memory map: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dirname, memoryMapFile), memoryMapJSON, 0644); err != nil {
		return fmt.Errorf("failed to write memory map file: %w", err)
	}

	for _, region := range p.MemoryMap {
		data, ok := p.Blobs[region.Address]
		if !ok {
			continue
		}
		if err := os.WriteFile(filepath.Join(dirname, blobFileName(region)), data, 0644); err != nil {
			return fmt.Errorf("failed to write region 0x%x: %w", region.Address, err)
		}
	}

	return nil
}

func (p *ProcessDump) Load(dirname string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	metadataBytes, err := os.ReadFile(filepath.Join(dirname, metadataFile))
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}

	var metadata dumpMetadata
	if err := json.Unmarshal(metadataBytes, &metadata); err != nil {
		return fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	p.PID = metadata.PID
	p.Name = metadata.Name
	if p.Modules == nil {
		p.Modules = make(map[string]process.ProcessMemoryAddress)
	}
	for name, base := range metadata.Modules {
		p.Modules[strings.ToLower(name)] = base
	}

	mmBytes, err := os.ReadFile(filepath.Join(dirname, memoryMapFile))
	if err != nil {
		return fmt.Errorf("failed to read memory map: %w", err)
	}
	if err := json.Unmarshal(mmBytes, &p.MemoryMap); err != nil {
		return fmt.Errorf("failed to unmarshal memory map: %w", err)
	}
	memory_map.Sort(p.MemoryMap)

	if p.Blobs == nil {
		p.Blobs = make(map[uint64][]byte)
	}
	for _, region := range p.MemoryMap {
		filename := filepath.Join(dirname, blobFileName(region))
		if _, err := os.Stat(filename); os.IsNotExist(err) {
			continue // Blob not saved (e.g. too large or not readable)
		}

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read blob %s: %w", filename, err)
		}

		p.Blobs[region.Address] = data
	}

	p.closed = false
	return nil
}
