//go:build windows

package process_windows

import (
	"fmt"
	"strings"
	"unsafe"

	"memstate/process"

	"golang.org/x/sys/windows"
)

// EnumProcessModulesEx filter flags
const (
	LIST_MODULES_32BIT = 0x01
	LIST_MODULES_64BIT = 0x02
)

// ModuleBaseAddress enumerates modules of the requested bitness and returns
// the base of the one whose file name matches module. An empty module name
// selects the first module, which is the main executable.
func (p *WindowsProcess) ModuleBaseAddress(module string, width process.BitWidth) (process.ProcessMemoryAddress, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle == 0 {
		return 0, process.ErrProcessNotOpen
	}

	filter := uint32(LIST_MODULES_64BIT)
	if width == process.Bits32 {
		filter = LIST_MODULES_32BIT
	}

	modules := make([]windows.Handle, 1024)
	var needed uint32
	err := windows.EnumProcessModulesEx(
		p.handle,
		&modules[0],
		uint32(len(modules))*uint32(unsafe.Sizeof(modules[0])),
		&needed,
		filter,
	)
	if err != nil {
		if p.exitedInternal() {
			return 0, process.ErrProcessExited
		}
		return 0, fmt.Errorf("EnumProcessModulesEx failed: %w", err)
	}

	count := int(needed / uint32(unsafe.Sizeof(modules[0])))
	if count > len(modules) {
		count = len(modules)
	}

	for i := 0; i < count; i++ {
		var name [windows.MAX_PATH]uint16
		if err := windows.GetModuleBaseName(p.handle, modules[i], &name[0], uint32(len(name))); err != nil {
			continue
		}
		if module != "" && !strings.EqualFold(windows.UTF16ToString(name[:]), module) {
			continue
		}

		var info windows.ModuleInfo
		if err := windows.GetModuleInformation(p.handle, modules[i], &info, uint32(unsafe.Sizeof(info))); err != nil {
			return 0, fmt.Errorf("GetModuleInformation failed: %w", err)
		}

		p.log.Debugln("Module", module, "loaded at", fmt.Sprintf("0x%X", info.BaseOfDll), width.String())
		return process.ProcessMemoryAddress(info.BaseOfDll), nil
	}

	return 0, fmt.Errorf("%w: %s in process %d", process.ErrModuleNotFound, module, p.pid)
}
