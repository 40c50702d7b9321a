package process_blob

import (
	"errors"
	"fmt"

	"memstate/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

// maxCaptureRegion skips regions larger than this
const maxCaptureRegion = 100 * 1024 * 1024

// Capture copies every readable region of proc into a ProcessDump and records the
// base of module so the dump can stand in for the live process later.
func Capture(proc process.Process, module string, width process.BitWidth) (*ProcessDump, error) {
	log := logger.NewLogger(coloransi.Color(coloransi.Cyan, coloransi.ColorOrange, "capture"))

	if err := proc.UpdateMemoryMap(); err != nil {
		return nil, fmt.Errorf("failed to update memory map: %w", err)
	}

	mm, err := proc.GetMemoryMap()
	if err != nil {
		return nil, fmt.Errorf("failed to get memory map: %w", err)
	}

	dump := NewProcessDump()
	dump.PID = proc.GetPID()
	dump.Name = module

	if module != "" {
		base, err := proc.ModuleBaseAddress(module, width)
		if err != nil {
			return nil, err
		}
		dump.SetModule(module, base)
	}

	saved, skipped, failed := 0, 0, 0
	for _, region := range mm {
		if !region.IsReadable() || region.Size > maxCaptureRegion {
			skipped++
			continue
		}

		data, err := proc.ReadMemory(process.ProcessMemoryAddress(region.Address), process.ProcessMemorySize(region.Size))
		if errors.Is(err, process.ErrProcessExited) {
			return nil, err
		}
		if err != nil {
			log.Debugln("Failed to read memory region at", fmt.Sprintf("%x", region.Address), err)
			failed++
			continue
		}

		dump.MemoryMap = append(dump.MemoryMap, region)
		dump.Blobs[region.Address] = data
		saved++
	}

	log.Infoln("Captured", saved, "regions,", skipped, "skipped,", failed, "failed")

	return dump, nil
}
