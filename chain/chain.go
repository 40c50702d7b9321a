// Package chain implements attachable multi-level pointer chains: a fixed
// offset from a module's base address followed by a series of indirections.
package chain

import (
	"errors"
	"fmt"

	"memstate/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

var (
	ErrNotAttached     = errors.New("chain not attached")
	ErrAlreadyAttached = errors.New("chain already attached")

	// ErrRead is returned when the final value read fails
	ErrRead = errors.New("read failed")
)

var log = logger.NewLogger(coloransi.Color(coloransi.Blue, coloransi.ColorOrange, "chain"))

// Chain walks module base + BaseOffset through Levels. It starts unattached;
// Attach captures the accessor and module base once and can not be undone.
type Chain struct {
	name       string
	baseOffset int64
	levels     []int64

	mem      process.Memory
	width    process.BitWidth
	base     process.ProcessMemoryAddress
	attached bool

	location process.ProcessMemoryAddress
	null     bool
}

// New returns an unattached chain. name is only used in diagnostics.
func New(name string, baseOffset int64, levels []int64) *Chain {
	return &Chain{
		name:       name,
		baseOffset: baseOffset,
		levels:     append([]int64(nil), levels...),
		null:       true,
	}
}

func (c *Chain) Name() string      { return c.name }
func (c *Chain) Levels() []int64   { return append([]int64(nil), c.levels...) }
func (c *Chain) BaseOffset() int64 { return c.baseOffset }
func (c *Chain) Attached() bool    { return c.attached }

// Attach binds the chain to an accessor. The base address
// moduleBase+BaseOffset is fixed from here on, even if the module moves.
func (c *Chain) Attach(mem process.Memory, moduleBase process.ProcessMemoryAddress, width process.BitWidth) error {
	if c.attached {
		return fmt.Errorf("%s: %w", c.name, ErrAlreadyAttached)
	}
	if mem == nil {
		return fmt.Errorf("%s: nil memory accessor", c.name)
	}

	c.mem = mem
	c.width = width
	c.base = moduleBase.Offset(c.baseOffset)
	c.attached = true

	// with no indirections the location is known without reading anything
	c.location = c.base
	c.null = len(c.levels) > 0

	return nil
}

// BaseAddress is the absolute start of the chain, valid once attached
func (c *Chain) BaseAddress() process.ProcessMemoryAddress {
	return c.base
}

// Update re-walks the indirections. A failed or null intermediate read puts
// the chain in the null condition until the next Update; it is not an error.
// The only error besides ErrNotAttached is the accessor reporting that the
// process exited.
func (c *Chain) Update() error {
	if !c.attached {
		return fmt.Errorf("%s: %w", c.name, ErrNotAttached)
	}
	if len(c.levels) == 0 {
		return nil
	}

	location, err := process.WalkPath(c.mem, c.base, c.width, c.levels, c.trace)
	if err != nil {
		if errors.Is(err, process.ErrProcessExited) {
			c.null = true
			return fmt.Errorf("%s: %w", c.name, err)
		}
		log.Debugln(c.name, "is null:", err)
		c.null = true
		return nil
	}

	c.location = location
	c.null = false
	return nil
}

func (c *Chain) trace(step int, at, got process.ProcessMemoryAddress) {
	log.Debugln(fmt.Sprintf("[%s] step %d: *(%s) => %s", c.name, step, at.ToString(), got.ToString()))
}

// IsNull reports whether the last Update left the chain unresolved
func (c *Chain) IsNull() bool {
	return c.null
}

// Location is the resolved address, meaningful when IsNull is false
func (c *Chain) Location() process.ProcessMemoryAddress {
	return c.location
}

// DerefBytes reads width bytes at the resolved location + finalOffset.
// It returns nil, nil while the chain is null.
func (c *Chain) DerefBytes(finalOffset int64, width int) ([]byte, error) {
	if !c.attached {
		return nil, fmt.Errorf("%s: %w", c.name, ErrNotAttached)
	}
	if c.null {
		return nil, nil
	}

	addr := c.location.Offset(finalOffset)
	data, err := c.mem.ReadMemory(addr, process.ProcessMemorySize(width))
	if err != nil {
		return nil, fmt.Errorf("%s: %w at %s: %w", c.name, ErrRead, addr.ToString(), err)
	}
	return data, nil
}
