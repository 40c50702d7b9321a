//go:build windows

package memory_map

// Page protection constants from winnt.h
const (
	pageNoAccess         = 0x01
	pageReadOnly         = 0x02
	pageReadWrite        = 0x04
	pageWriteCopy        = 0x08
	pageExecute          = 0x10
	pageExecuteRead      = 0x20
	pageExecuteReadWrite = 0x40
	pageExecuteWriteCopy = 0x80
	pageGuard            = 0x100
)

// PermsFromProtect converts a VirtualQueryEx protection value to "rwxp" form
func PermsFromProtect(protect uint32) string {
	if protect&pageGuard != 0 || protect&pageNoAccess != 0 {
		return "---p"
	}

	r, w, x := byte('-'), byte('-'), byte('-')
	switch protect & 0xFF {
	case pageReadOnly:
		r = 'r'
	case pageReadWrite, pageWriteCopy:
		r, w = 'r', 'w'
	case pageExecute:
		x = 'x'
	case pageExecuteRead:
		r, x = 'r', 'x'
	case pageExecuteReadWrite, pageExecuteWriteCopy:
		r, w, x = 'r', 'w', 'x'
	}

	return string([]byte{r, w, x, 'p'})
}
