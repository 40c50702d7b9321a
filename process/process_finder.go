package process

// ProcessFinder locates running processes by executable name
type ProcessFinder interface {
	// FindProcessByName finds processes by their executable name
	FindProcessByName(name string) ([]ProcessInfo, error)

	// FindProcess returns the single process selected for name
	FindProcess(name string) (ProcessInfo, error)
}
