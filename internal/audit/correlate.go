package audit

import "github.com/i1is/trustplane/pkg/models"

// Correlate matches each process with an exe path to the binary found at
// the same path, marking it running and recording the process name. It is
// a single pass after discovery completes (spec §5).
func Correlate(binaries []models.BinaryInfo, processes []models.ProcessInfo) {
	byPath := make(map[string]*models.BinaryInfo, len(binaries))
	for i := range binaries {
		byPath[binaries[i].Path] = &binaries[i]
	}

	for _, p := range processes {
		if p.Exe == "" {
			continue
		}
		bin, ok := byPath[p.Exe]
		if !ok {
			continue
		}
		bin.Running = true
		if !bin.HasProcessName(p.Name) {
			bin.ProcessNames = append(bin.ProcessNames, p.Name)
		}
	}
}
