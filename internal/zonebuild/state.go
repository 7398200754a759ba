package zonebuild

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/i1is/trustplane/pkg/models"
)

// defenseStateFile mirrors the on-disk defense state file's field names
// exactly (snake_case, per spec §6) — a distinct shape from the camelCase
// convention the rest of the system's JSON API uses, since this is an
// external file contract rather than our own API design.
type defenseStateFile struct {
	BlockedIPs               []string `json:"blocked_ips"`
	BlockedCountries         []string `json:"blocked_countries"`
	BlockedCountriesOutbound []string `json:"blocked_countries_outbound"`
	BlockedASNs              []string `json:"blocked_asns"`
	WhitelistedIPs           []string `json:"whitelisted_ips"`
}

// LoadDefenseState reads the defense state file: JSON with optional arrays
// blocked_countries, blocked_countries_outbound, blocked_ips, blocked_asns,
// whitelisted_ips. Unknown fields are ignored and missing fields default to
// empty (spec §6) — encoding/json already gives us both behaviors for free,
// so no bespoke parser is needed here.
func LoadDefenseState(path string) (models.DefenseSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.DefenseSnapshot{}, fmt.Errorf("zonebuild: read defense state %s: %w", path, err)
	}
	var file defenseStateFile
	if err := json.Unmarshal(data, &file); err != nil {
		return models.DefenseSnapshot{}, fmt.Errorf("zonebuild: parse defense state %s: %w", path, err)
	}
	return models.DefenseSnapshot{
		BlockedIPs:               file.BlockedIPs,
		BlockedCountries:         file.BlockedCountries,
		BlockedCountriesOutbound: file.BlockedCountriesOutbound,
		BlockedASNs:              file.BlockedASNs,
		WhitelistedIPs:           file.WhitelistedIPs,
	}, nil
}
